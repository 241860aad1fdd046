package reporting

import "time"

// TransformPreProcessor maps every value of one source to a new value under
// another source name within the same cycle. Nothing is forwarded in a cycle
// where the input source was not seen.
type TransformPreProcessor struct {
	input     string
	output    string
	transform func(float64) float64

	value float64
	seen  bool
}

// NewTransformPreProcessor creates a pass-through transform
func NewTransformPreProcessor(input, output string, transform func(float64) float64) *TransformPreProcessor {
	return &TransformPreProcessor{
		input:     input,
		output:    output,
		transform: transform,
	}
}

// Scale multiplies input by factor
func Scale(input, output string, factor float64) *TransformPreProcessor {
	return NewTransformPreProcessor(input, output, func(y float64) float64 { return y * factor })
}

// Offset adds delta to input
func Offset(input, output string, delta float64) *TransformPreProcessor {
	return NewTransformPreProcessor(input, output, func(y float64) float64 { return y + delta })
}

func (p *TransformPreProcessor) StartReportingCycle(time.Time) {
	p.seen = false
}

func (p *TransformPreProcessor) ReceiveData(data ReportedData) {
	if data.SourceName != p.input {
		return
	}
	p.value = p.transform(data.Y)
	p.seen = true
}

func (p *TransformPreProcessor) ReportTo(r Report) {
	if !p.seen {
		return
	}
	p.seen = false
	r.ReceiveData(ReportedData{SourceName: p.output, Y: p.value})
}
