package reporting

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const (
	seriesSheet     = "Series"
	highlightsSheet = "Highlights"
	chartSheet      = "Chart"

	// maxChartSeries bounds the number of lines drawn on the chart
	maxChartSeries = 8
)

type excelStyles struct {
	header int
	number int
}

// WriteWorkbook writes the series, the highlights and a line chart of the
// series into an xlsx workbook
func WriteWorkbook(series *Series, highlights []HighlightResult, path string) error {
	if err := EnsureParentDir(path); err != nil {
		return err
	}

	fx := excelize.NewFile()
	defer fx.Close()

	if err := fx.SetSheetName(fx.GetSheetName(0), seriesSheet); err != nil {
		return err
	}
	if _, err := fx.NewSheet(highlightsSheet); err != nil {
		return err
	}

	styles, err := createExcelStyles(fx)
	if err != nil {
		return err
	}

	rows, err := writeSeriesSheet(fx, series, styles)
	if err != nil {
		return err
	}
	if err := writeHighlightsSheet(fx, highlights, styles); err != nil {
		return err
	}
	if rows > 0 && len(series.Sources()) > 0 {
		if err := addSeriesChart(fx, series.Sources(), rows); err != nil {
			return err
		}
	}

	return fx.SaveAs(path)
}

func createExcelStyles(fx *excelize.File) (excelStyles, error) {
	var styles excelStyles
	var err error

	styles.header, err = fx.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Color:  "FFFFFF",
			Family: "Calibri",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"2F4F4F"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return styles, err
	}

	decimals := "0.0000"
	styles.number, err = fx.NewStyle(&excelize.Style{
		CustomNumFmt: &decimals,
		Alignment: &excelize.Alignment{
			Horizontal: "right",
		},
	})
	return styles, err
}

func writeHeader(fx *excelize.File, sheet string, headers []string, style int) error {
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := fx.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}
	last, err := excelize.CoordinatesToCellName(len(headers), 1)
	if err != nil {
		return err
	}
	return fx.SetCellStyle(sheet, "A1", last, style)
}

// writeSeriesSheet returns the number of data rows written
func writeSeriesSheet(fx *excelize.File, series *Series, styles excelStyles) (int, error) {
	headers := append([]string{"Instant"}, series.Sources()...)
	if err := writeHeader(fx, seriesSheet, headers, styles.header); err != nil {
		return 0, err
	}
	fx.SetColWidth(seriesSheet, "A", "A", 12)

	instants, rows := series.Table()
	for i, instant := range instants {
		row := i + 2
		if err := fx.SetCellValue(seriesSheet, fmt.Sprintf("A%d", row), instant.Format(time.DateOnly)); err != nil {
			return 0, err
		}
		for j, v := range rows[i] {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+2, row)
			if err != nil {
				return 0, err
			}
			if err := fx.SetCellValue(seriesSheet, cell, *v); err != nil {
				return 0, err
			}
		}
	}
	if len(instants) > 0 && len(headers) > 1 {
		last, err := excelize.CoordinatesToCellName(len(headers), len(instants)+1)
		if err != nil {
			return 0, err
		}
		if err := fx.SetCellStyle(seriesSheet, "B2", last, styles.number); err != nil {
			return 0, err
		}
	}
	return len(instants), nil
}

func writeHighlightsSheet(fx *excelize.File, highlights []HighlightResult, styles excelStyles) error {
	headers := []string{"Highlight", "Source", "Kind", "Value", "At", "Samples"}
	if err := writeHeader(fx, highlightsSheet, headers, styles.header); err != nil {
		return err
	}
	fx.SetColWidth(highlightsSheet, "A", "B", 24)
	fx.SetColWidth(highlightsSheet, "D", "E", 14)

	for i, h := range highlights {
		row := i + 2
		values := []interface{}{h.Name, h.Source, string(h.Kind), nil, formatInstant(h), h.Samples}
		if h.Valid {
			values[3] = h.Value
		}
		for j, v := range values {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, row)
			if err != nil {
				return err
			}
			if err := fx.SetCellValue(highlightsSheet, cell, v); err != nil {
				return err
			}
		}
		if err := fx.SetCellStyle(highlightsSheet, fmt.Sprintf("D%d", row), fmt.Sprintf("D%d", row), styles.number); err != nil {
			return err
		}
	}
	return nil
}

func addSeriesChart(fx *excelize.File, sources []string, rows int) error {
	if _, err := fx.NewSheet(chartSheet); err != nil {
		return err
	}

	n := len(sources)
	if n > maxChartSeries {
		n = maxChartSeries
	}
	categories := fmt.Sprintf("%s!$A$2:$A$%d", seriesSheet, rows+1)
	chartSeries := make([]excelize.ChartSeries, 0, n)
	for i := 0; i < n; i++ {
		col, err := excelize.ColumnNumberToName(i + 2)
		if err != nil {
			return err
		}
		chartSeries = append(chartSeries, excelize.ChartSeries{
			Name:       fmt.Sprintf("%s!$%s$1", seriesSheet, col),
			Categories: categories,
			Values:     fmt.Sprintf("%s!$%s$2:$%s$%d", seriesSheet, col, col, rows+1),
		})
	}

	return fx.AddChart(chartSheet, "A1", &excelize.Chart{
		Type:   excelize.Line,
		Series: chartSeries,
		Title:  []excelize.RichTextRun{{Text: "Reported series"}},
		Legend: excelize.ChartLegend{Position: "bottom"},
		Dimension: excelize.ChartDimension{
			Width:  960,
			Height: 480,
		},
	})
}
