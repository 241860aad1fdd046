package backtest

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/phuslu/log"

	"github.com/ducminhle1904/market-timing/internal/logger"
	"github.com/ducminhle1904/market-timing/pkg/types"
)

// Job is one independent replay. Build is called on the worker so that every
// run owns its engine and reporting tree.
type Job struct {
	ID    string
	Build func() (*Engine, error)
	Data  []types.InstantQuotes

	seq int
}

// JobResult is the outcome of a Job
type JobResult struct {
	ID       string
	Engine   *Engine
	Result   *Result
	Duration time.Duration
	Error    error

	seq int
}

// WorkerPool runs independent replays in parallel. A single replay is
// always sequential.
type WorkerPool struct {
	workerCount int
	jobQueue    chan Job
	resultQueue chan JobResult
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
}

func NewWorkerPool(ctx context.Context, workerCount int, jobBufferSize int) *WorkerPool {
	if workerCount <= 0 {
		workerCount = runtime.NumCPU()
	}

	ctx, cancel := context.WithCancel(ctx)

	return &WorkerPool{
		workerCount: workerCount,
		jobQueue:    make(chan Job, jobBufferSize),
		resultQueue: make(chan JobResult, jobBufferSize),
		ctx:         ctx,
		cancel:      cancel,
	}
}

func (wp *WorkerPool) Start() {
	for i := 0; i < wp.workerCount; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

// Stop closes the queue and waits for the workers to drain it
func (wp *WorkerPool) Stop() {
	close(wp.jobQueue)
	wp.wg.Wait()
	close(wp.resultQueue)
	wp.cancel()
}

// SubmitJob queues job. It fails once the pool's context is done.
func (wp *WorkerPool) SubmitJob(job Job) error {
	if err := wp.ctx.Err(); err != nil {
		return err
	}
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return wp.ctx.Err()
	}
}

func (wp *WorkerPool) GetResults() <-chan JobResult {
	return wp.resultQueue
}

// worker drains the queue until it is closed and answers every job, even
// after cancellation; the result buffer holds one slot per queued job.
func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		wp.resultQueue <- wp.processJob(job)
	}
}

func (wp *WorkerPool) processJob(job Job) JobResult {
	startTime := time.Now()
	result := JobResult{ID: job.ID, seq: job.seq}

	if err := wp.ctx.Err(); err != nil {
		result.Error = err
		return result
	}

	engine, err := job.Build()
	if err != nil {
		result.Error = err
		result.Duration = time.Since(startTime)
		return result
	}

	result.Engine = engine
	result.Result, result.Error = engine.Run(wp.ctx, job.Data)
	result.Duration = time.Since(startTime)
	return result
}

// RunBatch runs jobs on workerCount workers and returns the results in job
// order. Jobs not started before ctx is done report ctx.Err().
func RunBatch(ctx context.Context, workerCount int, jobs []Job, l *log.Logger) []JobResult {
	if l == nil {
		l = logger.Nop()
	}
	pool := NewWorkerPool(ctx, workerCount, len(jobs))
	pool.Start()

	submitted := 0
	for i, job := range jobs {
		job.seq = i
		if err := pool.SubmitJob(job); err != nil {
			break
		}
		submitted++
	}

	tracker := NewProgressTracker(submitted)
	results := make([]JobResult, len(jobs))
	for i := 0; i < submitted; i++ {
		r := <-pool.GetResults()
		results[r.seq] = r
		tracker.Increment()

		done, total, pct, _ := tracker.GetProgress()
		l.Debug().
			Str("job", r.ID).
			Int("done", done).
			Int("total", total).
			Float64("progress", pct).
			Dur("eta", tracker.EstimateTimeRemaining()).
			Msg("replay job finished")
	}
	pool.Stop()

	for i := submitted; i < len(jobs); i++ {
		results[i] = JobResult{ID: jobs[i].ID, seq: i, Error: ctx.Err()}
	}
	return results
}

// ProgressTracker tracks the progress of a batch
type ProgressTracker struct {
	total     int
	completed int
	startTime time.Time
	mutex     sync.RWMutex
}

func NewProgressTracker(total int) *ProgressTracker {
	return &ProgressTracker{
		total:     total,
		startTime: time.Now(),
	}
}

func (pt *ProgressTracker) Increment() {
	pt.mutex.Lock()
	defer pt.mutex.Unlock()
	pt.completed++
}

// GetProgress returns completed, total, percentage and elapsed time
func (pt *ProgressTracker) GetProgress() (int, int, float64, time.Duration) {
	pt.mutex.RLock()
	defer pt.mutex.RUnlock()

	elapsed := time.Since(pt.startTime)
	progress := 0.0
	if pt.total > 0 {
		progress = float64(pt.completed) / float64(pt.total) * 100
	}

	return pt.completed, pt.total, progress, elapsed
}

// EstimateTimeRemaining extrapolates from the average time per job
func (pt *ProgressTracker) EstimateTimeRemaining() time.Duration {
	pt.mutex.RLock()
	defer pt.mutex.RUnlock()

	if pt.completed == 0 {
		return 0
	}

	elapsed := time.Since(pt.startTime)
	avgTimePerItem := elapsed / time.Duration(pt.completed)
	remaining := pt.total - pt.completed

	return avgTimePerItem * time.Duration(remaining)
}
