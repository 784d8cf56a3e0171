package mockup

import (
	"context"
	"fmt"
	"image"
	"sync"
	"time"

	"go.uber.org/zap"
)

// renderJob represents one composition request to be processed by a worker
type renderJob struct {
	Screenshot image.Image
	Opts       Options
	Result     chan *renderResult
}

// renderResult contains the result of a render job
type renderResult struct {
	Mockup *Mockup
	Error  error
}

// WorkerPool manages a pool of render workers for concurrent processing
type WorkerPool struct {
	workers  int
	jobQueue chan *renderJob
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.Logger
	composer *Composer
	timeout  int // timeout in seconds
}

// NewWorkerPool creates a new worker pool with the specified number of workers
func NewWorkerPool(workers int, composer *Composer, timeout int, logger *zap.Logger) *WorkerPool {
	if workers <= 0 {
		workers = 4 // default to 4 workers
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &WorkerPool{
		workers:  workers,
		jobQueue: make(chan *renderJob, workers*2), // buffer for 2x workers
		ctx:      ctx,
		cancel:   cancel,
		logger:   logger,
		composer: composer,
		timeout:  timeout,
	}
}

// Start launches all worker goroutines
func (wp *WorkerPool) Start() {
	wp.logger.Info("Starting render worker pool",
		zap.Int("workers", wp.workers),
		zap.Int("queue_size", cap(wp.jobQueue)))

	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop gracefully shuts down the worker pool. The job queue is never
// closed: a Submit racing Stop gets a shutdown error instead of a send
// on a closed channel.
func (wp *WorkerPool) Stop() {
	wp.logger.Info("Stopping render worker pool")
	wp.cancel()
	wp.wg.Wait()
	wp.logger.Info("Render worker pool stopped")
}

// Submit submits a render job to the pool and waits for its result.
// A per-job timeout applies on top of the caller's context.
func (wp *WorkerPool) Submit(ctx context.Context, screenshot image.Image, opts Options) (*Mockup, error) {
	if wp.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(wp.timeout)*time.Second)
		defer cancel()
	}

	resultChan := make(chan *renderResult, 1)

	job := &renderJob{
		Screenshot: screenshot,
		Opts:       opts,
		Result:     resultChan,
	}

	select {
	case wp.jobQueue <- job:
		// Job submitted
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-wp.ctx.Done():
		return nil, fmt.Errorf("worker pool is shutting down")
	}

	// Wait for result
	select {
	case result := <-resultChan:
		return result.Mockup, result.Error
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-wp.ctx.Done():
		return nil, fmt.Errorf("worker pool is shutting down")
	}
}

// worker is the main loop for a single worker
func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	wp.logger.Debug("Render worker started", zap.Int("worker_id", id))

	for {
		select {
		case job := <-wp.jobQueue:
			wp.processJob(id, job)
		case <-wp.ctx.Done():
			wp.logger.Debug("Render worker stopping (context cancelled)", zap.Int("worker_id", id))
			return
		}
	}
}

// processJob handles a single render job
func (wp *WorkerPool) processJob(workerID int, job *renderJob) {
	m, err := wp.composer.CreateMockup(job.Screenshot, job.Opts)

	job.Result <- &renderResult{
		Mockup: m,
		Error:  err,
	}
	close(job.Result)

	if err != nil {
		wp.logger.Debug("Worker completed job with error",
			zap.Int("worker_id", workerID),
			zap.String("style", string(job.Opts.Style)),
			zap.Error(err))
	} else {
		wp.logger.Debug("Worker completed job successfully",
			zap.Int("worker_id", workerID),
			zap.String("style", string(job.Opts.Style)))
	}
}
