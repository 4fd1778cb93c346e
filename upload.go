// Package s3ferry provides the public upload API for directory trees.
package s3ferry

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/s3ferry/s3ferry/errors"
	"github.com/s3ferry/s3ferry/ferrytypes"
	"github.com/s3ferry/s3ferry/internal/partition"
	"github.com/s3ferry/s3ferry/internal/scanner"
	"github.com/s3ferry/s3ferry/internal/store"
	"github.com/s3ferry/s3ferry/internal/worker"
	"github.com/s3ferry/s3ferry/progress"
)

// totalSetter is implemented by sinks that want the file count before the
// run starts, the progress reporter among them.
type totalSetter interface {
	SetTotal(total int)
}

// multiSink delivers every outcome to each registered sink in order.
type multiSink []ferrytypes.CompletionSink

// TaskDone implements ferrytypes.CompletionSink.
func (m multiSink) TaskDone(outcome ferrytypes.Outcome) {
	for _, s := range m {
		s.TaskDone(outcome)
	}
}

// UploadTree uploads every file under dir to the bucket, concurrently.
//
// The run proceeds in phases: the directory is validated, bucket
// reachability is verified with a single request, the tree is enumerated
// through the include/exclude filters, and the resulting file list is dealt
// round-robin to the configured number of workers. Each worker uploads its
// share sequentially over its own session; a file that fails is recorded
// and never stops the rest.
//
// Destination keys are composed by stripping the uploaded directory from
// each file's path (see WithStripPrefix) and joining the remainder to the
// key prefix. Objects are uploaded with the public-read policy unless
// WithPrivateObjects is set.
//
// Cancelling ctx stops the run cooperatively: no new file starts, uploads
// already in flight are recorded, and the partial result is returned
// together with a cancellation error.
//
// Returns:
//   - *ferrytypes.TreeResult: Counts, duration and the failed paths
//   - error: Only when the run could not start or was cancelled
//
// Errors:
//   - ErrInvalidConfig: Non-positive concurrency or a malformed pattern
//   - ErrInvalidBucketName: Bucket name fails S3 naming rules
//   - ErrDirectoryNotFound: dir does not exist or is not a directory
//   - ErrBucketUnreachable: The reachability check failed
//   - ErrCancelled: ctx was cancelled before the run finished
//
// Per-file upload failures are NOT errors: the run completes and reports
// them in TreeResult.Failed.
//
// Example:
//
//	result, err := client.UploadTree(ctx, "/var/www/static", "my-bucket", "assets",
//	    s3ferry.WithConcurrency(8),
//	    s3ferry.WithExclude(`\.tmp$`),
//	)
//	if err != nil {
//	    return err
//	}
//	if result.HasFailures() {
//	    log.Printf("%d of %d files failed", result.Errors, result.Total)
//	}
func (c *Client) UploadTree(
	ctx context.Context,
	dir, bucket, prefix string,
	opts ...ferrytypes.TreeOption,
) (*ferrytypes.TreeResult, error) {
	cfg := newTreeConfig(opts...)

	if dir == "" {
		return nil, errors.NewConfigError("directory cannot be empty")
	}
	if cfg.Concurrency < 1 {
		return nil, errors.NewConfigError("concurrency must be positive")
	}
	filters, err := scanner.NewFilterSet(cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, err
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.NewError("upload", err)
	}
	strip := cfg.StripPrefix
	if strip == "" {
		strip = absDir
	}

	// The directory must exist before anything is spent on connectivity
	// or enumeration.
	sc := scanner.New(c.filesystem())
	if err := sc.CheckRoot(absDir); err != nil {
		return nil, err
	}

	// One reachability probe up front. Failing here means the run never
	// started, which callers can tell apart from a run with failed files.
	b, err := c.openBucket(bucket)
	if err != nil {
		return nil, err
	}
	if err := b.Verify(ctx); err != nil {
		return nil, err
	}

	files, err := sc.Scan(ctx, absDir, filters)
	if err != nil {
		return nil, err
	}
	total := len(files)

	c.log.Debug("starting upload",
		zap.String("dir", absDir),
		zap.String("bucket", bucket),
		zap.String("prefix", prefix),
		zap.Int("files", total),
		zap.Int("concurrency", cfg.Concurrency))

	sink, reporter := c.assembleSink(cfg, total)

	groups := partition.Split(files, cfg.Concurrency)
	workers := make([]*worker.Worker, 0, len(groups))
	for _, group := range groups {
		if len(group) == 0 {
			continue
		}
		workers = append(workers, worker.New(worker.Config{
			Prefix: prefix,
			Strip:  strip,
			ACL:    cfg.ACL,
			Tasks:  group,
			Open:   func() (*store.Bucket, error) { return c.openBucket(bucket) },
			Sink:   sink,
			Logger: c.log,
		}))
	}

	start := time.Now()

	var wg sync.WaitGroup
	for _, w := range workers {
		wg.Add(1)
		go func(w *worker.Worker) {
			defer wg.Done()
			w.Run(ctx)
		}(w)
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-ctx.Done():
		// Drain every partition so nothing queued starts, then wait for
		// the in-flight uploads to be recorded.
		for _, w := range workers {
			w.Drain()
		}
		<-done
	case <-done:
	}
	// Workers racing the drain may have emptied their partitions on their
	// own; either way a cancelled context marks the run cancelled.
	cancelled := ctx.Err() != nil

	result := &ferrytypes.TreeResult{
		Total:    total,
		Duration: time.Since(start),
	}
	for _, w := range workers {
		result.Completed += w.Completed()
		result.Failed = append(result.Failed, w.Failed()...)
	}
	result.Errors = len(result.Failed)

	if reporter != nil {
		reporter.Finish()
	}

	c.log.Info("upload finished",
		zap.String("bucket", bucket),
		zap.Int("total", result.Total),
		zap.Int("completed", result.Completed),
		zap.Int("errors", result.Errors),
		zap.Duration("duration", result.Duration),
		zap.Bool("cancelled", cancelled))

	if cancelled {
		return result, errors.NewError("upload", errors.ErrCancelled).WithBucket(bucket)
	}
	return result, nil
}

// Enumerate returns the files an upload run with the same options would
// attempt, without touching the bucket. It powers dry runs and lets
// callers preview the effect of their include/exclude patterns.
//
// Errors:
//   - ErrInvalidConfig: A malformed include or exclude pattern
//   - ErrDirectoryNotFound: dir does not exist or is not a directory
func (c *Client) Enumerate(
	ctx context.Context,
	dir string,
	opts ...ferrytypes.TreeOption,
) ([]string, error) {
	cfg := newTreeConfig(opts...)

	if dir == "" {
		return nil, errors.NewConfigError("directory cannot be empty")
	}
	filters, err := scanner.NewFilterSet(cfg.Include, cfg.Exclude)
	if err != nil {
		return nil, err
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, errors.NewError("enumerate", err)
	}

	return scanner.New(c.filesystem()).Scan(ctx, absDir, filters)
}

// newTreeConfig applies the run options over the defaults.
func newTreeConfig(opts ...ferrytypes.TreeOption) *ferrytypes.TreeConfig {
	cfg := &ferrytypes.TreeConfig{
		Concurrency: 1,
		ACL:         ferrytypes.ACLPublicRead,
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// assembleSink combines the optional progress reporter and the optional
// caller sink into the single sink handed to every worker. Sinks that
// implement totalSetter are told the file count before the run starts.
func (c *Client) assembleSink(
	cfg *ferrytypes.TreeConfig,
	total int,
) (ferrytypes.CompletionSink, *progress.Reporter) {
	var sinks multiSink
	var reporter *progress.Reporter

	if cfg.ProgressWriter != nil {
		reporter = progress.NewReporter(cfg.ProgressWriter)
		reporter.SetTotal(total)
		sinks = append(sinks, reporter)
	}
	if cfg.Sink != nil {
		if st, ok := cfg.Sink.(totalSetter); ok {
			st.SetTotal(total)
		}
		sinks = append(sinks, cfg.Sink)
	}

	switch len(sinks) {
	case 0:
		return ferrytypes.NopSink{}, nil
	case 1:
		return sinks[0], reporter
	default:
		return sinks, reporter
	}
}
