package worker

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/s3ferry/s3ferry/ferrytypes"
	"github.com/s3ferry/s3ferry/internal/store"
)

// OpenBucket obtains the store session for one worker. Every worker calls
// it exactly once at the start of its run, so sessions are never shared
// across goroutines.
type OpenBucket func() (*store.Bucket, error)

// Config carries everything a worker needs for its run.
type Config struct {
	// Prefix is the key prefix joined in front of every destination key
	Prefix string

	// Strip is the leading path removed from each file before the key is built
	Strip string

	// ACL is the access policy applied to every uploaded object
	ACL ferrytypes.ObjectACL

	// Tasks is the partition this worker owns
	Tasks []string

	// Open obtains the worker's own store session
	Open OpenBucket

	// Sink receives one outcome per attempted task; nil means no reporting
	Sink ferrytypes.CompletionSink

	// Logger receives per-file logging
	Logger *zap.Logger
}

// Worker uploads the files of one partition sequentially.
type Worker struct {
	prefix string
	strip  string
	acl    ferrytypes.ObjectACL
	open   OpenBucket
	sink   ferrytypes.CompletionSink
	log    *zap.Logger

	mu        sync.Mutex
	tasks     []string
	failed    []string
	completed int
}

// New creates a worker owning the given partition. The worker takes its own
// copy of the task list.
func New(cfg Config) *Worker {
	sink := cfg.Sink
	if sink == nil {
		sink = ferrytypes.NopSink{}
	}
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}

	tasks := make([]string, len(cfg.Tasks))
	copy(tasks, cfg.Tasks)

	return &Worker{
		prefix: strings.Trim(cfg.Prefix, "/"),
		strip:  cfg.Strip,
		acl:    cfg.ACL,
		open:   cfg.Open,
		sink:   sink,
		log:    log,
		tasks:  tasks,
	}
}

// Run processes the partition until it is empty or ctx is cancelled. The
// cancellation check happens before each task, never in the middle of one,
// and a failed file never stops the loop.
func (w *Worker) Run(ctx context.Context) {
	bucket, err := w.open()
	if err != nil {
		// No session means nothing in this partition can upload; record
		// every task as failed so the run's accounting stays complete.
		w.log.Error("could not open bucket session", zap.Error(err))
		w.failRemaining(err)
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		path, ok := w.peek()
		if !ok {
			return
		}

		key := w.key(path)
		start := time.Now()
		bytes, err := bucket.PutFile(ctx, key, path)
		if err == nil {
			err = bucket.SetACL(ctx, key, w.acl)
		}

		w.record(ferrytypes.Outcome{
			Path:     path,
			Key:      key,
			Bytes:    bytes,
			Duration: time.Since(start),
			Err:      err,
		})
		w.pop(path)
	}
}

// Remaining returns the number of tasks that have not been attempted yet.
func (w *Worker) Remaining() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.tasks)
}

// Drain empties the remaining partition so no further task starts. An
// upload already in flight still finishes and is recorded.
func (w *Worker) Drain() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.tasks = nil
}

// Failed returns the paths of the tasks that failed, in attempt order.
func (w *Worker) Failed() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	failed := make([]string, len(w.failed))
	copy(failed, w.failed)
	return failed
}

// Completed returns the number of attempted tasks, successes and failures alike.
func (w *Worker) Completed() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.completed
}

// key maps a local path to its destination object key. The strip prefix is
// removed only when the path actually starts with it; any remaining leading
// separators are dropped before joining with the key prefix.
func (w *Worker) key(path string) string {
	if w.strip != "" && strings.HasPrefix(path, w.strip) {
		path = path[len(w.strip):]
	}
	path = strings.TrimLeft(path, "/")

	if w.prefix == "" {
		return path
	}
	return w.prefix + "/" + path
}

// peek returns the task at the head of the partition without removing it.
func (w *Worker) peek() (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.tasks) == 0 {
		return "", false
	}
	return w.tasks[0], true
}

// pop removes the task from the partition. Removal happens only after the
// outcome was recorded; a drain that raced the upload leaves nothing to
// remove and that is fine.
func (w *Worker) pop(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.tasks) > 0 && w.tasks[0] == path {
		w.tasks = w.tasks[1:]
	}
}

// record accounts for one attempted task and notifies the sink.
func (w *Worker) record(outcome ferrytypes.Outcome) {
	w.mu.Lock()
	w.completed++
	if outcome.Failed() {
		w.failed = append(w.failed, outcome.Path)
	}
	w.mu.Unlock()

	if outcome.Failed() {
		w.log.Error("upload failed",
			zap.String("path", outcome.Path),
			zap.String("key", outcome.Key),
			zap.Error(outcome.Err))
	} else {
		w.log.Debug("uploaded",
			zap.String("path", outcome.Path),
			zap.String("key", outcome.Key),
			zap.Int64("bytes", outcome.Bytes))
	}

	w.sink.TaskDone(outcome)
}

// failRemaining drains the partition recording every task as failed.
func (w *Worker) failRemaining(cause error) {
	for {
		path, ok := w.peek()
		if !ok {
			return
		}
		w.record(ferrytypes.Outcome{Path: path, Key: w.key(path), Err: cause})
		w.pop(path)
	}
}
