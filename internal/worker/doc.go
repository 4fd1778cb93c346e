// Package worker runs the per-partition upload loop.
//
// Each worker owns one partition of files and processes it strictly in
// order, one file at a time, over its own store session. A failed file is
// recorded and never stops the remaining files. The partition is guarded so
// it can be drained externally: draining stops the worker before its next
// task without disturbing outcomes already recorded.
package worker
