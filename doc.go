// Package s3ferry uploads directory trees to Amazon S3 concurrently.
// It wraps AWS SDK v2 behind a small API that enumerates a local tree,
// deals the files round-robin to a fixed number of workers, and tracks
// per-file success and failure without letting one bad file abort the run.
//
// Key features:
//   - Simple, zero-configuration usage with AWS credential chain
//   - Progressive enhancement through functional options
//   - Regex include/exclude filtering of the tree
//   - Fixed worker pool with an independent session per worker
//   - Per-file failure isolation and a complete failure report
//   - Cooperative cancellation through context
//
// Example usage:
//
//	client, err := s3ferry.New()
//	if err != nil {
//	    return err
//	}
//
//	// Upload a directory tree
//	result, err := client.UploadTree(ctx, "/local/dir", "my-bucket", "backups",
//	    s3ferry.WithConcurrency(4),
//	)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("%d/%d files uploaded\n", result.Completed-result.Errors, result.Total)
package s3ferry
