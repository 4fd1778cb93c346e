// Command s3ferry uploads a directory tree to an S3 bucket.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/s3ferry/s3ferry"
	"github.com/s3ferry/s3ferry/ferrytypes"
	"github.com/s3ferry/s3ferry/internal/config"
	"github.com/s3ferry/s3ferry/internal/logging"
	"github.com/s3ferry/s3ferry/internal/metrics"
)

var (
	configFile string
	dryRun     bool
	verbosity  int
)

// errReported marks failures whose message already went to stderr, so main
// only maps them to the exit code.
var errReported = errors.New("run failed")

var rootCmd = &cobra.Command{
	Use:   "s3ferry [flags] directory",
	Short: "Upload a directory tree to an S3 bucket concurrently",
	Long: `s3ferry uploads the contents of a local directory to an S3 bucket,
spreading the files over a fixed number of concurrent uploaders and
reporting every file that fails.

Example:

  s3ferry -p some/key -b mybucket -k KEY -s SECRET -c 8 my/dir/`,
	Version:       s3ferry.Version,
	Args:          cobra.ExactArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	config.BindFlags(rootCmd.Flags())
	rootCmd.Flags().StringVar(&configFile, "config", "", "YAML config file")
	rootCmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "print files matched and exit, do not upload")
	rootCmd.Flags().CountVarP(&verbosity, "verbose", "v", "increase verbosity (-vv means more verbose)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return errReported
	}

	log, err := logging.New(verbosity)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	client, err := buildClient(cfg, log)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return errReported
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "Stopping...")
		cancel()
	}()

	if dryRun {
		return runDry(ctx, client, cfg, args[0])
	}
	return runUpload(ctx, client, cfg, log, args[0])
}

// buildClient maps the resolved configuration onto client options.
func buildClient(cfg *config.Config, log *zap.Logger) (*s3ferry.Client, error) {
	opts := []ferrytypes.Option{
		s3ferry.WithLogger(log),
	}
	if cfg.Region != "" {
		opts = append(opts, s3ferry.WithRegion(cfg.Region))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, s3ferry.WithEndpoint(cfg.Endpoint))
	}
	if cfg.PathStyle {
		opts = append(opts, s3ferry.WithForcePathStyle(true))
	}
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		opts = append(opts, s3ferry.WithStaticCredentials(cfg.AccessKey, cfg.SecretKey))
	}
	return s3ferry.New(opts...)
}

// runDry lists what an upload would do, then checks bucket connectivity.
// Nothing is uploaded.
func runDry(ctx context.Context, client *s3ferry.Client, cfg *config.Config, dir string) error {
	if verbosity > 1 {
		if abs, err := filepath.Abs(dir); err == nil {
			fmt.Printf("Finding files in %s ...\n\n", abs)
		}
	}

	files, err := client.Enumerate(ctx, dir,
		s3ferry.WithInclude(cfg.Include...),
		s3ferry.WithExclude(cfg.Exclude...),
	)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return errReported
	}

	if verbosity > 1 {
		fmt.Println(strings.Join(files, "\n"))
		fmt.Println()
	}

	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "No files found.")
		return errReported
	}
	fmt.Printf("%d files found.\n", len(files))

	if err := client.VerifyBucket(ctx, cfg.Bucket); err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to S3 bucket %q.\n", cfg.Bucket)
		if verbosity > 0 {
			fmt.Fprintf(os.Stderr, "    %v\n", err)
		}
		return errReported
	}
	if verbosity > 0 {
		fmt.Printf("Connected to S3 bucket %q OK.\n", cfg.Bucket)
	}
	return nil
}

// runUpload performs the actual upload and reports failed files.
func runUpload(
	ctx context.Context,
	client *s3ferry.Client,
	cfg *config.Config,
	log *zap.Logger,
	dir string,
) error {
	opts := []ferrytypes.TreeOption{
		s3ferry.WithConcurrency(cfg.Concurrency),
		s3ferry.WithInclude(cfg.Include...),
		s3ferry.WithExclude(cfg.Exclude...),
		s3ferry.WithPrivateObjects(cfg.Private),
	}
	if verbosity > 0 {
		opts = append(opts, s3ferry.WithProgress(os.Stdout))
	}
	if cfg.MetricsAddr != "" {
		collector := metrics.New()
		opts = append(opts, s3ferry.WithCompletionSink(collector))
		go func() {
			if err := collector.Serve(ctx, cfg.MetricsAddr, log); err != nil {
				log.Warn("metrics endpoint failed", zap.Error(err))
			}
		}()
	}

	result, err := client.UploadTree(ctx, dir, cfg.Bucket, cfg.Prefix, opts...)
	if err != nil {
		if result != nil && result.HasFailures() {
			printFailures(result.Failed)
		}
		fmt.Fprintln(os.Stderr, err)
		return errReported
	}

	if result.HasFailures() {
		printFailures(result.Failed)
		return errReported
	}
	return nil
}

func printFailures(paths []string) {
	fmt.Fprintln(os.Stderr, "Error uploading files:")
	fmt.Fprintln(os.Stderr, strings.Join(paths, "\n"))
}
