package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	json "github.com/goccy/go-json"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sync/errgroup"

	"github.com/BaSui01/restruct"
	"github.com/BaSui01/restruct/config"
	"github.com/BaSui01/restruct/engine"
	"github.com/BaSui01/restruct/schema"
)

// Version information, injected at build time.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "run":
		if err := runReconstruct(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "restruct: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Printf("restruct %s (built %s, commit %s)\n", Version, BuildTime, GitCommit)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, `Usage: restruct <command> [flags]

Commands:
  run       Reconstruct records from a fragment stream on stdin
  version   Print version information
  help      Print this help

Run flags:
  -config   Path to YAML config file
  -schema   Path to schema descriptor file (overrides config)
  -target   Target channel name (overrides config)
  -throttle Emission throttle in characters (overrides config)`)
}

func runReconstruct(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	schemaPath := fs.String("schema", "", "Path to schema descriptor file")
	target := fs.String("target", "", "Target channel name")
	throttle := fs.Int("throttle", 0, "Emission throttle in characters")
	fs.Parse(args)

	loader := config.NewLoader()
	if *configPath != "" {
		loader = loader.WithConfigPath(*configPath)
	}
	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	if *schemaPath != "" {
		cfg.Engine.SchemaPath = *schemaPath
	}
	if *target != "" {
		cfg.Engine.TargetChannel = *target
	}
	if *throttle > 0 {
		cfg.Engine.ThrottleChars = *throttle
	}
	if cfg.Engine.SchemaPath == "" {
		return fmt.Errorf("no schema descriptor: set -schema or engine.schema_path")
	}

	logger, err := buildLogger(cfg.Log)
	if err != nil {
		return err
	}
	defer logger.Sync()

	desc, err := schema.Load(cfg.Engine.SchemaPath)
	if err != nil {
		return err
	}

	opts := []restruct.Option{
		restruct.WithThrottleChars(cfg.Engine.ThrottleChars),
		restruct.WithTargetChannel(cfg.Engine.TargetChannel),
		restruct.WithLogger(logger),
	}
	if cfg.Engine.PrimaryContentFields != nil {
		opts = append(opts, restruct.WithPrimaryContentFields(cfg.Engine.PrimaryContentFields...))
	}
	if cfg.Metrics.Enabled {
		opts = append(opts, restruct.WithPrometheus(cfg.Metrics.Namespace, nil, logger))
		startMetricsServer(cfg.Metrics.Port, logger)
	}

	eng, err := restruct.New(desc, opts...)
	if err != nil {
		return err
	}

	return pump(context.Background(), eng, os.Stdin, os.Stdout)
}

// fragmentLine is the NDJSON input shape. Lines that fail to parse as JSON
// objects are treated as bare text fragments.
type fragmentLine struct {
	Text       string `json:"text"`
	Channel    string `json:"channel,omitempty"`
	Subchannel string `json:"subchannel,omitempty"`
}

// pump runs the reader and the engine driver as a two-stage errgroup
// pipeline: stdin lines become fragments, emitted records become stdout
// lines.
func pump(ctx context.Context, eng *engine.Engine, in io.Reader, out io.Writer) error {
	fragments := make(chan engine.Fragment, 64)
	records := engine.Stream(ctx, eng, fragments)

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(fragments)
		scanner := bufio.NewScanner(in)
		scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			var fl fragmentLine
			frag := engine.Text{Content: line}
			if err := json.Unmarshal([]byte(line), &fl); err == nil && fl.Text != "" {
				frag = engine.Text{
					Content: fl.Text,
					FragmentMeta: engine.FragmentMeta{
						Channel:    fl.Channel,
						Subchannel: fl.Subchannel,
					},
				}
			}
			select {
			case fragments <- frag:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return scanner.Err()
	})

	g.Go(func() error {
		enc := json.NewEncoder(out)
		for rec := range records {
			if err := enc.Encode(rec); err != nil {
				return err
			}
		}
		return nil
	})

	return g.Wait()
}

func buildLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	zc := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	// Records go to stdout; logs stay on stderr.
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

// startMetricsServer exposes /metrics on its own port, fire and forget: the
// CLI exits when stdin is drained, taking the listener with it.
func startMetricsServer(port int, logger *zap.Logger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Warn("metrics server stopped", zap.Error(err))
		}
	}()
	logger.Info("metrics server listening", zap.Int("port", port))
}
