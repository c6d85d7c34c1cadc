// Command rjsserver serves a JSON-declared mock HTTP API or resolves one
// into a single monolithic config file (spec §6).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/rustyjsonserver/rjs/cache"
	"github.com/rustyjsonserver/rjs/pkg/logging"
	"github.com/rustyjsonserver/rjs/pkg/metrics"
	"github.com/rustyjsonserver/rjs/rjsconfig"
	"github.com/rustyjsonserver/rjs/router"
	"github.com/rustyjsonserver/rjs/store"
	"github.com/rustyjsonserver/rjs/watch"
)

// exit codes per spec §6.
const (
	exitOK          = 0
	exitRuntimeErr  = 1
	exitBadArgs     = 2
	exitBuildFailed = 3
)

// shutdownGrace bounds how long in-flight requests get to finish once a
// shutdown signal arrives.
const shutdownGrace = 5 * time.Second

// configBuildError marks a failure to resolve the route config, so runServe
// can map it to exitBuildFailed instead of the generic exitRuntimeErr (spec
// §6: "config build failure" is its own exit code, distinct from a runtime
// error during serving).
type configBuildError struct{ err error }

func (e *configBuildError) Error() string { return e.err.Error() }
func (e *configBuildError) Unwrap() error { return e.err }

func main() {
	os.Exit(run(context.Background(), os.Args[1:]))
}

// run contains the testable CLI logic: parse argv, dispatch to the
// requested subcommand, map errors to the documented exit codes.
func run(ctx context.Context, args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "expected a subcommand: serve | build")
		return exitBadArgs
	}

	switch args[0] {
	case "serve":
		return runServe(ctx, args[1:])
	case "build":
		return runBuild(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q: expected serve | build\n", args[0])
		return exitBadArgs
	}
}

func runServe(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	configPath := fs.String("config", "", "route config file")
	noWatch := fs.Bool("no-watch", false, "disable hot-reload")
	if err := fs.Parse(args); err != nil {
		return exitBadArgs
	}
	if *configPath == "" {
		fmt.Fprintln(os.Stderr, "serve: -config is required")
		return exitBadArgs
	}

	procCfg, err := loadProcessConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "serve: loading process config: %v\n", err)
		return exitRuntimeErr
	}

	logger := logging.Configure(procCfg.LogLevel, procCfg.LogPretty)

	if err := serve(ctx, *configPath, !*noWatch, procCfg, logger); err != nil {
		logger.Error().Err(err).Msg("server exited with error")
		var buildErr *configBuildError
		if errors.As(err, &buildErr) {
			return exitBuildFailed
		}
		return exitRuntimeErr
	}
	return exitOK
}

// serve resolves the route config, wires the dependency-injected services,
// and blocks serving HTTP until ctx is cancelled (SIGINT/SIGTERM).
func serve(parent context.Context, configPath string, hotReload bool, procCfg processConfig, logger zerolog.Logger) error {
	table, err := rjsconfig.Resolve(configPath)
	if err != nil {
		return &configBuildError{fmt.Errorf("resolving %s: %w", configPath, err)}
	}

	db, err := store.New(procCfg.DBDir)
	if err != nil {
		return fmt.Errorf("opening db dir %s: %w", procCfg.DBDir, err)
	}
	cacheSvc := cache.New()

	provider, err := metrics.Setup(procCfg.DDEnabled, procCfg.DDAddr, procCfg.DDNamespace)
	if err != nil {
		return fmt.Errorf("setting up metrics: %w", err)
	}
	recorder := metrics.NewRecorder(provider)

	dispatcher := router.New(table, cacheSvc, db, logger, recorder)

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if hotReload {
		w, err := watch.New(configPath, table.Files, dispatcher, logger)
		if err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
		go func() {
			if err := w.Run(ctx); err != nil {
				logger.Error().Err(err).Msg("watcher stopped")
			}
		}()
	}

	addr := fmt.Sprintf(":%d", dispatcher.Port())
	srv := &http.Server{Addr: addr, Handler: dispatcher}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info().Str("addr", addr).Msg("rjsserver listening")
	if err := serverStarter(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// serverStarter is swapped out in tests so `serve`'s wiring (resolve, DB,
// metrics, watcher) can be exercised without binding a real listener.
var serverStarter = func(srv *http.Server) error {
	return srv.ListenAndServe()
}

func runBuild(args []string) int {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	configPath := fs.String("config", "", "root route config file")
	outputPath := fs.String("output", "", "output file for the resolved monolithic config")
	if err := fs.Parse(args); err != nil {
		return exitBadArgs
	}
	if *configPath == "" || *outputPath == "" {
		fmt.Fprintln(os.Stderr, "build: -config and -output are both required")
		return exitBadArgs
	}

	out, err := rjsconfig.Build(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "build: %v\n", err)
		return exitBuildFailed
	}
	if err := os.WriteFile(*outputPath, []byte(out), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "build: writing %s: %v\n", *outputPath, err)
		return exitBuildFailed
	}
	return exitOK
}
