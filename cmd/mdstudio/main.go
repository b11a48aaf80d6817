package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/automaxprocs/maxprocs"

	"github.com/avasseur/mdstudio"
	"github.com/avasseur/mdstudio/internal/assets"
	"github.com/avasseur/mdstudio/internal/httpapi"
)

// Version is set at build time via ldflags.
var Version = "dev"

// shutdownGrace bounds how long in-flight requests may run after the stop
// signal.
const shutdownGrace = 10 * time.Second

func main() {
	flags, err := parseFlags(os.Args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if flags.version {
		fmt.Println("mdstudio " + Version)
		return
	}

	log := newLogger(flags.verbose)

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(func(format string, args ...interface{}) {
		log.Debug().Msgf(format, args...)
	}))

	if err := run(flags, log); err != nil {
		log.Error().Err(err).Msg("mdstudio failed")
		os.Exit(1)
	}
}

func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

func run(flags *studioFlags, log zerolog.Logger) error {
	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	stateDir := cfg.StateDir
	if stateDir == "" {
		stateDir, err = mdstudio.DefaultStateDir()
		if err != nil {
			return fmt.Errorf("resolving state directory: %w", err)
		}
	}
	store, err := mdstudio.NewFileStore(stateDir)
	if err != nil {
		return fmt.Errorf("opening state store: %w", err)
	}

	session := mdstudio.NewSession(store)

	var svcOpts []mdstudio.Option
	if d := cfg.exportTimeout(); d > 0 {
		svcOpts = append(svcOpts, mdstudio.WithTimeout(d))
	}
	poolSize := mdstudio.ResolvePoolSize(cfg.Workers)
	pool := mdstudio.NewServicePool(poolSize, svcOpts...)

	static, err := assets.Static()
	if err != nil {
		return fmt.Errorf("loading embedded UI: %w", err)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           httpapi.NewServer(session, pool, static, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.Addr).
			Str("state_dir", stateDir).
			Int("workers", poolSize).
			Msg("mdstudio listening")
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("server shutdown")
	}

	// Flush the session before tearing down the export pool so the last
	// edits always reach disk.
	var errs []error
	if err := session.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing session: %w", err))
	}
	if err := pool.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing export pool: %w", err))
	}
	return errors.Join(errs...)
}
