package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/goliatone/go-command/dispatcher"

	configurator "github.com/goliatone/go-site-configurator"
	"github.com/goliatone/go-site-configurator/commands"
	draftscmd "github.com/goliatone/go-site-configurator/internal/commands/drafts"
	sitescmd "github.com/goliatone/go-site-configurator/internal/commands/sites"
	"github.com/goliatone/go-site-configurator/internal/logging"
	"github.com/goliatone/go-site-configurator/pkg/interfaces"
)

const readHeaderTimeout = 10 * time.Second

type options struct {
	addr      string
	sweep     bool
	dryRun    bool
	publishID string
}

func main() {
	if err := run(context.Background(), os.Args[1:], os.LookupEnv); err != nil {
		log.Fatalf("configurator: %v", err)
	}
}

func parseFlags(args []string) (options, error) {
	fs := flag.NewFlagSet("configurator", flag.ContinueOnError)
	addr := fs.String("addr", "", "Listen address (defaults to :$PORT)")
	sweep := fs.Bool("sweep", false, "Remove expired drafts once and exit")
	dryRun := fs.Bool("dry-run", false, "With -sweep, list drafts without deleting them")
	publishID := fs.String("publish", "", "Publish the draft with this id as a static site and exit")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	return options{
		addr:      strings.TrimSpace(*addr),
		sweep:     *sweep,
		dryRun:    *dryRun,
		publishID: strings.TrimSpace(*publishID),
	}, nil
}

func run(ctx context.Context, args []string, lookup configurator.LookupFunc) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := configurator.ConfigFromEnv(lookup)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	oneShot := opts.sweep || opts.publishID != ""
	if oneShot {
		// one-shot runs dispatch commands and must not start the cleanup loop
		cfg.Commands.Enabled = true
	}

	module, err := configurator.Open(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open module: %w", err)
	}
	defer func() {
		if cerr := module.Close(); cerr != nil {
			log.Printf("configurator: close: %v", cerr)
		}
	}()
	if err := module.Start(ctx); err != nil {
		return fmt.Errorf("start module: %w", err)
	}

	logger := logging.ModuleLogger(module.Container().LoggerProvider(), "configurator.server")

	if oneShot {
		return runOnce(ctx, module, opts)
	}

	if cfg.Commands.Enabled {
		scheduler := commands.NewCronScheduler(logger)
		regOpts := commands.RegistrationOptions{CronRegistrar: scheduler.Registrar()}
		if cfg.Commands.AutoRegisterDispatcher {
			regOpts.Dispatcher = commands.NewDispatcher()
		}
		result, err := module.RegisterCommands(regOpts)
		if err != nil {
			return fmt.Errorf("register commands: %w", err)
		}
		defer result.Unsubscribe()
		scheduler.Start()
		defer scheduler.Stop()
		logger.Info("command scheduler started", "jobs", scheduler.Entries())
	}

	return serve(ctx, module, cfg, opts, logger)
}

func runOnce(ctx context.Context, module *configurator.Module, opts options) error {
	result, err := module.RegisterCommands(commands.RegistrationOptions{
		Dispatcher: commands.NewDispatcher(),
	})
	if err != nil {
		return fmt.Errorf("register commands: %w", err)
	}
	defer result.Unsubscribe()

	if opts.sweep {
		if err := dispatcher.Dispatch(ctx, draftscmd.CleanupExpiredDraftsCommand{DryRun: opts.dryRun}); err != nil {
			return fmt.Errorf("cleanup expired drafts: %w", err)
		}
		fmt.Fprintln(os.Stdout, "draft cleanup command executed successfully")
	}
	if opts.publishID != "" {
		if err := dispatcher.Dispatch(ctx, sitescmd.PublishSiteCommand{SiteID: opts.publishID}); err != nil {
			return fmt.Errorf("publish site: %w", err)
		}
		fmt.Fprintf(os.Stdout, "site %s published\n", opts.publishID)
	}
	return nil
}

func serve(ctx context.Context, module *configurator.Module, cfg configurator.Config, opts options, logger interfaces.Logger) error {
	handler, err := module.Handler()
	if err != nil {
		return fmt.Errorf("build router: %w", err)
	}

	addr := opts.addr
	if addr == "" {
		addr = net.JoinHostPort("", strconv.Itoa(cfg.Server.Port))
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", addr, "storage", string(module.Container().DraftManager().Backend()), "renderer", string(module.Adapter().Kind()))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
