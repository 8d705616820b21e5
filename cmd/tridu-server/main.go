package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/JPGarCar/tridu-server/internal/app"
	"github.com/JPGarCar/tridu-server/internal/config"
	"github.com/JPGarCar/tridu-server/internal/logger"
)

var (
	version = "dev"
)

// options holds command-line overrides; zero values leave the config untouched
type options struct {
	configPath string
	port       int
	db         string
	logLevel   string
	noKeyboard bool
	version    bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("tridu-server", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "YAML config file (default $TRIDU_CONFIG)")
	fs.IntVar(&opts.port, "port", 0, "HTTP server port (overrides SERVER_PORT)")
	fs.StringVar(&opts.db, "db", "", "SQLite path or postgres:// URL (overrides DATABASE_URL)")
	fs.StringVar(&opts.logLevel, "loglevel", "", "Log level: debug, info, warn, error (overrides LOG_LEVEL)")
	fs.BoolVar(&opts.noKeyboard, "nokeyboard", false, "Disable keyboard shortcuts")
	fs.BoolVar(&opts.version, "version", false, "Show version and exit")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), `Tridu Server - triathlon race-day backend

Usage:
  tridu-server [options]

Options:
`)
		fs.PrintDefaults()
		fmt.Fprintf(fs.Output(), `
Settings are read from defaults, the YAML file, .env and the environment,
in that order. Flags win over all of them.

Examples:
  tridu-server                                  # Run with tridu.db on port 8080
  tridu-server -port 9000 -db /data/race.db
  tridu-server -db postgres://tridu@localhost/tridu?sslmode=disable
`)
	}

	err := fs.Parse(args)
	return opts, err
}

// apply copies the flags that were set onto cfg
func (o options) apply(cfg *config.Config) {
	if o.port != 0 {
		cfg.ServerPort = o.port
	}
	if o.db != "" {
		cfg.DatabaseURL = o.db
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(2)
	}

	if opts.version {
		fmt.Printf("tridu-server %s\n", version)
		os.Exit(0)
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "tridu-server: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	opts.apply(cfg)
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog := logger.NewWithFormat(logger.ParseLevel(cfg.LogLevel), cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, appLog)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer a.Close()

	printBanner(os.Stdout, cfg.ServerPort)

	if !opts.noKeyboard {
		c := newConsole(os.Stdout, appLog, fmt.Sprintf("http://localhost:%d/swagger/index.html", cfg.ServerPort))
		restore := c.Start(ctx, stop)
		defer restore()
	}

	return a.Run(ctx, cfg.Addr())
}
