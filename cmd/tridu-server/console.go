package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/JPGarCar/tridu-server/internal/browser"
	"github.com/JPGarCar/tridu-server/internal/logger"
)

// ANSI escape codes
const (
	reset  = "\033[0m"
	yellow = "\033[33m"
	red    = "\033[31m"
	green  = "\033[32m"
	cyan   = "\033[36m"
	bold   = "\033[1m"
)

func printBanner(w io.Writer, port int) {
	fmt.Fprintf(w, "\n  %s%sTridu Server%s %s\n", bold, cyan, reset, version)
	fmt.Fprintf(w, "  API docs: http://localhost:%d/swagger/index.html\n\n", port)
}

// console maps single keystrokes to operator actions while the server runs.
// The terminal is in raw mode, so every line ends in \r\n.
type console struct {
	out     io.Writer
	log     logger.Logger
	docsURL string
	open    func(url string) error
}

func newConsole(out io.Writer, log logger.Logger, docsURL string) *console {
	return &console{out: out, log: log, docsURL: docsURL, open: browser.Open}
}

// Start puts stdin in raw mode and handles keys until ctx is done or the
// operator quits, which calls quit. The returned func restores the terminal.
// When stdin is not a terminal the console is disabled.
func (c *console) Start(ctx context.Context, quit func()) (restore func()) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return func() {}
	}
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		c.log.Debug("Keyboard shortcuts unavailable", "error", err)
		return func() {}
	}

	c.printHelp()
	go func() {
		buf := make([]byte, 1)
		for ctx.Err() == nil {
			n, err := os.Stdin.Read(buf)
			if err != nil {
				return
			}
			if n == 1 && c.handleKey(buf[0]) {
				quit()
				return
			}
		}
	}()

	return func() { term.Restore(fd, oldState) }
}

// handleKey runs the action bound to key and reports whether the operator asked to quit
func (c *console) handleKey(key byte) bool {
	switch strings.ToLower(string(key)) {
	case "d":
		c.printf("%sOpening API docs in browser...%s", cyan, reset)
		if err := c.open(c.docsURL); err != nil {
			c.printf("%sError opening browser: %v%s", red, err, reset)
		}
	case "h":
		if c.log.IsHTTPLoggingEnabled() {
			c.log.DisableHTTPLogging()
			c.printf("%sHTTP logging disabled%s", yellow, reset)
		} else {
			c.log.EnableHTTPLogging()
			c.printf("%sHTTP logging enabled%s", green, reset)
		}
	case "l":
		next := nextLogLevel(c.log.GetLevel().String())
		c.log.SetLevel(logger.ParseLevel(next))
		c.printf("%sLog level: %s%s%s", green, yellow, next, reset)
	case "q", "\x03": // Ctrl+C arrives as a byte in raw mode
		c.printf("%sShutting down server...%s", yellow, reset)
		return true
	case "?":
		c.printHelp()
	}
	return false
}

// nextLogLevel cycles debug -> info -> warn -> error -> debug
func nextLogLevel(current string) string {
	switch current {
	case "DEBUG":
		return "info"
	case "INFO":
		return "warn"
	case "WARN":
		return "error"
	case "ERROR":
		return "debug"
	default:
		return "info"
	}
}

func (c *console) printHelp() {
	c.printf("%s%s  Keyboard shortcuts:%s", bold, green, reset)
	c.printf("    %sd%s      - Open API docs in browser", cyan, reset)
	c.printf("    %sh%s      - Toggle HTTP request logging", cyan, reset)
	c.printf("    %sl%s      - Cycle log level (debug, info, warn, error)", cyan, reset)
	c.printf("    %sq%s      - Quit server", cyan, reset)
	c.printf("    %s?%s      - Show this help", cyan, reset)
}

func (c *console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format+"\r\n", args...)
}
