package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/wolfman30/zentix-relay/internal/leadflow"
	"github.com/wolfman30/zentix-relay/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	defaultURL := os.Getenv("ZENTIX_API_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}
	baseURL := flag.String("url", defaultURL, "relay base URL")
	timeout := flag.Duration("timeout", 60*time.Second, "per-request timeout")
	logLevel := flag.String("log-level", "warn", "log level for request failures")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := leadflow.NewHTTPClient(*baseURL, *timeout)
	logger := logging.NewWithWriter(os.Stderr, *logLevel)
	controller := leadflow.NewController(client, client, leadflow.WithLogger(logger))

	if err := run(ctx, controller, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run exits on EOF or as soon as ctx is cancelled, even while a read from in
// is still blocked.
func run(ctx context.Context, controller *leadflow.Controller, in io.Reader, out io.Writer) error {
	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- scanner.Err()
	}()

	fmt.Fprint(out, "Tú: ")
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case line, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				select {
				case err := <-readErr:
					return err
				default:
					return nil
				}
			}
			for _, msg := range controller.Handle(ctx, line) {
				fmt.Fprintf(out, "Zentix: %s\n", msg)
			}
			fmt.Fprint(out, "Tú: ")
		}
	}
}
