package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/Adda-Baaj/reqbridge/internal/app"
	"github.com/Adda-Baaj/reqbridge/internal/config"
	"github.com/Adda-Baaj/reqbridge/internal/logger"
	"github.com/Adda-Baaj/reqbridge/pkg/host"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "bridgeget failed: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags := pflag.NewFlagSet("bridgeget", pflag.ContinueOnError)
	mode := flags.String("mode", string(app.ModeBlocking), "scheduling mode: blocking, async or bridged")
	headerArgs := flags.StringArrayP("header", "H", nil, "request header as name=value (repeatable)")
	body := flags.String("body", "", "raw request body")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() != 1 {
		return fmt.Errorf("usage: bridgeget [--mode m] [-H name=value]... [--body b] <url>")
	}

	m, err := app.ParseMode(*mode)
	if err != nil {
		return err
	}
	headers, err := parseHeaders(*headerArgs)
	if err != nil {
		return err
	}
	target := app.Target{URL: flags.Arg(0), Headers: headers}
	if flags.Changed("body") {
		target.Body = []byte(*body)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gil := host.NewGIL()
	b, err := app.NewBridge(cfg, log, gil)
	if err != nil {
		logger.ErrorObj("failed to initialize bridge", "error", err)
		return err
	}

	var (
		res      *app.Result
		fetchErr error
	)
	// This program plays the host: it holds the execution lock while it runs.
	gil.With(func() {
		res, fetchErr = app.NewFetcher(b, log).Fetch(ctx, m, target)
	})
	if fetchErr != nil {
		return fmt.Errorf("fetch: %w", fetchErr)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func parseHeaders(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(raw))
	for _, kv := range raw {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("header %q must be name=value", kv)
		}
		out[name] = value
	}
	return out, nil
}
