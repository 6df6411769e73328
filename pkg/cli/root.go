/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/urfave/cli/v3"

	cnserrors "github.com/NVIDIA/expgen/pkg/errors"
	"github.com/NVIDIA/expgen/pkg/logging"
	"github.com/NVIDIA/expgen/pkg/serializer"
)

const (
	name           = "expgen"
	versionDefault = "dev"
)

// Exit codes returned by Execute.
const (
	exitError    = 1
	exitCanceled = 2
	exitRejected = 3
	exitInput    = 4
)

var (
	// overridden during build with ldflags
	version = versionDefault
	commit  = "unknown"
	date    = "unknown"
)

var (
	outputFlag = &cli.StringFlag{
		Name:    "output",
		Aliases: []string{"o"},
		Usage:   "Output file path (default: stdout)",
	}

	formatFlag = &cli.StringFlag{
		Name:    "format",
		Aliases: []string{"t"},
		Value:   string(serializer.FormatJSON),
		Usage: fmt.Sprintf("Output format (supported values: %s)",
			strings.Join(serializer.SupportedFormats(), ", ")),
	}
)

func newRootCmd() *cli.Command {
	return &cli.Command{
		Name:                  name,
		Version:               version,
		EnableShellCompletion: true,
		ShellComplete:         commandLister,
		Usage:                 "Bootstrap experiment configuration generator",
		Description: fmt.Sprintf(`expgen - bootstrap experiment configuration generator

Version: %s
Commit:  %s
Built:   %s

Expands a round definition into every concrete experiment configuration,
applies the round rules and checks the batch against its time budget.`, version, commit, date),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Sources: cli.EnvVars(logging.EnvLogLevel),
				Usage:   "Log level (debug, info, warn, error)",
			},
		},
		Before: initLogger,
		Commands: []*cli.Command{
			generateCmd(),
		},
	}
}

// Execute runs the root command with the process arguments and exits with a
// non-zero status on failure. This is called by main.main().
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle SIGINT/SIGTERM for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Fprintln(os.Stderr, "\nReceived interrupt signal, shutting down gracefully...")
		cancel()
	}()

	if err := newRootCmd().Run(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps err to the process exit status.
func exitCode(err error) int {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return exitCanceled
	}
	switch cnserrors.CodeOf(err) {
	case cnserrors.ErrCodeBudgetExceeded, cnserrors.ErrCodeDuplicateCandidate:
		return exitRejected
	case cnserrors.ErrCodeInputFile, cnserrors.ErrCodeInvalidRequest,
		cnserrors.ErrCodePatchShape, cnserrors.ErrCodeNotFound:
		return exitInput
	default:
		return exitError
	}
}

// initLogger configures slog after flags are parsed so overrides like
// --log-level take effect before any command executes.
func initLogger(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	logLevel := cmd.String("log-level")
	logging.SetDefaultStructuredLoggerWithLevel(name, version, logLevel)
	slog.Debug("starting",
		"name", name,
		"version", version,
		"commit", commit,
		"date", date,
		"logLevel", logLevel)
	return ctx, nil
}

// commandLister prints the visible subcommands for shell completion.
func commandLister(_ context.Context, cmd *cli.Command) {
	if cmd == nil {
		return
	}
	w := cmd.Root().Writer
	if w == nil {
		w = os.Stdout
	}
	for _, c := range cmd.Commands {
		if c.Hidden {
			continue
		}
		fmt.Fprintln(w, c.Name)
	}
}

func parseOutputFormat(cmd *cli.Command) (serializer.Format, error) {
	f := serializer.Format(cmd.String("format"))
	if f.IsUnknown() {
		return "", fmt.Errorf("unknown output format: %q", f)
	}
	return f, nil
}
