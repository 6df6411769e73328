/*
Copyright © 2025 NVIDIA Corporation
SPDX-License-Identifier: Apache-2.0
*/
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/NVIDIA/expgen/pkg/checksum"
	"github.com/NVIDIA/expgen/pkg/generator"
	"github.com/NVIDIA/expgen/pkg/round"
	"github.com/NVIDIA/expgen/pkg/serializer"
	"github.com/NVIDIA/expgen/pkg/validator"
	"github.com/NVIDIA/expgen/pkg/watch"
)

// EnvMaxMinutes overrides the batch ceiling.
const EnvMaxMinutes = "EXPGEN_MAX_MINUTES"

func generateCmd() *cli.Command {
	return &cli.Command{
		Name:                  "generate",
		EnableShellCompletion: true,
		Usage:                 "Generate every experiment configuration of a round",
		ArgsUsage:             "<gold-standard-file> <dbname>",
		Description: `Expand a round definition into its experiment configurations.

The gold-standard file path and its MD5 digest, together with the database
name, are stamped onto the round base before expansion. Candidates are then
filtered and normalized by the round rules and the whole batch is checked
against the time budget and for duplicates. Nothing is written unless the
batch passes.

# Examples

Generate the embedded round 4 to stdout:
  expgen generate gold.csv bootstrap_db

Generate a custom round to a file with a tighter ceiling:
  expgen generate -r round5.yaml -o experiments.json --max-minutes 2880 gold.csv bootstrap_db

Also write the generation report and metrics:
  expgen generate --report report.yaml --metrics-file expgen.prom gold.csv bootstrap_db

Regenerate while editing a round:
  expgen generate --watch -r round5.yaml -o experiments.json gold.csv bootstrap_db`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "round",
				Aliases: []string{"r"},
				Usage: fmt.Sprintf(`Path to a round definition file (YAML or JSON).
	Defaults to the embedded %q round.`, round.DefaultName),
			},
			&cli.FloatFlag{
				Name:  "minutes-per-candidate",
				Usage: "Estimated minutes to run one candidate (default: from the round, else 18)",
			},
			&cli.FloatFlag{
				Name:    "max-minutes",
				Sources: cli.EnvVars(EnvMaxMinutes),
				Usage:   "Ceiling on the estimated batch minutes, zero disables it (default: one week)",
			},
			&cli.StringFlag{
				Name:  "report",
				Usage: "Write the generation report to this file (format from extension)",
			},
			&cli.BoolFlag{
				Name:  "watch",
				Usage: "Regenerate whenever the round or gold-standard file changes (requires --output)",
			},
			&cli.StringFlag{
				Name:  "metrics-file",
				Usage: "Write generation metrics in Prometheus text format to this file",
			},
			outputFlag,
			formatFlag,
		},
		Action: runGenerate,
	}
}

func runGenerate(ctx context.Context, cmd *cli.Command) error {
	outFormat, err := parseOutputFormat(cmd)
	if err != nil {
		return err
	}

	if cmd.Args().Len() != 2 {
		return fmt.Errorf("expected 2 arguments <gold-standard-file> <dbname>, got %d", cmd.Args().Len())
	}
	goldPath := cmd.Args().Get(0)
	dbName := cmd.Args().Get(1)

	if !cmd.Bool("watch") {
		return generateOnce(ctx, cmd, outFormat, goldPath, dbName)
	}
	return watchAndGenerate(ctx, cmd, outFormat, goldPath, dbName)
}

func generateOnce(ctx context.Context, cmd *cli.Command, outFormat serializer.Format, goldPath, dbName string) error {
	digest, err := checksum.DigestFile(ctx, goldPath)
	if err != nil {
		return fmt.Errorf("failed to read gold standard: %w", err)
	}

	r, err := loadRound(cmd.String("round"))
	if err != nil {
		return err
	}

	budget := budgetFromCmd(cmd, r)
	slog.Info("generating round",
		"round", r.Name(),
		"goldStandard", digest.Path,
		"database", dbName,
		"minutesPerCandidate", budget.MinutesPerCandidate,
		"maxMinutes", budget.MaxMinutes)

	g := generator.New(
		generator.WithVersion(version),
		generator.WithBudget(budget),
	)

	res, genErr := g.Generate(ctx, r, generator.Input{
		GoldStandard: digest,
		DatabaseName: dbName,
	})

	// Metrics cover failed runs too.
	if path := cmd.String("metrics-file"); path != "" {
		if err := generator.WriteMetrics(path); err != nil {
			if genErr != nil {
				slog.Warn("failed to write metrics", "error", err)
			} else {
				return err
			}
		}
	}

	if genErr != nil {
		return fmt.Errorf("generation failed: %w", genErr)
	}

	// The report goes first so a failure there leaves no candidate output.
	if path := cmd.String("report"); path != "" {
		if err := writeOutput(ctx, serializer.FormatFromPath(path), path, res.Report); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
	}

	if err := writeOutput(ctx, outFormat, cmd.String("output"), res.Candidates); err != nil {
		return fmt.Errorf("failed to write candidates: %w", err)
	}

	return nil
}

// watchAndGenerate regenerates on every change until ctx is done. A failed
// run is logged and leaves the previous output in place.
func watchAndGenerate(ctx context.Context, cmd *cli.Command, outFormat serializer.Format, goldPath, dbName string) error {
	if cmd.String("output") == "" {
		return fmt.Errorf("--watch requires --output")
	}

	paths := []string{goldPath}
	if rp := cmd.String("round"); rp != "" {
		paths = append(paths, rp)
	}
	w, err := watch.New(paths...)
	if err != nil {
		return err
	}
	changes, err := w.Watch(ctx)
	if err != nil {
		return err
	}

	run := func() {
		if err := generateOnce(ctx, cmd, outFormat, goldPath, dbName); err != nil {
			slog.Error("generation failed, keeping previous output", "error", err)
		}
	}

	run()
	for changed := range changes {
		slog.Info("input changed, regenerating", "path", changed)
		run()
	}
	return nil
}

func loadRound(path string) (*round.Round, error) {
	if path == "" {
		return round.Default()
	}
	slog.Info("loading round", "path", path)
	return round.LoadFile(path)
}

// budgetFromCmd overlays explicitly set flags on the round budget.
func budgetFromCmd(cmd *cli.Command, r *round.Round) validator.Budget {
	budget := r.EffectiveBudget(generator.DefaultBudget())
	if cmd.IsSet("minutes-per-candidate") {
		budget.MinutesPerCandidate = cmd.Float("minutes-per-candidate")
	}
	if cmd.IsSet("max-minutes") {
		budget.MaxMinutes = cmd.Float("max-minutes")
	}
	return budget
}

func writeOutput(ctx context.Context, format serializer.Format, path string, data any) error {
	ser, err := serializer.NewFileWriterOrStdout(format, path)
	if err != nil {
		return err
	}
	defer func() {
		if err := ser.Close(); err != nil {
			slog.Warn("failed to close serializer", "error", err)
		}
	}()

	return ser.Serialize(ctx, data)
}
