package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/naka-gawa/pr-quality-stats/internal/config"
	"github.com/naka-gawa/pr-quality-stats/internal/gateway"
	"github.com/naka-gawa/pr-quality-stats/internal/logger"
	"github.com/naka-gawa/pr-quality-stats/internal/report"
	"github.com/naka-gawa/pr-quality-stats/internal/sink"
	"github.com/naka-gawa/pr-quality-stats/internal/team"
	"github.com/naka-gawa/pr-quality-stats/internal/usecase"
)

const inputDateLayout = "2006/01/02"

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Runs one ingestion pass and emits the dashboard events",
	Long: `Fetches the merged pull requests of every catalog repository since the cutoff date,
classifies them and emits the dashboard events. Either every event is emitted or none is.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := config.LoadEnv()
		if err != nil {
			return err
		}
		log, err := newLogger(cmd, env)
		if err != nil {
			return err
		}

		// Credentials are checked before anything touches the network.
		tokens, err := env.Tokens()
		if err != nil {
			return err
		}

		flags := cmd.Flags()
		catalogPath, _ := flags.GetString("catalog")
		teamsPath, _ := flags.GetString("teams")
		sinceStr, _ := flags.GetString("since")
		lookback, _ := flags.GetInt("lookback-days")
		concurrency, _ := flags.GetInt("concurrency")
		fallbackStr, _ := flags.GetString("label-fallback")
		quiet, _ := flags.GetBool("quiet")
		promPath, _ := flags.GetString("prom-textfile")

		cutoff, err := parseCutoff(sinceStr, lookback, time.Now())
		if err != nil {
			return err
		}
		fallback, err := usecase.ParseLabelFallback(fallbackStr)
		if err != nil {
			return err
		}
		catalog, err := config.LoadCatalog(catalogPath)
		if err != nil {
			return err
		}
		teams, err := config.LoadTeams(teamsPath)
		if err != nil {
			return err
		}

		pool, err := gateway.NewGitHubPool(tokens, env.APIURL, logger.Component(log, "gateway"))
		if err != nil {
			return fmt.Errorf("failed to create GitHub gateway: %w", err)
		}
		runner := usecase.NewRunner(pool, catalog, usecase.RunOptions{
			Cutoff:        cutoff,
			LabelFallback: fallback,
			Concurrency:   concurrency,
		}, logger.Component(log, "runner"))

		results, err := runner.Run(ctx)
		if err != nil {
			log.Error("run failed", "error", err)
			return err
		}

		events, err := report.Build(results, team.NewResolver(teams))
		if err != nil {
			log.Error("no events emitted", "error", err)
			return err
		}

		var sinks sink.Multi
		if !quiet {
			sinks = append(sinks, sink.NewJSON(os.Stdout))
		}
		if env.DashboardURL != "" {
			sinks = append(sinks, sink.NewDashboard(env.DashboardURL, env.DashboardAuthToken, nil, logger.Component(log, "dashboard")))
		}
		if promPath != "" {
			sinks = append(sinks, sink.NewTextfile(promPath))
		}
		return sinks.Emit(ctx, events)
	},
}

// parseCutoff returns midnight UTC of since, or of lookback days before now.
func parseCutoff(since string, lookback int, now time.Time) (time.Time, error) {
	if since != "" {
		t, err := time.Parse(inputDateLayout, since)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --since date format, please use YYYY/MM/DD: %w", err)
		}
		return t, nil
	}
	if lookback < 1 {
		return time.Time{}, fmt.Errorf("--lookback-days must be positive, got %d", lookback)
	}
	y, m, d := now.UTC().AddDate(0, 0, -lookback).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().String("catalog", "", "Repository catalog YAML (default: built-in catalog)")
	runCmd.Flags().String("teams", "", "Team membership YAML (default: built-in teams)")
	runCmd.Flags().String("since", "", "Cutoff date for merged pull requests (YYYY/MM/DD)")
	runCmd.Flags().Int("lookback-days", 30, "Cutoff as a number of days before today, used when --since is empty")
	runCmd.Flags().Int("concurrency", 1, "Number of repositories processed in parallel")
	runCmd.Flags().String("label-fallback", string(usecase.FallbackQuality), "Classification when a label lookup fails: quality, none or exclude")
	runCmd.Flags().BoolP("quiet", "q", false, "Do not print the events as JSON to standard output")
	runCmd.Flags().String("prom-textfile", "", "Also write the events as Prometheus metrics to this file")
}
