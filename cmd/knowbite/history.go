package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/knowbite/internal/state"
	"github.com/ShayCichocki/knowbite/pkg/models"
)

var (
	historyLimit int
	historyPurge time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past submissions",
	Long: `Show recent submissions, newest first, with how far the simulated
progress got before the server answered.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of runs to show")
	historyCmd.Flags().DurationVar(&historyPurge, "purge", 0, "Delete runs started longer ago than this (e.g. 720h)")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if _, err := os.Stat(cfg.State.DBPath); os.IsNotExist(err) {
		fmt.Println("No runs recorded yet. Run 'knowbite youtube <link>' to start.")
		return nil
	}

	db, err := state.OpenAndMigrate(cfg.State.DBPath)
	if err != nil {
		return err
	}
	defer db.Close()

	if historyPurge > 0 {
		n, err := db.PurgeOldRuns(historyPurge)
		if err != nil {
			return fmt.Errorf("purge runs: %w", err)
		}
		printStatus("✓", fmt.Sprintf("Purged %d run(s) older than %s", n, historyPurge), color.FgGreen)
	}

	runs, err := db.ListRuns(historyLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STARTED\tTYPE\tSOURCE\tDURATION\tLAST\tOUTCOME")
	for i := range runs {
		r := &runs[i]
		// Outcome goes last: color codes would throw off tabwriter's widths.
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d%%\t%s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04"),
			r.FileType,
			truncate(r.Source, 48),
			formatDuration(r.Duration()),
			r.LastPercent,
			outcomeLabel(r),
		)
	}
	return w.Flush()
}

func outcomeLabel(r *models.Run) string {
	switch r.Outcome {
	case models.RunOutcomeNavigated:
		return color.GreenString("✓ %s", r.Outcome)
	case models.RunOutcomeFailed:
		msg := string(r.Outcome)
		if r.Error != "" {
			msg += ": " + truncate(r.Error, 60)
		}
		return color.RedString("✗ %s", msg)
	case models.RunOutcomeCanceled:
		return color.YellowString("⚠ %s", r.Outcome)
	default:
		return color.CyanString("… %s", r.Outcome)
	}
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "-"
	}
	if d < time.Minute {
		return d.Round(100 * time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
