package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/eipsinsight/pulse/internal/period"
	"github.com/eipsinsight/pulse/internal/report"
)

// ActivityCommand holds the configuration for the activity command.
type ActivityCommand struct {
	data   dataOptions
	period periodOptions
}

// NewActivityCommand creates and configures the activity command.
func NewActivityCommand() *cobra.Command {
	ac := &ActivityCommand{}

	cobraCmd := &cobra.Command{
		Use:   "activity",
		Short: "Show monthly lifecycle activity",
		Long: `Show a per-month summary of created, open, closed and merged
items across the configured repositories, with attributed review counts.`,
		RunE: ac.run,
	}

	ac.data.register(cobraCmd)
	ac.period.register(cobraCmd)

	return cobraCmd
}

func (ac *ActivityCommand) run(cobraCmd *cobra.Command, _ []string) error {
	cfg, err := ac.data.loadConfig()
	if err != nil {
		return err
	}

	ds, err := fetchDataset(cobraCmd.Context(), cfg)
	if err != nil {
		return err
	}

	now := time.Now()
	idx := buildIndex(ds, now)

	r, err := ac.period.resolve(now, func(candidate period.Range) bool {
		return indexHasData(idx, candidate)
	})
	if err != nil {
		return err
	}

	if !indexHasData(idx, r) {
		fmt.Fprintln(os.Stdout, report.MsgNoData)

		return nil
	}

	fmt.Fprintln(os.Stdout, report.MonthlySummary(idx, r))

	return nil
}
