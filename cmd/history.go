package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/vios-project/vios/internal/store"
	bboltStore "github.com/vios-project/vios/internal/store/bbolt"
)

var historySystemID string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded BIOS captures",
	Long: `History lists the captures recorded by previous compare runs. Without
--system it shows all systems in the local history store.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runHistory(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().StringVar(&historySystemID, "system", "",
		"Only show captures for this system ID")
}

func runHistory(ctx context.Context) error {
	closeLog, err := setupDebugLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	file, err := historyFile()
	if err != nil {
		return err
	}
	cs, err := bboltStore.New(file, nil, true)
	if err != nil {
		return fmt.Errorf("opening history store %s: %w", file, err)
	}
	defer func() { _ = cs.Close() }()

	systems := []string{historySystemID}
	if historySystemID == "" {
		systems, err = cs.Systems()
		if err != nil {
			return err
		}
	}
	if len(systems) == 0 {
		fmt.Println("No captures recorded yet. Run <vios compare> to record one.")
		return nil
	}

	headerStyle := lipgloss.NewStyle().Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return lipgloss.NewStyle()
		}).
		Headers("SYSTEM", "REVISION", "TYPE", "MENUS", "CHANGES", "AGE")

	for _, systemID := range systems {
		walkErr := cs.WalkRevisions(systemID, func(_ store.RevisionID, snap *store.Snapshot, patch *store.Patch) bool {
			t.Row(historyRow(systemID, snap, patch)...)
			return true
		})
		if walkErr != nil {
			return fmt.Errorf("walking revisions of %s: %w", systemID, walkErr)
		}
	}

	fmt.Println(t.Render())
	return nil
}

func historyRow(systemID string, snap *store.Snapshot, patch *store.Patch) []string {
	if snap != nil {
		return []string{
			systemID,
			snap.ID.String(),
			"snapshot",
			fmt.Sprintf("%d", len(snap.Tree)),
			"",
			humanize.Time(snap.Time),
		}
	}
	changed := 0
	for _, mc := range patch.Change {
		changed += len(mc)
	}
	return []string{
		systemID,
		patch.ID.String(),
		"patch",
		"",
		fmt.Sprintf("%d", changed),
		humanize.Time(patch.Time),
	}
}
