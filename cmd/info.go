package cmd

import (
	"context"
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vios-project/vios/internal/sysinfo"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show tracking and baseboard information for this system",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runInfo(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}

func runInfo(ctx context.Context) error {
	closeLog, err := setupDebugLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	info, _, _, err := gatherSystem(ctx)
	if err != nil {
		return err
	}
	fmt.Println(renderInfoTable(info))
	return nil
}

func renderInfoTable(info *sysinfo.Info) string {
	labelStyle := lipgloss.NewStyle().Bold(true).PaddingRight(1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		StyleFunc(func(_, col int) lipgloss.Style {
			if col == 0 {
				return labelStyle
			}
			return lipgloss.NewStyle()
		}).
		Row("Project", info.ProjectNumber).
		Row("Customer", info.Customer).
		Row("Order", info.Order).
		Row("SM Number", info.SMNumber).
		Row("Baseboard", info.Board.String()).
		Row("Model", info.Model).
		Row("Serial", info.Serial).
		Row("BIOS Version", info.BIOSVersion).
		Row("IPMI Version", info.IPMIVersion)

	return t.Render()
}
