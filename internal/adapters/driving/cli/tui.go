package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/christopherbholland/PaperBoi/internal/adapters/driving/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal interface.

Submit paper URLs, browse processed papers newest first and read their
summaries without leaving the terminal.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Process / Read
  n        - Enter another URL
  r        - Reload the papers list
  Esc      - Back / Cancel a run
  ctrl+c   - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	papers, err := loadPaperService()
	if err != nil {
		return err
	}

	app, err := tui.NewApp(&tui.Ports{Paper: papers})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}

	if err := app.WithContext(cmd.Context()).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
