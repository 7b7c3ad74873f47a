package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/christopherbholland/PaperBoi/internal/adapters/driving/watcher"
)

var watchDebounce = watcher.DefaultDebounce

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Process URLs dropped into an inbox directory",
	Long: `Watches an inbox directory for *.url and *.txt files. Each file is read
as a list of paper URLs, one per line, and every URL is processed in turn.

Handled files are moved to done/ when every URL succeeded, or to failed/
otherwise. Files already in the inbox are processed at startup.
Press Ctrl+C to stop.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce,
		"wait for writes to settle before reading a file")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := inboxDir
	if len(args) == 1 {
		dir = args[0]
	}
	if dir == "" {
		return errors.New("no inbox directory given")
	}

	papers, err := loadPaperService()
	if err != nil {
		return err
	}

	w, err := watcher.New(watcher.Config{Dir: dir, Debounce: watchDebounce}, papers, appLogger)
	if err != nil {
		return err
	}
	w.OnResult = func(r watcher.Result) {
		cmd.Printf("%s: %d processed, %d failed\n", r.File, r.Processed, r.Failed)
	}

	cmd.Printf("Watching %s\n", dir)
	if err := w.Run(cmd.Context()); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	cmd.Println("Stopped.")
	return nil
}
