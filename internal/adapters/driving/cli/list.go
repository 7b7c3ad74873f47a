package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	listLimit int
	listJSON  bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List processed papers",
	Long:  `Lists every recorded paper, newest first.`,
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 0, "maximum number of papers (0 = all)")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "output records as JSON")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	papers, err := loadPaperService()
	if err != nil {
		return err
	}

	records, err := papers.ListProcessed(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list papers: %w", err)
	}
	if listLimit > 0 && len(records) > listLimit {
		records = records[:listLimit]
	}

	if listJSON {
		return outputRecordJSON(cmd, records)
	}

	if len(records) == 0 {
		cmd.Println("No papers processed yet.")
		return nil
	}

	cmd.Printf("Processed papers (%d):\n\n", len(records))
	for i := range records {
		r := &records[i]
		cmd.Printf("[%d] %s\n", i+1, r.Title)
		cmd.Printf("    Date:    %s\n", r.ProcessingDate.Local().Format("2006-01-02 15:04:05"))
		if r.DOI != "" {
			cmd.Printf("    DOI:     %s\n", r.DOI)
		}
		cmd.Printf("    URL:     %s\n", r.OriginalURL)
		cmd.Printf("    Summary: %s\n", r.SummaryPath)
	}
	return nil
}
