package cli

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
	"github.com/christopherbholland/PaperBoi/internal/core/ports/driving"
)

var processJSON bool

// stdinIsTerminal reports whether the prompt loop should print prompts.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

var processCmd = &cobra.Command{
	Use:   "process [url]",
	Short: "Summarise a paper",
	Long: `Downloads the PDF at the given URL, summarises it and records the result.

Without an argument, URLs are read from standard input one per line. On a
terminal you are prompted for each URL; enter 'q' to quit.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().BoolVar(&processJSON, "json", false, "output the metadata record as JSON")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	papers, err := loadPaperService()
	if err != nil {
		return err
	}

	if len(args) == 1 {
		return processOne(cmd, papers, args[0])
	}

	return processLoop(cmd, papers, cmd.InOrStdin(), stdinIsTerminal())
}

func processOne(cmd *cobra.Command, papers driving.PaperService, url string) error {
	if !processJSON {
		cmd.Printf("Processing %s\n", url)
	}

	record, err := papers.Process(cmd.Context(), url)
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	if processJSON {
		return outputRecordJSON(cmd, record)
	}
	printRecord(cmd, record)
	return nil
}

func processLoop(cmd *cobra.Command, papers driving.PaperService, in io.Reader, interactive bool) error {
	scanner := bufio.NewScanner(in)
	var total, failed int

	for {
		if interactive {
			cmd.Print("Enter paper URL (or 'q' to quit): ")
		}
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if strings.EqualFold(line, "q") || strings.EqualFold(line, "quit") {
			break
		}

		total++
		if err := processOne(cmd, papers, line); err != nil {
			failed++
			cmd.PrintErrf("Error: %s\n", describeError(err))
		}
		if interactive {
			cmd.Println()
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading input: %w", err)
	}

	if interactive {
		cmd.Println("Goodbye.")
		return nil
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d papers failed", failed, total)
	}
	return nil
}

func printRecord(cmd *cobra.Command, record *domain.PaperMetadata) {
	cmd.Printf("Title:   %s\n", record.Title)
	if record.SourceTitle != "" {
		cmd.Printf("Source:  %s\n", record.SourceTitle)
	}
	if record.DOI != "" {
		cmd.Printf("DOI:     %s\n", record.DOI)
	}
	cmd.Printf("Chunks:  %d\n", record.NumChunks)
	cmd.Printf("Summary: %s\n", record.SummaryPath)
}

func outputRecordJSON(cmd *cobra.Command, record any) error {
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// describeError adds a hint for the failure kinds a user can act on.
func describeError(err error) string {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return err.Error() + " (check the URL points at a PDF)"
	case errors.Is(err, domain.ErrExtraction):
		return err.Error() + " (the PDF may be scanned; try 'paperboi settings set extractor.engine pdftotext')"
	case errors.Is(err, domain.ErrBackendUnavailable):
		return err.Error() + " (run 'paperboi settings show')"
	default:
		return err.Error()
	}
}
