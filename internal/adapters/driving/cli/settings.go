package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
)

// apiKeySetting is masked by 'settings show' and prompted for without echo.
const apiKeySetting = "backend.api_key"

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure output paths, the conversation backend, text
extraction and metadata storage.

Use subcommands to change individual settings or run the interactive wizard.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Change a single setting",
	Long: `Change a single setting by its config key.

Leave out the value of backend.api_key to be prompted for it without echo.
Run 'paperboi settings keys' to list every key.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	Args:  cobra.NoArgs,
	RunE:  runSettingsKeys,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure the backend and storage step by step.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Printf("Config file: %s\n", settingsService.ConfigPath())
	cmd.Println()

	cmd.Println("[Paths]")
	cmd.Printf("  Base: %s\n", settings.Paths.BaseDir)
	cmd.Printf("  Papers: %s\n", settings.Paths.PapersDir())
	cmd.Printf("  Summaries: %s\n", settings.Paths.SummariesDir())
	cmd.Printf("  Metadata: %s\n", settings.Paths.MetadataDir())
	cmd.Printf("  Logs: %s\n", settings.Paths.LogDir())
	cmd.Println()

	cmd.Println("[Backend]")
	cmd.Printf("  Provider: %s\n", settings.Backend.Provider.Description())
	if settings.Backend.Provider.RequiresAPIKey() {
		cmd.Printf("  Assistant: %s\n", valueOrUnset(settings.Backend.AssistantID))
		if settings.Backend.APIKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Backend.APIKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
		if settings.Backend.BaseURL != "" {
			cmd.Printf("  Base URL: %s\n", settings.Backend.BaseURL)
		}
	}
	cmd.Printf("  Poll interval: %s\n", settings.Backend.PollInterval)
	if settings.Backend.RequestsPerSecond > 0 {
		cmd.Printf("  Rate limit: %d/s\n", settings.Backend.RequestsPerSecond)
	}
	cmd.Println()

	cmd.Println("[Processing]")
	cmd.Printf("  Chunk size: %d characters\n", settings.Segmenter.MaxChars)
	cmd.Printf("  Extractor: %s\n", settings.Extractor.Engine.Description())
	cmd.Printf("  Minimum text: %d characters\n", settings.Extractor.MinTextLength)
	cmd.Printf("  Title fallback: %s\n", settings.Title.Fallback)
	cmd.Println()

	cmd.Println("[Storage]")
	cmd.Printf("  Metadata: %s\n", settings.Storage.Backend.Description())
	cmd.Println()

	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'paperboi settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	key := args[0]
	var value string
	switch {
	case len(args) == 2:
		value = args[1]
	case key == apiKeySetting:
		cmd.Print("Enter API key: ")
		value = readPassword(bufio.NewReader(cmd.InOrStdin()))
		cmd.Println()
		if value == "" {
			return errors.New("API key is required")
		}
	default:
		return fmt.Errorf("a value is required for %s", key)
	}

	if err := settingsService.Set(key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}

	if key == apiKeySetting {
		value = maskAPIKey(value)
	}
	cmd.Printf("Set %s = %s\n", key, value)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	for _, k := range settingsService.Keys() {
		cmd.Println(k)
	}
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("PaperBoi Settings Wizard")
	cmd.Println("========================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	cmd.Println("Step 1: Select Backend")
	cmd.Println("----------------------")
	providers := domain.AllBackendProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	settings.Backend.Provider = providers[parseChoice(readLine(reader), len(providers), 1)-1]

	if settings.Backend.Provider.RequiresAPIKey() {
		cmd.Printf("Enter assistant ID [%s]: ", settings.Backend.AssistantID)
		if id := readLine(reader); id != "" {
			settings.Backend.AssistantID = id
		}
		cmd.Print("Enter API key (leave blank to keep current): ")
		if key := readPassword(reader); key != "" {
			settings.Backend.APIKey = key
		}
		cmd.Println()
	}
	cmd.Println()

	cmd.Println("Step 2: Select Extractor")
	cmd.Println("------------------------")
	engines := domain.AllExtractorEngines()
	for i, e := range engines {
		cmd.Printf("  %d. %s\n", i+1, e.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	settings.Extractor.Engine = engines[parseChoice(readLine(reader), len(engines), 1)-1]
	cmd.Println()

	cmd.Println("Step 3: Select Metadata Storage")
	cmd.Println("-------------------------------")
	stores := domain.AllStorageBackends()
	for i, s := range stores {
		cmd.Printf("  %d. %s\n", i+1, s.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	settings.Storage.Backend = stores[parseChoice(readLine(reader), len(stores), 1)-1]
	cmd.Println()

	if err := settings.Validate(); err != nil {
		return fmt.Errorf("settings not saved: %w", err)
	}
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	cmd.Printf("Settings saved to %s\n", settingsService.ConfigPath())
	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads without echo on a terminal and falls back to reader.
func readPassword(reader *bufio.Reader) string {
	if stdinIsTerminal() {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

func valueOrUnset(v string) string {
	if v == "" {
		return "(not set)"
	}
	return v
}
