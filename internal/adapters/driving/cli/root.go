// Package cli implements the paperboi command tree.
package cli

import (
	"context"
	"errors"
	"sync"

	"github.com/spf13/cobra"

	"github.com/christopherbholland/PaperBoi/internal/core/ports/driving"
	"github.com/christopherbholland/PaperBoi/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	paperService        driving.PaperService
	paperServiceFactory func() (driving.PaperService, error)
	paperServiceMu      sync.Mutex
	settingsService     driving.SettingsService
	appLogger           *logger.Logger
	inboxDir            string
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "paperboi",
	Short: "Summarise research papers from a URL",
	Long: `PaperBoi downloads a research paper PDF, extracts its text, sends it to
an assistant in ordered chunks and stores the resulting summary together
with a metadata record.

Run 'paperboi process <url>' to summarise a single paper, or
'paperboi watch' to process URLs dropped into an inbox directory.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose && appLogger != nil {
			appLogger.SetVerbose(true)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "show debug output")
}

// Services holds what the commands drive.
type Services struct {
	// Paper is used directly when set.
	Paper driving.PaperService

	// PaperFactory builds the paper service on first use. Commands that do
	// not process papers never call it, so a misconfigured backend does not
	// block 'settings'.
	PaperFactory func() (driving.PaperService, error)

	Settings driving.SettingsService
	Logger   *logger.Logger

	// InboxDir is the default directory for 'watch'.
	InboxDir string
}

// SetServices installs the services used by every command.
func SetServices(s Services) {
	paperService = s.Paper
	paperServiceFactory = s.PaperFactory
	settingsService = s.Settings
	appLogger = s.Logger
	inboxDir = s.InboxDir
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func loadPaperService() (driving.PaperService, error) {
	paperServiceMu.Lock()
	defer paperServiceMu.Unlock()

	if paperService != nil {
		return paperService, nil
	}
	if paperServiceFactory == nil {
		return nil, errors.New("paper service not configured")
	}
	ps, err := paperServiceFactory()
	if err != nil {
		return nil, err
	}
	paperService = ps
	return ps, nil
}
