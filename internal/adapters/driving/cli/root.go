// Package cli wires the cobra command tree. Services are injected by
// the composition root in main before Execute runs.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/dnvriend/google-gmail-tool/internal/adapters/driven/auth"
	"github.com/dnvriend/google-gmail-tool/internal/connectors/google/calendar"
	"github.com/dnvriend/google-gmail-tool/internal/connectors/google/drive"
	"github.com/dnvriend/google-gmail-tool/internal/connectors/google/gmail"
	"github.com/dnvriend/google-gmail-tool/internal/connectors/google/tasks"
	"github.com/dnvriend/google-gmail-tool/internal/core/ports/driven"
	"github.com/dnvriend/google-gmail-tool/internal/core/ports/driving"
	"github.com/dnvriend/google-gmail-tool/internal/logger"
	"github.com/dnvriend/google-gmail-tool/internal/vault"
)

// Injected services. Set by Inject before Execute; commands guard
// against nil so a partially configured tool fails with guidance
// instead of a panic.
var (
	version       = "dev"
	configStore   driven.ConfigStore
	tokenStore    *auth.TokenStore
	tokenProvider driven.TokenProvider
	exporter      driving.Exporter
	noteVault     *vault.Vault
	calendarAPI   *calendar.Client
	taskAPI       *tasks.Client
	gmailAPI      *gmail.Client
	driveAPI      *drive.Client
)

var verboseFlag bool

var rootCmd = &cobra.Command{
	Use:   "google-gmail-tool",
	Short: "Google Workspace CLI with Obsidian export",
	Long: `google-gmail-tool reads Gmail, Calendar, Tasks and Drive from the
command line and exports them into an Obsidian vault as Markdown notes.

Daily-note exports are idempotent: rerunning an export merges fresh
data into notes you have edited by hand, preserving checkbox state and
anything you wrote yourself.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false,
		"Enable verbose output on stderr")
}

// Dependencies carries everything the command tree needs.
type Dependencies struct {
	Version       string
	ConfigStore   driven.ConfigStore
	TokenStore    *auth.TokenStore
	TokenProvider driven.TokenProvider
	Exporter      driving.Exporter
	Vault         *vault.Vault
	Calendar      *calendar.Client
	Tasks         *tasks.Client
	Gmail         *gmail.Client
	Drive         *drive.Client
}

// Inject installs the services used by the commands.
func Inject(deps Dependencies) {
	if deps.Version != "" {
		version = deps.Version
	}
	configStore = deps.ConfigStore
	tokenStore = deps.TokenStore
	tokenProvider = deps.TokenProvider
	exporter = deps.Exporter
	noteVault = deps.Vault
	calendarAPI = deps.Calendar
	taskAPI = deps.Tasks
	gmailAPI = deps.Gmail
	driveAPI = deps.Drive
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
