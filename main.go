// Command google-gmail-tool reads Gmail, Calendar, Tasks and Drive from
// the command line and exports them into an Obsidian vault as Markdown
// notes.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dnvriend/google-gmail-tool/internal/adapters/driven/auth"
	configfile "github.com/dnvriend/google-gmail-tool/internal/adapters/driven/config/file"
	"github.com/dnvriend/google-gmail-tool/internal/adapters/driving/cli"
	"github.com/dnvriend/google-gmail-tool/internal/connectors/google"
	"github.com/dnvriend/google-gmail-tool/internal/connectors/google/calendar"
	"github.com/dnvriend/google-gmail-tool/internal/connectors/google/drive"
	"github.com/dnvriend/google-gmail-tool/internal/connectors/google/gmail"
	"github.com/dnvriend/google-gmail-tool/internal/connectors/google/tasks"
	"github.com/dnvriend/google-gmail-tool/internal/core/services"
	"github.com/dnvriend/google-gmail-tool/internal/vault"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run builds the dependency graph and hands it to the command tree.
// Services that need state the user has not set up yet (login, vault
// root) are left nil; the commands report what is missing.
func run() error {
	configStore, err := configfile.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	tokenStore, err := auth.NewTokenStore("")
	if err != nil {
		return fmt.Errorf("open token store: %w", err)
	}

	provider := auth.NewProvider(tokenStore,
		configStore.GetString(configfile.KeyClientID),
		configStore.GetString(configfile.KeyClientSecret))

	deps := cli.Dependencies{
		Version:       version,
		ConfigStore:   configStore,
		TokenStore:    tokenStore,
		TokenProvider: provider,
	}

	if provider.IsAuthenticated() {
		ctx := context.Background()
		ts := google.NewTokenSource(ctx, provider)

		calendarSvc, err := google.NewCalendarService(ctx, ts)
		if err != nil {
			return fmt.Errorf("create calendar service: %w", err)
		}
		tasksSvc, err := google.NewTasksService(ctx, ts)
		if err != nil {
			return fmt.Errorf("create tasks service: %w", err)
		}
		gmailSvc, err := google.NewGmailService(ctx, ts)
		if err != nil {
			return fmt.Errorf("create gmail service: %w", err)
		}
		driveSvc, err := google.NewDriveService(ctx, ts)
		if err != nil {
			return fmt.Errorf("create drive service: %w", err)
		}

		deps.Calendar = calendar.NewClient(calendarSvc, configStore.GetString(configfile.KeyCalendarID))
		deps.Tasks = tasks.NewClient(tasksSvc)
		deps.Gmail = gmail.NewClient(gmailSvc)
		deps.Drive = drive.NewClient(driveSvc)
	}

	if root := configStore.GetString(configfile.KeyVaultRoot); root != "" {
		v, err := vault.New(root)
		if err != nil {
			return fmt.Errorf("open vault: %w", err)
		}
		deps.Vault = v
		if deps.Calendar != nil && deps.Tasks != nil {
			deps.Exporter = services.NewExportService(deps.Calendar, deps.Tasks, v)
		}
	}

	cli.Inject(deps)
	return cli.Execute()
}
