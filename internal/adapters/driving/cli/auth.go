package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"golang.org/x/term"

	configfile "github.com/dnvriend/google-gmail-tool/internal/adapters/driven/config/file"
	"github.com/dnvriend/google-gmail-tool/internal/adapters/driving/oauth"
	"github.com/dnvriend/google-gmail-tool/internal/connectors/google"
	"github.com/dnvriend/google-gmail-tool/internal/core/domain"
)

// defaultScopes covers everything the tool touches: read mail and
// calendar, full tasks (CRUD commands), and Drive for uploads.
var defaultScopes = []string{
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/calendar.readonly",
	"https://www.googleapis.com/auth/tasks",
	"https://www.googleapis.com/auth/drive",
}

const loginTimeout = 5 * time.Minute

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Configure credentials and log in to Google",
}

var authConfigureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Store the OAuth client and vault location",
	Long: `Stores the OAuth client credentials and the Obsidian vault root in
the config file (~/.google-gmail-tool/config.toml).

Create an OAuth client of type "Desktop app" in the Google Cloud
Console and enable the Gmail, Calendar, Tasks and Drive APIs for it.`,
	RunE: runAuthConfigure,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authorize the tool via the browser",
	Long: `Opens the Google consent screen in the browser and captures the
authorization code on a localhost callback. The resulting token is
stored with the refresh token so later invocations run unattended.`,
	RunE: runAuthLogin,
}

var authCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Show authentication status",
	RunE:  runAuthCheck,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored token",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if tokenStore == nil {
			return errors.New("config store not configured")
		}
		if err := tokenStore.Clear(); err != nil {
			return err
		}
		cmd.Println("Logged out.")
		return nil
	},
}

func init() {
	authCmd.AddCommand(authConfigureCmd)
	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authCheckCmd)
	authCmd.AddCommand(authLogoutCmd)
	rootCmd.AddCommand(authCmd)
}

//nolint:errcheck // CLI interactive flow
func runAuthConfigure(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	reader := bufio.NewReader(os.Stdin)

	current := configStore.GetString(configfile.KeyClientID)
	if current != "" {
		cmd.Printf("Client ID [%s]: ", truncate(current, 20)+"...")
	} else {
		cmd.Print("Client ID: ")
	}
	input, _ := reader.ReadString('\n')
	clientID := strings.TrimSpace(input)
	if clientID == "" {
		clientID = current
	}
	if clientID == "" {
		return errors.New("client ID is required")
	}

	cmd.Print("Client Secret: ")
	clientSecret := readSecret()
	cmd.Println()
	if clientSecret == "" {
		clientSecret = configStore.GetString(configfile.KeyClientSecret)
	}
	if clientSecret == "" {
		return errors.New("client secret is required")
	}

	currentVault := configStore.GetString(configfile.KeyVaultRoot)
	if currentVault != "" {
		cmd.Printf("Obsidian vault root [%s]: ", currentVault)
	} else {
		cmd.Print("Obsidian vault root (e.g. ~/obsidian/vault): ")
	}
	input, _ = reader.ReadString('\n')
	vaultRoot := strings.TrimSpace(input)
	if vaultRoot == "" {
		vaultRoot = currentVault
	}

	cmd.Print("Calendar ID [primary]: ")
	input, _ = reader.ReadString('\n')
	calendarID := strings.TrimSpace(input)

	if err := configStore.Set(configfile.KeyClientID, clientID); err != nil {
		return fmt.Errorf("save client ID: %w", err)
	}
	if err := configStore.Set(configfile.KeyClientSecret, clientSecret); err != nil {
		return fmt.Errorf("save client secret: %w", err)
	}
	if vaultRoot != "" {
		if err := configStore.Set(configfile.KeyVaultRoot, vaultRoot); err != nil {
			return fmt.Errorf("save vault root: %w", err)
		}
	}
	if calendarID != "" {
		if err := configStore.Set(configfile.KeyCalendarID, calendarID); err != nil {
			return fmt.Errorf("save calendar ID: %w", err)
		}
	}

	cmd.Printf("Configuration written to %s\n", configStore.Path())
	cmd.Println("Next step: google-gmail-tool auth login")
	return nil
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if configStore == nil || tokenStore == nil {
		return errors.New("config store not configured")
	}

	clientID := configStore.GetString(configfile.KeyClientID)
	clientSecret := configStore.GetString(configfile.KeyClientSecret)
	if clientID == "" || clientSecret == "" {
		return errors.New("no OAuth client configured; run 'google-gmail-tool auth configure' first")
	}

	state := uuid.New().String()
	verifier := oauth2.GenerateVerifier()

	port, err := oauth.FindAvailablePort(8080, 8180)
	if err != nil {
		return fmt.Errorf("find callback port: %w", err)
	}
	server := oauth.NewCallbackServer(port, state)
	if err := server.Start(); err != nil {
		return fmt.Errorf("start callback server: %w", err)
	}
	defer func() { _ = server.Stop() }()

	cfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     googleoauth.Endpoint,
		RedirectURL:  server.RedirectURI(),
		Scopes:       defaultScopes,
	}

	authURL := cfg.AuthCodeURL(state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
		oauth2.S256ChallengeOption(verifier),
	)

	cmd.Println("Opening browser for Google authorization...")
	if err := oauth.OpenBrowser(authURL); err != nil {
		cmd.Println("Could not open a browser. Visit this URL manually:")
		cmd.Println(authURL)
	}

	code, err := server.WaitForCode(loginTimeout)
	if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	token, err := cfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		return fmt.Errorf("exchange authorization code: %w", err)
	}

	stored := &domain.OAuthToken{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
	}
	if err := tokenStore.Save(stored); err != nil {
		return fmt.Errorf("store token: %w", err)
	}

	cmd.Printf("Logged in. Token stored at %s\n", tokenStore.Path())
	return nil
}

func runAuthCheck(cmd *cobra.Command, _ []string) error {
	if configStore == nil || tokenProvider == nil {
		return errors.New("config store not configured")
	}

	clientID := configStore.GetString(configfile.KeyClientID)
	if clientID == "" {
		cmd.Println("OAuth client: not configured (run 'auth configure')")
	} else {
		cmd.Printf("OAuth client: %s...\n", truncate(clientID, 20))
	}

	vaultRoot := configStore.GetString(configfile.KeyVaultRoot)
	if vaultRoot == "" {
		cmd.Println("Vault root:   not configured")
	} else {
		cmd.Printf("Vault root:   %s\n", vaultRoot)
	}

	if !tokenProvider.IsAuthenticated() {
		cmd.Println("Token:        none (run 'auth login')")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	accessToken, err := tokenProvider.GetToken(ctx)
	if err != nil {
		cmd.Printf("Token:        stored but unusable (%v)\n", err)
		return nil
	}
	cmd.Println("Token:        valid")

	if info, err := google.GetUserInfo(ctx, accessToken); err == nil {
		cmd.Printf("Account:      %s\n", info.Email)
	}
	return nil
}

// readSecret reads a line without echo when stdin is a terminal.
//
//nolint:errcheck // CLI helper, error ignored for UX
func readSecret() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// truncate shortens a string for display.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
