// Package cli implements the ghb command tree. It is a thin layer over
// the gh client: flag parsing, output rendering and process exit live
// here, never in the client.
package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/robby/ghb/auth"
	"github.com/robby/ghb/gh"
)

var (
	// Global flags.
	jsonOut     bool
	tokenFlag   string
	statusField string
	verbose     bool

	client *gh.Client
)

// envConfig is the environment side of the configuration; flags win
// over it where both are set.
type envConfig struct {
	Token          string `envconfig:"GITHUB_TOKEN"`
	AppID          int64  `envconfig:"GHB_APP_ID"`
	InstallationID int64  `envconfig:"GHB_INSTALLATION_ID"`
	PrivateKeyPath string `envconfig:"GHB_PRIVATE_KEY_PATH"`
	StatusField    string `envconfig:"GHB_STATUS_FIELD"`
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "ghb",
		Short: "CLI for GitHub Projects v2 boards",
		Long: `ghb manages GitHub Projects v2 boards: list projects and columns,
inspect and move items, and work with the issues linked to a board.

Authentication, in priority order:
  1. --token flag
  2. GitHub App credentials (GHB_APP_ID, GHB_INSTALLATION_ID, GHB_PRIVATE_KEY_PATH)
  3. GITHUB_TOKEN environment variable

A .env file in the working directory is loaded before the environment
is read.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&jsonOut, "json", false, "emit machine-readable JSON")
	pf.StringVar(&tokenFlag, "token", "", "GitHub token (overrides the environment)")
	pf.StringVar(&statusField, "status-field", "", `status field name (default "Status")`)
	pf.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(
		newProjectsCmd(),
		newProjectCmd(),
		newColumnsCmd(),
		newItemsCmd(),
		newItemCmd(),
		newMoveCmd(),
		newArchiveCmd(),
		newDeleteItemCmd(),
		newIssueCmd(),
		newIssuesCmd(),
		newCommentsCmd(),
		newReposCmd(),
		newOpenCmd(),
	)

	return rootCmd
}

// setup builds the shared client from flags, .env and the environment.
func setup() error {
	// Missing .env is fine; only a present-but-broken file is an error.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	var env envConfig
	if err := envconfig.Process("", &env); err != nil {
		return fmt.Errorf("failed to read environment: %w", err)
	}

	authCfg := auth.Config{Token: tokenFlag}
	if authCfg.Token == "" {
		authCfg.Token = env.Token
	}
	if authCfg.Token == "" && env.AppID != 0 {
		key, err := os.ReadFile(env.PrivateKeyPath)
		if err != nil {
			return fmt.Errorf("failed to read GHB_PRIVATE_KEY_PATH: %w", err)
		}
		authCfg.AppID = env.AppID
		authCfg.InstallationID = env.InstallationID
		authCfg.PrivateKey = key
	}

	field := statusField
	if field == "" {
		field = env.StatusField
	}

	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).With().Timestamp().Logger()

	client = gh.New(gh.Config{
		Auth:        authCfg,
		StatusField: field,
		Logger:      &logger,
	})
	return nil
}

// errorObject is the machine-readable failure shape.
type errorObject struct {
	Message string           `json:"message"`
	Name    string           `json:"name,omitempty"`
	Status  int              `json:"status,omitempty"`
	Errors  []gh.GraphQLError `json:"errors,omitempty"`
}

// errorObjectFor classifies err into the machine-readable shape.
func errorObjectFor(err error) errorObject {
	obj := errorObject{Message: err.Error()}
	var te *gh.TransportError
	var pe *gh.PreconditionError
	switch {
	case errors.As(err, &te):
		obj.Name = "TransportError"
		obj.Status = te.Status
		obj.Errors = te.Errors
	case errors.As(err, &pe):
		obj.Name = "PreconditionError"
	case errors.Is(err, auth.ErrNoCredentials):
		obj.Name = "ConfigurationError"
	}
	return obj
}

func renderError(err error) {
	if !jsonOut {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	out, _ := json.Marshal(errorObjectFor(err))
	fmt.Fprintln(os.Stderr, string(out))
}

// Execute runs the command tree and returns the process exit code.
func Execute() int {
	if err := newRootCmd().Execute(); err != nil {
		renderError(err)
		return 1
	}
	return 0
}
