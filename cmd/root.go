package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/daniloc96/github-members-state/internal/config"
	"github.com/daniloc96/github-members-state/internal/log"
	"github.com/daniloc96/github-members-state/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfgFile        string
	flagOrg        string
	flagToken      string
	flagPublicOnly bool
	flagPerPage    int
	flagLogLevel   string
	flagLogFormat  string
	flagOutput     string
	flagAddress    string

	lambdaHandler func(ctx context.Context, event models.LambdaEvent) (*models.LambdaResponse, error)
	runFetch      func(ctx context.Context, cfg *config.Config) (*models.FetchResult, error)
	runServe      func(ctx context.Context, cfg *config.Config) error
)

// SetLambdaHandler registers the Lambda handler used in Lambda mode.
func SetLambdaHandler(handler func(ctx context.Context, event models.LambdaEvent) (*models.LambdaResponse, error)) {
	lambdaHandler = handler
}

// SetRunFetch registers the fetch runner used by the CLI.
func SetRunFetch(handler func(ctx context.Context, cfg *config.Config) (*models.FetchResult, error)) {
	runFetch = handler
}

// SetRunServe registers the HTTP server runner used by the serve command.
func SetRunServe(handler func(ctx context.Context, cfg *config.Config) error) {
	runServe = handler
}

var rootCmd = &cobra.Command{
	Use:           "members",
	Short:         "Fetch and serve the member list of a GitHub organization",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          fetchRunE,
}

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch organization members once and print them",
	RunE:  fetchRunE,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the members state over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if runServe == nil {
			return fmt.Errorf("server is not configured")
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runServe(ctx, cfg)
	},
}

func fetchRunE(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if runFetch == nil {
		return fmt.Errorf("members fetcher is not configured")
	}
	switch flagOutput {
	case "text", "json":
	default:
		return fmt.Errorf("unsupported output %q: use text or json", flagOutput)
	}

	result, err := runFetch(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"org":         result.Organization,
		"duration_ms": result.DurationMs,
	}).Info(result.String())
	for _, warning := range result.Warnings {
		logrus.Warn(warning)
	}

	state := models.MembersState{Members: []models.Member{}}
	if result.State != nil {
		state = *result.State
	}
	if flagOutput == "json" {
		return writeStateJSON(cmd.OutOrStdout(), state)
	}
	printState(state)
	return nil
}

// Execute runs the CLI or Lambda handler depending on environment.
func Execute() {
	if isLambda() {
		if lambdaHandler == nil {
			logrus.Fatal("lambda handler is not configured")
		}
		lambda.Start(lambdaHandler)
		return
	}

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		logrus.Fatal(err)
	}
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}

	overrideConfigFromFlags(cmd, cfg)
	if err := config.Validate(cfg); err != nil {
		return nil, err
	}

	logger := log.NewLogger(cfg.Log.Level, cfg.Log.Format)
	logrus.SetFormatter(logger.Formatter)
	logrus.SetLevel(logger.Level)
	logrus.SetOutput(os.Stderr)
	return cfg, nil
}

// printState renders the list, or an error banner followed by the stale list.
func printState(state models.MembersState) {
	logrus.Info("────────────────────────────────────────")
	if state.ServerError != nil {
		logrus.Warnf("⚠ Could not load members: %s", *state.ServerError)
		if len(state.Members) > 0 {
			logrus.Warn("Showing the last known list")
		}
	}
	if len(state.Members) == 0 {
		logrus.Info("Members: (none)")
	} else {
		logrus.Infof("Members (%d):", len(state.Members))
		for i, m := range state.Members {
			logrus.Infof("  %d. %s (%d) %s", i+1, m.Login, m.ID, m.AvatarURL)
		}
	}
	logrus.Info("────────────────────────────────────────")
}

func writeStateJSON(w io.Writer, state models.MembersState) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(state)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&flagOrg, "org", "", "GitHub organization name")
	rootCmd.PersistentFlags().StringVar(&flagToken, "github-token", "", "GitHub Personal Access Token")
	rootCmd.PersistentFlags().BoolVar(&flagPublicOnly, "public-only", false, "List only public members (no token needed)")
	rootCmd.PersistentFlags().IntVar(&flagPerPage, "per-page", 100, "Members requested per API page (1-100)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "", "Log format: text, json or pretty")
	rootCmd.PersistentFlags().StringVarP(&flagOutput, "output", "o", "text", "Output: text or json")
	serveCmd.Flags().StringVar(&flagAddress, "address", "", "HTTP listen address")

	rootCmd.AddCommand(fetchCmd, serveCmd)
}

func isLambda() bool {
	return os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != ""
}

func overrideConfigFromFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("org") {
		cfg.GitHub.Organization = flagOrg
	}
	if cmd.Flags().Changed("github-token") {
		cfg.GitHub.Token = flagToken
	}
	if cmd.Flags().Changed("public-only") {
		cfg.GitHub.PublicOnly = flagPublicOnly
	}
	if cmd.Flags().Changed("per-page") {
		cfg.GitHub.PerPage = flagPerPage
	}
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = flagLogLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = flagLogFormat
	}
	if cmd.Flags().Changed("address") {
		cfg.Server.Address = flagAddress
	}
}
