package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"hush/internal/app"
	"hush/internal/config"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X hush/cmd.version=...".
var version = "dev"

// Commands that need configuration but no database.
var configOnlyCommands = map[string]bool{
	"analyze": true,
}

var rootCmd = &cobra.Command{
	Use:   "hush",
	Short: "Anonymous confessions stored on Irys",
	Long: `hush screens anonymous confessions for crisis language, classifies their
mood and topics, and stores them permanently on the Irys network.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		// If no subcommand is given, print help.
		cmd.Help()
	},
	// PersistentPreRunE runs before any subcommand's RunE
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "completion" {
			return nil
		}
		// irys reports configuration problems on stdout as its response.
		if cmd.Name() == "irys" {
			return nil
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		config.SetupLogging(cfg)
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}

		if configOnlyCommands[cmd.Name()] {
			return nil
		}
		appInstance, err := app.NewApp(cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize app: %w", err)
		}
		cmd.SetContext(context.WithValue(cmd.Context(), appKey, appInstance))
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if appInstance, err := GetAppFromContext(cmd.Context()); err == nil {
			return appInstance.Close()
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Define a custom type for the context key to avoid collisions.
type contextKey string

const appKey contextKey = "app"

// Helper function to retrieve the app instance from context
func GetAppFromContext(ctx context.Context) (*app.App, error) {
	appInstance, ok := ctx.Value(appKey).(*app.App)
	if !ok || appInstance == nil {
		// This should not happen if PersistentPreRunE ran successfully
		return nil, fmt.Errorf("application instance not found in context")
	}
	return appInstance, nil
}

func init() {
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the hush version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version)
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check database connectivity and other diagnostics",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		appInstance, err := GetAppFromContext(ctx)
		if err != nil {
			return fmt.Errorf("failed to get app instance: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Checking database connectivity...")
		if err := appInstance.Ping(ctx); err != nil {
			return fmt.Errorf("database ping failed: %w", err)
		}
		fmt.Fprintln(out, "Database connection successful.")

		if appInstance.JobClient != nil {
			fmt.Fprintf(out, "Job queue: redis at %s\n", appInstance.Config.Redis.Address)
		} else {
			fmt.Fprintln(out, "Job queue: disabled (redis.address not set)")
		}
		jobs, err := appInstance.JobStore.ListJobs(ctx, 5, 0)
		if err != nil {
			return fmt.Errorf("failed to list background jobs: %w", err)
		}
		if len(jobs) == 0 {
			fmt.Fprintln(out, "Recent jobs: none")
		} else {
			fmt.Fprintln(out, "Recent jobs:")
			for _, j := range jobs {
				fmt.Fprintf(out, "  %s  %-10s %s  %s\n", j.JobID, j.Status, j.TaskType, j.UpdatedAt.Format(time.RFC3339))
			}
		}
		if appInstance.Archive != nil {
			fmt.Fprintf(out, "Archive: bucket %s\n", appInstance.Config.Archive.Bucket)
		}
		if appInstance.Config.Irys.PrivateKey == "" {
			fmt.Fprintln(out, "Signing key: missing (set IRYS_PRIVATE_KEY)")
		} else {
			fmt.Fprintln(out, "Signing key: configured")
		}
		return nil
	},
}
