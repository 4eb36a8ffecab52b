package cmd

import (
	"fmt"

	"hush/internal/adapter"
	"hush/internal/app"
	"hush/internal/config"
	"hush/internal/uploader"

	"github.com/spf13/cobra"
)

var irysCmd = &cobra.Command{
	Use:   "irys",
	Short: "Answer one upload/balance/address request read from stdin",
	Long: `Reads a single JSON request from stdin and writes exactly one JSON line to
stdout. Logs go to stderr.

  {"action":"upload","data":{...},"tags":[{"name":"Mood","value":"happy"}]}
  {"action":"balance"}
  {"action":"address"}`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err == nil {
			config.SetupLogging(cfg)
			err = cfg.ValidateIrys()
		}
		if err != nil {
			resp := adapter.Response{
				Error: fmt.Sprintf("invalid configuration: %v", err),
				Kind:  uploader.KindInitialization,
			}
			return adapter.Write(cmd.OutOrStdout(), resp)
		}
		if err := adapter.Run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), app.NewUploader(cfg)); err != nil {
			return fmt.Errorf("irys adapter: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(irysCmd)
}
