package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var voteUser string

var voteCmd = &cobra.Command{
	Use:       "vote <tx_id> <upvote|downvote>",
	Short:     "Vote on a confession",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"upvote", "downvote"},
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		tally, err := appInstance.ConfessionService.Vote(cmd.Context(), args[0], args[1], voteUser)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s recorded (%d up, %d down)\n", args[1], tally.Upvotes, tally.Downvotes)
		return nil
	},
}

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Show the signing address and its Irys balance",
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		addr, err := appInstance.Uploader.Address(cmd.Context())
		if err != nil {
			return err
		}
		bal, err := appInstance.Uploader.Balance(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Address: %s\n", addr)
		fmt.Fprintf(out, "Balance: %s (%s atomic)\n", bal.Formatted, bal.Raw)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(voteCmd)
	rootCmd.AddCommand(accountCmd)
	voteCmd.Flags().StringVarP(&voteUser, "user", "u", "", "Voter identity, usually a wallet address (default anonymous)")
}
