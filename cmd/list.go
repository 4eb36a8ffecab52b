package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"hush/internal/clix"
	"hush/internal/models"
	"hush/internal/services"
	"hush/internal/util"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List public confessions, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		pagination, err := clix.ParsePagination(cmd.Flags(), services.DefaultPublicLimit)
		if err != nil {
			return err
		}
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get app from context: %w", err)
		}

		results, err := appInstance.ConfessionService.ListPublic(cmd.Context(), pagination.Limit, pagination.Offset)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No confessions found.")
			return nil
		}
		renderConfessions(cmd.OutOrStdout(), results)
		fmt.Fprintf(cmd.OutOrStdout(), "Displayed %d confessions.\n", len(results))
		return nil
	},
}

var trendingCmd = &cobra.Command{
	Use:   "trending",
	Short: "List the most upvoted public confessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, err := clix.ParseLimit(cmd.Flags(), services.DefaultTrendingLimit)
		if err != nil {
			return err
		}
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to get app from context: %w", err)
		}

		results, err := appInstance.ConfessionService.Trending(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(results) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No confessions found.")
			return nil
		}
		renderConfessions(cmd.OutOrStdout(), results)
		return nil
	},
}

func renderConfessions(out io.Writer, list []*models.Confession) {
	table := tablewriter.NewWriter(out)
	table.SetHeader([]string{"TX ID", "Confession", "Mood", "Tags", "Up", "Down", "Posted"})
	table.SetBorder(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetRowLine(true)
	for _, c := range list {
		table.Append([]string{
			c.TxID,
			util.Preview(c.Content, 60),
			c.Mood,
			strings.Join(c.Tags, ", "),
			strconv.Itoa(c.Upvotes),
			strconv.Itoa(c.Downvotes),
			time.UnixMilli(c.Timestamp).Format("2006-01-02 15:04"),
		})
	}
	table.Render()
}

func init() {
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(trendingCmd)

	listCmd.Flags().IntP("limit", "l", services.DefaultPublicLimit, "Number of confessions to display")
	listCmd.Flags().IntP("offset", "o", 0, "Number of confessions to skip (for pagination)")
	trendingCmd.Flags().IntP("limit", "l", services.DefaultTrendingLimit, "Number of confessions to display")
}
