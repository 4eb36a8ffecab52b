package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"hush/internal/clix"
	"hush/internal/services"
	"hush/internal/util"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	postPrivate  bool
	postAuthor   string
	postMood     string
	postContinue bool
	postFile     string
)

var postCmd = &cobra.Command{
	Use:   "post [text]",
	Short: "Screen, upload and store a confession",
	Long: `Posts a confession: the text is checked for crisis language, classified,
uploaded to Irys and recorded locally. When crisis language is detected the
post is held and support resources are shown; rerun with --continue to post
anyway.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		var text string
		if postFile != "" {
			raw, err := os.ReadFile(postFile)
			if err != nil {
				return fmt.Errorf("read %s: %w", postFile, err)
			}
			if text, err = util.CleanText(raw, postFile); err != nil {
				return err
			}
		} else {
			raw, err := textFromArgs(args, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if text, err = util.CleanText([]byte(raw), "stdin"); err != nil {
				return err
			}
		}

		res, err := appInstance.ConfessionService.Create(cmd.Context(), services.CreateParams{
			Content:         text,
			IsPublic:        !postPrivate,
			Author:          postAuthor,
			Mood:            postMood,
			Tags:            clix.ParseTags(cmd.Flags()),
			ConfirmedCrisis: postContinue,
		})
		out := cmd.OutOrStdout()
		var blocked *services.CrisisBlockedError
		if errors.As(err, &blocked) {
			printDecision(out, blocked.Decision)
			return fmt.Errorf("confession not posted; rerun with --continue to post it anyway")
		}
		if err != nil {
			return err
		}

		if res.Support != nil {
			printDecision(out, *res.Support)
		}
		color.New(color.FgGreen).Fprintln(out, res.Message)
		fmt.Fprintf(out, "Transaction: %s\n", res.TxID)
		fmt.Fprintf(out, "Gateway:     %s\n", res.GatewayURL)
		fmt.Fprintf(out, "Share:       %s\n", res.ShareURL)
		if res.Analysis != nil {
			fmt.Fprintf(out, "Mood:        %s\n", res.Analysis.Mood)
			if len(res.Analysis.Tags) > 0 {
				fmt.Fprintf(out, "Tags:        %s\n", strings.Join(res.Analysis.Tags, ", "))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(postCmd)
	postCmd.Flags().BoolVar(&postPrivate, "private", false, "Keep the confession out of the public feed")
	postCmd.Flags().StringVarP(&postAuthor, "author", "a", "", "Author name or wallet address (default anonymous)")
	postCmd.Flags().StringVar(&postMood, "mood", "", "Override the detected mood")
	postCmd.Flags().StringP("tags", "T", "", "Comma-separated topic tags, overriding detected tags")
	postCmd.Flags().BoolVar(&postContinue, "continue", false, "Post even when crisis support was suggested")
	postCmd.Flags().StringVarP(&postFile, "file", "f", "", "Read the confession from a file")
}
