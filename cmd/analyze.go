package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"hush/internal/analysis"
	"hush/internal/crisis"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [text]",
	Short: "Classify a confession without posting it",
	Long: `Runs the keyword classifier and crisis routing on the given text (or
stdin when no text is given) and prints mood, tags, virality, quality and any
support resources.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := textFromArgs(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		ca := analysis.Analyze(text)
		decision := crisis.RouteAnalysis(ca)

		out := cmd.OutOrStdout()
		if analyzeJSON {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			return enc.Encode(struct {
				Analysis *analysis.ContentAnalysis `json:"analysis"`
				Support  crisis.Decision           `json:"support"`
			}{ca, decision})
		}

		if ca == nil {
			fmt.Fprintf(out, "Text is too short to analyze (minimum %d characters).\n", analysis.MinAnalysisLength)
			return nil
		}
		printDecision(out, decision)
		fmt.Fprintf(out, "Mood:       %s\n", ca.Mood)
		fmt.Fprintf(out, "Tags:       %s\n", strings.Join(ca.Tags, ", "))
		fmt.Fprintf(out, "Viral:      %.2f (%s engagement)\n", ca.ViralScore, ca.EngagementPrediction)
		fmt.Fprintf(out, "Quality:    %d/100\n", ca.ContentQuality)
		fmt.Fprintf(out, "Crisis:     %s\n", ca.CrisisLevel)
		for _, s := range ca.Suggestions {
			fmt.Fprintf(out, "  - %s\n", s)
		}
		return nil
	},
}

// printDecision renders the support banner for advisory and blocking
// decisions.
func printDecision(out io.Writer, d crisis.Decision) {
	if !d.MustBlock && !d.Advisory {
		return
	}
	banner := color.New(color.FgYellow, color.Bold)
	if d.MustBlock {
		banner = color.New(color.FgRed, color.Bold)
	}
	banner.Fprintln(out, d.Title)
	fmt.Fprintln(out, d.Message)
	for _, r := range d.Resources {
		fmt.Fprintf(out, "  %s: %s (%s)\n", color.CyanString(r.Name), r.Contact, r.URL)
	}
	fmt.Fprintln(out)
}

func textFromArgs(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	if f, ok := stdin.(*os.File); ok {
		if fi, err := f.Stat(); err == nil && fi.Mode()&os.ModeCharDevice != 0 {
			return "", fmt.Errorf("no text given: pass it as an argument or pipe it on stdin")
		}
	}
	b, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "Print the analysis as JSON")
}
