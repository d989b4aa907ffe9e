// ABOUTME: Advise command for bookx CLI
// ABOUTME: Asks the AI advisor and prints suggestions with the matching community books

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/swapbook/bookx/cli/internal/chat"
	"github.com/swapbook/bookx/cli/internal/client"
	"github.com/swapbook/bookx/cli/internal/recommend"
)

var advisePost bool

var adviseCmd = &cobra.Command{
	Use:   "advise <prompt>",
	Short: "Ask the AI advisor for book recommendations",
	Long: `Ask the AI advisor for recommendations. Prints its suggestions and the books
from the community listing that match them.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		prompt := strings.Join(args, " ")
		runCommand(func(ctx context.Context) int {
			return runAdvise(ctx, os.Stdout, prompt, advisePost)
		})
	},
}

func init() {
	adviseCmd.Flags().BoolVar(&advisePost, "post", false, "Send the prompt as a JSON POST body")
	rootCmd.AddCommand(adviseCmd)
}

// runAdvise fetches advice, resolves the recommendation, and prints both
func runAdvise(ctx context.Context, w io.Writer, prompt string, post bool) int {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		fmt.Fprintln(w, "Error: prompt is empty")
		return exitFailed
	}

	c := newAPIClient()

	fetch := c.GetAdvice
	if post {
		fetch = c.GetAdvicePost
	}
	advice, err := fetch(ctx, prompt)
	if err != nil {
		return reportError(w, err)
	}

	resolver := recommend.NewResolver(c, recommend.DefaultSearchTTL)
	defer resolver.Close()
	result := resolver.Resolve(ctx, advice)

	if IsJSONOutput() {
		fmt.Fprintln(w, formatAdviceJSON(advice, result))
	} else {
		fmt.Fprintln(w, formatAdviceHuman(advice, result))
	}
	return exitOK
}

// formatAdviceHuman formats the reply and recommended listing for human readability
func formatAdviceHuman(advice *client.AdviceResponse, result recommend.Result) string {
	var sb strings.Builder

	sb.WriteString(chat.FormatAdvice(advice))
	sb.WriteString("\n\n")

	if len(result.Books) == 0 {
		sb.WriteString("No matching books in the community yet.")
		return sb.String()
	}

	fmt.Fprintf(&sb, "AI recommended books (%d):\n", len(result.Books))
	for _, b := range result.Books {
		line := fmt.Sprintf("  #%d %s", b.ID, b.Title)
		if b.Author != "" {
			line += " by " + b.Author
		}
		line += " (" + b.Location + ")"
		sb.WriteString(line + "\n")
	}
	return strings.TrimRight(sb.String(), "\n")
}

// formatAdviceJSON formats the advice and resolved recommendation as JSON
func formatAdviceJSON(advice *client.AdviceResponse, result recommend.Result) string {
	books := result.Books
	if books == nil {
		books = []client.Book{}
	}
	return formatJSON(map[string]interface{}{
		"ai":          advice.AI,
		"recommended": books,
		"source":      result.Source.String(),
	})
}
