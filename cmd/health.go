// ABOUTME: Health command for bookx CLI
// ABOUTME: Checks backend connectivity without credentials

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check backend connectivity",
	Long:  `Check connectivity to the BookX backend. Exits 0 when healthy, 2 otherwise.`,
	Run: func(cmd *cobra.Command, args []string) {
		runCommand(func(ctx context.Context) int {
			return runHealth(ctx, os.Stdout)
		})
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// runHealth executes the health check and returns exit code
func runHealth(ctx context.Context, w io.Writer) int {
	url := GetAPIURL()
	healthy := newAPIClient().HealthCheck(ctx)

	if IsJSONOutput() {
		fmt.Fprintln(w, formatHealthJSON(url, healthy))
	} else {
		fmt.Fprintln(w, formatHealthHuman(url, healthy))
	}

	if !healthy {
		return exitError
	}
	return exitOK
}

// formatHealthHuman formats the health result for human readability
func formatHealthHuman(url string, healthy bool) string {
	status := "online"
	if !healthy {
		status = "offline"
	}
	return fmt.Sprintf(`Backend: %s
Status:  %s`, url, status)
}

// formatHealthJSON formats the health result as JSON
func formatHealthJSON(url string, healthy bool) string {
	return formatJSON(map[string]interface{}{
		"backend": url,
		"healthy": healthy,
	})
}
