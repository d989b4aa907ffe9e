// ABOUTME: Session commands for bookx CLI: login, logout, and whoami
// ABOUTME: Tokens are stored in the config directory and shared with the TUI

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/swapbook/bookx/cli/internal/auth"
	"github.com/swapbook/bookx/cli/internal/tokenstore"
)

var (
	loginUsername      string
	loginPasswordStdin bool
)

var errNoPassword = errors.New("no password given: stdin is not a terminal, use --password-stdin")

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and store a session",
	Long: `Exchange a username and password for a session. The password is prompted
for when stdin is a terminal, or read from stdin with --password-stdin.`,
	Run: func(cmd *cobra.Command, args []string) {
		password, err := readPassword(os.Stdin, os.Stderr, loginPasswordStdin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(exitError)
		}
		runCommand(func(ctx context.Context) int {
			return runLogin(ctx, os.Stdout, loginUsername, password)
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored session",
	Run: func(cmd *cobra.Command, args []string) {
		if code := runLogout(os.Stdout); code != exitOK {
			os.Exit(code)
		}
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Report whether a session is stored",
	Long:  `Report whether a session is stored. Exits 3 when not logged in.`,
	Run: func(cmd *cobra.Command, args []string) {
		if code := runWhoami(os.Stdout); code != exitOK {
			os.Exit(code)
		}
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Account username")
	loginCmd.Flags().BoolVar(&loginPasswordStdin, "password-stdin", false, "Read the password from stdin")
	loginCmd.MarkFlagRequired("username")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(whoamiCmd)
}

// readPassword reads a password from the first line of in, or prompts on the terminal
func readPassword(in *os.File, prompt io.Writer, fromStdin bool) (string, error) {
	if fromStdin {
		return readPasswordLine(in)
	}

	fd := int(in.Fd())
	if !term.IsTerminal(fd) {
		return "", errNoPassword
	}

	fmt.Fprint(prompt, "Password: ")
	pw, err := term.ReadPassword(fd)
	fmt.Fprintln(prompt)
	if err != nil {
		return "", fmt.Errorf("reading password: %w", err)
	}
	return string(pw), nil
}

// readPasswordLine returns the first line of r without its line ending
func readPasswordLine(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errors.New("empty password on stdin")
	}
	return line, nil
}

// runLogin exchanges credentials for a token pair and stores it
func runLogin(ctx context.Context, w io.Writer, username, password string) int {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		fmt.Fprintln(w, "Error: username and password are required")
		return exitFailed
	}

	c := newAPIClient()
	tokens, err := c.Auth().Login(ctx, username, password)
	if err != nil {
		if errors.Is(err, auth.ErrLoginFailed) {
			fmt.Fprintln(w, "Login failed. Please check your credentials.")
			return exitFailed
		}
		return reportError(w, err)
	}

	if err := c.Auth().Store().SetTokens(tokens); err != nil {
		fmt.Fprintf(w, "Error: saving session: %v\n", err)
		return exitError
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(map[string]interface{}{"username": username, "logged_in": true}))
	} else {
		fmt.Fprintf(w, "Logged in as %s\n", username)
	}
	return exitOK
}

// runLogout clears the stored session
func runLogout(w io.Writer) int {
	if err := newAPIClient().Auth().Logout(); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(map[string]bool{"logged_in": false}))
	} else {
		fmt.Fprintln(w, "Logged out")
	}
	return exitOK
}

// runWhoami reports whether a session is stored
func runWhoami(w io.Writer) int {
	store := tokenstore.NewFileStore(GetConfigDir())
	loggedIn := tokenstore.IsAuthenticated(store)

	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(map[string]interface{}{
			"backend":    GetAPIURL(),
			"logged_in":  loggedIn,
			"token_file": store.Path(),
		}))
	} else if loggedIn {
		fmt.Fprintf(w, "Logged in to %s\nSession: %s\n", GetAPIURL(), store.Path())
	} else {
		fmt.Fprintf(w, "Not logged in to %s\n", GetAPIURL())
	}

	if !loggedIn {
		return exitUnauthenticated
	}
	return exitOK
}
