package auth

import (
	"fmt"
	"os"
	"syscall"

	"github.com/crucial707/fileserve/cmd/cli/client"
	"github.com/crucial707/fileserve/cmd/cli/config"
	"github.com/crucial707/fileserve/cmd/cli/root"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// ==========================
// CLI Command Init
// ==========================
func init() {
	root.GetRoot().AddCommand(loginCmd(), logoutCmd())
}

// ==========================
// Login
// ==========================
func loginCmd() *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in to the File Serve API",
		Long:  "Authenticate with the File Serve API and store a JWT token for subsequent CLI commands.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				fmt.Print("Username: ")
				fmt.Scanln(&username)
			}
			if username == "" {
				return fmt.Errorf("username is required")
			}

			password, err := readPassword()
			if err != nil {
				return err
			}

			var loginResp struct {
				Token string `json:"token"`
			}
			if err := client.DoJSON("POST", "/login", map[string]string{
				"username": username,
				"password": password,
			}, &loginResp); err != nil {
				return fmt.Errorf("failed to login: %w", err)
			}
			if loginResp.Token == "" {
				return fmt.Errorf("login succeeded but no token returned")
			}

			if err := config.SaveToken(loginResp.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			fmt.Println("Login successful. Token stored locally.")
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username to authenticate as")
	return cmd
}

// ==========================
// Logout
// ==========================
func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove the locally stored token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.ClearToken(); err != nil {
				return err
			}
			fmt.Println("Logged out.")
			return nil
		},
	}
}

// readPassword prompts without echoing when stdin is a terminal.
func readPassword() (string, error) {
	fmt.Print("Password: ")
	if term.IsTerminal(int(syscall.Stdin)) {
		b, err := term.ReadPassword(int(syscall.Stdin))
		fmt.Println()
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	var pw string
	fmt.Fscanln(os.Stdin, &pw)
	return pw, nil
}
