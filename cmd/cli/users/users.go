package users

import (
	"fmt"

	"github.com/crucial707/fileserve/cmd/cli/client"
	"github.com/crucial707/fileserve/cmd/cli/output"
	"github.com/crucial707/fileserve/cmd/cli/root"
	"github.com/spf13/cobra"
)

// ==========================
// CLI Command Init
// ==========================
func init() {
	usersCmd := &cobra.Command{
		Use:   "users",
		Short: "Manage users",
		Long:  "List, create, and delete users on the File Serve API. Requires a prior login.",
	}

	usersCmd.AddCommand(listCmd(), createCmd(), deleteCmd())
	root.GetRoot().AddCommand(usersCmd)
}

type user struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}

// ==========================
// List Users
// ==========================
func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all users",
		RunE: func(cmd *cobra.Command, args []string) error {
			var users []user
			if err := client.Do("GET", "/users", nil, "", &users); err != nil {
				return err
			}

			rows := make([][]interface{}, 0, len(users))
			for _, u := range users {
				rows = append(rows, []interface{}{u.ID, u.Username})
			}
			output.RenderTable([]string{"ID", "Username"}, rows)
			return nil
		},
	}
}

// ==========================
// Create User
// ==========================
func createCmd() *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" || password == "" {
				return fmt.Errorf("--username and --password are required")
			}

			var created user
			if err := client.DoJSON("POST", "/users", map[string]string{
				"username": username,
				"password": password,
			}, &created); err != nil {
				return err
			}

			fmt.Printf("Created user %q with id %d\n", created.Username, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Username for the new user")
	cmd.Flags().StringVar(&password, "password", "", "Password for the new user")
	return cmd
}

// ==========================
// Delete User
// ==========================
func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user by id",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Do("DELETE", "/users/"+args[0], nil, "", nil); err != nil {
				return err
			}
			fmt.Println("User deleted.")
			return nil
		},
	}
}
