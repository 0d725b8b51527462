package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/jrsteele09/go-admin-session/users"
	"github.com/spf13/cobra"
)

var usersDeliveryOnly bool

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "Manage dashboard users",
}

var usersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all users",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		list, err := listUsers(cmd)
		if err != nil {
			return err
		}
		return printUsers(list)
	},
}

var usersSetRoleCmd = &cobra.Command{
	Use:   "set-role <user-id> <role>",
	Short: "Change the role of a user",
	Long:  `Roles: Customer, "Customer Service", Delivery, Admin.`,
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		role, err := users.ParseRole(args[1])
		if err != nil {
			return err
		}
		u, err := app.api.SetUserRole(cmd.Context(), args[0], role)
		if err != nil {
			return err
		}
		fmt.Fprintf(app.out, "%s is now %s\n", u.Email, u.Role)
		return nil
	},
}

var usersDeleteCmd = &cobra.Command{
	Use:   "delete <user-id>",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.api.DeleteUser(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(app.out, "deleted user %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
	usersCmd.AddCommand(usersListCmd, usersSetRoleCmd, usersDeleteCmd)
	usersListCmd.Flags().BoolVar(&usersDeliveryOnly, "delivery", false, "Only list delivery staff")
}

func listUsers(cmd *cobra.Command) ([]*users.User, error) {
	if usersDeliveryOnly {
		return app.api.DeliveryStaff(cmd.Context())
	}
	return app.api.ListUsers(cmd.Context())
}

func printUsers(list []*users.User) error {
	w := tabwriter.NewWriter(app.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMAIL\tNAME\tROLE\tLAST LOGIN")
	for _, u := range list {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", u.ID, u.Email, u.Name, u.Role, formatTime(u.LastLogin))
	}
	return w.Flush()
}
