package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
}

var userAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a user",
	RunE:  runUserAdd,
}

var userListCmd = &cobra.Command{
	Use:   "list",
	Short: "List users",
	RunE:  runUserList,
}

var userShowCmd = &cobra.Command{
	Use:   "show [user-id]",
	Short: "Show user details",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserShow,
}

var userUpdateCmd = &cobra.Command{
	Use:   "update [user-id]",
	Short: "Update user fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserUpdate,
}

var userDeleteCmd = &cobra.Command{
	Use:   "delete [user-id]",
	Short: "Delete a user",
	Args:  cobra.ExactArgs(1),
	RunE:  runUserDelete,
}

var userCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Count users",
	RunE:  runUserCount,
}

// userFields lists the flags sent as request fields, named as on the wire.
var userFields = []string{"name", "email", "password", "role", "phone", "address"}

func init() {
	userCmd.AddCommand(userAddCmd, userListCmd, userShowCmd, userUpdateCmd, userDeleteCmd, userCountCmd)
	userCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", outputTable, "Output format (table, json, yaml)")

	for _, cmd := range []*cobra.Command{userAddCmd, userUpdateCmd} {
		cmd.Flags().String("name", "", "Full name")
		cmd.Flags().String("email", "", "Email address")
		cmd.Flags().String("password", "", "Password (8+ chars, upper, lower and digit)")
		cmd.Flags().String("role", "", "Role (admin, user, customer)")
		cmd.Flags().String("phone", "", "Phone number")
		cmd.Flags().String("address", "", "Postal address")
	}
	userAddCmd.MarkFlagRequired("name")
	userAddCmd.MarkFlagRequired("email")
	userAddCmd.MarkFlagRequired("password")
}

func changedUserFields(flags *pflag.FlagSet) map[string]any {
	fields := map[string]any{}
	for _, name := range userFields {
		if f := flags.Lookup(name); f != nil && f.Changed {
			fields[name] = f.Value.String()
		}
	}
	return fields
}

func runUserAdd(cmd *cobra.Command, args []string) error {
	u, err := api.CreateUser(changedUserFields(cmd.Flags()))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if done, err := printStructured(out, outputFormat, u); done || err != nil {
		return err
	}
	fmt.Fprintf(out, "Created user: %s\n", u.ID)
	return nil
}

func runUserList(cmd *cobra.Command, args []string) error {
	users, err := api.ListUsers()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if done, err := printStructured(out, outputFormat, users); done || err != nil {
		return err
	}
	printUserTable(out, users)
	return nil
}

func runUserShow(cmd *cobra.Command, args []string) error {
	u, err := api.GetUser(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if done, err := printStructured(out, outputFormat, u); done || err != nil {
		return err
	}
	printUser(out, u)
	return nil
}

func runUserUpdate(cmd *cobra.Command, args []string) error {
	fields := changedUserFields(cmd.Flags())
	if len(fields) == 0 {
		return fmt.Errorf("nothing to update: set at least one of --name, --email, --password, --role, --phone, --address")
	}

	u, err := api.UpdateUser(args[0], fields)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if done, err := printStructured(out, outputFormat, u); done || err != nil {
		return err
	}
	fmt.Fprintf(out, "Updated user %s\n", u.ID)
	return nil
}

func runUserDelete(cmd *cobra.Command, args []string) error {
	if err := api.DeleteUser(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s\n", args[0])
	return nil
}

func runUserCount(cmd *cobra.Command, args []string) error {
	n, err := api.CountUsers()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), n)
	return nil
}
