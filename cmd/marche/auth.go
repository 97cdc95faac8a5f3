package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"marche/models"
)

var loginCmd = &cobra.Command{
	Use:   "login EMAIL",
	Short: "Log in and persist the session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			return fmt.Errorf("--password is required")
		}

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		if err := a.auth.Login(cmd.Context(), args[0], password); err != nil {
			return err
		}

		user := a.auth.CurrentUser()
		fmt.Printf("Logged in as %s (%s)\n", user.FullName(), user.Role)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out and clear the persisted session",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		a.auth.Logout()
		fmt.Println("Logged out")
		return nil
	},
}

var registerCmd = &cobra.Command{
	Use:   "register EMAIL",
	Short: "Create an account and log into it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		password, _ := cmd.Flags().GetString("password")
		if password == "" {
			return fmt.Errorf("--password is required")
		}
		first, _ := cmd.Flags().GetString("first-name")
		last, _ := cmd.Flags().GetString("last-name")
		phone, _ := cmd.Flags().GetString("phone")
		role, _ := cmd.Flags().GetString("role")

		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		input := models.RegisterInput{
			Email:     args[0],
			Password:  password,
			FirstName: first,
			LastName:  last,
			Phone:     phone,
			Role:      role,
		}
		if err := a.auth.Register(cmd.Context(), input); err != nil {
			return err
		}

		user := a.auth.CurrentUser()
		fmt.Printf("Registered and logged in as %s (%s)\n", user.FullName(), user.Role)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd.Context())
		if err != nil {
			return err
		}
		user := a.auth.CurrentUser()
		if user == nil {
			fmt.Println("Not logged in")
			return nil
		}
		fmt.Printf("%s <%s> role=%s\n", user.FullName(), user.Email, user.Role)
		return nil
	},
}

func init() {
	loginCmd.Flags().String("password", "", "account password")
	registerCmd.Flags().String("password", "", "account password")
	registerCmd.Flags().String("first-name", "", "first name")
	registerCmd.Flags().String("last-name", "", "last name")
	registerCmd.Flags().String("phone", "", "phone number")
	registerCmd.Flags().String("role", models.RoleCustomer, "account role (customer or vendor)")
}
