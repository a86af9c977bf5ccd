package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"larder/internal/forms"
	"larder/models"
)

func newCreateUserCmd(open openDatabase) *cobra.Command {
	var form forms.SignupForm
	cmd := &cobra.Command{
		Use:   "create-user",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			form.Confirm = form.Password
			if err := forms.Validate(&form); err != nil {
				return err
			}
			database, err := open(cmd.Context())
			if err != nil {
				return err
			}
			hashed, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
			if err != nil {
				return err
			}
			user := models.User{Email: form.Email, Name: form.Name, PasswordHash: string(hashed)}
			if err := database.WithContext(cmd.Context()).Create(&user).Error; err != nil {
				return fmt.Errorf("create user %q: %w", form.Email, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %d <%s>\n", user.ID, user.Email)
			return nil
		},
	}
	cmd.Flags().StringVarP(&form.Email, "email", "e", "", "Account email (required)")
	cmd.Flags().StringVarP(&form.Name, "name", "n", "", "Display name")
	cmd.Flags().StringVarP(&form.Password, "password", "p", "", "Password, at least 8 characters (required)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
