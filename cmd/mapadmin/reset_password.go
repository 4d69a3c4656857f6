package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mikepea/mapadmin/pkg/mapadmin/mail"
	"github.com/mikepea/mapadmin/pkg/mapadmin/service"
	"github.com/mikepea/mapadmin/pkg/mapadmin/store"
)

// resetPasswordCmd represents the reset-password command
var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <user-id>",
	Short: "Set a random password for a user and mail it",
	Long: `Set a new random password for the user with the given id and mail it to
the user's address. Nothing is changed if the mail cannot be delivered.

Example:
  mapadmin reset-password 42`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, db, err := setup()
		if err != nil {
			return err
		}
		sender, err := mail.NewSender(cfg.Mail, logger)
		if err != nil {
			return err
		}

		svc := service.New(store.New(db), sender, cfg.Defaults, cfg.Mail.Product, logger)
		if err := svc.ResetPassword(context.Background(), args[0]); err != nil {
			return fmt.Errorf("failed to reset password for user %s: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Password of user %s reset, the new password has been mailed\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resetPasswordCmd)
}
