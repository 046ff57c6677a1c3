package cli

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/funrun/internal/server/mailer"
	"github.com/dmitrijs2005/funrun/internal/server/services"
	"github.com/spf13/cobra"
)

func newUserCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage accounts",
	}
	cmd.AddCommand(newUserCreateCmd(opts))
	return cmd
}

func newUserCreateCmd(opts *globalOptions) *cobra.Command {
	var name, email, role, phone string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account, prompting for its password",
		Args:  cobra.NoArgs,
		RunE: opts.run(func(ctx context.Context, cmd *cobra.Command, e *env, _ []string) error {
			password, err := getPassword(cmd.InOrStdin(), cmd.OutOrStdout())
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}

			as := services.NewAuthService(e.db, e.repos, mailer.NewLogMailer(e.log), e.log, e.cfg)

			var ph *string
			if phone != "" {
				ph = &phone
			}
			u, err := as.RegisterUser(ctx, services.Registration{
				Name:        name,
				Email:       email,
				Password:    password,
				Role:        role,
				PhoneNumber: ph,
			})
			if err != nil {
				return err
			}

			cmd.Printf("Created user %s (%s, %s)\n", u.ID, u.Email, u.Role)
			return nil
		}),
	}

	cmd.Flags().StringVar(&name, "name", "", "display name")
	cmd.Flags().StringVar(&email, "email", "", "login e-mail")
	cmd.Flags().StringVar(&role, "role", "Guest", "Admin, Runner, Marshal or Guest")
	cmd.Flags().StringVar(&phone, "phone", "", "phone number")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}
