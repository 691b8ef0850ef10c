package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/config"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/database/users"
	"github.com/mrlokans/bookshelf/internal/entities"
)

// CreateUserCommand adds an account directly to the database, which is the
// only way to obtain the first administrator.
type CreateUserCommand struct {
	Email       string
	Password    string
	DisplayName string
	Admin       bool
}

func newCreateUserCommand() *cobra.Command {
	opts := &CreateUserCommand{}

	cmd := &cobra.Command{
		Use:   "create-user --email <email> --password <password>",
		Short: "Create a user account",
		Long: `Create a user account with a bcrypt-hashed password.

Examples:
  bookshelf create-user --email admin@example.com --password 's3cret-pass' --admin
  bookshelf create-user --email reader@example.com --password 'reader-pass' --display-name Reader`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.NewConfig()
			return opts.Run(cmd.OutOrStdout(), cfg.Database, cfg.Auth)
		},
	}

	cmd.Flags().StringVar(&opts.Email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&opts.Password, "password", "", "Password, at least 8 characters (required)")
	cmd.Flags().StringVar(&opts.DisplayName, "display-name", "", "Display name (defaults to the email local part)")
	cmd.Flags().BoolVar(&opts.Admin, "admin", false, "Grant the ADMIN role")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func (c *CreateUserCommand) Run(out io.Writer, dbCfg config.Database, authCfg config.Auth) error {
	db, err := database.NewDatabase(dbCfg)
	if err != nil {
		return err
	}
	defer db.Close()

	service, err := auth.NewService(users.NewRepository(db.DB), authCfg)
	if err != nil {
		return err
	}

	role := entities.UserRoleUser
	if c.Admin {
		role = entities.UserRoleAdmin
	}

	user, err := service.CreateUser(c.Email, c.Password, c.DisplayName, role)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(out, "Created %s user %d (%s)\n", user.Role, user.ID, user.Email)
	return nil
}
