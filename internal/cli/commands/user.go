package commands

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"github.com/Rsaliu/store-lib/internal/store"
	"github.com/Rsaliu/store-lib/pkg/core"
	"github.com/spf13/cobra"
)

var users = entity{
	name:   "user",
	plural: "users",
	hidden: []string{"password_hash"},
	open: func(cc *CommandContext) store.Store {
		return store.NewUserStore(cc.Hasher(), cc.Logger)
	},
}

// NewUserCommand creates the user command group.
func NewUserCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
		Long: `Create, inspect and modify users.

Documents are JSON objects, e.g.
  storectl user create '{"username":"alice","email":"alice@x.com","password":"secret","role":"Normal"}'
Pass - to read the document from standard input.`,
	}
	cmd.AddCommand(users.crudCommands()...)
	cmd.AddCommand(newUserImportCommand())
	cmd.AddCommand(newUserAuthenticateCommand())
	return cmd
}

func newUserAuthenticateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "authenticate <username>",
		Short: "Check a password read from standard input",
		Args:  cobra.ExactArgs(1),
		RunE: users.run(func(ctx context.Context, cc *CommandContext, s store.Store, args []string) error {
			password, err := bufio.NewReader(cc.in).ReadString('\n')
			if err != nil && password == "" {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = strings.TrimRight(password, "\r\n")

			user, err := s.(*store.UserStore).Authenticate(ctx, cc.DB, args[0], password)
			if err != nil {
				return err
			}
			return cc.Renderer.Object(core.NewDocument(
				core.F("id", user.ID.String()),
				core.F("username", user.Username),
				core.F("role", string(user.Role)),
				core.F("confirmed", user.Confirmed),
			))
		}),
	}
}
