package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Rsaliu/store-lib/internal/auth"
	"github.com/Rsaliu/store-lib/internal/models"
	"github.com/Rsaliu/store-lib/internal/store"
	"github.com/Rsaliu/store-lib/pkg/core"
	"github.com/Rsaliu/store-lib/pkg/query"
	"github.com/spf13/cobra"
)

var tokens = entity{
	name:   "token",
	plural: "tokens",
	open: func(cc *CommandContext) store.Store {
		return store.NewTokenStore(cc.Logger)
	},
}

// NewTokenCommand creates the token command group.
func NewTokenCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue and manage authentication tokens",
	}
	cmd.AddCommand(tokens.crudCommands()...)
	cmd.AddCommand(newTokenIssueCommand())
	cmd.AddCommand(newTokenVerifyCommand())
	cmd.AddCommand(newTokenBlacklistCommand())
	cmd.AddCommand(newTokenRevokeCommand())
	return cmd
}

func newIssuer(cc *CommandContext) (*auth.Issuer, error) {
	a := cc.Cfg.Auth
	if err := a.ValidateSigning(); err != nil {
		return nil, err
	}
	return auth.NewIssuer(auth.IssuerConfig{
		Secret:     a.JWTSecret,
		Issuer:     a.JWTIssuer,
		AccessTTL:  a.AccessTTL,
		RefreshTTL: a.RefreshTTL,
	})
}

func newTokenIssueCommand() *cobra.Command {
	var tokenType string

	cmd := &cobra.Command{
		Use:   "issue <subject>",
		Short: "Sign a new token for subject and store it",
		Args:  cobra.ExactArgs(1),
		RunE: tokens.run(func(ctx context.Context, cc *CommandContext, s store.Store, args []string) error {
			label, err := models.TokenTypes.Parse(tokenType)
			if err != nil {
				return err
			}
			issuer, err := newIssuer(cc)
			if err != nil {
				return err
			}

			signed, expires, err := issuer.Issue(args[0], models.TokenType(label))
			if err != nil {
				return err
			}
			id, err := s.Insert(ctx, cc.DB, models.NewToken(signed, models.TokenType(label)).Document())
			if err != nil {
				return err
			}

			return cc.Renderer.Object(core.NewDocument(
				core.F("id", id.String()),
				core.F("token_type", label),
				core.F("expires_at", expires.UTC().Format(query.TimestampLayout)),
				core.F("token_string", signed),
			))
		}),
	}
	cmd.Flags().StringVar(&tokenType, "type", string(models.TokenAccess), "Token type (Access|Refresh|Confirmation|PasswordReset)")
	_ = cmd.RegisterFlagCompletionFunc("type", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return models.TokenTypes.Labels(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func newTokenVerifyCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <token>",
		Short: "Check a token's signature, expiry and blacklist state",
		Args:  cobra.ExactArgs(1),
		RunE: tokens.run(func(ctx context.Context, cc *CommandContext, s store.Store, args []string) error {
			issuer, err := newIssuer(cc)
			if err != nil {
				return err
			}
			claims, err := issuer.Verify(args[0])
			if err != nil {
				return err
			}

			docs, err := s.GetBySlug(ctx, cc.DB, core.NewDocument(core.F("token_string", args[0])))
			if err != nil {
				return err
			}
			if len(docs) == 0 {
				return &core.NotFoundError{Entity: "token", Key: claims.ID}
			}
			stored, err := models.TokenFromDocument(docs[0])
			if err != nil {
				return err
			}
			if stored.Blacklisted {
				return errors.New("token is blacklisted")
			}

			return cc.Renderer.Object(core.NewDocument(
				core.F("id", stored.ID.String()),
				core.F("subject", claims.Subject),
				core.F("token_type", string(claims.Type)),
				core.F("expires_at", claims.ExpiresAt.UTC().Format(query.TimestampLayout)),
				core.F("valid_for", time.Until(claims.ExpiresAt.Time).Round(time.Second).String()),
			))
		}),
	}
}

func newTokenBlacklistCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "blacklist <id>",
		Short: "Mark a token as blacklisted",
		Args:  cobra.ExactArgs(1),
		RunE: tokens.run(func(ctx context.Context, cc *CommandContext, s store.Store, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := s.(*store.TokenStore).Blacklist(ctx, cc.DB, id); err != nil {
				return err
			}
			return printResult(cc, "blacklisted", id.String())
		}),
	}
}

func newTokenRevokeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <token>",
		Short: "Delete a token by its token string",
		Args:  cobra.ExactArgs(1),
		RunE: tokens.run(func(ctx context.Context, cc *CommandContext, s store.Store, args []string) error {
			if err := s.(*store.TokenStore).DeleteByToken(ctx, cc.DB, args[0]); err != nil {
				return fmt.Errorf("failed to revoke token: %w", err)
			}
			return printResult(cc, "revoked", true)
		}),
	}
}
