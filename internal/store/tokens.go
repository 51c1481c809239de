package store

import (
	"context"
	"log/slog"

	"github.com/Rsaliu/store-lib/internal/models"
	"github.com/Rsaliu/store-lib/pkg/core"
	"github.com/Rsaliu/store-lib/pkg/schema"
	"github.com/google/uuid"
)

// Tokens is the column registry of the tokens table.
var Tokens = schema.MustRegistry("tokens",
	schema.ID("id").AsManaged(),
	schema.String("token_string"),
	schema.Enum("token_type", models.TokenTypes),
	schema.Bool("blacklisted"),
	schema.Time("created_at").AsManaged(),
	schema.Time("updated_at").AsManaged(),
).
	WithUnique("tokens_token_string_key", "token_string")

var _ Store = (*TokenStore)(nil)

// TokenStore stores issued tokens.
type TokenStore struct {
	*EntityStore
}

// NewTokenStore creates a token store.
func NewTokenStore(logger *slog.Logger) *TokenStore {
	return &TokenStore{EntityStore: NewEntityStore(Tokens, tokenCodec{}, logger)}
}

// DeleteByToken removes the token with the given token string. Deleting an
// unknown token is not an error.
func (s *TokenStore) DeleteByToken(ctx context.Context, q Querier, tokenString string) error {
	return s.DeleteWhere(ctx, q, core.NewDocument(core.F("token_string", tokenString)))
}

// Blacklist marks the token with the given id as blacklisted.
func (s *TokenStore) Blacklist(ctx context.Context, q Querier, id uuid.UUID) error {
	return s.Patch(ctx, q, id, core.NewDocument(core.F("blacklisted", true)))
}

type tokenCodec struct{}

func (tokenCodec) Entity() string { return "token" }

func (tokenCodec) Columns(doc *core.Document, _ bool) (*core.Document, error) {
	t, err := models.TokenInput(doc)
	if err != nil {
		return nil, err
	}
	return core.NewDocument(
		core.F("token_string", t.TokenString),
		core.F("token_type", string(t.Type)),
		core.F("blacklisted", t.Blacklisted),
	), nil
}
