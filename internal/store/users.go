package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Rsaliu/store-lib/internal/auth"
	"github.com/Rsaliu/store-lib/internal/models"
	"github.com/Rsaliu/store-lib/pkg/core"
	"github.com/Rsaliu/store-lib/pkg/schema"
	"github.com/google/uuid"
)

// Users is the column registry of the users table.
var Users = schema.MustRegistry("users",
	schema.ID("id").AsManaged(),
	schema.String("username"),
	schema.String("email"),
	schema.String("password_hash"),
	schema.Enum("user_role", models.Roles),
	schema.Bool("confirmed"),
	schema.Time("created_at").AsManaged(),
	schema.Time("updated_at").AsManaged(),
).
	WithUnique("users_username_key", "username").
	WithUnique("users_email_key", "email")

var _ Store = (*UserStore)(nil)

// UserStore stores users. Clear-text passwords are hashed before they are
// written and never stored.
type UserStore struct {
	*EntityStore
	hasher auth.Hasher
}

// NewUserStore creates a user store hashing passwords with hasher.
func NewUserStore(hasher auth.Hasher, logger *slog.Logger) *UserStore {
	return &UserStore{
		EntityStore: NewEntityStore(Users, userCodec{hasher: hasher}, logger),
		hasher:      hasher,
	}
}

// Patch updates the supplied columns of a user. A clear-text password field
// is hashed into password_hash.
func (s *UserStore) Patch(ctx context.Context, q Querier, id uuid.UUID, changes *core.Document) error {
	if password, ok := changes.Get("password"); ok {
		clear, isString := password.(string)
		if !isString || clear == "" {
			return &core.ValidationError{Entity: "user", Field: "password", Reason: "must be a non-empty string"}
		}
		hash, err := s.hasher.Hash(clear)
		if err != nil {
			return err
		}
		changes = changes.Clone()
		changes.Delete("password")
		changes.Set("password_hash", hash)
	}
	return s.EntityStore.Patch(ctx, q, id, changes)
}

// GetByUsername returns the user with the given username, or a NotFoundError.
func (s *UserStore) GetByUsername(ctx context.Context, q Querier, username string) (*core.Document, error) {
	docs, err := s.GetBySlug(ctx, q, core.NewDocument(core.F("username", username)))
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, &core.NotFoundError{Entity: "user", Key: username}
	}
	return docs[0], nil
}

// Authenticate looks up username and checks password against the stored
// hash. A wrong password is reported as a ValidationError.
func (s *UserStore) Authenticate(ctx context.Context, q Querier, username, password string) (*models.User, error) {
	doc, err := s.GetByUsername(ctx, q, username)
	if err != nil {
		return nil, err
	}
	user, err := models.UserFromDocument(doc)
	if err != nil {
		return nil, err
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrMismatch) {
			return nil, &core.ValidationError{Entity: "user", Field: "password", Reason: "does not match"}
		}
		return nil, err
	}
	return user, nil
}

type userCodec struct {
	hasher auth.Hasher
}

func (userCodec) Entity() string { return "user" }

func (c userCodec) Columns(doc *core.Document, insert bool) (*core.Document, error) {
	u, err := models.UserInput(doc, insert)
	if err != nil {
		return nil, err
	}
	hash := u.PasswordHash
	if u.Password != "" {
		if hash, err = c.hasher.Hash(u.Password); err != nil {
			return nil, err
		}
	}
	return core.NewDocument(
		core.F("username", u.Username),
		core.F("email", u.Email),
		core.F("password_hash", hash),
		core.F("user_role", string(u.Role)),
		core.F("confirmed", u.Confirmed),
	), nil
}
