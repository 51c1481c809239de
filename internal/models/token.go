package models

import (
	"time"

	"github.com/Rsaliu/store-lib/pkg/core"
	"github.com/Rsaliu/store-lib/pkg/schema"
	"github.com/google/uuid"
)

// TokenType is the purpose of an issued token.
type TokenType string

// Token types. The labels match the token_type database enum.
const (
	TokenAccess        TokenType = "Access"
	TokenRefresh       TokenType = "Refresh"
	TokenConfirmation  TokenType = "Confirmation"
	TokenPasswordReset TokenType = "PasswordReset"
)

// TokenTypes is the label set of the token_type enum.
var TokenTypes = schema.NewEnumSet("token_type",
	string(TokenAccess),
	string(TokenRefresh),
	string(TokenConfirmation),
	string(TokenPasswordReset),
)

// Token is an issued authentication token.
type Token struct {
	ID          uuid.UUID `mapstructure:"id"`
	TokenString string    `mapstructure:"token_string"`
	Type        TokenType `mapstructure:"token_type"`
	Blacklisted bool      `mapstructure:"blacklisted"`
	CreatedAt   time.Time `mapstructure:"created_at"`
	UpdatedAt   time.Time `mapstructure:"updated_at"`
}

// NewToken creates a token that is not blacklisted.
func NewToken(tokenString string, typ TokenType) *Token {
	return &Token{TokenString: tokenString, Type: typ}
}

// Document returns the insert document of t.
func (t *Token) Document() *core.Document {
	return core.NewDocument(
		core.F("token_string", t.TokenString),
		core.F("token_type", string(t.Type)),
		core.F("blacklisted", t.Blacklisted),
	)
}

// TokenFromDocument converts a stored token document into a Token.
func TokenFromDocument(doc *core.Document) (*Token, error) {
	var t Token
	if err := decode("token", doc, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// TokenInput converts an insert or update document into a validated Token.
func TokenInput(doc *core.Document) (*Token, error) {
	in := withoutServerFields(doc)
	var t Token
	if err := decode("token", in, &t); err != nil {
		return nil, err
	}
	if err := requireString("token", "token_string", t.TokenString); err != nil {
		return nil, err
	}
	if err := requirePresent("token", "token_type", in); err != nil {
		return nil, err
	}
	if !TokenTypes.Contains(string(t.Type)) {
		return nil, &core.ValidationError{Entity: "token", Field: "token_type", Reason: "unknown type " + string(t.Type)}
	}
	return &t, nil
}
