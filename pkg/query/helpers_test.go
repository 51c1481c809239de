package query

import (
	"github.com/Rsaliu/store-lib/pkg/schema"
)

var (
	testRoles      = schema.NewEnumSet("user_roles", "Normal", "Admin")
	testTokenTypes = schema.NewEnumSet("token_type", "Access", "Refresh")
)

func usersRegistry() *schema.Registry {
	return schema.MustRegistry("users",
		schema.ID("id").AsManaged(),
		schema.String("username"),
		schema.String("email"),
		schema.String("password_hash"),
		schema.Enum("user_role", testRoles),
		schema.Bool("confirmed"),
		schema.Time("created_at").AsManaged(),
		schema.Time("updated_at").AsManaged(),
	)
}

func tokensRegistry() *schema.Registry {
	return schema.MustRegistry("tokens",
		schema.ID("id").AsManaged(),
		schema.String("token_string"),
		schema.Enum("token_type", testTokenTypes),
		schema.Bool("blacklisted"),
		schema.Time("created_at").AsManaged(),
		schema.Time("updated_at").AsManaged(),
	)
}
