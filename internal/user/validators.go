package user

import (
	"context"

	"github.com/timster/go-api/internal/validate"
)

const (
	usernameMaxLength = 30
	emailMaxLength    = 250
	apiKeyMaxLength   = 250
	passwordMinLength = 6
)

// baseFields is the full declared field set for user validation. Validator
// constructors restrict it with Only/Exclude and append path-specific rules
// instead of redefining fields.
func baseFields(store Store) []validate.Field[User] {
	selfID := func(u *User) int64 { return u.ID }

	return []validate.Field[User]{
		{
			Name: "username",
			Rules: []validate.Rule[User]{
				validate.RequiredUnlessSet(func(u *User) string { return u.Username }),
				validate.MaxLength[User](usernameMaxLength),
				validate.Unique(store.UsernameOwner, selfID),
			},
			Apply: func(u *User, value any) { u.Username = stringValue(value) },
		},
		{
			Name: "email",
			Rules: []validate.Rule[User]{
				validate.RequiredUnlessSet(func(u *User) string { return u.Email }),
				validate.MaxLength[User](emailMaxLength),
				validate.Email[User](),
				validate.Unique(store.EmailOwner, selfID),
			},
			Apply: func(u *User, value any) { u.Email = stringValue(value) },
		},
		{
			Name: "password",
			Rules: []validate.Rule[User]{
				validate.MinLength[User](passwordMinLength),
			},
			// Setting an empty password is a no-op
			Apply: func(u *User, value any) { u.SetPassword(stringValue(value)) },
		},
		{
			Name: "api_key",
			Rules: []validate.Rule[User]{
				validate.MaxLength[User](apiKeyMaxLength),
				validate.Unique(store.APIKeyOwner, selfID),
			},
			Apply: func(u *User, value any) {
				if s := stringValue(value); s != "" {
					u.APIKey = s
				}
			},
		},
		{
			Name: "is_admin",
			Apply: func(u *User, value any) {
				if b, ok := value.(bool); ok {
					u.IsAdmin = b
				}
			},
		},
	}
}

// NewCreateValidator governs the open registration path. The password is
// mandatory here, and is_admin is not governed at all: the only way to mint
// an admin is the out-of-band administrative path.
func NewCreateValidator(store Store, target *User) *validate.Validator[User] {
	return validate.New(target, baseFields(store), store.Save).
		Only("username", "email", "password").
		AddRule("password", validate.Required[User]())
}

// NewProfileValidator governs self-service profile mutation. Every change
// requires confirming the current password against the pre-update state of
// the instance; a transient instance has nothing to confirm against, so the
// check is skipped for it.
func NewProfileValidator(store Store, target *User) *validate.Validator[User] {
	fields := append(baseFields(store), validate.Field[User]{
		Name: "current_password",
		Rules: []validate.Rule[User]{
			validate.Required[User](),
			validate.Custom(func(ctx context.Context, u *User, value any, present bool) string {
				if u.ID == 0 {
					return ""
				}
				if !u.CheckPassword(stringValue(value)) {
					return "does not match"
				}
				return ""
			}),
		},
	})

	return validate.New(target, fields, store.Save).
		Only("username", "email", "password", "current_password")
}

// NewAdminValidator governs the admin surface. Admins may set every declared
// field, including is_admin and the API key.
func NewAdminValidator(store Store, target *User) *validate.Validator[User] {
	return validate.New(target, baseFields(store), store.Save).
		Exclude("password_hash")
}

func stringValue(value any) string {
	s, _ := value.(string)
	return s
}
