package user

import (
	"fmt"

	"github.com/timster/go-api/internal/resource"
)

// Schema declares the serialized shape of a user. password_hash is
// deliberately unreachable here, so it can never appear in any projection.
func Schema() resource.Schema[User] {
	return resource.Schema[User]{
		PublicFields:  []string{"username", "email", "api_key", "is_admin"},
		PrivateFields: []string{"created_at", "updated_at"},
		ID:            func(u *User) any { return u.ID },
		Get: func(u *User, field string) any {
			switch field {
			case "username":
				return u.Username
			case "email":
				return u.Email
			case "api_key":
				return u.APIKey
			case "is_admin":
				return u.IsAdmin
			case "created_at":
				return u.CreatedAt
			case "updated_at":
				return u.UpdatedAt
			}
			panic(fmt.Sprintf("user: field %q is not serializable", field))
		},
	}
}
