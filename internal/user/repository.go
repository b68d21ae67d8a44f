package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/uptrace/bun"

	"github.com/timster/go-api/internal/resource"
)

// Store is the persistence surface the rest of the application depends on.
// Repository is the Postgres implementation; tests substitute a memory one.
type Store interface {
	resource.Store[User]
	FindByUsername(ctx context.Context, username string) (*User, error)
	UsernameOwner(ctx context.Context, value string) (int64, error)
	EmailOwner(ctx context.Context, value string) (int64, error)
	APIKeyOwner(ctx context.Context, value string) (int64, error)
}

// Repository handles user persistence on top of Bun.
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// All returns every user in insertion order.
func (r *Repository) All(ctx context.Context) ([]*User, error) {
	var users []*User
	err := r.db.NewSelect().
		Model(&users).
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// Get retrieves a user by primary key.
func (r *Repository) Get(ctx context.Context, id int64) (*User, error) {
	u := new(User)
	err := r.db.NewSelect().
		Model(u).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, resource.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return u, nil
}

// Save inserts the user when it has no id yet, otherwise updates it.
// updated_at is refreshed on every persisted mutation. Unique constraint
// violations are mapped to *resource.DuplicateError.
func (r *Repository) Save(ctx context.Context, u *User) error {
	now := time.Now()
	u.UpdatedAt = now

	if u.ID == 0 {
		u.CreatedAt = now
		_, err := r.db.NewInsert().
			Model(u).
			Returning("id").
			Exec(ctx)
		if err != nil {
			return mapConstraintErr(err)
		}
		return nil
	}

	result, err := r.db.NewUpdate().
		Model(u).
		WherePK().
		Exec(ctx)
	if err != nil {
		return mapConstraintErr(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return resource.ErrNotFound
	}
	return nil
}

// Delete removes the user. A missing row is reported as not found.
func (r *Repository) Delete(ctx context.Context, u *User) error {
	result, err := r.db.NewDelete().
		Model(u).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return resource.ErrNotFound
	}
	return nil
}

// FindByUsername retrieves a user by username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*User, error) {
	u := new(User)
	err := r.db.NewSelect().
		Model(u).
		Where("username = ?", username).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, resource.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return u, nil
}

// UsernameOwner returns the id of the user holding the given username.
func (r *Repository) UsernameOwner(ctx context.Context, value string) (int64, error) {
	return r.owner(ctx, "username", value)
}

// EmailOwner returns the id of the user holding the given email.
func (r *Repository) EmailOwner(ctx context.Context, value string) (int64, error) {
	return r.owner(ctx, "email", value)
}

// APIKeyOwner returns the id of the user holding the given API key.
func (r *Repository) APIKeyOwner(ctx context.Context, value string) (int64, error) {
	return r.owner(ctx, "api_key", value)
}

func (r *Repository) owner(ctx context.Context, column, value string) (int64, error) {
	var id int64
	err := r.db.NewSelect().
		Model((*User)(nil)).
		Column("id").
		Where("? = ?", bun.Ident(column), value).
		Scan(ctx, &id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, resource.ErrNotFound
		}
		return 0, fmt.Errorf("failed to look up %s owner: %w", column, err)
	}
	return id, nil
}

// mapConstraintErr translates a Postgres unique violation into a
// *resource.DuplicateError attributed to the violated column. The uniqueness
// pre-check in the validator is racy against concurrent saves; this mapping
// is the authoritative backstop.
func mapConstraintErr(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		switch pqErr.Constraint {
		case "users_username_key":
			return &resource.DuplicateError{Field: "username"}
		case "users_email_key":
			return &resource.DuplicateError{Field: "email"}
		case "users_api_key_key":
			return &resource.DuplicateError{Field: "api_key"}
		}
	}
	// Fallback for drivers that do not expose the constraint name
	if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
		return &resource.DuplicateError{Field: "username"}
	}
	return fmt.Errorf("failed to save user: %w", err)
}
