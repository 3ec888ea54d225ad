package repositories

import (
	"context"

	"userhub/internal/database"
	"userhub/internal/models"
)

// EmailRow is the projection returned by an email lookup.
type EmailRow struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
}

// PasswordRow is the projection returned by a credentials lookup.
type PasswordRow struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Password string `json:"-"`
}

// AccountRow is the projection used to check the account status.
type AccountRow struct {
	Idx      int64             `json:"idx"`
	Email    string            `json:"email"`
	Nickname string            `json:"nickname"`
	Status   models.UserStatus `json:"status"`
}

// ProfileRow is the public view of a user.
type ProfileRow struct {
	Idx      int64             `json:"userIdx"`
	Email    string            `json:"email"`
	Nickname string            `json:"nickname"`
	Status   models.UserStatus `json:"status"`
}

// InsertUserInfoParams holds the columns of a new user row.
type InsertUserInfoParams struct {
	Email    string
	Password string // already hashed
	Nickname string
}

// UserProvider defines the read-only lookups on users.
type UserProvider interface {
	EmailCheck(ctx context.Context, email string) ([]EmailRow, error)
	PasswordCheck(ctx context.Context, email, hashedPassword string) ([]PasswordRow, error)
	AccountCheck(ctx context.Context, email string) ([]AccountRow, error)
	// RetrieveUser returns nil, nil when no user has the given id.
	RetrieveUser(ctx context.Context, id int64) (*ProfileRow, error)
}

// UserDao defines the writes on users. They run on a connection taken from the
// pool by the caller, inside its transaction when one is open.
type UserDao interface {
	InsertUserInfo(ctx context.Context, conn database.Conn, params InsertUserInfoParams) (int64, error)
	UpdateUserInfo(ctx context.Context, conn database.Conn, id int64, nickname string) error
}
