package userservice

import (
	"database/sql"
	"time"

	"github.com/sushihentaime/inkwell/internal/common"
)

const (
	AccessTokenTime time.Duration = 7 * 24 * time.Hour

	// cached lookups never outlive this, so an expired token stops working within a minute of expiry
	userCacheTime time.Duration = time.Minute
)

var (
	AnonymousUser = User{}
)

type UserService struct {
	m *DBModel
	c *common.Cache
}

type DBModel struct {
	db *sql.DB
}

type User struct {
	ID        int       `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  Password  `json:"-"`
	IsAdmin   bool      `json:"is_admin"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

type Password struct {
	Plain string `json:"-"`
	hash  []byte `json:"-"`
}

// AuthToken is handed to the client once, at login. Only AccessTokenHash is stored.
type AuthToken struct {
	AccessTokenPlain  string    `json:"access_token"`
	AccessTokenHash   []byte    `json:"-"`
	UserID            int       `json:"-"`
	AccessTokenExpiry time.Time `json:"access_token_expiry"`
}
