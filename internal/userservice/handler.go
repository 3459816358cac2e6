package userservice

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sushihentaime/inkwell/internal/common"
)

var (
	ErrAuthenticationFailure = fmt.Errorf("unauthorized access")
)

func NewUserService(db *sql.DB, c *common.Cache) *UserService {
	return &UserService{
		m: newUserModel(db),
		c: c,
	}
}

// CreateUser creates a new account. Only the admin bootstrap and tests create accounts; there is no signup route.
func (s *UserService) CreateUser(ctx context.Context, username, email, password string, isAdmin bool) (*User, error) {
	v := common.NewValidator()
	validateUsername(v, username)
	validateEmail(v, email)
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	u := User{
		Username: username,
		Email:    email,
		IsAdmin:  isAdmin,
	}

	err := u.Password.hashPassword(password)
	if err != nil {
		return nil, err
	}

	err = s.m.insertUser(ctx, &u)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// EnsureAdmin makes sure the configured admin account exists, is an admin and accepts the configured password.
// Running it again with the same values changes nothing.
func (s *UserService) EnsureAdmin(ctx context.Context, username, email, password string) (*User, error) {
	u, err := s.m.getUserByUsername(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			return s.CreateUser(ctx, username, email, password, true)
		default:
			return nil, err
		}
	}

	ok, err := u.Password.matches(password)
	if err != nil {
		return nil, err
	}

	if ok && u.IsAdmin {
		return u, nil
	}

	v := common.NewValidator()
	validatePassword(v, password)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	if err := u.Password.hashPassword(password); err != nil {
		return nil, err
	}

	if err := s.m.promoteUser(ctx, u); err != nil {
		return nil, err
	}

	return u, nil
}

// LoginUser checks the credentials and issues a new access token.
func (s *UserService) LoginUser(ctx context.Context, username, password string) (*AuthToken, *User, error) {
	v := common.NewValidator()
	validateCredentials(v, username, password)
	if !v.Valid() {
		return nil, nil, v.ValidationError()
	}

	user, err := s.m.getUserByUsername(ctx, username)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrRecordNotFound):
			return nil, nil, ErrAuthenticationFailure
		default:
			return nil, nil, err
		}
	}

	ok, err := user.Password.matches(password)
	if err != nil {
		return nil, nil, err
	}

	if !ok {
		return nil, nil, ErrAuthenticationFailure
	}

	if err := s.m.deleteExpiredTokens(ctx, user.ID); err != nil {
		return nil, nil, err
	}

	token, err := s.m.createAuthToken(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}

	return token, user, nil
}

// GetUserByAccessToken resolves a bearer token to its user. Lookups are cached by token hash, never past the
// token's expiry.
func (s *UserService) GetUserByAccessToken(ctx context.Context, token string) (*User, error) {
	v := common.NewValidator()
	ValidateToken(v, token)
	if !v.Valid() {
		return nil, v.ValidationError()
	}

	hash := hashToken(token)
	key := common.CacheKeyUserByAccessToken(hash)

	if s.c != nil {
		if cached, found := s.c.Get(key); found {
			if u, ok := cached.(*User); ok {
				return u, nil
			}
		}
	}

	u, expiry, err := s.m.getUserByToken(ctx, hash)
	if err != nil {
		return nil, err
	}

	if ttl := userCacheTTL(expiry); s.c != nil && ttl > 0 {
		s.c.Set(key, u, ttl)
	}

	return u, nil
}

// LogoutUser revokes a single access token.
func (s *UserService) LogoutUser(ctx context.Context, token string) error {
	v := common.NewValidator()
	ValidateToken(v, token)
	if !v.Valid() {
		return v.ValidationError()
	}

	hash := hashToken(token)

	if s.c != nil {
		s.c.Delete(common.CacheKeyUserByAccessToken(hash))
	}

	return s.m.deleteAuthToken(ctx, hash)
}

func (u *User) IsAnonymous() bool {
	return u == &AnonymousUser
}
