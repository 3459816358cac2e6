package userservice

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"database/sql"
	"encoding/base32"
	"errors"
	"time"

	"github.com/sushihentaime/inkwell/internal/common"
)

func hashToken(token string) []byte {
	hash := sha256.Sum256([]byte(token))
	return hash[:]
}

func newAuthToken(userID int, ttl time.Duration) (*AuthToken, error) {
	randomBytes := make([]byte, 16)
	_, err := rand.Read(randomBytes)
	if err != nil {
		return nil, err
	}

	token := &AuthToken{
		AccessTokenPlain:  base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(randomBytes),
		UserID:            userID,
		AccessTokenExpiry: time.Now().Add(ttl).Truncate(time.Second),
	}

	token.AccessTokenHash = hashToken(token.AccessTokenPlain)

	return token, nil
}

func (m *DBModel) createAuthToken(ctx context.Context, userID int) (*AuthToken, error) {
	token, err := newAuthToken(userID, AccessTokenTime)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO auth_tokens (access_token, user_id, access_token_expiry)
		VALUES ($1, $2, $3)`

	_, err = m.db.ExecContext(ctx, query, token.AccessTokenHash, token.UserID, token.AccessTokenExpiry)
	if err != nil {
		return nil, err
	}

	return token, nil
}

// getUserByToken returns the owner of an unexpired token along with the token's expiry.
func (m *DBModel) getUserByToken(ctx context.Context, hash []byte) (*User, time.Time, error) {
	var u User
	var expiry time.Time

	query := `
		SELECT u.id, u.username, u.email, u.is_admin, u.created_at, u.updated_at, u.version, t.access_token_expiry
		FROM users u
		INNER JOIN auth_tokens t ON u.id = t.user_id
		WHERE t.access_token = $1 AND t.access_token_expiry > $2`

	err := m.db.QueryRowContext(ctx, query, hash, time.Now()).Scan(&u.ID, &u.Username, &u.Email, &u.IsAdmin, &u.CreatedAt, &u.UpdatedAt, &u.Version, &expiry)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, time.Time{}, common.ErrRecordNotFound
		default:
			return nil, time.Time{}, err
		}
	}

	return &u, expiry, nil
}

// userCacheTTL caps the cache lifetime of a token lookup at the token's remaining validity.
func userCacheTTL(expiry time.Time) time.Duration {
	return min(userCacheTime, time.Until(expiry))
}

func (m *DBModel) deleteAuthToken(ctx context.Context, hash []byte) error {
	query := `
		DELETE FROM auth_tokens
		WHERE access_token = $1`

	res, err := m.db.ExecContext(ctx, query, hash)
	if err != nil {
		return err
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return common.ErrRecordNotFound
	}

	return nil
}

// deleteExpiredTokens removes the expired tokens of one user. Called at login so stale rows do not pile up.
func (m *DBModel) deleteExpiredTokens(ctx context.Context, userID int) error {
	query := `
		DELETE FROM auth_tokens
		WHERE user_id = $1 AND access_token_expiry <= $2`

	_, err := m.db.ExecContext(ctx, query, userID, time.Now())
	return err
}
