package userservice

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// passwordCost is the bcrypt work factor for admin and author credentials.
const passwordCost = 12

// hashPassword replaces the stored hash with one for pwd. The plain text is kept on the struct for the
// length of the request only; it is never persisted or serialized.
func (p *Password) hashPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), passwordCost)
	if err != nil {
		return err
	}

	p.Plain = pwd
	p.hash = hash

	return nil
}

// matches reports whether pwd is the password behind the stored hash. A wrong password is not an error.
func (p *Password) matches(pwd string) (bool, error) {
	err := bcrypt.CompareHashAndPassword(p.hash, []byte(pwd))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, err
	}
}
