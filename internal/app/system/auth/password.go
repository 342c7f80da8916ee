// internal/app/system/auth/password.go
package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is used when no cost is configured.
const DefaultBcryptCost = 10

// HashPassword returns the bcrypt hash of pw.
func HashPassword(pw string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CheckPassword reports whether pw matches hash.
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

var (
	dummyOnce sync.Once
	dummy     []byte
)

// dummyHash is compared against when no user matched, so unknown e-mails
// cost the same bcrypt work as wrong passwords.
func dummyHash() []byte {
	dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("crmhub-no-such-user"), DefaultBcryptCost)
		if err == nil {
			dummy = h
		}
	})
	return dummy
}

// MatchPassword is CheckPassword for a lookup that may have found no user.
// An empty hash runs a comparison against a dummy hash and always fails.
func MatchPassword(hash, pw string) bool {
	if hash == "" {
		_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(pw))
		return false
	}
	return CheckPassword(hash, pw)
}

// ValidCost reports whether cost is accepted by bcrypt.
func ValidCost(cost int) bool {
	return cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost
}
