package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestMatchPassword(t *testing.T) {
	hash, err := HashPassword("s3cret-pass", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	tests := []struct {
		name string
		hash string
		pw   string
		want bool
	}{
		{"correct password", hash, "s3cret-pass", true},
		{"wrong password", hash, "nope", false},
		{"no user", "", "s3cret-pass", false},
		{"no user empty password", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchPassword(tt.hash, tt.pw); got != tt.want {
				t.Errorf("MatchPassword: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDummyHash_UsesDefaultCost(t *testing.T) {
	h := dummyHash()
	if len(h) == 0 {
		t.Fatal("dummy hash was not generated")
	}
	cost, err := bcrypt.Cost(h)
	if err != nil {
		t.Fatalf("bcrypt.Cost: %v", err)
	}
	if cost != DefaultBcryptCost {
		t.Errorf("cost: got %d, want %d", cost, DefaultBcryptCost)
	}
}
