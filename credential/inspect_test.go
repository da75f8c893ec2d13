package credential

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func TestExpiresWithin(t *testing.T) {
	tests := []struct {
		name   string
		exp    time.Duration
		window time.Duration
		want   bool
	}{
		{"expiring inside window", time.Minute, 5 * time.Minute, true},
		{"expiring outside window", time.Hour, 5 * time.Minute, false},
		{"already expired", -time.Minute, 5 * time.Minute, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token := signedToken(t, jwt.MapClaims{
				"sub": "user-1",
				"exp": time.Now().Add(tt.exp).Unix(),
			})

			got, err := ExpiresWithin(token, tt.window)
			if err != nil {
				t.Fatalf("ExpiresWithin() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("ExpiresWithin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExpiresWithin_NoExpiry(t *testing.T) {
	token := signedToken(t, jwt.MapClaims{"sub": "user-1"})

	_, err := ExpiresWithin(token, time.Minute)
	if !errors.Is(err, ErrNoExpiry) {
		t.Errorf("ExpiresWithin() error = %v, want ErrNoExpiry", err)
	}
}

func TestExpiresWithin_MalformedToken(t *testing.T) {
	if _, err := ExpiresWithin("not-a-jwt", time.Minute); err == nil {
		t.Error("ExpiresWithin() on a malformed token must error")
	}
}
