package health

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/jonwraymond/httpguard/credential"
)

func tokenExpiringIn(t *testing.T, d time.Duration) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(d).Unix(),
	})
	signed, err := tok.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func storeWith(t *testing.T, token string) *credential.Store {
	t.Helper()
	store := credential.NewStore(credential.StoreConfig{})
	if token != "" {
		store.Set(context.Background(), token)
	}
	return store
}

func TestCredentialChecker(t *testing.T) {
	tests := []struct {
		name   string
		token  func(t *testing.T) string
		window time.Duration
		want   Status
	}{
		{
			name:  "no credential",
			token: func(t *testing.T) string { return "" },
			want:  StatusDegraded,
		},
		{
			name:   "fresh credential",
			token:  func(t *testing.T) string { return tokenExpiringIn(t, time.Hour) },
			window: 5 * time.Minute,
			want:   StatusHealthy,
		},
		{
			name:   "expiring soon",
			token:  func(t *testing.T) string { return tokenExpiringIn(t, time.Minute) },
			window: 5 * time.Minute,
			want:   StatusDegraded,
		},
		{
			name:  "expired",
			token: func(t *testing.T) string { return tokenExpiringIn(t, -time.Minute) },
			want:  StatusUnhealthy,
		},
		{
			name:  "opaque token",
			token: func(t *testing.T) string { return "not-a-jwt" },
			want:  StatusHealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storeWith(t, tt.token(t))
			checker := NewCredentialChecker(store, tt.window)

			result := checker.Check(context.Background())
			if result.Status != tt.want {
				t.Errorf("status = %v (%s), want %v", result.Status, result.Message, tt.want)
			}
		})
	}
}
