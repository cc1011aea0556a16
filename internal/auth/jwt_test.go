package auth

import (
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	m := NewManager("test-secret-key", time.Hour)

	token, err := m.Issue(map[string]any{"email": "a@x.com"})

	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	if token == "" {
		t.Fatalf("expected a non-empty token")
	}

	claims, err := m.Verify(token)

	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if claims.Email != "a@x.com" {
		t.Fatalf("got email %q, want %q", claims.Email, "a@x.com")
	}
}

func TestIssueCarriesArbitraryPayload(t *testing.T) {
	m := NewManager("test-secret-key", time.Hour)

	// extra claim fields are signed through untouched and simply ignored
	// on the way back out
	token, err := m.Issue(map[string]any{
		"email": "a@x.com",
		"name":  "Someone",
		"role":  "admin",
	})

	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := m.Verify(token)

	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}

	if claims.Email != "a@x.com" {
		t.Fatalf("got email %q, want %q", claims.Email, "a@x.com")
	}
}

func TestVerifyFailures(t *testing.T) {
	m := NewManager("test-secret-key", time.Hour)

	tests := []struct {
		name  string
		token func(t *testing.T) string
	}{
		{
			name: "malformed",
			token: func(t *testing.T) string {
				return "not-a-jwt"
			},
		},
		{
			name: "wrong_secret",
			token: func(t *testing.T) string {
				other := NewManager("a-different-secret", time.Hour)

				token, err := other.Issue(map[string]any{"email": "a@x.com"})
				if err != nil {
					t.Fatalf("issue failed: %v", err)
				}
				return token
			},
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				expired := NewManager("test-secret-key", -time.Minute)

				token, err := expired.Issue(map[string]any{"email": "a@x.com"})
				if err != nil {
					t.Fatalf("issue failed: %v", err)
				}
				return token
			},
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			_, err := m.Verify(tt.token(t))

			if err != ErrInvalidToken {
				t.Fatalf("got err %v, want ErrInvalidToken", err)
			}
		})
	}
}
