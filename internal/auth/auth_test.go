package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/posrelay/internal/domain"
)

const (
	masterPassword = "master-pass"
	adminPassword  = "admin-pass"
)

func newTestService() *Service {
	return NewService(HashPassword(masterPassword), HashPassword(adminPassword), NewTokenIssuer("test-secret", time.Hour))
}

func TestHashPassword(t *testing.T) {
	// sha256("password")
	assert.Equal(t, "5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8", HashPassword("password"))
}

func TestService_ResolveRole(t *testing.T) {
	svc := newTestService()

	tests := []struct {
		name     string
		password string
		wantRole domain.Role
		wantErr  error
	}{
		{"master hash", masterPassword, domain.RoleMaster, nil},
		{"admin hash", adminPassword, domain.RoleAdmin, nil},
		{"no match", "wrong", "", domain.ErrInvalidCredentials},
		{"empty", "", "", domain.ErrPasswordRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, err := svc.ResolveRole(tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantRole, role)
		})
	}
}

func TestService_ResolveRole_EmptyHashesNeverMatch(t *testing.T) {
	svc := NewService("", "", NewTokenIssuer("s", time.Hour))
	_, err := svc.ResolveRole("anything")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestService_Login(t *testing.T) {
	svc := newTestService()

	res, err := svc.Login(context.Background(), adminPassword)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, res.Role)
	assert.NotEmpty(t, res.Token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.ExpiresAt, 5*time.Second)

	claims, err := svc.Tokens().Verify(res.Token)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, claims.Role)

	_, err = svc.Login(context.Background(), "nope")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestTokenIssuer_Verify(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", time.Hour)
	tok, _, err := issuer.Issue(domain.RoleMaster)
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		claims, err := issuer.Verify(tok)
		require.NoError(t, err)
		assert.Equal(t, domain.RoleMaster, claims.Role)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := NewTokenIssuer("secret-b", time.Hour).Verify(tok)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := issuer.Verify("not.a.token")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := issuer.Verify("")
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("expired", func(t *testing.T) {
		later := NewTokenIssuer("secret-a", time.Hour)
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.Verify(tok)
		assert.ErrorIs(t, err, domain.ErrTokenExpired)
	})
}

func TestTokenFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/ws?token=from-query", nil)
	assert.Equal(t, "from-query", TokenFromRequest(r))

	r.Header.Set("Authorization", "Bearer from-header")
	assert.Equal(t, "from-header", TokenFromRequest(r))

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, TokenFromRequest(r))
}

type countingRecorder struct{ n int }

func (c *countingRecorder) RecordFailedAuth(string) { c.n++ }

func TestRequireRole(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	masterTok, _, _ := issuer.Issue(domain.RoleMaster)
	adminTok, _, _ := issuer.Issue(domain.RoleAdmin)
	recorder := &countingRecorder{}

	var seen *Claims
	h := RequireRole(issuer, recorder, domain.RoleMaster)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = ClaimsFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/config", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, do("").Code)
	assert.Equal(t, 1, recorder.n)

	rec := do(adminTok)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.JSONEq(t, `{"error":"role not allowed"}`, rec.Body.String())

	assert.Equal(t, http.StatusNoContent, do(masterTok).Code)
	require.NotNil(t, seen)
	assert.Equal(t, domain.RoleMaster, seen.Role)
}
