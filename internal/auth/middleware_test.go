package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/skillswap-api/internal/user"
)

type fakeTokenService struct {
	claims *TokenClaims
	err    error
}

func (f *fakeTokenService) IssueToken(userID uuid.UUID, email string) (string, error) {
	return "issued-token", nil
}

func (f *fakeTokenService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

type fakeUserDirectory struct {
	users map[string]*user.User
}

func (f *fakeUserDirectory) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, user.ErrNotFound
}

func (f *fakeUserDirectory) GetOrCreate(ctx context.Context, email, hint string) (*user.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	u := &user.User{ID: uuid.New(), Email: email, DisplayName: hint}
	f.users[email] = u
	return u, nil
}

func validClaims(email string) *TokenClaims {
	return &TokenClaims{
		UserID:    uuid.New(),
		Email:     email,
		IssuedAt:  time.Now(),
		ExpiresAt: time.Now().Add(SessionTokenDuration),
	}
}

func gateTestHandler(t *testing.T, wantEmail string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, ok := GetUserFromContext(r.Context())
		require.True(t, ok, "gate should inject the resolved user")
		assert.Equal(t, wantEmail, u.Email)
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_OptionsShortCircuit(t *testing.T) {
	m := NewMiddleware(&fakeTokenService{err: ErrInvalidToken}, &fakeUserDirectory{})

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("preflight must not reach the handler")
	})

	req := httptest.NewRequest(http.MethodOptions, "/skills", nil)
	rec := httptest.NewRecorder()
	m.RequireAuth(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestRequireAuth_MissingToken(t *testing.T) {
	m := NewMiddleware(&fakeTokenService{claims: validClaims("a@b.c")}, &fakeUserDirectory{})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	m.RequireAuth(gateTestHandler(t, "a@b.c")).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing token")
}

func TestRequireAuth_MalformedHeader(t *testing.T) {
	m := NewMiddleware(&fakeTokenService{claims: validClaims("a@b.c")}, &fakeUserDirectory{})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token abc")
	rec := httptest.NewRecorder()
	m.RequireAuth(gateTestHandler(t, "a@b.c")).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuth_InvalidToken(t *testing.T) {
	m := NewMiddleware(&fakeTokenService{err: ErrInvalidToken}, &fakeUserDirectory{})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	rec := httptest.NewRecorder()
	m.RequireAuth(gateTestHandler(t, "a@b.c")).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "invalid token", body["error"])
}

func TestRequireAuth_ExpiredToken(t *testing.T) {
	m := NewMiddleware(&fakeTokenService{err: ErrExpiredToken}, &fakeUserDirectory{})

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	rec := httptest.NewRecorder()
	m.RequireAuth(gateTestHandler(t, "a@b.c")).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "expired")
}

func TestRequireAuth_UnknownUser(t *testing.T) {
	// Valid signature, but the embedded email no longer resolves to a user.
	m := NewMiddleware(
		&fakeTokenService{claims: validClaims("gone@example.com")},
		&fakeUserDirectory{users: map[string]*user.User{}},
	)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	rec := httptest.NewRecorder()
	m.RequireAuth(gateTestHandler(t, "gone@example.com")).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "user not found")
}

func TestRequireAuth_Success(t *testing.T) {
	alice := &user.User{ID: uuid.New(), Email: "alice@example.com", DisplayName: "Alice"}
	m := NewMiddleware(
		&fakeTokenService{claims: validClaims("alice@example.com")},
		&fakeUserDirectory{users: map[string]*user.User{"alice@example.com": alice}},
	)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	rec := httptest.NewRecorder()
	m.RequireAuth(gateTestHandler(t, "alice@example.com")).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
