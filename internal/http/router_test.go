package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillswap/skillswap-api/internal/auth"
	"github.com/skillswap/skillswap-api/internal/config"
	"github.com/skillswap/skillswap-api/internal/identity"
	"github.com/skillswap/skillswap-api/internal/logging"
	"github.com/skillswap/skillswap-api/internal/message"
	"github.com/skillswap/skillswap-api/internal/metrics"
	"github.com/skillswap/skillswap-api/internal/profile"
	"github.com/skillswap/skillswap-api/internal/schedule"
	"github.com/skillswap/skillswap-api/internal/skill"
	"github.com/skillswap/skillswap-api/internal/user"
)

type fakeVerifier struct {
	identity *identity.Identity
	err      error
}

func (f *fakeVerifier) Verify(ctx context.Context, assertion string) (*identity.Identity, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.identity, nil
}

type fakeDirectory struct {
	users map[string]*user.User
}

func (f *fakeDirectory) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, user.ErrNotFound
}

func (f *fakeDirectory) GetOrCreate(ctx context.Context, email, displayNameHint string) (*user.User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	u := &user.User{ID: uuid.New(), Email: email, DisplayName: displayNameHint}
	f.users[email] = u
	return u, nil
}

type fakeListings struct {
	listings []skill.Listing
}

func (f *fakeListings) Search(ctx context.Context, params skill.SearchParams) ([]skill.Listing, error) {
	return f.listings, nil
}

func (f *fakeListings) Create(ctx context.Context, ownerEmail string, input skill.CreateInput) (*skill.Listing, error) {
	if input.Offering == "" {
		return nil, skill.ErrOfferingRequired
	}
	if input.Wanting == "" {
		return nil, skill.ErrWantingRequired
	}
	l := skill.Listing{
		ID:          int64(len(f.listings) + 1),
		Offering:    input.Offering,
		Wanting:     input.Wanting,
		Description: input.Description,
		Category:    input.Category,
		Tags:        input.Tags,
		OwnerEmail:  ownerEmail,
		CreatedAt:   time.Now(),
	}
	f.listings = append(f.listings, l)
	return &l, nil
}

type fakeProfiles struct{}

func (fakeProfiles) GetProfileByName(ctx context.Context, name string) (*user.Profile, error) {
	return nil, user.ErrNotFound
}

func (fakeProfiles) UpdateProfile(ctx context.Context, userID uuid.UUID, update user.ProfileUpdate) error {
	return nil
}

type fakeMessages struct{}

func (fakeMessages) Send(ctx context.Context, senderEmail string, input message.SendInput) (*message.Message, error) {
	return &message.Message{ID: 1}, nil
}

func (fakeMessages) ListForUser(ctx context.Context, email string) ([]message.Message, error) {
	return nil, nil
}

type fakeSessions struct{}

func (fakeSessions) Create(ctx context.Context, requesterID, recipientID uuid.UUID, scheduledTime time.Time, note string) (*schedule.Session, error) {
	return &schedule.Session{ID: 1}, nil
}

func (fakeSessions) ListForUser(ctx context.Context, userID uuid.UUID) ([]schedule.Session, error) {
	return nil, nil
}

func (fakeSessions) UpdateStatus(ctx context.Context, id int64, status string) error {
	return nil
}

// newTestRouter wires a router with a real token service and request gate and
// in-memory stores behind the handlers.
func newTestRouter(t *testing.T) (*httptest.Server, *fakeDirectory) {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{
			Env:            "prod",
			TrustedOrigins: []string{"http://localhost:3000"},
		},
	}
	logger := logging.NewLogger(true)

	tokens, err := auth.NewPasetoService([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)

	directory := &fakeDirectory{users: map[string]*user.User{}}
	verifier := &fakeVerifier{identity: &identity.Identity{
		SubjectID:   "google-sub-1",
		Email:       "alice@example.com",
		DisplayName: "Alice",
	}}

	service := auth.NewService(verifier, directory, tokens, logger)
	gate := auth.NewMiddleware(tokens, directory)

	handlers := Handlers{
		Auth:     auth.NewHandler(service, logger),
		Skill:    skill.NewHandler(&fakeListings{}, logger),
		Profile:  profile.NewHandler(fakeProfiles{}, logger),
		Message:  message.NewHandler(fakeMessages{}, logger),
		Schedule: schedule.NewHandler(fakeSessions{}, directory, logger),
	}

	router := NewRouter(cfg, handlers, gate, logger, metrics.NewCollector())
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return srv, directory
}

func TestRouter_LoginThenProtectedFlow(t *testing.T) {
	srv, directory := newTestRouter(t)

	// Log in with an identity assertion.
	resp, err := http.Post(srv.URL+"/login", "application/json",
		bytes.NewBufferString(`{"idToken":"assertion-from-provider"}`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var login struct {
		Token string `json:"token"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&login))
	require.NotEmpty(t, login.Token)
	assert.Equal(t, "Alice", login.Name)
	assert.Equal(t, "alice@example.com", login.Email)
	assert.Contains(t, directory.users, "alice@example.com")

	// The probe endpoint accepts the session token.
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/protected", nil)
	req.Header.Set("Authorization", "Bearer "+login.Token)
	resp2, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)

	var probe struct {
		Message string `json:"message"`
		User    string `json:"user"`
	}
	require.NoError(t, json.NewDecoder(resp2.Body).Decode(&probe))
	assert.Equal(t, "authenticated", probe.Message)
	assert.Equal(t, "alice@example.com", probe.User)

	// Posting a listing with the token, then reading it back publicly.
	body := `{"offering":"Guitar","wanting":"Spanish","description":"Weekly swap","category":"Music","tags":["music"]}`
	req, _ = http.NewRequest(http.MethodPost, srv.URL+"/skills", bytes.NewBufferString(body))
	req.Header.Set("Authorization", "Bearer "+login.Token)
	req.Header.Set("Content-Type", "application/json")
	resp3, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp3.Body.Close()
	assert.Equal(t, http.StatusCreated, resp3.StatusCode)

	resp4, err := http.Get(srv.URL + "/skills")
	require.NoError(t, err)
	defer resp4.Body.Close()
	assert.Equal(t, http.StatusOK, resp4.StatusCode)

	var listings []skill.Listing
	require.NoError(t, json.NewDecoder(resp4.Body).Decode(&listings))
	require.Len(t, listings, 1)
	assert.Equal(t, "Guitar", listings[0].Offering)
	assert.Equal(t, "alice@example.com", listings[0].OwnerEmail)
}

func TestRouter_ProtectedRejectsWithoutToken(t *testing.T) {
	srv, _ := newTestRouter(t)

	for _, ep := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/protected"},
		{http.MethodPost, "/skills"},
		{http.MethodGet, "/messages"},
		{http.MethodPost, "/sessions"},
	} {
		req, _ := http.NewRequest(ep.method, srv.URL+ep.path, nil)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode,
			fmt.Sprintf("%s %s", ep.method, ep.path))
	}
}

func TestRouter_PreflightBypassesGate(t *testing.T) {
	srv, _ := newTestRouter(t)

	req, _ := http.NewRequest(http.MethodOptions, srv.URL+"/skills", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestRouter_PublicEndpoints(t *testing.T) {
	srv, _ := newTestRouter(t)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// Swagger is disabled outside development.
	resp, err = http.Get(srv.URL + "/swagger/index.html")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
