package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"

	"ecomstore/internal/apiclient"
	"ecomstore/internal/models"
	"ecomstore/internal/storage"

	"github.com/rs/zerolog"
)

type AuthState string

const (
	AuthAnonymous     AuthState = "anonymous"
	AuthLoading       AuthState = "loading"
	AuthAuthenticated AuthState = "authenticated"
)

type AuthSnapshot struct {
	State AuthState    `json:"state"`
	User  *models.User `json:"user,omitempty"`
}

// AuthResult is what Login and Register hand back to the page. Failures
// are reported here, never as a Go error.
type AuthResult struct {
	Success bool         `json:"success"`
	User    *models.User `json:"user,omitempty"`
	Error   string       `json:"error,omitempty"`
}

type AuthListener func(ctx context.Context, snap AuthSnapshot)

// AuthStore owns the session. token and user are persisted together under
// storage.KeyToken and storage.KeyUser.
type AuthStore struct {
	api    *apiclient.Client
	store  storage.Storage
	logger zerolog.Logger

	mu        sync.RWMutex
	state     AuthState
	user      *models.User
	listeners []AuthListener
}

func NewAuthStore(api *apiclient.Client, store storage.Storage, logger zerolog.Logger) *AuthStore {
	return &AuthStore{
		api:    api,
		store:  store,
		logger: logger,
		state:  AuthLoading,
	}
}

// Subscribe registers fn for every state transition.
func (s *AuthStore) Subscribe(fn AuthListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Init restores a persisted session without contacting the server. A
// storage failure leaves the store anonymous.
func (s *AuthStore) Init(ctx context.Context) error {
	err := s.restore(ctx)
	if err != nil {
		s.transition(ctx, AuthAnonymous, nil)
	}
	return err
}

func (s *AuthStore) restore(ctx context.Context) error {
	token, hasToken, err := s.store.Get(ctx, storage.KeyToken)
	if err != nil {
		return fmt.Errorf("failed to read session token: %w", err)
	}
	rawUser, hasUser, err := s.store.Get(ctx, storage.KeyUser)
	if err != nil {
		return fmt.Errorf("failed to read session user: %w", err)
	}

	if hasToken || hasUser {
		var user models.User
		if !hasToken || token == "" || !hasUser || json.Unmarshal([]byte(rawUser), &user) != nil || user.ID == 0 {
			s.logger.Warn().Msg("Discarding unreadable persisted session")
			if err := s.clearSession(ctx); err != nil {
				return err
			}
			s.transition(ctx, AuthAnonymous, nil)
			return nil
		}
		if err := storage.RemoveAll(ctx, s.store, storage.LegacyKeys...); err != nil {
			s.logger.Warn().Err(err).Msg("Could not remove legacy session keys")
		}
		s.transition(ctx, AuthAuthenticated, &user)
		return nil
	}

	user, token, ok, err := s.readLegacy(ctx)
	if err != nil {
		return err
	}
	if !ok {
		s.transition(ctx, AuthAnonymous, nil)
		return nil
	}
	if err := s.persist(ctx, token, user); err != nil {
		return err
	}
	if err := storage.RemoveAll(ctx, s.store, storage.LegacyKeys...); err != nil {
		return fmt.Errorf("failed to remove legacy session keys: %w", err)
	}
	s.logger.Info().Int64("user_id", user.ID).Msg("Migrated legacy session")
	s.transition(ctx, AuthAuthenticated, user)
	return nil
}

// readLegacy assembles a session from the old per-field keys. Every key
// except the refresh token must be present.
func (s *AuthStore) readLegacy(ctx context.Context) (*models.User, string, bool, error) {
	values := make(map[string]string, len(storage.LegacyKeys))
	for _, key := range storage.LegacyKeys {
		v, ok, err := s.store.Get(ctx, key)
		if err != nil {
			return nil, "", false, fmt.Errorf("failed to read legacy key %s: %w", key, err)
		}
		if ok {
			values[key] = v
		}
	}

	token := values[storage.LegacyKeyAccessToken]
	id, err := strconv.ParseInt(values[storage.LegacyKeyUserID], 10, 64)
	if token == "" || err != nil || id == 0 || values[storage.LegacyKeyUserEmail] == "" || values[storage.LegacyKeyUserRole] == "" {
		if len(values) > 0 {
			s.logger.Warn().Int("keys", len(values)).Msg("Ignoring incomplete legacy session")
		}
		return nil, "", false, nil
	}
	return &models.User{
		ID:    id,
		Email: values[storage.LegacyKeyUserEmail],
		Role:  models.Role(values[storage.LegacyKeyUserRole]),
	}, token, true, nil
}

func (s *AuthStore) Login(ctx context.Context, email, password string) AuthResult {
	return s.authenticate(ctx, "/auth/login", models.LoginRequest{Email: email, Password: password}, "Login failed")
}

// Register always signs up a customer.
func (s *AuthStore) Register(ctx context.Context, name, email, password string) AuthResult {
	req := models.RegisterRequest{Name: name, Email: email, Password: password, Role: models.RoleCustomer}
	return s.authenticate(ctx, "/auth/register", req, "Registration failed")
}

func (s *AuthStore) authenticate(ctx context.Context, path string, body interface{}, fallback string) AuthResult {
	s.transition(ctx, AuthLoading, s.CurrentUser())

	var resp models.AuthResponse
	_, err := s.api.Post(ctx, path, body, &resp)
	if err == nil && resp.AccessToken == "" {
		err = fmt.Errorf("response carried no access token")
	}
	if err != nil {
		s.logger.Warn().Err(err).Str("path", path).Msg("Authentication failed")
		if clearErr := s.clearSession(ctx); clearErr != nil {
			s.logger.Error().Err(clearErr).Msg("Failed to clear session")
		}
		s.transition(ctx, AuthAnonymous, nil)
		return AuthResult{Error: apiclient.Message(err, fallback)}
	}

	user := resp.User()
	if err := s.persist(ctx, resp.AccessToken, user); err != nil {
		s.logger.Error().Err(err).Msg("Failed to persist session")
		s.transition(ctx, AuthAnonymous, nil)
		return AuthResult{Error: fallback}
	}

	s.logger.Info().Int64("user_id", user.ID).Str("role", string(user.Role)).Msg("Signed in")
	s.transition(ctx, AuthAuthenticated, user)
	return AuthResult{Success: true, User: user}
}

// Logout is safe to call repeatedly.
func (s *AuthStore) Logout(ctx context.Context) {
	if err := s.clearSession(ctx); err != nil {
		s.logger.Error().Err(err).Msg("Failed to clear session")
	}
	s.mu.RLock()
	already := s.state == AuthAnonymous
	s.mu.RUnlock()
	if already {
		return
	}
	s.logger.Info().Msg("Signed out")
	s.transition(ctx, AuthAnonymous, nil)
}

func (s *AuthStore) Snapshot() AuthSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return AuthSnapshot{State: s.state, User: copyUser(s.user)}
}

func (s *AuthStore) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == AuthAuthenticated
}

func (s *AuthStore) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copyUser(s.user)
}

func (s *AuthStore) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == AuthAuthenticated && s.user.IsAdmin()
}

func (s *AuthStore) persist(ctx context.Context, token string, user *models.User) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	if err := s.store.Set(ctx, storage.KeyToken, token); err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	if err := s.store.Set(ctx, storage.KeyUser, string(raw)); err != nil {
		_ = s.store.Remove(ctx, storage.KeyToken)
		return fmt.Errorf("failed to store user: %w", err)
	}
	return nil
}

func (s *AuthStore) clearSession(ctx context.Context) error {
	keys := append([]string{storage.KeyToken, storage.KeyUser}, storage.LegacyKeys...)
	if err := storage.RemoveAll(ctx, s.store, keys...); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}

// transition updates state and notifies listeners outside the lock.
func (s *AuthStore) transition(ctx context.Context, state AuthState, user *models.User) {
	s.mu.Lock()
	s.state = state
	s.user = copyUser(user)
	listeners := append([]AuthListener(nil), s.listeners...)
	snap := AuthSnapshot{State: state, User: copyUser(user)}
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(ctx, snap)
	}
}

func copyUser(u *models.User) *models.User {
	if u == nil {
		return nil
	}
	c := *u
	return &c
}
