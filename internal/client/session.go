package client

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// SessionState is the auth status of a Session.
type SessionState int

const (
	SessionLoading SessionState = iota
	SessionAnonymous
	SessionAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case SessionLoading:
		return "loading"
	case SessionAnonymous:
		return "anonymous"
	case SessionAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// TokenStore persists the bearer token between runs.
type TokenStore interface {
	Load() (string, error)
	Save(token string) error
	Clear() error
}

type tokenFile struct {
	BaseURL string    `yaml:"baseUrl,omitempty"`
	Token   string    `yaml:"token"`
	SavedAt time.Time `yaml:"savedAt"`
}

// FileTokenStore keeps the token in a YAML file readable only by the owner.
type FileTokenStore struct {
	Path    string
	BaseURL string
}

// DefaultTokenPath is ~/.config/feedbackctl/session.yaml.
func DefaultTokenPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "feedbackctl", "session.yaml"), nil
}

// Load returns "" when nothing has been saved yet.
func (s FileTokenStore) Load() (string, error) {
	raw, err := os.ReadFile(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read session file: %w", err)
	}
	var file tokenFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return "", fmt.Errorf("parse session file: %w", err)
	}
	return strings.TrimSpace(file.Token), nil
}

func (s FileTokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	raw, err := yaml.Marshal(tokenFile{BaseURL: s.BaseURL, Token: token, SavedAt: time.Now().UTC()})
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path, raw, 0o600)
}

func (s FileTokenStore) Clear() error {
	if err := os.Remove(s.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session file: %w", err)
	}
	return nil
}

// Session is the process-wide auth context. It starts Loading until Init
// has checked any persisted token.
type Session struct {
	client *Client
	store  TokenStore
	logger *zap.SugaredLogger

	mu    sync.RWMutex
	state SessionState
	user  User
}

func NewSession(client *Client, store TokenStore, logger *zap.SugaredLogger) *Session {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Session{client: client, store: store, logger: logger, state: SessionLoading}
}

func (s *Session) Client() *Client {
	return s.client
}

func (s *Session) State() SessionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// User returns the signed-in user; ok is false unless authenticated.
func (s *Session) User() (User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.state == SessionAuthenticated
}

// Init restores a persisted token and validates it with the service. A
// rejected token is discarded.
func (s *Session) Init(ctx context.Context) error {
	token, err := s.store.Load()
	if err != nil {
		s.setAnonymous()
		return err
	}
	if token == "" {
		s.setAnonymous()
		return nil
	}

	s.client.SetToken(token)
	user, err := s.client.Me(ctx)
	if err != nil {
		s.client.SetToken("")
		s.setAnonymous()
		if IsStatus(err, http.StatusUnauthorized) {
			s.logger.Infow("persisted session rejected")
			return s.store.Clear()
		}
		return err
	}
	s.setUser(user)
	return nil
}

// Login reports false for rejected credentials. Attempts are not limited.
func (s *Session) Login(ctx context.Context, email, password string) (bool, error) {
	result, err := s.client.Login(ctx, email, password)
	if err != nil {
		if IsStatus(err, http.StatusUnauthorized) {
			s.setAnonymous()
			return false, nil
		}
		return false, err
	}
	if err := s.store.Save(result.Token); err != nil {
		s.logger.Warnw("persist session", "error", err)
	}
	s.setUser(result.User)
	return true, nil
}

// Logout revokes the token server-side and forgets it locally.
func (s *Session) Logout(ctx context.Context) error {
	err := s.client.Logout(ctx)
	if err != nil && IsStatus(err, http.StatusUnauthorized) {
		err = nil
	}
	s.setAnonymous()
	if clearErr := s.store.Clear(); clearErr != nil {
		return errors.Join(err, clearErr)
	}
	return err
}

func (s *Session) setUser(user User) {
	s.mu.Lock()
	s.state = SessionAuthenticated
	s.user = user
	s.mu.Unlock()
}

func (s *Session) setAnonymous() {
	s.mu.Lock()
	s.state = SessionAnonymous
	s.user = User{}
	s.mu.Unlock()
}
