// Package secrets manages the single API credential the assistant needs,
// preferring the OS keychain and degrading to an environment variable.
// Secret values never appear in logs; status reporting is boolean-only.
package secrets

import (
	"errors"
	"log/slog"
	"os"

	"github.com/zalando/go-keyring"
)

const (
	// service and account form the fixed keychain slot. There is exactly
	// one credential; no per-account namespacing.
	service = "execguard"
	account = "anthropic-api-key"

	// EnvFallback is consulted when the keychain is unavailable or empty.
	EnvFallback = "ANTHROPIC_API_KEY"
)

// Backend abstracts the OS credential store so tests can substitute a
// fake. The real implementation delegates to go-keyring.
type Backend interface {
	Set(service, account, secret string) error
	Get(service, account string) (string, error)
	Delete(service, account string) error
}

type keyringBackend struct{}

func (keyringBackend) Set(service, account, secret string) error {
	return keyring.Set(service, account, secret)
}

func (keyringBackend) Get(service, account string) (string, error) {
	return keyring.Get(service, account)
}

func (keyringBackend) Delete(service, account string) error {
	return keyring.Delete(service, account)
}

// Store is the credential slot. Backend availability is probed once at
// construction; a store that came up degraded stays degraded.
type Store struct {
	backend   Backend
	available bool
	logger    *slog.Logger
}

// Option customizes a Store.
type Option func(*Store)

// WithBackend substitutes the credential backend.
func WithBackend(b Backend) Option {
	return func(s *Store) { s.backend = b }
}

// New creates a Store and probes the backend. A nil logger disables
// logging.
func New(logger *slog.Logger, opts ...Option) *Store {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Store{backend: keyringBackend{}, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	s.available = s.probe()
	if !s.available {
		s.logger.Warn("keychain unavailable, falling back to environment",
			"env", EnvFallback)
	}
	return s
}

// probe checks that the keychain answers at all. A missing entry still
// proves the backend works; transport errors (no session bus, locked
// keychain) mean it does not.
func (s *Store) probe() bool {
	_, err := s.backend.Get(service, account)
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}

// BackendAvailable reports whether the keychain backend is functional.
func (s *Store) BackendAvailable() bool {
	return s.available
}

// Set stores the secret, overwriting any previous value. Returns false
// when the backend is unavailable or the write failed.
func (s *Store) Set(secret string) bool {
	if !s.available {
		s.logger.Warn("cannot store secret: keychain unavailable")
		return false
	}
	if err := s.backend.Set(service, account, secret); err != nil {
		s.logger.Warn("secret store failed", "err", err)
		return false
	}
	return true
}

// Get returns the stored secret. The keychain is consulted first; when it
// is unavailable or holds nothing, the environment fallback is read. The
// second return reports presence.
func (s *Store) Get() (string, bool) {
	if s.available {
		v, err := s.backend.Get(service, account)
		if err == nil && v != "" {
			return v, true
		}
		if err != nil && !errors.Is(err, keyring.ErrNotFound) {
			s.logger.Warn("secret read failed", "err", err)
		}
	}
	if v := os.Getenv(EnvFallback); v != "" {
		return v, true
	}
	return "", false
}

// Delete removes the stored secret. Returns false when nothing was
// deleted, including when the backend is unavailable. The environment
// fallback is the caller's to manage and is never touched.
func (s *Store) Delete() bool {
	if !s.available {
		return false
	}
	if err := s.backend.Delete(service, account); err != nil {
		if !errors.Is(err, keyring.ErrNotFound) {
			s.logger.Warn("secret delete failed", "err", err)
		}
		return false
	}
	return true
}
