package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/crowdops/internal/cryptox"
	"github.com/dmitrijs2005/crowdops/internal/logging"
	"github.com/dmitrijs2005/crowdops/internal/metrics"
	"github.com/dmitrijs2005/crowdops/internal/storage"
	"github.com/google/uuid"
)

// Slot names.
const (
	TokenSlot    = "crowdops.token"
	UserInfoSlot = "crowdops.user"
)

// UserInfo is a decoded user-profile object.
type UserInfo map[string]any

// EmptyUserInfo returns the sentinel RetrieveUserInfo yields when no profile
// is stored.
func EmptyUserInfo() UserInfo {
	return UserInfo{"userDetails": nil}
}

// Store reads and writes the encrypted session slots of one scope.
// It is safe for concurrent use when its storage backend is.
type Store struct {
	storage storage.Storage
	cipher  *cryptox.Cipher
	scope   string
	logger  logging.Logger
	metrics metrics.Recorder
}

// Option configures a Store.
type Option func(*Store)

func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.logger = l }
}

func WithMetrics(r metrics.Recorder) Option {
	return func(s *Store) { s.metrics = r }
}

// WithScope pins the scope instead of generating a fresh one. Two Stores
// with the same scope and backend see the same slots.
func WithScope(scope string) Option {
	return func(s *Store) { s.scope = scope }
}

// New returns a Store writing through c into st.
func New(st storage.Storage, c *cryptox.Cipher, opts ...Option) *Store {
	s := &Store{
		storage: st,
		cipher:  c,
		logger:  logging.Nop(),
		metrics: metrics.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.scope == "" {
		s.scope = uuid.NewString()
	}
	s.logger = s.logger.With("scope", s.scope)
	return s
}

// Scope returns the namespace of this Store's slots.
func (s *Store) Scope() string {
	return s.scope
}

// StoreToken encrypts token and writes it to the token slot, replacing any
// previous token. Failures are logged, not returned: a later RetrieveToken
// simply reports no session.
func (s *Store) StoreToken(ctx context.Context, token string) {
	s.put(ctx, TokenSlot, token)
}

// RetrieveToken returns the stored token. ok is false when the slot is
// empty or its content cannot be decrypted.
func (s *Store) RetrieveToken(ctx context.Context) (token string, ok bool) {
	return s.get(ctx, TokenSlot)
}

// StoreUserInfo serializes user to JSON and stores it like StoreToken.
func (s *Store) StoreUserInfo(ctx context.Context, user UserInfo) {
	raw, err := json.Marshal(user)
	if err != nil {
		s.logger.Error(ctx, "serialize user info", "slot", UserInfoSlot, "err", err)
		s.metrics.ObserveStore(UserInfoSlot, metrics.OutcomeFailed)
		return
	}
	s.put(ctx, UserInfoSlot, string(raw))
}

// LookupUserInfo returns the stored profile and whether one was found.
func (s *Store) LookupUserInfo(ctx context.Context) (UserInfo, bool) {
	raw, ok := s.get(ctx, UserInfoSlot)
	if !ok {
		return nil, false
	}

	var user UserInfo
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		s.logger.Warn(ctx, "decode user info", "slot", UserInfoSlot, "err", err)
		return nil, false
	}
	if user == nil {
		return nil, false
	}
	return user, true
}

// RetrieveUserInfo returns the stored profile, or EmptyUserInfo when there
// is none.
func (s *Store) RetrieveUserInfo(ctx context.Context) UserInfo {
	if user, ok := s.LookupUserInfo(ctx); ok {
		return user
	}
	return EmptyUserInfo()
}

// Clear deletes every slot of this scope (logout).
func (s *Store) Clear(ctx context.Context) error {
	if err := s.storage.Clear(ctx, storage.ScopePrefix(s.scope)); err != nil {
		s.logger.Error(ctx, "clear session", "err", err)
		return fmt.Errorf("clear session: %w", err)
	}
	s.logger.Info(ctx, "session cleared")
	return nil
}

func (s *Store) put(ctx context.Context, slot, plaintext string) {
	env, err := s.cipher.Encrypt(plaintext)
	if err != nil {
		s.fail(ctx, slot, "encrypt session slot", err)
		return
	}

	raw, err := env.Marshal()
	if err != nil {
		s.fail(ctx, slot, "serialize envelope", err)
		return
	}

	if err := s.storage.Set(ctx, storage.Key(s.scope, slot), raw); err != nil {
		s.fail(ctx, slot, "write session slot", err)
		return
	}

	s.metrics.ObserveStore(slot, metrics.OutcomeOK)
}

func (s *Store) fail(ctx context.Context, slot, msg string, err error) {
	s.logger.Error(ctx, msg, "slot", slot, "err", err)
	s.metrics.ObserveStore(slot, metrics.OutcomeFailed)
}

func (s *Store) get(ctx context.Context, slot string) (string, bool) {
	raw, err := s.storage.Get(ctx, storage.Key(s.scope, slot))
	if errors.Is(err, storage.ErrNotFound) {
		s.metrics.ObserveRetrieve(slot, metrics.OutcomeAbsent)
		return "", false
	}
	if err != nil {
		s.logger.Error(ctx, "read session slot", "slot", slot, "err", err)
		s.metrics.ObserveRetrieve(slot, metrics.OutcomeFailed)
		return "", false
	}

	env, err := cryptox.ParseEnvelope(raw)
	if err != nil {
		s.corrupt(ctx, slot, err)
		return "", false
	}

	plaintext, err := s.cipher.Decrypt(env)
	if err != nil {
		s.corrupt(ctx, slot, err)
		return "", false
	}

	s.metrics.ObserveRetrieve(slot, metrics.OutcomeOK)
	return plaintext, true
}

func (s *Store) corrupt(ctx context.Context, slot string, err error) {
	s.logger.Warn(ctx, "discarding unreadable session slot", "slot", slot, "err", err)
	s.metrics.ObserveRetrieve(slot, metrics.OutcomeCorrupt)
}
