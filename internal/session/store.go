package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"time"

	"github.com/quizhub/quiz-web/internal/models"
	"github.com/quizhub/quiz-web/internal/utils"
)

// CookieName is the cookie carrying the session ID.
const CookieName = "quizweb_session"

// Session is the client-held proof of login: the gateway token plus the
// cached profile. The zero value is an anonymous session.
type Session struct {
	ID      string
	Token   string
	Profile models.Profile
}

// IsAuthenticated reports whether a non-empty token is present. The
// profile may still be empty when the stored copy was malformed.
func (s Session) IsAuthenticated() bool {
	return s.Token != ""
}

// User returns the cached profile, zero when unknown.
func (s Session) User() models.Profile {
	return s.Profile
}

// Credentials returns what the gateway client needs for this session.
func (s Session) Credentials() (token, username string) {
	return s.Token, s.Profile.Username
}

// Store holds authentication state in a durable KV, two slots per
// session: one for the token, one for the JSON-serialized profile. All
// mutation goes through Login and Logout.
type Store struct {
	kv     KV
	ttl    time.Duration
	logger utils.Logger
}

// NewStore creates a session store over the given KV.
func NewStore(kv KV, ttl time.Duration, logger utils.Logger) *Store {
	return &Store{kv: kv, ttl: ttl, logger: logger}
}

// NewID generates a fresh random session ID.
func NewID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// Login persists the token and profile for the session ID. The session is
// authenticated for subsequent Load calls as soon as Login returns.
func (s *Store) Login(ctx context.Context, id, token string, profile models.Profile) error {
	if err := s.kv.Set(ctx, tokenKey(id), token, s.ttl); err != nil {
		return err
	}

	encoded, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, profileKey(id), string(encoded), s.ttl)
}

// Logout clears the token and profile. Subsequent loads see an anonymous
// session regardless of prior state.
func (s *Store) Logout(ctx context.Context, id string) error {
	return s.kv.Delete(ctx, tokenKey(id), profileKey(id))
}

// Load resolves the session for an ID. Missing or unreadable state fails
// open: a missing token means anonymous, a malformed profile means an
// authenticated session with an empty profile. Load never returns an
// error for corrupt data, only for an empty ID.
func (s *Store) Load(ctx context.Context, id string) Session {
	sess := Session{ID: id}
	if id == "" {
		return sess
	}

	token, err := s.kv.Get(ctx, tokenKey(id))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("Session token lookup failed", "error", err)
		}
		return sess
	}
	sess.Token = token

	raw, err := s.kv.Get(ctx, profileKey(id))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("Session profile lookup failed", "error", err)
		}
		return sess
	}

	var profile models.Profile
	if err := json.Unmarshal([]byte(raw), &profile); err != nil {
		// Corrupt profile slot. Token presence still decides
		// authentication; the profile is simply unknown.
		s.logger.Warn("Stored session profile is malformed, treating as absent", "error", err)
		return sess
	}
	sess.Profile = profile
	return sess
}

// SaveState stores a JSON-serialized value in a named slot under the
// session, used for multi-request flows like a running quiz attempt or a
// half-finished creation wizard.
func (s *Store) SaveState(ctx context.Context, id, slot string, v any) error {
	encoded, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, stateKey(id, slot), string(encoded), s.ttl)
}

// LoadState decodes a slot into v. It reports false when the slot is
// empty or its contents no longer decode.
func (s *Store) LoadState(ctx context.Context, id, slot string, v any) bool {
	raw, err := s.kv.Get(ctx, stateKey(id, slot))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("Session state lookup failed", "slot", slot, "error", err)
		}
		return false
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		s.logger.Warn("Session state is malformed, discarding", "slot", slot, "error", err)
		return false
	}
	return true
}

// ClearState drops a slot.
func (s *Store) ClearState(ctx context.Context, id, slot string) error {
	return s.kv.Delete(ctx, stateKey(id, slot))
}

func tokenKey(id string) string {
	return "session:" + id + ":token"
}

func profileKey(id string) string {
	return "session:" + id + ":profile"
}

func stateKey(id, slot string) string {
	return "session:" + id + ":state:" + slot
}
