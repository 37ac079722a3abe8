// Package session keeps the signed-in identity, preferences and search
// history in the client's key-value storage.
package session

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"twoknow/models"
	"twoknow/storage"

	"go.uber.org/zap"
)

// MaxHistory is the number of searches kept.
const MaxHistory = 10

var (
	ErrNameRequired  = errors.New("please enter your name")
	ErrEmailRequired = errors.New("please enter your email")
)

// Store reads and writes session state. Storage read failures are logged and
// treated as absent values so callers always see a usable default state.
type Store struct {
	kv  storage.Storage
	log *zap.Logger
	now func() time.Time
}

// New wraps kv. A nil kv is replaced by in-memory storage.
func New(kv storage.Storage, log *zap.Logger) *Store {
	if kv == nil {
		kv = storage.NewMemory()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{kv: kv, log: log, now: time.Now}
}

// SetClock overrides the time source.
func (s *Store) SetClock(now func() time.Time) { s.now = now }

func (s *Store) get(key string) string {
	v, ok, err := s.kv.Get(key)
	if err != nil {
		s.log.Warn("storage read failed", zap.String("key", key), zap.Error(err))
		return ""
	}
	if !ok {
		return ""
	}
	return v
}

func (s *Store) set(key, value string) error {
	return s.kv.Set(key, value)
}

func (s *Store) setOrRemove(key, value string) error {
	if value == "" {
		return s.kv.Remove(key)
	}
	return s.kv.Set(key, value)
}

// Save persists each session field under its own key.
func (s *Store) Save(sess models.Session) error {
	fields := []struct{ key, value string }{
		{KeyToken, sess.Token},
		{KeyEmail, sess.Email},
		{KeyUsername, sess.Username},
		{KeyName, sess.DisplayName},
		{KeyUserID, sess.UserID},
		{KeyMemberSince, sess.MemberSince},
		{KeyLastLogin, sess.LastLogin},
		{KeyBio, sess.Bio},
		{KeyAvatar, sess.Avatar},
	}
	for _, f := range fields {
		if err := s.setOrRemove(f.key, f.value); err != nil {
			return err
		}
	}
	return nil
}

// SaveAuth stores the identity returned by login or registration.
func (s *Store) SaveAuth(resp models.AuthResponse) (models.Session, error) {
	sess := FromAuth(resp)
	sess.Bio = s.get(KeyBio)
	sess.Avatar = s.get(KeyAvatar)
	return sess, s.Save(sess)
}

// FromAuth builds a session from an auth response. The display name falls
// back to the username.
func FromAuth(resp models.AuthResponse) models.Session {
	u := resp.User
	sess := models.Session{
		Token:       resp.AccessToken,
		UserID:      strconv.FormatInt(u.ID, 10),
		Email:       u.Email,
		Username:    u.Username,
		DisplayName: u.FullName,
	}
	if sess.DisplayName == "" {
		sess.DisplayName = u.Username
	}
	if u.CreatedAt != nil {
		sess.MemberSince = u.CreatedAt.UTC().Format(time.RFC3339)
	}
	if u.LastLogin != nil {
		sess.LastLogin = u.LastLogin.UTC().Format(time.RFC3339)
	}
	return sess
}

// Load reconstructs the session from storage.
func (s *Store) Load() models.Session {
	sess := models.Session{
		Token:       s.get(KeyToken),
		UserID:      s.get(KeyUserID),
		Email:       s.get(KeyEmail),
		Username:    s.get(KeyUsername),
		DisplayName: s.get(KeyName),
		Bio:         s.get(KeyBio),
		Avatar:      s.get(KeyAvatar),
		MemberSince: s.get(KeyMemberSince),
		LastLogin:   s.get(KeyLastLogin),
	}
	if sess.DisplayName == "" {
		sess.DisplayName = sess.Username
	}
	if sess.DisplayName == "" {
		sess.DisplayName = "User"
	}
	return sess
}

func (s *Store) Token() string { return s.get(KeyToken) }

func (s *Store) IsAuthenticated() bool { return s.Token() != "" }

// Clear removes the identity and every key outside the preference
// allow-list. Theme, region and search_* keys survive.
func (s *Store) Clear() error {
	for _, k := range authKeys {
		if err := s.kv.Remove(k); err != nil {
			return err
		}
	}
	keys, err := s.kv.Keys()
	if err != nil {
		return err
	}
	for _, k := range keys {
		if preserved(k) {
			continue
		}
		if err := s.kv.Remove(k); err != nil {
			return err
		}
	}
	return nil
}

// SaveProfile updates the locally edited profile fields.
func (s *Store) SaveProfile(name, email, bio string) error {
	name, email, bio = strings.TrimSpace(name), strings.TrimSpace(email), strings.TrimSpace(bio)
	if name == "" {
		return ErrNameRequired
	}
	if email == "" {
		return ErrEmailRequired
	}
	if err := s.set(KeyName, name); err != nil {
		return err
	}
	if err := s.set(KeyEmail, email); err != nil {
		return err
	}
	return s.setOrRemove(KeyBio, bio)
}

// DeleteAccountData removes history, avatar and bio.
func (s *Store) DeleteAccountData() error {
	for _, k := range []string{KeyHistory, KeyAvatar, KeyBio} {
		if err := s.kv.Remove(k); err != nil {
			return err
		}
	}
	return nil
}

// Theme returns the stored theme name, or "" when none is stored.
func (s *Store) Theme() string { return s.get(KeyTheme) }

func (s *Store) SetTheme(name string) error { return s.set(KeyTheme, name) }

// Region returns the preferred region, defaulting to KE.
func (s *Store) Region() string {
	if r := s.get(KeyRegion); r != "" {
		return r
	}
	if r := s.get(KeyRegionPref); r != "" {
		return r
	}
	return "KE"
}

func (s *Store) SetRegion(region string) error { return s.set(KeyRegion, region) }

// LastComparison returns the most recent comparison, if any.
func (s *Store) LastComparison() (models.Comparison, bool) {
	raw := s.get(KeyLastComparison)
	if raw == "" {
		return models.Comparison{}, false
	}
	var cmp models.Comparison
	if err := json.Unmarshal([]byte(raw), &cmp); err != nil {
		s.log.Warn("discarding corrupt comparison", zap.Error(err))
		return models.Comparison{}, false
	}
	return cmp, true
}

func (s *Store) SaveLastComparison(cmp models.Comparison) error {
	b, err := json.Marshal(cmp)
	if err != nil {
		return err
	}
	return s.set(KeyLastComparison, string(b))
}

// SetLastSearch records the keyword of the latest search.
func (s *Store) SetLastSearch(keyword string) error { return s.set(KeyLastSearch, keyword) }

func (s *Store) LastSearch() string { return s.get(KeyLastSearch) }
