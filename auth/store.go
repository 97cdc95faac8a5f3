// Package auth holds the client-side session: the bearer token, the current
// user, and the login/logout notifications other stores subscribe to.
package auth

import (
	"context"
	"encoding/json"
	"sync"

	"marche/api"
	"marche/models"
)

// Cache keys for the persisted session. The cart entry is owned by the cart
// store but is deleted here on logout as well, so a half-torn-down session
// never leaves a cart behind.
const (
	KeyToken = "token"
	KeyUser  = "user"
	keyCart  = "cart"
)

// Cache is the durable local store for the session.
type Cache interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

// Listener is notified after authentication transitions complete. The cart
// store subscribes to reload itself in the right mode.
type Listener interface {
	LoginCompleted(user *models.User)
	LogoutCompleted()
}

// Store owns the authentication state. Safe for concurrent use.
type Store struct {
	client *api.Client
	cache  Cache

	mu        sync.RWMutex
	user      *models.User
	loading   bool
	listeners []Listener
}

// New creates a store over the API client and local cache. Call Init to
// restore a persisted session.
func New(client *api.Client, cache Cache) *Store {
	return &Store{client: client, cache: cache}
}

// Subscribe registers a listener for login/logout notifications.
func (s *Store) Subscribe(l Listener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, l)
}

// IsAuthenticated reports whether a user is logged in.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// CurrentUser returns the logged-in user, or nil.
func (s *Store) CurrentUser() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// Loading reports whether a login, registration, or restore is in flight.
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Init restores a persisted session. The cached token is validated against
// the API; a token that is expired or rejected clears the session data
// rather than leaving a half-authenticated state. Listeners are notified on
// a successful restore exactly as on a fresh login.
func (s *Store) Init(ctx context.Context) {
	s.setLoading(true)
	defer s.setLoading(false)

	token, ok := s.cache.Get(KeyToken)
	if !ok || token == "" {
		return
	}
	if tokenExpired(token) {
		s.clearSession()
		return
	}

	s.client.SetToken(token)
	user, err := s.client.Me(ctx)
	if err != nil {
		s.client.ClearToken()
		s.clearSession()
		return
	}

	s.setUser(user)
	s.notifyLogin(user)
}

// Login authenticates and persists the session, then notifies listeners.
func (s *Store) Login(ctx context.Context, email, password string) error {
	s.setLoading(true)
	defer s.setLoading(false)

	session, err := s.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	s.adoptSession(session)
	return nil
}

// Register creates an account and logs straight into it.
func (s *Store) Register(ctx context.Context, input models.RegisterInput) error {
	s.setLoading(true)
	defer s.setLoading(false)

	session, err := s.client.Register(ctx, input)
	if err != nil {
		return err
	}
	s.adoptSession(session)
	return nil
}

// Logout drops the session and every durable trace of it, then notifies
// listeners.
func (s *Store) Logout() {
	s.client.ClearToken()
	s.clearSession()
	s.setUser(nil)
	s.notifyLogout()
}

func (s *Store) adoptSession(session *api.Session) {
	s.client.SetToken(session.AccessToken)
	s.cache.Set(KeyToken, session.AccessToken)
	if b, err := json.Marshal(session.User); err == nil {
		s.cache.Set(KeyUser, string(b))
	}
	user := session.User
	s.setUser(&user)
	s.notifyLogin(&user)
}

func (s *Store) clearSession() {
	s.cache.Delete(KeyToken)
	s.cache.Delete(KeyUser)
	s.cache.Delete(keyCart)
}

func (s *Store) setUser(u *models.User) {
	s.mu.Lock()
	s.user = u
	s.mu.Unlock()
}

func (s *Store) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// Listeners run outside the store lock; they call back into stores that take
// their own locks.
func (s *Store) snapshotListeners() []Listener {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Listener, len(s.listeners))
	copy(out, s.listeners)
	return out
}

func (s *Store) notifyLogin(u *models.User) {
	for _, l := range s.snapshotListeners() {
		l.LoginCompleted(u)
	}
}

func (s *Store) notifyLogout() {
	for _, l := range s.snapshotListeners() {
		l.LogoutCompleted()
	}
}
