package authstate

import (
	"errors"
	"strings"
	"sync"
)

var ErrEmptyToken = errors.New("token is empty")

// State tracks whether an admin is signed in and with which token.
// It satisfies apiclient.TokenSource.
type State struct {
	mu    sync.RWMutex
	store TokenStore
	token string
}

func New(store TokenStore) *State {
	if store == nil {
		store = &MemoryStore{}
	}
	return &State{store: store}
}

// Init restores a previously persisted token
func (s *State) Init() error {
	token, err := s.store.Load()
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.token = strings.TrimSpace(token)
	s.mu.Unlock()
	return nil
}

// Login persists token and marks the state authenticated.
// The in-memory state is left unchanged when persisting fails.
func (s *State) Login(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrEmptyToken
	}
	if err := s.store.Save(token); err != nil {
		return err
	}
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// Logout always drops the in-memory token, even if clearing the store fails.
func (s *State) Logout() error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
	return s.store.Clear()
}

func (s *State) IsAuthenticated() bool {
	return s.Token() != ""
}

func (s *State) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}
