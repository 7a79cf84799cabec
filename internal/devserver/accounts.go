package devserver

import (
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/semanticallynull/campusride/internal/session"
	"github.com/semanticallynull/campusride/profile"
	"github.com/semanticallynull/campusride/wallet"
)

var (
	ErrEmailTaken      = errors.New("email already registered")
	ErrAccountNotFound = errors.New("account not found")
)

type account struct {
	user         session.User
	passwordHash []byte
	studentID    string
	settings     profile.Settings
	wallet       wallet.Wallet
}

func (a *account) profile() profile.Profile {
	return profile.Profile{
		FirstName: a.user.FirstName,
		LastName:  a.user.LastName,
		Email:     a.user.Email,
		StudentID: a.studentID,
		Settings:  a.settings,
	}
}

// accounts is the devserver's user directory. Emails are matched
// case-insensitively.
type accounts struct {
	mu      sync.Mutex
	byID    map[string]*account
	byEmail map[string]string
}

func newAccounts() *accounts {
	return &accounts{
		byID:    make(map[string]*account),
		byEmail: make(map[string]string),
	}
}

func (s *accounts) create(firstName, lastName, email string, passwordHash []byte) (session.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := strings.ToLower(email)
	if _, ok := s.byEmail[key]; ok {
		return session.User{}, ErrEmailTaken
	}

	a := &account{
		user: session.User{
			ID:        uuid.NewString(),
			FirstName: firstName,
			LastName:  lastName,
			Email:     email,
		},
		passwordHash: passwordHash,
		settings: profile.Settings{
			PushNotifications:  true,
			EmailNotifications: true,
		},
		wallet: wallet.Wallet{Currency: "$", PaymentMethods: []wallet.PaymentMethod{}},
	}
	s.byID[a.user.ID] = a
	s.byEmail[key] = a.user.ID
	return a.user, nil
}

// credentials returns the user registered under email and their password hash.
func (s *accounts) credentials(email string) (session.User, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[strings.ToLower(email)]
	if !ok {
		return session.User{}, nil, ErrAccountNotFound
	}
	a := s.byID[id]
	return a.user, a.passwordHash, nil
}

// update runs fn on the account with the directory locked.
func (s *accounts) update(id string, fn func(a *account) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return ErrAccountNotFound
	}
	return fn(a)
}
