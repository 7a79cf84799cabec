// Package profile backs the profile and settings screen.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/semanticallynull/campusride/internal/notify"
)

var (
	ErrUnknownSetting = errors.New("unknown setting")
	ErrNotLoaded      = errors.New("profile not loaded")
)

type Profile struct {
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Email     string   `json:"email"`
	StudentID string   `json:"studentId"`
	Settings  Settings `json:"settings"`
}

func (p Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}

type Settings struct {
	PushNotifications  bool `json:"pushNotifications"`
	EmailNotifications bool `json:"emailNotifications"`
	RideReminders      bool `json:"rideReminders"`
}

// Setting names one toggle of Settings.
type Setting string

const (
	PushNotifications  Setting = "push"
	EmailNotifications Setting = "email"
	RideReminders      Setting = "reminders"
)

// Toggled returns s with the named setting flipped.
func (s Settings) Toggled(name Setting) (Settings, error) {
	switch name {
	case PushNotifications:
		s.PushNotifications = !s.PushNotifications
	case EmailNotifications:
		s.EmailNotifications = !s.EmailNotifications
	case RideReminders:
		s.RideReminders = !s.RideReminders
	default:
		return s, fmt.Errorf("%w: %q", ErrUnknownSetting, name)
	}
	return s, nil
}

type Backend interface {
	Profile(ctx context.Context) (Profile, error)
	UpdateSettings(ctx context.Context, s Settings) (Profile, error)
}

const (
	msgLoadFailed   = "Failed to load profile."
	msgUpdateFailed = "Could not save your settings."
)

type View struct {
	backend  Backend
	notifier notify.Notifier
	logger   *slog.Logger

	mu      sync.Mutex
	profile Profile
	loaded  bool
}

func NewView(backend Backend, notifier notify.Notifier, logger *slog.Logger) *View {
	if logger == nil {
		logger = slog.Default()
	}
	return &View{backend: backend, notifier: notifier, logger: logger}
}

func (v *View) Load(ctx context.Context) error {
	p, err := v.backend.Profile(ctx)
	if err != nil {
		v.logger.ErrorContext(ctx, "failed to fetch profile", "error", err)
		v.notifier.Error(notify.MessageFrom(err, msgLoadFailed))
		return fmt.Errorf("load profile: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.profile = p
	v.loaded = true
	return nil
}

func (v *View) Profile() Profile {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.profile
}

// Toggle flips one setting. The new value is shown only after the backend
// has stored it. The whole settings object is sent, so Toggle refuses to run
// before a successful Load.
func (v *View) Toggle(ctx context.Context, name Setting) error {
	v.mu.Lock()
	current, loaded := v.profile.Settings, v.loaded
	v.mu.Unlock()
	if !loaded {
		return ErrNotLoaded
	}

	next, err := current.Toggled(name)
	if err != nil {
		return err
	}

	p, err := v.backend.UpdateSettings(ctx, next)
	if err != nil {
		v.notifier.Error(notify.MessageFrom(err, msgUpdateFailed))
		return fmt.Errorf("update settings: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.profile = p
	return nil
}
