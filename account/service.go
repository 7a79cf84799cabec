package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/semanticallynull/campusride/internal/notify"
	"github.com/semanticallynull/campusride/internal/session"
)

const (
	msgSubmitFailed  = "Something went wrong!"
	msgResetSent     = "Reset link sent to your email."
	msgResetRejected = "Something went wrong."
	msgServerError   = "Server error."
	msgIDSaved       = "Student ID verified and saved."
)

type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type Registration struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginResult struct {
	Token string        `json:"token"`
	User  *session.User `json:"user"`
}

// Backend is the unauthenticated part of the campus API plus the student ID
// upload, which uses the token returned by registration.
type Backend interface {
	Login(ctx context.Context, c Credentials) (LoginResult, error)
	Register(ctx context.Context, r Registration) (token string, err error)
	UploadStudentID(ctx context.Context, token string, u Upload) error
	RequestPasswordReset(ctx context.Context, email string) (message string, err error)
}

// SubmitError is a backend or transport failure while submitting a form.
// Message is what the form shows.
type SubmitError struct {
	Message string
	Err     error
}

func (e *SubmitError) Error() string { return fmt.Sprintf("%s: %v", e.Message, e.Err) }

func (e *SubmitError) Unwrap() error { return e.Err }

func (e *SubmitError) UserMessage() string { return e.Message }

type Service struct {
	backend  Backend
	session  *session.Session
	store    session.Store
	notifier notify.Notifier
	logger   *slog.Logger
}

func NewService(backend Backend, sess *session.Session, store session.Store, notifier notify.Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		backend:  backend,
		session:  sess,
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

// Login checks the form, exchanges the credentials for a token and stores
// the token and user for later runs.
func (s *Service) Login(ctx context.Context, form LoginForm) (*session.Session, error) {
	if err := form.Validate(); err != nil {
		return nil, err
	}

	res, err := s.backend.Login(ctx, Credentials{Email: form.Email, Password: form.Password})
	if err != nil {
		s.logger.WarnContext(ctx, "login failed", "error", err)
		return nil, &SubmitError{Message: notify.MessageFrom(err, msgSubmitFailed), Err: err}
	}
	if res.Token == "" {
		return nil, &SubmitError{Message: msgSubmitFailed, Err: errors.New("login response carried no token")}
	}

	s.session.Set(res.Token, res.User)
	if err := s.store.Save(s.session); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	return s.session, nil
}

// SignupResult reports what happened after the account was created.
type SignupResult struct {
	StudentIDUploaded bool
	Status            string
}

// Signup creates the account and, when a student ID image is attached,
// uploads it with the new account's token. It does not log the user in.
func (s *Service) Signup(ctx context.Context, form SignupForm) (SignupResult, error) {
	if err := form.Validate(); err != nil {
		return SignupResult{}, err
	}

	token, err := s.backend.Register(ctx, Registration{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Email:     form.Email,
		Password:  form.Password,
	})
	if err != nil {
		s.logger.WarnContext(ctx, "registration failed", "error", err)
		return SignupResult{}, &SubmitError{Message: notify.MessageFrom(err, msgSubmitFailed), Err: err}
	}

	if form.StudentID == nil {
		return SignupResult{}, nil
	}
	if err := s.backend.UploadStudentID(ctx, token, *form.StudentID); err != nil {
		s.logger.WarnContext(ctx, "student id upload failed", "error", err)
		return SignupResult{}, &SubmitError{Message: notify.MessageFrom(err, msgSubmitFailed), Err: err}
	}
	return SignupResult{StudentIDUploaded: true, Status: msgIDSaved}, nil
}

// RequestReset asks the backend to email a reset link. The outcome is shown
// as a notification.
func (s *Service) RequestReset(ctx context.Context, form ResetForm) error {
	if err := form.Validate(); err != nil {
		return err
	}

	msg, err := s.backend.RequestPasswordReset(ctx, form.Email)
	if err != nil {
		var rejected interface{ UserMessage() string }
		if errors.As(err, &rejected) {
			s.notifier.Error(notify.MessageFrom(err, msgResetRejected))
		} else {
			s.logger.ErrorContext(ctx, "password reset request failed", "error", err)
			s.notifier.Error(msgServerError)
		}
		return fmt.Errorf("request password reset: %w", err)
	}

	s.logger.DebugContext(ctx, "password reset requested", "message", msg)
	s.notifier.Success(msgResetSent)
	return nil
}

// Logout forgets the credential in memory and on disk.
func (s *Service) Logout() error {
	s.session.Clear()
	return s.store.Clear()
}
