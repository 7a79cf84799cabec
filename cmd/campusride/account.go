package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/semanticallynull/campusride/account"
	"github.com/semanticallynull/campusride/internal/notify"
	"github.com/semanticallynull/campusride/internal/session"
)

type loginCmd struct {
	Email    string `name:"email" short:"e" required:"" help:"Account email."`
	Password string `name:"password" env:"CAMPUSRIDE_PASSWORD" required:"" help:"Account password."`
}

func (c *loginCmd) Run(a *app) error {
	var sess *session.Session
	err := a.loading("Logging in...", func() (err error) {
		sess, err = a.accounts().Login(a.ctx, account.LoginForm{Email: c.Email, Password: c.Password})
		return err
	})
	if err != nil {
		return a.inline(err)
	}

	name := c.Email
	if u := sess.User(); u != nil && u.FirstName != "" {
		name = u.FirstName
	}
	a.notifier.Success("Welcome back, " + name + "!")
	return nil
}

type signupCmd struct {
	FirstName       string `name:"first-name" required:""`
	LastName        string `name:"last-name" required:""`
	Email           string `name:"email" short:"e" required:""`
	Password        string `name:"password" env:"CAMPUSRIDE_PASSWORD" required:"" help:"At least 8 characters."`
	ConfirmPassword string `name:"confirm-password" required:""`
	AgreeTerms      bool   `name:"agree-terms" help:"Agree to the Terms of Service."`
	StudentID       string `name:"student-id" type:"existingfile" help:"Photo of your student ID card."`
}

func (c *signupCmd) Run(a *app) error {
	form := account.SignupForm{
		FirstName:       c.FirstName,
		LastName:        c.LastName,
		Email:           c.Email,
		Password:        c.Password,
		ConfirmPassword: c.ConfirmPassword,
		AgreedToTerms:   c.AgreeTerms,
	}
	if c.StudentID != "" {
		f, err := os.Open(c.StudentID)
		if err != nil {
			return err
		}
		defer f.Close()
		form.StudentID = &account.Upload{Filename: filepath.Base(c.StudentID), Content: f}
	}

	var res account.SignupResult
	err := a.loading("Creating account...", func() (err error) {
		res, err = a.accounts().Signup(a.ctx, form)
		return err
	})
	if err != nil {
		return a.inline(err)
	}

	if res.StudentIDUploaded {
		a.notifier.Success(res.Status)
	}
	a.notifier.Success("Account created. Run `campusride login` to sign in.")
	return nil
}

type forgotPasswordCmd struct {
	Email string `arg:"" help:"Email of the account."`
}

// Run leaves reporting to the account service, which notifies the outcome.
func (c *forgotPasswordCmd) Run(a *app) error {
	err := a.loading("Sending reset link...", func() error {
		return a.accounts().RequestReset(a.ctx, account.ResetForm{Email: c.Email})
	})
	var invalid *account.ValidationError
	if errors.As(err, &invalid) {
		return a.inline(err)
	}
	return reported(err)
}

type logoutCmd struct{}

func (c *logoutCmd) Run(a *app) error {
	if err := a.accounts().Logout(); err != nil {
		return err
	}
	a.notifier.Success("Logged out.")
	return nil
}

type whoamiCmd struct{}

func (c *whoamiCmd) Run(a *app) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	u := a.session.User()
	if u == nil {
		fmt.Fprintln(a.out, "Logged in (no user details saved).")
	} else {
		fmt.Fprintf(a.out, "%s %s <%s>\n", u.FirstName, u.LastName, u.Email)
	}
	if exp, err := a.session.ExpiresAt(); err == nil {
		fmt.Fprintf(a.out, "Session expires %s (%s).\n", humanize.Time(exp), exp.Local().Format(time.RFC1123))
	}
	return nil
}

// inline shows a login or signup error the way the forms do: the message
// only, next to the form.
func (a *app) inline(err error) error {
	a.notifier.Error(notify.MessageFrom(err, "Something went wrong!"))
	return reported(err)
}
