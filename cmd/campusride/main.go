package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/alecthomas/kong"
)

type globals struct {
	APIURL       string          `name:"api-url" env:"CAMPUSRIDE_API_URL" default:"http://localhost:8080" help:"Base URL of the campus scooter API."`
	SessionFile  string          `name:"session-file" env:"CAMPUSRIDE_SESSION_FILE" type:"path" help:"Where the login session is kept (default: user config dir)."`
	Timeout      time.Duration   `name:"timeout" env:"CAMPUSRIDE_TIMEOUT" default:"30s" help:"Per-request timeout, 0 for none."`
	Verbose      bool            `name:"verbose" short:"v" help:"Log debug output to stderr."`
	OTLPEndpoint string          `name:"otlp-endpoint" env:"OTEL_EXPORTER_OTLP_ENDPOINT" help:"Export request traces to this OTLP/HTTP host:port."`
	MetricsFile  string          `name:"metrics-file" env:"CAMPUSRIDE_METRICS_FILE" type:"path" help:"Write request metrics to this node-exporter textfile on exit."`
	Config       kong.ConfigFlag `name:"config" help:"Load flag values from a JSON file."`
}

var cli struct {
	Globals globals `embed:""`

	Login          loginCmd          `cmd:"" help:"Log in and remember the session."`
	Signup         signupCmd         `cmd:"" help:"Create an account."`
	ForgotPassword forgotPasswordCmd `cmd:"" name:"forgot-password" help:"Email a password reset link."`
	Logout         logoutCmd         `cmd:"" help:"Forget the saved session."`
	Whoami         whoamiCmd         `cmd:"" help:"Show the logged in user."`

	Scooters scootersCmd `cmd:"" help:"List scooters, available ones first."`
	Book     bookCmd     `cmd:"" help:"Book a scooter."`

	History historyCmd `cmd:"" help:"List past rides."`
	Ride    rideCmd    `cmd:"" help:"Show the receipt of a ride."`

	Wallet  walletCmd  `cmd:"" help:"Show or change payment methods."`
	Profile profileCmd `cmd:"" help:"Show or change profile settings."`
}

// reportedError marks an error the user has already been shown.
type reportedError struct{ error }

func (e reportedError) Unwrap() error { return e.error }

func reported(err error) error {
	if err == nil {
		return nil
	}
	return reportedError{err}
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)

	kctx := kong.Parse(&cli,
		kong.Name("campusride"),
		kong.Description("Find and book campus scooters."),
		kong.UsageOnError(),
		kong.Configuration(kong.JSON, "~/.config/campusride/config.json"),
	)

	a, cleanup, err := newApp(ctx, cli.Globals)
	if err != nil {
		cancel()
		fmt.Fprintf(os.Stderr, "campusride: %v\n", err)
		os.Exit(1)
	}

	err = kctx.Run(a)
	cleanup()
	cancel()

	var shown reportedError
	switch {
	case err == nil:
	case errors.As(err, &shown):
		os.Exit(1)
	default:
		fmt.Fprintf(os.Stderr, "campusride: %v\n", err)
		os.Exit(1)
	}
}
