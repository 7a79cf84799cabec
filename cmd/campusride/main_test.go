package main

import (
	"errors"
	"testing"
	"time"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommandLine(t *testing.T) {
	parser, err := kong.New(&cli, kong.Name("campusride"), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)

	tests := []struct {
		args    []string
		command string
	}{
		{[]string{"scooters", "-q", "gate"}, "scooters"},
		{[]string{"book", "sc-001"}, "book <id>"},
		{[]string{"wallet"}, "wallet show"},
		{[]string{"wallet", "default", "pm_1"}, "wallet default <id>"},
		{[]string{"profile", "toggle", "reminders"}, "profile toggle <setting>"},
		{[]string{"forgot-password", "a@b.edu"}, "forgot-password <email>"},
	}
	for _, tt := range tests {
		kctx, err := parser.Parse(tt.args)
		require.NoError(t, err, tt.args)
		assert.Equal(t, tt.command, kctx.Command())
	}

	kctx, err := parser.Parse([]string{"--timeout", "5s", "--api-url", "http://campus:9000", "scooters"})
	require.NoError(t, err)
	assert.Equal(t, "scooters", kctx.Command())
	assert.Equal(t, 5*time.Second, cli.Globals.Timeout)
	assert.Equal(t, "http://campus:9000", cli.Globals.APIURL)

	_, err = parser.Parse([]string{"profile", "toggle", "dark-mode"})
	assert.Error(t, err)
}

func TestReported(t *testing.T) {
	assert.NoError(t, reported(nil))

	base := errors.New("booking failed")
	err := reported(base)
	var shown reportedError
	assert.True(t, errors.As(err, &shown))
	assert.ErrorIs(t, err, base)
}
