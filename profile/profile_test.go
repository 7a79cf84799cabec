package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semanticallynull/campusride/internal/notify"
)

type fakeBackend struct {
	profile Profile
	err     error
	updates []Settings
}

func (f *fakeBackend) Profile(ctx context.Context) (Profile, error) {
	return f.profile, f.err
}

func (f *fakeBackend) UpdateSettings(ctx context.Context, s Settings) (Profile, error) {
	if f.err != nil {
		return Profile{}, f.err
	}
	f.updates = append(f.updates, s)
	f.profile.Settings = s
	return f.profile, nil
}

func alex() Profile {
	return Profile{
		FirstName: "Alex",
		LastName:  "Johnson",
		Email:     "alex.johnson@mans.edu.eg",
		StudentID: "STU-2024-00123",
		Settings:  Settings{PushNotifications: true, EmailNotifications: true},
	}
}

func TestSettings_Toggled(t *testing.T) {
	s := Settings{PushNotifications: true}

	got, err := s.Toggled(RideReminders)
	require.NoError(t, err)
	assert.Equal(t, Settings{PushNotifications: true, RideReminders: true}, got)
	assert.Equal(t, Settings{PushNotifications: true}, s, "receiver is a copy")

	_, err = s.Toggled("dark-mode")
	assert.ErrorIs(t, err, ErrUnknownSetting)
}

func TestView_Toggle(t *testing.T) {
	fb := &fakeBackend{profile: alex()}
	v := NewView(fb, &notify.Recorder{}, nil)
	require.NoError(t, v.Load(context.Background()))
	assert.Equal(t, "Alex Johnson", v.Profile().FullName())

	require.NoError(t, v.Toggle(context.Background(), PushNotifications))
	assert.False(t, v.Profile().Settings.PushNotifications)
	require.Len(t, fb.updates, 1)
	assert.Equal(t, Settings{EmailNotifications: true}, fb.updates[0])
}

func TestView_ToggleFailure(t *testing.T) {
	fb := &fakeBackend{profile: alex()}
	rec := &notify.Recorder{}
	v := NewView(fb, rec, nil)
	require.NoError(t, v.Load(context.Background()))

	fb.err = errors.New("offline")
	require.Error(t, v.Toggle(context.Background(), RideReminders))
	assert.Equal(t, alex(), v.Profile())

	last, _ := rec.Last()
	assert.Equal(t, msgUpdateFailed, last.Message)
}

func TestView_ToggleUnknownSettingMakesNoCall(t *testing.T) {
	fb := &fakeBackend{profile: alex()}
	v := NewView(fb, &notify.Recorder{}, nil)
	require.NoError(t, v.Load(context.Background()))

	require.ErrorIs(t, v.Toggle(context.Background(), "nope"), ErrUnknownSetting)
	assert.Empty(t, fb.updates)
}

func TestView_ToggleBeforeLoadLeavesBackendAlone(t *testing.T) {
	fb := &fakeBackend{profile: alex()}
	v := NewView(fb, &notify.Recorder{}, nil)

	require.ErrorIs(t, v.Toggle(context.Background(), RideReminders), ErrNotLoaded)
	assert.Empty(t, fb.updates)
	assert.Equal(t, Settings{PushNotifications: true, EmailNotifications: true}, fb.profile.Settings)

	fb.err = errors.New("offline")
	require.Error(t, v.Load(context.Background()))
	require.ErrorIs(t, v.Toggle(context.Background(), RideReminders), ErrNotLoaded, "a failed load does not count")

	fb.err = nil
	require.NoError(t, v.Load(context.Background()))
	require.NoError(t, v.Toggle(context.Background(), RideReminders))
	require.Len(t, fb.updates, 1)
	assert.Equal(t, Settings{PushNotifications: true, EmailNotifications: true, RideReminders: true}, fb.updates[0])
}
