package acceptance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semanticallynull/campusride/account"
	"github.com/semanticallynull/campusride/internal/notify"
	"github.com/semanticallynull/campusride/profile"
	"github.com/semanticallynull/campusride/wallet"
)

func TestLogin_WrongPasswordShowsBackendMessage(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	rider := ts.NewRider(t)
	rider.SignUpAndLogIn(t, "alex@mans.edu.eg")
	require.NoError(t, rider.Accounts.Logout())

	_, err := rider.Accounts.Login(context.Background(), account.LoginForm{
		Email: "alex@mans.edu.eg", Password: "not-the-password",
	})
	var submit *account.SubmitError
	require.ErrorAs(t, err, &submit)
	assert.Equal(t, "Invalid email or password", submit.Message)
	assert.False(t, rider.Session.Authenticated())
}

func TestSignup_DuplicateEmail(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	ts.NewRider(t).SignUpAndLogIn(t, "alex@mans.edu.eg")

	_, err := ts.NewRider(t).Accounts.Signup(context.Background(), account.SignupForm{
		FirstName:       "Alex",
		LastName:        "Again",
		Email:           "alex@mans.edu.eg",
		Password:        "password123",
		ConfirmPassword: "password123",
		AgreedToTerms:   true,
	})
	var submit *account.SubmitError
	require.ErrorAs(t, err, &submit)
	assert.Equal(t, "User already exists", submit.Message)
}

func TestPasswordReset(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	rider := ts.NewRider(t)
	require.NoError(t, rider.Accounts.RequestReset(context.Background(), account.ResetForm{Email: "anyone@mans.edu.eg"}))
	last, _ := rider.Notices.Last()
	assert.Equal(t, notify.Notification{Level: notify.LevelSuccess, Message: "Reset link sent to your email."}, last)
}

func TestProfile_StudentIDAndSettings(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()
	ctx := context.Background()

	rider := ts.NewRider(t)
	rider.SignUpAndLogIn(t, "alex@mans.edu.eg")

	view := profile.NewView(rider.Client, rider.Notices, nil)
	require.NoError(t, view.Load(ctx))
	p := view.Profile()
	assert.Equal(t, "Alex Johnson", p.FullName())
	assert.NotEmpty(t, p.StudentID, "the uploaded student ID is on the profile")

	require.NoError(t, view.Toggle(ctx, profile.RideReminders))
	assert.True(t, view.Profile().Settings.RideReminders)

	reloaded := profile.NewView(rider.Client, rider.Notices, nil)
	require.NoError(t, reloaded.Load(ctx))
	assert.True(t, reloaded.Profile().Settings.RideReminders)
}

func TestWallet_PaymentMethods(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()
	ctx := context.Background()

	rider := ts.NewRider(t)
	rider.SignUpAndLogIn(t, "alex@mans.edu.eg")

	view := wallet.NewView(rider.Client, rider.Notices, nil)
	require.NoError(t, view.Load(ctx))
	assert.Empty(t, view.Wallet().PaymentMethods)

	expiry := "09/28"
	card, err := view.Add(ctx, wallet.PaymentMethod{
		Type: wallet.Mastercard, ProviderName: "Mastercard", Details: "•••• 5454", Expiry: &expiry,
	})
	require.NoError(t, err)
	assert.True(t, card.IsDefault)

	email := "alex@mans.edu.eg"
	pp, err := view.Add(ctx, wallet.PaymentMethod{
		Type: wallet.PayPal, ProviderName: "PayPal", Details: email, Email: &email,
	})
	require.NoError(t, err)

	require.NoError(t, view.SetDefault(ctx, pp.ID))
	def, ok := view.Default()
	require.True(t, ok)
	assert.Equal(t, pp.ID, def.ID)

	require.NoError(t, view.Remove(ctx, card.ID))
	require.Error(t, view.Remove(ctx, card.ID))
	last, _ := rider.Notices.Last()
	assert.Equal(t, "Payment method not found", last.Message)

	reloaded := wallet.NewView(rider.Client, rider.Notices, nil)
	require.NoError(t, reloaded.Load(ctx))
	assert.Equal(t, view.Wallet().PaymentMethods, reloaded.Wallet().PaymentMethods)
}
