package acceptance

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/semanticallynull/campusride/account"
	"github.com/semanticallynull/campusride/internal/backend"
	"github.com/semanticallynull/campusride/internal/devserver"
	"github.com/semanticallynull/campusride/internal/notify"
	"github.com/semanticallynull/campusride/internal/session"
	"github.com/semanticallynull/campusride/scooter"
)

// TestServer is a devserver listening on a loopback port.
type TestServer struct {
	HTTP      *httptest.Server
	Inventory devserver.Inventory
	db        *sqlx.DB
}

func NewTestServer(t *testing.T) *TestServer {
	t.Helper()
	return newTestServer(t, devserver.NewMemoryInventory(devserver.Fleet()), nil)
}

// NewPostgresTestServer keeps the inventory in the database at DATABASE_URL
// and skips the test when it is not set.
func NewPostgresTestServer(t *testing.T) *TestServer {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("DATABASE_URL not set")
	}
	db, err := sqlx.Connect("pgx", dbURL)
	require.NoError(t, err)

	cleanupTestData(t, db)
	inv := devserver.NewSQLInventory(db)
	require.NoError(t, inv.EnsureSchema(context.Background(), devserver.Fleet()))
	return newTestServer(t, inv, db)
}

func newTestServer(t *testing.T, inv devserver.Inventory, db *sqlx.DB) *TestServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	s, err := devserver.New(devserver.Config{
		Secret:     []byte("acceptance-secret"),
		BcryptCost: bcrypt.MinCost,
	}, inv, slog.New(slog.NewTextHandler(io.Discard, nil)), prometheus.NewRegistry())
	require.NoError(t, err)

	return &TestServer{
		HTTP:      httptest.NewServer(s.Router()),
		Inventory: inv,
		db:        db,
	}
}

func (ts *TestServer) Close() {
	ts.HTTP.Close()
	if ts.db != nil {
		ts.db.Close()
	}
}

func cleanupTestData(t *testing.T, db *sqlx.DB) {
	t.Helper()

	// Dropped rather than emptied so the fleet is seeded fresh.
	_, err := db.Exec("DROP TABLE IF EXISTS rides")
	if err != nil {
		t.Logf("warning: failed to drop rides: %v", err)
	}
	_, err = db.Exec("DROP TABLE IF EXISTS scooters")
	if err != nil {
		t.Logf("warning: failed to drop scooters: %v", err)
	}
}

// Rider is one client install: its own session, API client and notifications.
type Rider struct {
	Session  *session.Session
	Store    *session.MemoryStore
	Client   *backend.Client
	Notices  *notify.Recorder
	Accounts *account.Service
}

func (ts *TestServer) NewRider(t *testing.T) *Rider {
	t.Helper()

	sess := session.New("", nil)
	store := &session.MemoryStore{}
	rec := &notify.Recorder{}
	client := backend.New(ts.HTTP.URL, sess, backend.WithMetrics(prometheus.NewRegistry()))
	return &Rider{
		Session:  sess,
		Store:    store,
		Client:   client,
		Notices:  rec,
		Accounts: account.NewService(client, sess, store, rec, nil),
	}
}

// SignUpAndLogIn registers email with a student ID photo and logs in.
func (r *Rider) SignUpAndLogIn(t *testing.T, email string) {
	t.Helper()
	ctx := context.Background()

	res, err := r.Accounts.Signup(ctx, account.SignupForm{
		FirstName:       "Alex",
		LastName:        "Johnson",
		Email:           email,
		Password:        "password123",
		ConfirmPassword: "password123",
		AgreedToTerms:   true,
		StudentID:       &account.Upload{Filename: "id.png", Content: bytes.NewReader([]byte("\x89PNG student card"))},
	})
	require.NoError(t, err)
	require.True(t, res.StudentIDUploaded)

	_, err = r.Accounts.Login(ctx, account.LoginForm{Email: email, Password: "password123"})
	require.NoError(t, err)
	require.True(t, r.Session.Authenticated())
}

func (r *Rider) ScooterView() *scooter.View {
	return scooter.NewView(r.Client, r.Notices, scooter.WithRand(rand.New(rand.NewPCG(7, 7))))
}
