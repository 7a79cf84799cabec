package acceptance

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/semanticallynull/campusride/internal/notify"
	"github.com/semanticallynull/campusride/ride"
	"github.com/semanticallynull/campusride/scooter"
)

func TestScooterList_AvailableFirst(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	rider := ts.NewRider(t)
	rider.SignUpAndLogIn(t, "alex@mans.edu.eg")
	view := rider.ScooterView()
	require.NoError(t, view.Load(context.Background()))
	assert.False(t, view.Loading())

	visible := view.Visible("")
	require.Len(t, visible, 6)
	assert.Equal(t, "Night Owl", visible[len(visible)-1].Name, "the scooter in use sorts last")

	engineering := view.Visible("engineering")
	assert.Len(t, engineering, 2)

	markers := view.Markers("engineering")
	require.Len(t, markers, 2)
	assert.NotEqual(t, markers[0].Point, markers[1].Point, "stacked scooters are spread on the map")
}

func TestBooking_Lifecycle(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()
	ctx := context.Background()

	rider := ts.NewRider(t)
	rider.SignUpAndLogIn(t, "alex@mans.edu.eg")

	view := rider.ScooterView()
	require.NoError(t, view.Load(ctx))
	require.NoError(t, view.Book(ctx, "sc-001"))

	s, err := view.Get("sc-001")
	require.NoError(t, err)
	assert.Equal(t, scooter.InUse, s.Status)
	assert.Equal(t, scooter.Committed, view.Action("sc-001").State)
	last, _ := rider.Notices.Last()
	assert.Equal(t, notify.Notification{Level: notify.LevelSuccess, Message: "Successfully booked Blue Comet!"}, last)

	history := ride.NewHistory(rider.Client, rider.Notices, nil)
	require.NoError(t, history.Load(ctx))
	records := history.Filter("blue")
	require.Len(t, records, 1)
	assert.Equal(t, "Main Gate", records[0].From())

	receipt, err := history.Details(ctx, records[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "sc-001", receipt.Scooter.ID)
	assert.Equal(t, "Main Gate", receipt.StartLocation)
}

// Two riders see the same scooter as available; the backend lets only the
// first booking through.
func TestBooking_DoubleBookingRefusedByBackend(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()
	testDoubleBooking(t, ts)
}

func TestBooking_DoubleBookingRefusedByPostgres(t *testing.T) {
	ts := NewPostgresTestServer(t)
	defer ts.Close()
	testDoubleBooking(t, ts)
}

func testDoubleBooking(t *testing.T, ts *TestServer) {
	t.Helper()
	ctx := context.Background()

	first, second := ts.NewRider(t), ts.NewRider(t)
	first.SignUpAndLogIn(t, "first@mans.edu.eg")
	second.SignUpAndLogIn(t, "second@mans.edu.eg")

	firstView, secondView := first.ScooterView(), second.ScooterView()
	require.NoError(t, firstView.Load(ctx))
	require.NoError(t, secondView.Load(ctx))

	require.NoError(t, firstView.Book(ctx, "sc-002"))

	err := secondView.Book(ctx, "sc-002")
	require.Error(t, err)
	assert.Equal(t, scooter.Failed, secondView.Action("sc-002").State)
	last, _ := second.Notices.Last()
	assert.Equal(t, notify.Notification{Level: notify.LevelError, Message: "Scooter is not available"}, last)

	s, err := secondView.Get("sc-002")
	require.NoError(t, err)
	assert.Equal(t, scooter.Available, s.Status, "a refused booking leaves the local copy alone")

	require.NoError(t, secondView.Load(ctx))
	s, err = secondView.Get("sc-002")
	require.NoError(t, err)
	assert.Equal(t, scooter.InUse, s.Status)
}

func TestBooking_RequiresLogin(t *testing.T) {
	ts := NewTestServer(t)
	defer ts.Close()

	ctx := context.Background()

	rider := ts.NewRider(t)
	view := rider.ScooterView()
	require.Error(t, view.Load(ctx))
	assert.Empty(t, view.Visible(""))
	last, _ := rider.Notices.Last()
	assert.Equal(t, notify.LevelError, last.Level)

	require.Error(t, view.Book(ctx, "sc-001"))
	last, _ = rider.Notices.Last()
	assert.Equal(t, "Not authorized, token failed", last.Message)

	rider.SignUpAndLogIn(t, "alex@mans.edu.eg")
	require.NoError(t, view.Load(ctx))
	s, err := view.Get("sc-001")
	require.NoError(t, err)
	assert.Equal(t, scooter.Available, s.Status, "the refused booking changed nothing")
}
