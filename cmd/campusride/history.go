package main

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/semanticallynull/campusride/ride"
)

type historyCmd struct {
	Query string `name:"query" short:"q" help:"Only rides on scooters whose name contains this text."`
}

func (c *historyCmd) Run(a *app) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	h := ride.NewHistory(a.client, a.notifier, a.logger)
	if err := a.loading("Loading rides...", func() error { return h.Load(a.ctx) }); err != nil {
		return reported(err)
	}

	records := h.Filter(c.Query)
	if len(records) == 0 {
		fmt.Fprintln(a.out, "No rides yet.")
		return nil
	}

	table := newTable(a.out, "Ride", "Scooter", "From", "To", "Started", "Cost")
	for _, r := range records {
		started := "-"
		if r.StartedAt != nil {
			started = humanize.Time(*r.StartedAt)
		}
		cost := "-"
		if r.Cost != nil {
			cost = fmt.Sprintf("$%.2f", *r.Cost)
		}
		table.Append([]string{r.ID, r.ScooterName(), r.From(), r.To(), started, cost})
	}
	table.Render()
	return nil
}

type rideCmd struct {
	ID string `arg:"" help:"Ride ID, as listed by the history command."`
}

func (c *rideCmd) Run(a *app) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	h := ride.NewHistory(a.client, a.notifier, a.logger)
	var r ride.Receipt
	err := a.loading("Loading ride...", func() (err error) {
		r, err = h.Details(a.ctx, c.ID)
		return err
	})
	if err != nil {
		return reported(err)
	}

	fmt.Fprintf(a.out, "%s · %s\n", r.Status, r.PaymentStatus)
	table := newTable(a.out)
	for _, row := range [][]string{
		{"Date", r.Date},
		{"Time", r.TimeRange},
		{"From", r.StartLocation},
		{"To", r.EndLocation},
		{"Distance", r.Distance},
		{"Duration", r.Duration},
		{"Avg speed", r.AvgSpeed},
		{"Battery used", r.BatteryUsed},
		{"Scooter", r.Scooter.Model + " (" + r.Scooter.ID + ")"},
		{"Battery level", r.Scooter.BatteryLevel},
		{"Base fare", r.Breakdown.BaseFare},
		{"Distance fare", r.Breakdown.DistanceFare},
		{"Time fare", r.Breakdown.TimeFare},
		{"Total", r.TotalCost},
	} {
		table.Append(row)
	}
	table.Render()
	return nil
}
