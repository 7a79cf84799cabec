package main

import (
	"fmt"

	"github.com/fatih/color"

	"github.com/semanticallynull/campusride/scooter"
)

type scootersCmd struct {
	Query string `name:"query" short:"q" help:"Only scooters whose name or location contains this text."`
}

func (c *scootersCmd) Run(a *app) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	view := scooter.NewView(a.client, a.notifier, scooter.WithLogger(a.logger))
	if err := a.loading("Loading scooters...", func() error { return view.Load(a.ctx) }); err != nil {
		return reported(err)
	}

	visible := view.Visible(c.Query)
	if len(visible) == 0 {
		fmt.Fprintln(a.out, "No scooters found.")
		return nil
	}

	markers := make(map[string]scooter.Marker)
	for _, m := range view.Markers(c.Query) {
		markers[m.ScooterID] = m
	}

	table := newTable(a.out, "ID", "Name", "Status", "Location", "Map")
	for _, s := range visible {
		pin := "-"
		if m, ok := markers[s.ID]; ok {
			pin = fmt.Sprintf("%.6f, %.6f", m.Point.Lat, m.Point.Lng)
		}
		table.Append([]string{s.ID, s.Name, statusCell(s.Status), s.Location.Name, pin})
	}
	table.Render()
	return nil
}

func statusCell(s scooter.Status) string {
	if s.Bookable() {
		return color.GreenString(string(s))
	}
	return color.RedString(string(s))
}

type bookCmd struct {
	ID string `arg:"" help:"Scooter ID, as listed by the scooters command."`
}

// Run loads the list first so the confirmation can name the scooter. The
// backend alone decides whether the booking goes through.
func (c *bookCmd) Run(a *app) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	view := scooter.NewView(a.client, a.notifier, scooter.WithLogger(a.logger))
	_ = a.loading("Loading scooters...", func() error { return view.Load(a.ctx) })

	err := a.loading("Booking...", func() error { return view.Book(a.ctx, c.ID) })
	return reported(err)
}
