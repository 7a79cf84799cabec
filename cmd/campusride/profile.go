package main

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/semanticallynull/campusride/profile"
)

type profileCmd struct {
	Show   profileShowCmd   `cmd:"" default:"1" help:"Show profile and settings."`
	Toggle profileToggleCmd `cmd:"" help:"Turn a setting on or off."`
}

type profileShowCmd struct{}

func (c *profileShowCmd) Run(a *app) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	v := profile.NewView(a.client, a.notifier, a.logger)
	if err := a.loading("Loading profile...", func() error { return v.Load(a.ctx) }); err != nil {
		return reported(err)
	}
	printProfile(a, v.Profile())
	return nil
}

type profileToggleCmd struct {
	Setting string `arg:"" enum:"push,email,reminders" help:"One of push, email, reminders."`
}

func (c *profileToggleCmd) Run(a *app) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	v := profile.NewView(a.client, a.notifier, a.logger)
	err := a.loading("Saving...", func() error {
		if err := v.Load(a.ctx); err != nil {
			return err
		}
		return v.Toggle(a.ctx, profile.Setting(c.Setting))
	})
	if err != nil {
		return reported(err)
	}
	printProfile(a, v.Profile())
	return nil
}

func printProfile(a *app, p profile.Profile) {
	fmt.Fprintf(a.out, "%s <%s>\n", p.FullName(), p.Email)
	fmt.Fprintf(a.out, "Student ID: %s\n", lo.Ternary(p.StudentID == "", "not verified", p.StudentID))

	onOff := func(b bool) string { return lo.Ternary(b, "on", "off") }
	table := newTable(a.out, "Setting", "Name", "State")
	table.Append([]string{"Push notifications", string(profile.PushNotifications), onOff(p.Settings.PushNotifications)})
	table.Append([]string{"Email notifications", string(profile.EmailNotifications), onOff(p.Settings.EmailNotifications)})
	table.Append([]string{"Ride reminders", string(profile.RideReminders), onOff(p.Settings.RideReminders)})
	table.Render()
}
