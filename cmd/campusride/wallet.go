package main

import (
	"fmt"

	"github.com/samber/lo"

	"github.com/semanticallynull/campusride/wallet"
)

type walletCmd struct {
	Show    walletShowCmd    `cmd:"" default:"1" help:"Show balance and payment methods."`
	Add     walletAddCmd     `cmd:"" help:"Add a payment method."`
	Remove  walletRemoveCmd  `cmd:"" help:"Remove a payment method."`
	Default walletDefaultCmd `cmd:"" help:"Make a payment method the default."`
}

type walletShowCmd struct{}

func (c *walletShowCmd) Run(a *app) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	v := wallet.NewView(a.client, a.notifier, a.logger)
	if err := a.loading("Loading wallet...", func() error { return v.Load(a.ctx) }); err != nil {
		return reported(err)
	}

	w := v.Wallet()
	fmt.Fprintf(a.out, "Balance: %s%.2f\n", w.Currency, w.Balance)
	if len(w.PaymentMethods) == 0 {
		fmt.Fprintln(a.out, "No payment methods saved.")
		return nil
	}

	table := newTable(a.out, "ID", "Type", "Provider", "Details", "Expiry", "Default")
	for _, m := range w.PaymentMethods {
		table.Append([]string{
			m.ID,
			string(m.Type),
			m.ProviderName,
			m.Details,
			lo.FromPtrOr(m.Expiry, "-"),
			lo.Ternary(m.IsDefault, "✔", ""),
		})
	}
	table.Render()
	return nil
}

type walletAddCmd struct {
	Type     string `name:"type" required:"" enum:"visa,mastercard,paypal" help:"One of visa, mastercard, paypal."`
	Provider string `name:"provider" required:"" help:"Display name, e.g. \"Visa\"."`
	Details  string `name:"details" required:"" help:"Masked card number or account email."`
	Expiry   string `name:"expiry" help:"Card expiry as MM/YY."`
	Email    string `name:"email" help:"PayPal account email."`
	Default  bool   `name:"default" help:"Make it the default method."`
}

func (c *walletAddCmd) Run(a *app) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	v := wallet.NewView(a.client, a.notifier, a.logger)
	err := a.loading("Saving...", func() error {
		_, err := v.Add(a.ctx, wallet.PaymentMethod{
			Type:         wallet.MethodType(c.Type),
			ProviderName: c.Provider,
			Details:      c.Details,
			Expiry:       lo.EmptyableToPtr(c.Expiry),
			Email:        lo.EmptyableToPtr(c.Email),
			IsDefault:    c.Default,
		})
		return err
	})
	return reported(err)
}

type walletRemoveCmd struct {
	ID string `arg:""`
}

func (c *walletRemoveCmd) Run(a *app) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	v := wallet.NewView(a.client, a.notifier, a.logger)
	return reported(a.loading("Removing...", func() error { return v.Remove(a.ctx, c.ID) }))
}

type walletDefaultCmd struct {
	ID string `arg:""`
}

func (c *walletDefaultCmd) Run(a *app) error {
	if err := a.requireLogin(); err != nil {
		return err
	}

	v := wallet.NewView(a.client, a.notifier, a.logger)
	return reported(a.loading("Saving...", func() error { return v.SetDefault(a.ctx, c.ID) }))
}
