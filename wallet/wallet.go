// Package wallet backs the payment screen: balance and saved payment methods.
package wallet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/semanticallynull/campusride/internal/notify"
)

var ErrMethodNotFound = errors.New("payment method not found")

type MethodType string

const (
	Visa       MethodType = "visa"
	Mastercard MethodType = "mastercard"
	PayPal     MethodType = "paypal"
)

type Wallet struct {
	Balance        float64         `json:"balance"`
	Currency       string          `json:"currency"`
	PaymentMethods []PaymentMethod `json:"paymentMethods"`
}

type PaymentMethod struct {
	ID           string     `json:"id"`
	Type         MethodType `json:"type"`
	ProviderName string     `json:"providerName"`
	// Details is a masked card number or an account email.
	Details   string  `json:"details"`
	Expiry    *string `json:"expiry"`
	IsDefault bool    `json:"isDefault"`
	Email     *string `json:"email"`
}

type Backend interface {
	Wallet(ctx context.Context) (Wallet, error)
	AddPaymentMethod(ctx context.Context, m PaymentMethod) (PaymentMethod, error)
	RemovePaymentMethod(ctx context.Context, id string) error
	SetDefaultPaymentMethod(ctx context.Context, id string) error
}

const (
	msgLoadFailed    = "Failed to load wallet."
	msgAddFailed     = "Could not add payment method."
	msgRemoveFailed  = "Could not remove payment method."
	msgDefaultFailed = "Could not update default payment method."
)

// View holds the wallet for one visit of the payment screen. Changes are
// applied locally only after the backend confirms them.
type View struct {
	backend  Backend
	notifier notify.Notifier
	logger   *slog.Logger

	mu     sync.Mutex
	wallet Wallet
}

func NewView(backend Backend, notifier notify.Notifier, logger *slog.Logger) *View {
	if logger == nil {
		logger = slog.Default()
	}
	return &View{backend: backend, notifier: notifier, logger: logger}
}

func (v *View) Load(ctx context.Context) error {
	w, err := v.backend.Wallet(ctx)
	if err != nil {
		v.logger.ErrorContext(ctx, "failed to fetch wallet", "error", err)
		v.notifier.Error(notify.MessageFrom(err, msgLoadFailed))
		return fmt.Errorf("load wallet: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	w.PaymentMethods = slices.Clone(w.PaymentMethods)
	v.wallet = w
	return nil
}

// Wallet returns a copy of the current wallet.
func (v *View) Wallet() Wallet {
	v.mu.Lock()
	defer v.mu.Unlock()
	w := v.wallet
	w.PaymentMethods = slices.Clone(v.wallet.PaymentMethods)
	return w
}

// Default returns the default payment method, if one is set.
func (v *View) Default() (PaymentMethod, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	i := slices.IndexFunc(v.wallet.PaymentMethods, func(m PaymentMethod) bool { return m.IsDefault })
	if i < 0 {
		return PaymentMethod{}, false
	}
	return v.wallet.PaymentMethods[i], true
}

func (v *View) Add(ctx context.Context, m PaymentMethod) (PaymentMethod, error) {
	created, err := v.backend.AddPaymentMethod(ctx, m)
	if err != nil {
		v.notifier.Error(notify.MessageFrom(err, msgAddFailed))
		return PaymentMethod{}, fmt.Errorf("add payment method: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if created.IsDefault {
		clearDefault(v.wallet.PaymentMethods)
	}
	v.wallet.PaymentMethods = append(v.wallet.PaymentMethods, created)
	v.notifier.Success(created.ProviderName + " added.")
	return created, nil
}

func (v *View) Remove(ctx context.Context, id string) error {
	if err := v.backend.RemovePaymentMethod(ctx, id); err != nil {
		v.notifier.Error(notify.MessageFrom(err, msgRemoveFailed))
		return fmt.Errorf("remove payment method %s: %w", id, err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.wallet.PaymentMethods = slices.DeleteFunc(v.wallet.PaymentMethods, func(m PaymentMethod) bool {
		return m.ID == id
	})
	v.notifier.Success("Payment method removed.")
	return nil
}

func (v *View) SetDefault(ctx context.Context, id string) error {
	if err := v.backend.SetDefaultPaymentMethod(ctx, id); err != nil {
		v.notifier.Error(notify.MessageFrom(err, msgDefaultFailed))
		return fmt.Errorf("set default payment method %s: %w", id, err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	clearDefault(v.wallet.PaymentMethods)
	for i := range v.wallet.PaymentMethods {
		if v.wallet.PaymentMethods[i].ID == id {
			v.wallet.PaymentMethods[i].IsDefault = true
		}
	}
	v.notifier.Success("Default payment method updated.")
	return nil
}

func clearDefault(methods []PaymentMethod) {
	for i := range methods {
		methods[i].IsDefault = false
	}
}
