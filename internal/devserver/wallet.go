package devserver

import (
	"errors"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/semanticallynull/campusride/wallet"
)

type addPaymentMethodRequest struct {
	Type         wallet.MethodType `json:"type" binding:"required,oneof=visa mastercard paypal"`
	ProviderName string            `json:"providerName" binding:"required"`
	Details      string            `json:"details" binding:"required"`
	Expiry       *string           `json:"expiry"`
	Email        *string           `json:"email" binding:"omitempty,email"`
	IsDefault    bool              `json:"isDefault"`
}

func (s *Server) walletHandler(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	var w wallet.Wallet
	err := s.accounts.update(id, func(a *account) error {
		w = a.wallet
		w.PaymentMethods = slices.Clone(a.wallet.PaymentMethods)
		return nil
	})
	if !s.accountResult(c, err, "failed to get wallet") {
		return
	}
	c.JSON(http.StatusOK, w)
}

// addPaymentMethodHandler stores a new method. The first method of a wallet
// becomes its default.
func (s *Server) addPaymentMethodHandler(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}

	var req addPaymentMethodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payment method"})
		return
	}

	m := wallet.PaymentMethod{
		ID:           "pm_" + uuid.NewString(),
		Type:         req.Type,
		ProviderName: req.ProviderName,
		Details:      req.Details,
		Expiry:       req.Expiry,
		Email:        req.Email,
		IsDefault:    req.IsDefault,
	}
	err := s.accounts.update(id, func(a *account) error {
		if len(a.wallet.PaymentMethods) == 0 {
			m.IsDefault = true
		}
		if m.IsDefault {
			for i := range a.wallet.PaymentMethods {
				a.wallet.PaymentMethods[i].IsDefault = false
			}
		}
		a.wallet.PaymentMethods = append(a.wallet.PaymentMethods, m)
		return nil
	})
	if !s.accountResult(c, err, "failed to add payment method") {
		return
	}
	c.JSON(http.StatusCreated, m)
}

func (s *Server) removePaymentMethodHandler(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	methodID := c.Param("id")

	err := s.accounts.update(id, func(a *account) error {
		i := slices.IndexFunc(a.wallet.PaymentMethods, func(m wallet.PaymentMethod) bool { return m.ID == methodID })
		if i < 0 {
			return wallet.ErrMethodNotFound
		}
		a.wallet.PaymentMethods = slices.Delete(a.wallet.PaymentMethods, i, i+1)
		return nil
	})
	if !s.accountResult(c, err, "failed to remove payment method") {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Payment method removed"})
}

func (s *Server) defaultPaymentMethodHandler(c *gin.Context) {
	id, ok := userID(c)
	if !ok {
		return
	}
	methodID := c.Param("id")

	err := s.accounts.update(id, func(a *account) error {
		if !slices.ContainsFunc(a.wallet.PaymentMethods, func(m wallet.PaymentMethod) bool { return m.ID == methodID }) {
			return wallet.ErrMethodNotFound
		}
		for i := range a.wallet.PaymentMethods {
			a.wallet.PaymentMethods[i].IsDefault = a.wallet.PaymentMethods[i].ID == methodID
		}
		return nil
	})
	if !s.accountResult(c, err, "failed to set default payment method") {
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Default payment method updated"})
}

// accountResult answers the error cases of an account update and reports
// whether the handler should go on.
func (s *Server) accountResult(c *gin.Context, err error, msg string) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, ErrAccountNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "User not found"})
	case errors.Is(err, wallet.ErrMethodNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Payment method not found"})
	default:
		internalError(c, msg, err)
	}
	return false
}
