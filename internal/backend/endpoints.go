package backend

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"github.com/semanticallynull/campusride/account"
	"github.com/semanticallynull/campusride/profile"
	"github.com/semanticallynull/campusride/ride"
	"github.com/semanticallynull/campusride/scooter"
	"github.com/semanticallynull/campusride/wallet"
)

// ListScooters fetches every scooter with its current status.
func (c *Client) ListScooters(ctx context.Context) ([]scooter.Scooter, error) {
	var out []scooter.Scooter
	if err := c.do(ctx, http.MethodGet, "/api/scooter", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// BookScooter reserves a scooter for the session's user. The backend refuses
// the booking when the scooter is no longer available.
func (c *Client) BookScooter(ctx context.Context, id string) (scooter.Booking, error) {
	var out scooter.Booking
	path := fmt.Sprintf("/api/scooter/%s/book", url.PathEscape(id))
	if err := c.do(ctx, http.MethodPatch, path, nil, &out); err != nil {
		return scooter.Booking{}, err
	}
	return out, nil
}

func (c *Client) History(ctx context.Context) ([]ride.Record, error) {
	var out []ride.Record
	if err := c.do(ctx, http.MethodGet, "/api/history", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Ride fetches the receipt of one ride from the history.
func (c *Client) Ride(ctx context.Context, id string) (ride.Receipt, error) {
	var out ride.Receipt
	if err := c.do(ctx, http.MethodGet, "/api/history/"+url.PathEscape(id), nil, &out); err != nil {
		return ride.Receipt{}, err
	}
	return out, nil
}

func (c *Client) Login(ctx context.Context, creds account.Credentials) (account.LoginResult, error) {
	var out data[account.LoginResult]
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", creds, &out); err != nil {
		return account.LoginResult{}, err
	}
	return out.Data, nil
}

func (c *Client) Register(ctx context.Context, r account.Registration) (string, error) {
	var out data[struct {
		Token string `json:"token"`
	}]
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", r, &out); err != nil {
		return "", err
	}
	return out.Data.Token, nil
}

// UploadStudentID sends the image as the multipart field "image", authorized
// with token rather than the client's session.
func (c *Client) UploadStudentID(ctx context.Context, token string, u account.Upload) error {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)
	go func() {
		part, err := mw.CreateFormFile("image", u.Filename)
		if err == nil {
			_, err = io.Copy(part, u.Content)
		}
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/pyqr/upload", pr)
	if err != nil {
		pr.Close()
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return c.send(req, nil)
}

// RequestPasswordReset asks the backend to email a reset link and returns
// its confirmation message.
func (c *Client) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	var out struct {
		Message string `json:"message"`
	}
	body := struct {
		Email string `json:"email"`
	}{Email: email}
	if err := c.do(ctx, http.MethodPost, "/api/forgot-password", body, &out); err != nil {
		return "", err
	}
	return out.Message, nil
}

func (c *Client) Wallet(ctx context.Context) (wallet.Wallet, error) {
	var out wallet.Wallet
	if err := c.do(ctx, http.MethodGet, "/api/wallet", nil, &out); err != nil {
		return wallet.Wallet{}, err
	}
	return out, nil
}

func (c *Client) AddPaymentMethod(ctx context.Context, m wallet.PaymentMethod) (wallet.PaymentMethod, error) {
	var out wallet.PaymentMethod
	if err := c.do(ctx, http.MethodPost, "/api/wallet/payment-methods", m, &out); err != nil {
		return wallet.PaymentMethod{}, err
	}
	return out, nil
}

func (c *Client) RemovePaymentMethod(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/wallet/payment-methods/"+url.PathEscape(id), nil, nil)
}

func (c *Client) SetDefaultPaymentMethod(ctx context.Context, id string) error {
	path := fmt.Sprintf("/api/wallet/payment-methods/%s/default", url.PathEscape(id))
	return c.do(ctx, http.MethodPatch, path, nil, nil)
}

func (c *Client) Profile(ctx context.Context) (profile.Profile, error) {
	var out profile.Profile
	if err := c.do(ctx, http.MethodGet, "/api/profile", nil, &out); err != nil {
		return profile.Profile{}, err
	}
	return out, nil
}

func (c *Client) UpdateSettings(ctx context.Context, s profile.Settings) (profile.Profile, error) {
	var out profile.Profile
	if err := c.do(ctx, http.MethodPatch, "/api/profile/settings", s, &out); err != nil {
		return profile.Profile{}, err
	}
	return out, nil
}

var (
	_ scooter.Backend = (*Client)(nil)
	_ ride.Backend    = (*Client)(nil)
	_ wallet.Backend  = (*Client)(nil)
	_ profile.Backend = (*Client)(nil)
	_ account.Backend = (*Client)(nil)
)
