package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/sync/singleflight"

	"earn-dashboard/internal/models"
)

// HeaderRequestID carries the idempotency token of a withdrawal submission.
const HeaderRequestID = "X-Request-ID"

const maxErrorBody = 256

// Client talks to the earn backend over its JSON API.
type Client struct {
	baseURL string
	timeout time.Duration
	loads   singleflight.Group
}

func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), timeout: timeout}
}

// LoadUser fetches the snapshot for telegramID. Concurrent calls for the same id share one request.
func (c *Client) LoadUser(ctx context.Context, telegramID int64) (*models.UserSnapshot, error) {
	key := strconv.FormatInt(telegramID, 10)
	v, err, _ := c.loads.Do(key, func() (interface{}, error) {
		var snap models.UserSnapshot
		if err := c.send(ctx, fiber.MethodGet, "/api/user/"+key, nil, "", &snap); err != nil {
			return nil, err
		}
		return &snap, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.UserSnapshot).Clone(), nil
}

// ListAds fetches the current ad catalog.
func (c *Client) ListAds(ctx context.Context) ([]models.Ad, error) {
	var catalog models.AdCatalog
	if err := c.send(ctx, fiber.MethodGet, "/api/ads", nil, "", &catalog); err != nil {
		return nil, err
	}
	return catalog.Ads, nil
}

// SubmitWithdrawal posts req; any 2xx counts as accepted and the body is ignored.
func (c *Client) SubmitWithdrawal(ctx context.Context, req models.WithdrawalRequest, requestID string) error {
	return c.send(ctx, fiber.MethodPost, "/api/withdraw", req, requestID, nil)
}

func (c *Client) send(ctx context.Context, method, path string, body interface{}, requestID string, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return &TransportError{Err: err}
	}
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if until := time.Until(deadline); until < timeout {
			timeout = until
		}
	}
	if timeout <= 0 {
		return &TransportError{Err: context.DeadlineExceeded}
	}

	a := fiber.AcquireAgent()
	req := a.Request()
	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	a.Timeout(timeout)
	a.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if requestID != "" {
		a.Set(HeaderRequestID, requestID)
	}
	if body != nil {
		a.JSON(body)
	}
	if err := a.Parse(); err != nil {
		fiber.ReleaseAgent(a)
		return &TransportError{Err: err}
	}

	code, respBody, errs := a.Bytes()
	if len(errs) > 0 {
		return &TransportError{Err: errors.Join(errs...)}
	}
	if code < 200 || code > 299 {
		msg := string(respBody)
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return &StatusError{Code: code, Body: strings.TrimSpace(msg)}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
