package chapa

import (
	"bytes"
	"context"
	crand "crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"travelapi/internal/adapters/observability"
	"travelapi/internal/domain"
)

var (
	ErrUnauthorized = errors.New("chapa: unauthorized")
	ErrGateway      = errors.New("chapa: gateway error")
)

type Client struct {
	base string
	hc   *http.Client
	key  string
	rl   *rate.Limiter
}

func New(base, secretKey string, rps int) (*Client, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("secret key is required")
	}
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		base: strings.TrimRight(base, "/"),
		hc:   &http.Client{Timeout: 20 * time.Second},
		key:  secretKey,
		rl:   rate.NewLimiter(rate.Limit(rps), rps),
	}, nil
}

type initializeRequest struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Email    string `json:"email"`
	TxRef    string `json:"tx_ref"`
}

type initializeResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    struct {
		CheckoutURL string `json:"checkout_url"`
	} `json:"data"`
}

type verifyResponse struct {
	Status string `json:"status"`
	Data   struct {
		Status    string `json:"status"` // success | failed | pending
		Reference string `json:"reference"`
	} `json:"data"`
}

// Initialize opens a checkout session for the payment and returns the URL
// the caller should redirect the payer to.
func (c *Client) Initialize(ctx context.Context, p domain.Payment, email string) (string, error) {
	body := initializeRequest{
		Amount:   strconv.FormatFloat(p.Amount, 'f', 2, 64),
		Currency: p.Currency,
		Email:    email,
		TxRef:    p.PaymentRef,
	}
	var out initializeResponse
	if err := c.do(ctx, http.MethodPost, "/transaction/initialize", body, &out); err != nil {
		return "", err
	}
	if out.Status != "success" || out.Data.CheckoutURL == "" {
		return "", fmt.Errorf("%w: initialize: %s", ErrGateway, out.Message)
	}
	return out.Data.CheckoutURL, nil
}

// Verify asks the gateway what happened to a transaction.
func (c *Client) Verify(ctx context.Context, txRef string) (domain.PaymentStatus, string, error) {
	var out verifyResponse
	if err := c.do(ctx, http.MethodGet, "/transaction/verify/"+txRef, nil, &out); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", "", domain.ErrNotFound
		}
		return "", "", err
	}
	switch out.Data.Status {
	case "success":
		return domain.PaymentCompleted, out.Data.Reference, nil
	case "failed":
		return domain.PaymentFailed, out.Data.Reference, nil
	default:
		return domain.PaymentProcessing, out.Data.Reference, nil
	}
}

// do performs one call with client-side rate limiting and retries on 429
// and transient 5xx, honoring Retry-After when provided.
func (c *Client) do(ctx context.Context, method, endpoint string, in, out any) error {
	if err := c.rl.Wait(ctx); err != nil {
		return err
	}

	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return err
		}
	}

	var lastErr error
	for i := 0; i < 4; i++ {
		var body io.Reader
		if payload != nil {
			body = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.base+endpoint, body)
		if err != nil {
			return err
		}
		req.Header.Set("Authorization", "Bearer "+c.key)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		start := time.Now()
		resp, err := c.hc.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			lastErr = err
			if i < 3 && sleepCtx(ctx, backoff(i)) {
				continue
			}
			return lastErr
		}
		observability.ObserveExternal("chapa", endpoint, resp.StatusCode, time.Since(start))

		switch resp.StatusCode {
		case http.StatusOK, http.StatusCreated:
			err := json.NewDecoder(resp.Body).Decode(out)
			resp.Body.Close()
			return err

		case http.StatusNotFound:
			resp.Body.Close()
			return domain.ErrNotFound

		case http.StatusUnauthorized, http.StatusForbidden:
			resp.Body.Close()
			return ErrUnauthorized

		case http.StatusTooManyRequests, http.StatusInternalServerError,
			http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			wait := retryAfter(resp)
			resp.Body.Close()
			if wait == 0 {
				wait = backoff(i)
			}
			lastErr = fmt.Errorf("%w: remote %d", ErrGateway, resp.StatusCode)
			if i < 3 && sleepCtx(ctx, wait) {
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return lastErr

		default:
			b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
			resp.Body.Close()
			return fmt.Errorf("%w: status %d: %s", ErrGateway, resp.StatusCode, strings.TrimSpace(string(b)))
		}
	}

	return lastErr
}

// sleepCtx waits for d or returns early if ctx is done.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

// retryAfter parses Retry-After (seconds or HTTP-date). 0 if absent/invalid.
func retryAfter(resp *http.Response) time.Duration {
	h := resp.Header.Get("Retry-After")
	if h == "" {
		return 0
	}
	if secs, err := strconv.Atoi(strings.TrimSpace(h)); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(h); err == nil {
		if d := time.Until(t); d > 0 {
			return d
		}
	}
	return 0
}

// backoff doubles each attempt (200ms, 400ms, 800ms...) with up to +50%
// jitter from crypto/rand.
func backoff(i int) time.Duration {
	base := time.Duration(1<<i) * 200 * time.Millisecond
	var b [1]byte
	if _, err := crand.Read(b[:]); err != nil {
		return base
	}
	f := float64(b[0]) / 255.0
	j := time.Duration(0.5 * f * float64(base))
	return base + j
}
