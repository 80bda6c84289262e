package adapter

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/golang-jwt/jwt/v5"

	"github.com/MKhiriev/geosync/internal/logger"
	"github.com/MKhiriev/geosync/models"
)

// HTTPClientConfig carries transport settings for the resty-backed client.
type HTTPClientConfig struct {
	Timeout          time.Duration
	RetryCount       int
	RetryWaitTime    time.Duration
	RetryMaxWaitTime time.Duration
}

type httpRemoteClient struct {
	client *resty.Client
	log    *logger.Logger
}

// NewHTTPRemoteClient builds a RemoteClient over resty. Transient failures
// (transport errors and 5xx responses) are retried with exponential backoff
// up to cfg.RetryCount attempts; 4xx responses and malformed payloads are
// surfaced immediately.
func NewHTTPRemoteClient(cfg HTTPClientConfig, log *logger.Logger) RemoteClient {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RetryCount < 0 {
		cfg.RetryCount = 0
	}
	if cfg.RetryWaitTime <= 0 {
		cfg.RetryWaitTime = 500 * time.Millisecond
	}
	if cfg.RetryMaxWaitTime <= 0 {
		cfg.RetryMaxWaitTime = 10 * time.Second
	}

	cli := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(cfg.RetryWaitTime).
		SetRetryMaxWaitTime(cfg.RetryMaxWaitTime).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
			}
			return r.StatusCode() >= http.StatusInternalServerError
		})

	return &httpRemoteClient{client: cli, log: log}
}

// Fetch implements RemoteClient.
func (c *httpRemoteClient) Fetch(ctx context.Context, bookmark models.Bookmark) (models.RemoteSnapshot, error) {
	if err := checkTokenExpiry(bookmark.Token); err != nil {
		return models.RemoteSnapshot{}, err
	}

	resp, err := c.authedRequest(ctx, bookmark.Token).
		SetHeader("Accept", "application/geo+json, application/json").
		Get(bookmark.URL)
	if err != nil {
		return models.RemoteSnapshot{}, wrapTransportError("fetch", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RemoteSnapshot{}, err
	}

	snapshot, err := parseSnapshot(resp.Body())
	if err != nil {
		return models.RemoteSnapshot{}, err
	}
	snapshot.FetchedAt = time.Now()

	c.log.Debug().
		Str("url", bookmark.URL).
		Int("features", len(snapshot.Features)).
		Msg("fetched remote snapshot")

	return snapshot, nil
}

// Push implements RemoteClient.
func (c *httpRemoteClient) Push(ctx context.Context, bookmark models.Bookmark, edits []models.PendingEdit) (models.PushResult, error) {
	if len(edits) == 0 {
		return models.PushResult{}, nil
	}
	if err := checkTokenExpiry(bookmark.Token); err != nil {
		return models.PushResult{}, err
	}

	payload, err := buildPushCollection(edits)
	if err != nil {
		return models.PushResult{}, fmt.Errorf("build push payload: %w", err)
	}

	resp, err := c.authedRequest(ctx, bookmark.Token).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(bookmark.URL)
	if err != nil {
		return models.PushResult{}, wrapTransportError("push", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PushResult{}, err
	}

	result := parsePushResult(resp.Body(), edits)

	c.log.Debug().
		Str("url", bookmark.URL).
		Int("sent", len(edits)).
		Int("applied", len(result.Applied)).
		Msg("pushed pending edits")

	return result, nil
}

func (c *httpRemoteClient) authedRequest(ctx context.Context, token string) *resty.Request {
	req := c.client.R().SetContext(ctx)
	if token = strings.TrimSpace(token); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func wrapTransportError(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %s request: %v", ErrNetwork, op, err)
}

func mapHTTPError(resp *resty.Response) error {
	code := resp.StatusCode()
	if code >= http.StatusOK && code < http.StatusMultipleChoices {
		return nil
	}

	body := strings.TrimSpace(string(resp.Body()))
	if body == "" {
		body = http.StatusText(code)
	}

	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return fmt.Errorf("%w: http %d: %s", ErrAuth, code, body)
	case code >= http.StatusInternalServerError:
		return fmt.Errorf("%w: http %d: %s", ErrServer, code, body)
	default:
		return fmt.Errorf("http %d: %s", code, body)
	}
}

// checkTokenExpiry fails fast with ErrAuth when the bookmark token is a JWT
// whose expiry has already passed, saving a round trip that is certain to be
// rejected. Opaque non-JWT tokens pass through untouched.
func checkTokenExpiry(token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}

	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return nil // not a JWT, let the server decide
	}

	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if exp.Before(time.Now()) {
		return fmt.Errorf("%w: token expired at %s", ErrAuth, exp.Format(time.RFC3339))
	}
	return nil
}
