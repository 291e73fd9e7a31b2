package adapter

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/MKhiriev/go-nest-keeper/internal/config"
	"github.com/MKhiriev/go-nest-keeper/internal/logger"
	"github.com/MKhiriev/go-nest-keeper/internal/utils"
	"github.com/MKhiriev/go-nest-keeper/models"
	"github.com/go-resty/resty/v2"
)

type httpServerAdapter struct {
	client *utils.HTTPClient
	guard  *refreshGuard

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of [ServerAdapter].
// It normalises and validates the base URL from adapterCfg.ServerURL, configures
// the underlying HTTP client with the resolved base URL and request timeout,
// and wires the refresh guard to the device credential carried in appCfg.
//
// Returns an error if adapterCfg.ServerURL is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(adapterCfg config.AgentAdapter, appCfg config.AgentApp, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(adapterCfg.ServerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter server url: %w", err)
	}

	client := utils.NewHTTPClient()
	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	h := &httpServerAdapter{client: client, logger: logger}
	h.guard = newRefreshGuard(h.Token, func(ctx context.Context) (string, error) {
		response, err := h.requestRefresh(ctx, appCfg.DeviceID, appCfg.RefreshToken)
		if err != nil {
			return "", err
		}

		// commit before the flight ends so joined and late callers all
		// observe the rotation
		h.SetToken(response.AccessToken)
		return response.AccessToken, nil
	})
	h.SetToken(appCfg.AccessToken)

	return h, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed) for
// use in the Authorization header of all subsequent authenticated requests.
func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter]. It returns the bearer token currently held
// by the adapter, or an empty string if none has been set.
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// OnSessionExpired implements [ServerAdapter].
func (h *httpServerAdapter) OnSessionExpired(callback func()) {
	h.guard.OnSessionExpired(callback)
}

// PushEvents implements [ServerAdapter]. It POSTs the event batch to
// POST /sync/push and decodes the per-event acknowledgements. Runs through
// the refresh guard on 401.
func (h *httpServerAdapter) PushEvents(ctx context.Context, request models.PushRequest) (models.PushResponse, error) {
	var response models.PushResponse

	resp, err := h.authed(ctx, func(token string) (*resty.Response, error) {
		return h.request(ctx, token).
			SetHeader("Content-Type", "application/json").
			SetBody(request).
			SetResult(&response).
			Post("/sync/push")
	})
	if err != nil {
		return models.PushResponse{}, fmt.Errorf("push request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PushResponse{}, err
	}

	return response, nil
}

// PullSince implements [ServerAdapter]. It GETs /sync/pull with the cursor in
// the since query parameter (omitted entirely for a first pull) and decodes
// the changeset. Runs through the refresh guard on 401.
func (h *httpServerAdapter) PullSince(ctx context.Context, cursor string) (models.PullResponse, error) {
	var response models.PullResponse

	resp, err := h.authed(ctx, func(token string) (*resty.Response, error) {
		req := h.request(ctx, token).SetResult(&response)
		if cursor != "" {
			req.SetQueryParam("since", cursor)
		}
		return req.Get("/sync/pull")
	})
	if err != nil {
		return models.PullResponse{}, fmt.Errorf("pull request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.PullResponse{}, err
	}

	return response, nil
}

// FetchStatus implements [ServerAdapter]. It GETs /sync/status and decodes the
// device's replication bookkeeping. Runs through the refresh guard on 401.
func (h *httpServerAdapter) FetchStatus(ctx context.Context) (models.StatusResponse, error) {
	var response models.StatusResponse

	resp, err := h.authed(ctx, func(token string) (*resty.Response, error) {
		return h.request(ctx, token).
			SetResult(&response).
			Get("/sync/status")
	})
	if err != nil {
		return models.StatusResponse{}, fmt.Errorf("status request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.StatusResponse{}, err
	}

	return response, nil
}

// Ping implements [ServerAdapter]. It GETs the unauthenticated /health
// endpoint; any transport error or non-2xx status reports the server as
// unreachable.
func (h *httpServerAdapter) Ping(ctx context.Context) error {
	resp, err := h.client.R().SetContext(ctx).Get("/health")
	if err != nil {
		return fmt.Errorf("ping request: %w", err)
	}

	return mapHTTPError(resp)
}

// authed sends a request with the current access token and funnels any 401
// through the refresh guard, retrying the original request once with the
// rotated credential. send must build a fresh resty request on every call.
func (h *httpServerAdapter) authed(ctx context.Context, send func(token string) (*resty.Response, error)) (*resty.Response, error) {
	used := h.Token()

	resp, err := send(used)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode() != http.StatusUnauthorized {
		return resp, nil
	}

	token, err := h.refreshedToken(ctx, used)
	if err != nil {
		return nil, err
	}

	return send(token)
}

// refreshedToken returns a token newer than the one a failed request used.
// When another caller already rotated the credential the fresh token is
// reused as-is; otherwise the guard performs (or joins) a refresh.
func (h *httpServerAdapter) refreshedToken(ctx context.Context, used string) (string, error) {
	if current := h.Token(); current != used {
		return current, nil
	}

	return h.guard.Refresh(ctx, used)
}

func (h *httpServerAdapter) requestRefresh(ctx context.Context, deviceID, refreshToken string) (models.RefreshResponse, error) {
	var response models.RefreshResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(models.RefreshRequest{DeviceID: deviceID, RefreshToken: refreshToken}).
		SetResult(&response).
		Post("/auth/refresh")
	if err != nil {
		return models.RefreshResponse{}, fmt.Errorf("refresh request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.RefreshResponse{}, err
	}

	return response, nil
}

func (h *httpServerAdapter) request(ctx context.Context, token string) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}
