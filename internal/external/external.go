// Package external contains the HTTP clients for the five backend services
// the gateway composes: auth, events, tickets, transactions and reviews.
// Each service has its own independently configurable base URL.
//
// Response shapes drift across services: some wrap everything in the
// {success, status_code, message, data} envelope, the event and ticket
// services sometimes answer with the raw object. The decode helpers here
// normalize both shapes so nothing outside this package branches on shape.
package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	apperrors "tixgate/internal/errors"
	"tixgate/internal/logger"
	"tixgate/internal/models"
	"tixgate/internal/tokenstore"
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

const defaultTimeout = 30 * time.Second

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout == 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}

// doJSON issues a request with an optional JSON body and the bearer token
// from the context's token store, if one is bound. Transport failures come
// back as *errors.NetworkError.
func doJSON(ctx context.Context, client *http.Client, method, url string, body any) (int, []byte, error) {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if store, ok := tokenstore.FromContext(ctx); ok {
		if token := tokenstore.AccessToken(ctx, store); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, &apperrors.NetworkError{Op: method + " " + url, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, &apperrors.NetworkError{Op: method + " " + url, Err: err}
	}
	return resp.StatusCode, raw, nil
}

// unwrapEnvelope decodes a strict-envelope response into v. A 2xx without
// success or data is an error carrying the server message.
func unwrapEnvelope(status int, raw []byte, v any, fallback string) error {
	var env models.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if !env.Success || status >= 400 {
		return &apperrors.ServiceError{Message: firstNonEmpty(env.Message, fallback), Status: status}
	}
	if v == nil {
		return nil
	}
	if len(env.Data) == 0 {
		return &apperrors.ServiceError{Message: firstNonEmpty(env.Message, fallback), Status: status}
	}
	return json.Unmarshal(env.Data, v)
}

// unwrapFlexible accepts both the envelope and the raw-object shape. A 2xx
// body without a success field is treated as already-unwrapped data.
func unwrapFlexible(status int, raw []byte, v any, fallback string) error {
	var probe struct {
		Success *bool           `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &probe); err == nil && probe.Success != nil {
		if !*probe.Success || status >= 400 {
			return fmt.Errorf("%s", firstNonEmpty(probe.Message, fallback))
		}
		if v == nil {
			return nil
		}
		if len(probe.Data) == 0 {
			return fmt.Errorf("%s", fallback)
		}
		return json.Unmarshal(probe.Data, v)
	}

	if status >= 400 {
		return fmt.Errorf("%s: server returned status %d", fallback, status)
	}
	if v == nil {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func logSaveFailure(ctx context.Context, err error) {
	logger.WithContext(ctx).Error("Failed to persist session record", "error", err)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
