package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	maxErrorBodySize   = 4096
)

// ProviderError is returned when a remote provider answers with a non-2xx status.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
}

func (err *ProviderError) Error() string {
	return fmt.Sprintf("%s: HTTP %d: %s", err.Provider, err.StatusCode, err.Message)
}

// IsRateLimited reports a 429 answer, the usual way free tiers signal an exhausted quota.
func (err *ProviderError) IsRateLimited() bool {
	return err.StatusCode == http.StatusTooManyRequests
}

// NewHTTPClient returns the client shared by every provider adapter. Each call is
// additionally bounded by the caller's context.
func NewHTTPClient() *http.Client {
	return &http.Client{Timeout: defaultHTTPTimeout}
}

// do sends request and returns the response when its status is 2xx.
// On error the body is already closed. On success the caller closes it.
func do(client *http.Client, request *http.Request, provider string) (*http.Response, error) {
	response, err := client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%s: sending request: %w", provider, err)
	}
	if response.StatusCode < 200 || response.StatusCode > 299 {
		defer response.Body.Close()
		return nil, readProviderError(response, provider)
	}
	return response, nil
}

func postJSON(ctx context.Context, client *http.Client, endpoint string, headers map[string]string, body, out any, provider string) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("%s: marshaling request: %w", provider, err)
	}
	request, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%s: creating request: %w", provider, err)
	}
	request.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		request.Header.Set(key, value)
	}
	return decodeJSON(client, request, out, provider)
}

func getJSON(ctx context.Context, client *http.Client, endpoint string, out any, provider string) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%s: creating request: %w", provider, err)
	}
	request.Header.Set("Accept", "application/json")
	return decodeJSON(client, request, out, provider)
}

func decodeJSON(client *http.Client, request *http.Request, out any, provider string) error {
	response, err := do(client, request, provider)
	if err != nil {
		return err
	}
	defer response.Body.Close()
	if err = json.NewDecoder(response.Body).Decode(out); err != nil {
		return fmt.Errorf("%s: decoding response: %w", provider, err)
	}
	return nil
}

// readProviderError extracts a message from the common {"error": ...} shapes, falling
// back to the raw body.
func readProviderError(response *http.Response, provider string) error {
	body, _ := io.ReadAll(io.LimitReader(response.Body, maxErrorBodySize))

	var nested struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &nested) == nil && nested.Error.Message != "" {
		return &ProviderError{Provider: provider, StatusCode: response.StatusCode, Message: nested.Error.Message}
	}
	var flat struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(body, &flat) == nil && flat.Error != "" {
		return &ProviderError{Provider: provider, StatusCode: response.StatusCode, Message: flat.Error}
	}

	message := strings.TrimSpace(string(body))
	if message == "" {
		message = http.StatusText(response.StatusCode)
	}
	return &ProviderError{Provider: provider, StatusCode: response.StatusCode, Message: message}
}

func bearer(apiKey string) map[string]string {
	if apiKey == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + apiKey}
}
