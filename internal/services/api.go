// API client for the streaming backend
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/desertthunder/soundx/internal/shared"
	"golang.org/x/oauth2"
)

const defaultBaseURL = "http://localhost:3001/api"

// APIClient sends JSON requests to the backend, one attempt per call.
type APIClient struct {
	baseURL     string
	httpClient  *http.Client
	credentials CredentialSource
}

var _ Catalog = (*APIClient)(nil)

// NewAPIClient creates a client for baseURL. A nil client uses [http.DefaultClient]; a nil
// source sends no Authorization header unless a request context carries [WithCredential].
func NewAPIClient(baseURL string, client *http.Client, credentials CredentialSource) *APIClient {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if credentials == nil {
		credentials = CredentialFunc(func() string { return "" })
	}

	return &APIClient{
		baseURL:     strings.TrimRight(baseURL, "/"),
		httpClient:  client,
		credentials: credentials,
	}
}

// BaseURL returns the API root requests are sent to.
func (a *APIClient) BaseURL() string {
	return a.baseURL
}

// APIError is a failed backend call. Message is suitable for display to the user.
type APIError struct {
	Status  int // HTTP status, 0 for transport failures
	Message string
	Err     error
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap exposes [shared.ErrAPIRequest] and the underlying cause, if any.
func (e *APIError) Unwrap() []error {
	if e.Err == nil {
		return []error{shared.ErrAPIRequest}
	}
	return []error{shared.ErrAPIRequest, e.Err}
}

// StatusOf returns the HTTP status of an [*APIError] in err's chain, or 0.
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// APIResponse represents a raw API response with status and body.
type APIResponse struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
	IsJSON     bool
	JSONData   any
}

// OK reports whether the status is 2xx.
func (r *APIResponse) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Send performs method on endpoint with body encoded as JSON (nil for none) and decodes a
// successful response into out (nil to discard). Non-2xx responses become [*APIError].
func (a *APIClient) Send(ctx context.Context, method, endpoint string, body, out any) error {
	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: failed to encode request: %v", shared.ErrAPIRequest, err)
		}
		payload = data
	}

	resp, err := a.Do(ctx, method, endpoint, payload)
	if err != nil {
		return err
	}

	if !resp.OK() {
		return newAPIError(resp.StatusCode, resp.Body)
	}

	if out == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}

	if err := json.Unmarshal(resp.Body, out); err != nil {
		return &APIError{Status: resp.StatusCode, Message: "failed to decode response", Err: err}
	}
	return nil
}

// Do performs a single request and returns the raw response regardless of status.
func (a *APIClient) Do(ctx context.Context, method, endpoint string, payload []byte) (*APIResponse, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+endpoint, reader)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("failed to create request: %v", err), Err: err}
	}

	req.Header.Set("Content-Type", "application/json")
	a.authorize(req)

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Message: fmt.Sprintf("request failed: %v", err), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Status: resp.StatusCode, Message: fmt.Sprintf("failed to read response: %v", err), Err: err}
	}

	apiResp := &APIResponse{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	var jsonData any
	if err := json.Unmarshal(body, &jsonData); err == nil {
		apiResp.IsJSON = true
		apiResp.JSONData = jsonData
	}

	return apiResp, nil
}

// Get performs a GET request to the specified path and returns the raw response.
func (a *APIClient) Get(ctx context.Context, path string) (*APIResponse, error) {
	return a.Do(ctx, http.MethodGet, path, nil)
}

// Post performs a POST request with the given JSON data and returns the raw response.
func (a *APIClient) Post(ctx context.Context, path string, data []byte) (*APIResponse, error) {
	if data == nil {
		data = []byte{}
	}
	return a.Do(ctx, http.MethodPost, path, data)
}

func (a *APIClient) authorize(req *http.Request) {
	credential, ok := CredentialFromContext(req.Context())
	if !ok {
		credential = a.credentials.Credential()
	}
	if credential == "" {
		return
	}

	token := &oauth2.Token{AccessToken: credential, TokenType: "Bearer"}
	token.SetAuthHeader(req)
}

// newAPIError builds the error for a non-2xx response, preferring the backend's {"error": ...}.
func newAPIError(status int, body []byte) *APIError {
	var errResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		return &APIError{Status: status, Message: errResp.Error}
	}
	return &APIError{Status: status, Message: fmt.Sprintf("Request failed: %d", status)}
}
