package retell

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"scamlab-go/internal/logger"
)

// ProviderError is a non-2xx reply from the calling provider. The provider's
// own message is surfaced when the body carries one.
type ProviderError struct {
	StatusCode int
	Message    string
}

func (e *ProviderError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("provider error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider error (status %d)", e.StatusCode)
}

// CreatePhoneCallRequest is the outbound call submission payload.
type CreatePhoneCallRequest struct {
	FromNumber       string            `json:"from_number"`
	ToNumber         string            `json:"to_number"`
	OverrideAgentID  string            `json:"override_agent_id"`
	DynamicVariables map[string]string `json:"retell_llm_dynamic_variables,omitempty"`
}

type CreatePhoneCallResponse struct {
	CallID string `json:"call_id"`
}

// Call is the provider's view of one outbound call. CallStatus is opaque to
// this service apart from the terminal "ended" value.
type Call struct {
	CallID     string `json:"call_id"`
	CallStatus string `json:"call_status"`
	Transcript string `json:"transcript,omitempty"`
}

// StatusEnded is the terminal call status reported by the provider.
const StatusEnded = "ended"

// Client talks to the calling provider. Requests are not retried; transient
// failures during status polling are absorbed by the poller's next tick.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// CreatePhoneCall submits one outbound call.
func (c *Client) CreatePhoneCall(ctx context.Context, req CreatePhoneCallRequest) (CreatePhoneCallResponse, error) {
	log := logger.New().WithComponent("retell").WithField("to_number", req.ToNumber)

	var resp CreatePhoneCallResponse
	if err := c.doJSON(ctx, http.MethodPost, "/create-phone-call", req, &resp); err != nil {
		log.WithError(err).Warn("create phone call failed")
		return CreatePhoneCallResponse{}, err
	}
	log.WithField("call_id", resp.CallID).Info("call initiated")
	return resp, nil
}

// GetCall fetches the current status of a call.
func (c *Client) GetCall(ctx context.Context, callID string) (Call, error) {
	var call Call
	if err := c.doJSON(ctx, http.MethodGet, "/get-call/"+callID, nil, &call); err != nil {
		return Call{}, err
	}
	return call, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, payload, target any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()

	data, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &ProviderError{StatusCode: resp.StatusCode, Message: providerMessage(data)}
	}
	if err := json.Unmarshal(data, target); err != nil {
		return fmt.Errorf("decode response: %w body=%s", err, string(data))
	}
	return nil
}

// providerMessage digs a human-readable message out of an error body.
func providerMessage(body []byte) string {
	var m struct {
		Message      string `json:"message"`
		ErrorMessage string `json:"error_message"`
		Error        string `json:"error"`
	}
	if err := json.Unmarshal(body, &m); err == nil {
		switch {
		case m.Message != "":
			return m.Message
		case m.ErrorMessage != "":
			return m.ErrorMessage
		case m.Error != "":
			return m.Error
		}
	}
	return ""
}
