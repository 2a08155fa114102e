package retell

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePhoneCall(t *testing.T) {
	var gotBody CreatePhoneCallRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/create-phone-call", r.URL.Path)
		assert.Equal(t, "Bearer key_123", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		fmt.Fprint(w, `{"call_id":"call_9","call_status":"registered"}`)
	}))
	defer ts.Close()

	c := NewClient(ts.URL, "key_123")
	resp, err := c.CreatePhoneCall(context.Background(), CreatePhoneCallRequest{
		FromNumber:       "+16509999723",
		ToNumber:         "+14155552671",
		OverrideAgentID:  "agent_x",
		DynamicVariables: map[string]string{"user_name": "Alice"},
	})
	require.NoError(t, err)
	assert.Equal(t, "call_9", resp.CallID)
	assert.Equal(t, "+16509999723", gotBody.FromNumber)
	assert.Equal(t, "agent_x", gotBody.OverrideAgentID)
	assert.Equal(t, "Alice", gotBody.DynamicVariables["user_name"])
}

func TestCreatePhoneCallProviderError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		fmt.Fprint(w, `{"error_message":"insufficient balance"}`)
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL, "k").CreatePhoneCall(context.Background(), CreatePhoneCallRequest{})
	var pErr *ProviderError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, http.StatusPaymentRequired, pErr.StatusCode)
	assert.Equal(t, "insufficient balance", pErr.Message)
}

func TestGetCall(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/get-call/call_9", r.URL.Path)
		fmt.Fprint(w, `{"call_id":"call_9","call_status":"ended","transcript":"Agent: hi"}`)
	}))
	defer ts.Close()

	call, err := NewClient(ts.URL, "k").GetCall(context.Background(), "call_9")
	require.NoError(t, err)
	assert.Equal(t, StatusEnded, call.CallStatus)
	assert.Equal(t, "Agent: hi", call.Transcript)
}

func TestGetCallNotFound(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"call not found"}`)
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL, "k").GetCall(context.Background(), "nope")
	var pErr *ProviderError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, "call not found", pErr.Message)
}
