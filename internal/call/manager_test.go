package call

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scamlab-go/internal/analyzer"
	"scamlab-go/internal/retell"
)

type fakeDialer struct {
	mu          sync.Mutex
	createReq   retell.CreatePhoneCallRequest
	createErr   error
	statusCalls int
	ticksToEnd  int
	transcript  string
}

func (d *fakeDialer) CreatePhoneCall(ctx context.Context, req retell.CreatePhoneCallRequest) (retell.CreatePhoneCallResponse, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.createReq = req
	if d.createErr != nil {
		return retell.CreatePhoneCallResponse{}, d.createErr
	}
	return retell.CreatePhoneCallResponse{CallID: "call_abc"}, nil
}

func (d *fakeDialer) GetCall(ctx context.Context, id string) (retell.Call, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.statusCalls++
	if d.statusCalls <= d.ticksToEnd {
		return retell.Call{CallID: id, CallStatus: "ongoing"}, nil
	}
	return retell.Call{CallID: id, CallStatus: retell.StatusEnded, Transcript: d.transcript}, nil
}

type fakeAnalyzer struct {
	mu          sync.Mutex
	calls       int
	transcripts []string
}

func (a *fakeAnalyzer) Analyze(ctx context.Context, transcript string) (analyzer.Analysis, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	a.transcripts = append(a.transcripts, transcript)
	return analyzer.Analysis{Mistakes: []string{"shared SSN"}, Risks: []string{}, BestPractices: []string{}}, nil
}

func newTestManager(d Dialer, a Analyzer) *Manager {
	m := NewManager(context.Background(), d, a, "agent_test", "+16509999723", 5*time.Second, 30*time.Minute)
	return m.WithClock(&fakeClock{})
}

func TestManagerSubmitRunsPollAndAnalysisOnce(t *testing.T) {
	dialer := &fakeDialer{ticksToEnd: 3, transcript: "T"}
	an := &fakeAnalyzer{}
	m := newTestManager(dialer, an)

	id, err := m.Submit(context.Background(), "Alice", "+14155552671")
	require.NoError(t, err)
	assert.Equal(t, "call_abc", id)

	// dialer received the fixed origin, agent and dynamic user name
	assert.Equal(t, "+16509999723", dialer.createReq.FromNumber)
	assert.Equal(t, "+14155552671", dialer.createReq.ToNumber)
	assert.Equal(t, "agent_test", dialer.createReq.OverrideAgentID)
	assert.Equal(t, "Alice", dialer.createReq.DynamicVariables["user_name"])

	require.Eventually(t, func() bool {
		snap, ok := m.Get(id)
		return ok && snap.Status == StateEnded && snap.Analysis != nil
	}, 2*time.Second, 5*time.Millisecond)

	snap, _ := m.Get(id)
	assert.Equal(t, "T", snap.Transcript)

	an.mu.Lock()
	defer an.mu.Unlock()
	assert.Equal(t, 1, an.calls, "analyzer must run exactly once per completed call")
	assert.Equal(t, []string{"T"}, an.transcripts)
}

func TestManagerSubmitRejectsInvalidInput(t *testing.T) {
	dialer := &fakeDialer{}
	m := newTestManager(dialer, &fakeAnalyzer{})

	_, err := m.Submit(context.Background(), "", "+14155552671")
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	_, err = m.Submit(context.Background(), "Alice", "4155552671")
	require.ErrorAs(t, err, &vErr)

	// nothing was sent to the provider
	assert.Empty(t, dialer.createReq.ToNumber)
}

func TestManagerSubmitSurfacesProviderError(t *testing.T) {
	dialer := &fakeDialer{createErr: &retell.ProviderError{StatusCode: 402, Message: "payment required"}}
	m := newTestManager(dialer, &fakeAnalyzer{})

	_, err := m.Submit(context.Background(), "Alice", "+14155552671")
	var pErr *retell.ProviderError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, 402, pErr.StatusCode)
}

func TestManagerTimedOutCallSkipsAnalysis(t *testing.T) {
	dialer := &fakeDialer{ticksToEnd: 1 << 30}
	an := &fakeAnalyzer{}
	m := NewManager(context.Background(), dialer, an, "agent_test", "+16509999723", 5*time.Second, 15*time.Second)
	m.WithClock(&fakeClock{})

	id, err := m.Submit(context.Background(), "Alice", "+14155552671")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		snap, ok := m.Get(id)
		return ok && snap.Status == StateTimedOut
	}, 2*time.Second, 5*time.Millisecond)

	an.mu.Lock()
	defer an.mu.Unlock()
	assert.Zero(t, an.calls)
}

func TestManagerGetUnknownID(t *testing.T) {
	m := newTestManager(&fakeDialer{}, &fakeAnalyzer{})
	_, ok := m.Get("missing")
	assert.False(t, ok)
}
