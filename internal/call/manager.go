package call

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"scamlab-go/internal/analyzer"
	"scamlab-go/internal/logger"
	"scamlab-go/internal/retell"
)

// Dialer is the calling-provider surface the manager needs.
type Dialer interface {
	CreatePhoneCall(ctx context.Context, req retell.CreatePhoneCallRequest) (retell.CreatePhoneCallResponse, error)
	GetCall(ctx context.Context, callID string) (retell.Call, error)
}

// Analyzer produces the phishing report from a finished transcript.
type Analyzer interface {
	Analyze(ctx context.Context, transcript string) (analyzer.Analysis, error)
}

// Snapshot is the externally visible state of one tracked call.
type Snapshot struct {
	CallID        string             `json:"call_id"`
	Status        State              `json:"status"`
	Transcript    string             `json:"transcript,omitempty"`
	Analysis      *analyzer.Analysis `json:"analysis,omitempty"`
	AnalysisError string             `json:"analysis_error,omitempty"`
}

// Manager validates submissions, creates provider calls and tracks each one
// through polling and analysis. State lives only in memory for the lifetime
// of the call; there is no persistence.
type Manager struct {
	dialer     Dialer
	analyzer   Analyzer
	agentID    string
	fromNumber string
	interval   time.Duration
	ceiling    time.Duration
	clock      Clock
	log        *logrus.Entry

	baseCtx context.Context

	mu    sync.Mutex
	calls map[string]*Snapshot
}

func NewManager(ctx context.Context, dialer Dialer, an Analyzer, agentID, fromNumber string, interval, ceiling time.Duration) *Manager {
	return &Manager{
		dialer:     dialer,
		analyzer:   an,
		agentID:    agentID,
		fromNumber: fromNumber,
		interval:   interval,
		ceiling:    ceiling,
		clock:      SystemClock,
		log:        logger.New().WithComponent("call.manager"),
		baseCtx:    ctx,
		calls:      map[string]*Snapshot{},
	}
}

// WithClock swaps the poller clock. Tests use this to avoid real timers.
func (m *Manager) WithClock(c Clock) *Manager {
	m.clock = c
	return m
}

// Submit validates the inputs, creates the outbound call and starts polling
// it in the background. The returned id keys later Get lookups.
func (m *Manager) Submit(ctx context.Context, userName, phoneNumber string) (string, error) {
	if err := Validate(userName, phoneNumber); err != nil {
		return "", err
	}

	resp, err := m.dialer.CreatePhoneCall(ctx, retell.CreatePhoneCallRequest{
		FromNumber:       m.fromNumber,
		ToNumber:         phoneNumber,
		OverrideAgentID:  m.agentID,
		DynamicVariables: map[string]string{"user_name": userName},
	})
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	m.calls[resp.CallID] = &Snapshot{CallID: resp.CallID, Status: StatePolling}
	m.mu.Unlock()

	go m.watch(resp.CallID)
	return resp.CallID, nil
}

// Get returns a copy of the call's current snapshot.
func (m *Manager) Get(callID string) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.calls[callID]
	if !ok {
		return Snapshot{}, false
	}
	return *s, true
}

// watch drives one call to a terminal state, then runs the analysis exactly
// once if the call ended with a transcript.
func (m *Manager) watch(callID string) {
	log := m.log.WithField("call_id", callID)
	p := &Poller{
		Interval: m.interval,
		Ceiling:  m.ceiling,
		Clock:    m.clock,
		Status:   m.dialer.GetCall,
		Log:      log,
	}

	res, err := p.Run(m.baseCtx, callID)
	if err != nil {
		log.WithField("error", err.Error()).Warn("polling cancelled")
		return
	}

	m.mu.Lock()
	snap := m.calls[callID]
	snap.Status = res.State
	snap.Transcript = res.Call.Transcript
	m.mu.Unlock()

	if res.State != StateEnded {
		return
	}

	a, err := m.analyzer.Analyze(m.baseCtx, res.Call.Transcript)
	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil {
		log.WithField("error", err.Error()).Warn("transcript analysis failed")
		snap.AnalysisError = err.Error()
		return
	}
	snap.Analysis = &a
	log.Info("analysis ready")
}
