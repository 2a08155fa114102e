package analyzer

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

// Analysis is the fixed three-list phishing report produced from one call
// transcript. Immutable once built; absent fields come back as empty lists.
type Analysis struct {
	Mistakes      []string `json:"mistakes"`
	Risks         []string `json:"risks"`
	BestPractices []string `json:"bestPractices"`
}

// AnalysisError is a completion-provider failure (transport error or
// non-2xx). Unparseable replies are not errors; they degrade to an empty
// report instead.
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string { return fmt.Sprintf("analysis failed: %v", e.Err) }
func (e *AnalysisError) Unwrap() error { return e.Err }

const systemPrompt = `You are an expert in cybersecurity and social engineering, specifically trained to analyze phone call transcripts for potential phishing attempts.
You will receive transcripts of phone calls where a user is being tested on their ability to detect phishing. Your job is to break down the call, identify key mistakes the user made,
highlight potential risks of sharing certain details, and provide clear guidance on how to improve.

Return the response as a JSON object with the following format:
{
  "mistakes": ["mistake 1", "mistake 2"],
  "risks": ["risk 1", "risk 2"],
  "bestPractices": ["tip 1", "tip 2"]
}`

const userPromptPrefix = "Here is a transcript of a phone call where I was tested on my ability to detect phishing. Please analyze it and provide feedback on mistakes I made, potential risks, and best practices for handling such situations.\n\n "

// Client proxies the chat-completion provider. One request per analysis; no
// caching, re-invocation re-submits the full transcript.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	http    *http.Client
}

func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		model:   model,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Analyze submits the transcript and parses the constrained JSON reply. A
// reply that cannot be parsed yields an empty report and no error; only the
// provider call itself can fail.
func (c *Client) Analyze(ctx context.Context, transcript string) (Analysis, error) {
	log := logger.New().WithComponent("analyzer")

	reqBody := map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": userPromptPrefix + transcript},
		},
	}
	data, err := json.Marshal(reqBody)
	if err != nil {
		return Analysis{}, &AnalysisError{Err: fmt.Errorf("encode request: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(data))
	if err != nil {
		return Analysis{}, &AnalysisError{Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).Warn("completion request failed")
		return Analysis{}, &AnalysisError{Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.WithField("http_status", resp.StatusCode).Warn("completion provider returned error")
		return Analysis{}, &AnalysisError{Err: fmt.Errorf("completion status %d: %s", resp.StatusCode, string(body))}
	}

	content := contentFromChoices(body)
	return Parse(content), nil
}

// contentFromChoices reads the openai-style choices[0].message.content.
func contentFromChoices(body []byte) string {
	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil || len(parsed.Choices) == 0 {
		return ""
	}
	return parsed.Choices[0].Message.Content
}

// Parse extracts the analysis object from raw completion text. Malformed or
// missing JSON falls back to the empty three-list report; missing fields
// become empty lists.
func Parse(content string) Analysis {
	var a Analysis
	raw := extractJSON(content)
	if raw == "" {
		logger.New().WithComponent("analyzer").Warn("no JSON object in completion reply, returning empty report")
		return emptyAnalysis()
	}
	if err := json.Unmarshal([]byte(raw), &a); err != nil {
		logger.New().WithComponent("analyzer").WithError(err).Warn("completion reply not parseable, returning empty report")
		return emptyAnalysis()
	}
	if a.Mistakes == nil {
		a.Mistakes = []string{}
	}
	if a.Risks == nil {
		a.Risks = []string{}
	}
	if a.BestPractices == nil {
		a.BestPractices = []string{}
	}
	return a
}

func emptyAnalysis() Analysis {
	return Analysis{Mistakes: []string{}, Risks: []string{}, BestPractices: []string{}}
}
