package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"
)

const openAIURL = "https://api.openai.com/v1/chat/completions"

// Report generation is a single long synchronous call; the caller waits.
const openAITimeout = 5 * time.Minute

var (
	// ErrAINotConfigured is returned when no API key is set.
	ErrAINotConfigured = errors.New("openai api key not configured")
	// ErrUpstreamTimeout distinguishes a timed-out generation call from other
	// upstream failures so the caller can report it precisely.
	ErrUpstreamTimeout = errors.New("ai request timed out")
	// ErrUpstreamFailure covers every other transport or API failure from the
	// collaborator: connection errors, non-200 statuses, unreadable replies.
	ErrUpstreamFailure = errors.New("ai request failed")
	// ErrParseFailure means the collaborator's output carried no usable JSON
	// payload. Never silently defaulted; the caller may regenerate.
	ErrParseFailure = errors.New("ai response does not contain valid JSON")
)

type GPTRequest struct {
	Model          string             `json:"model"`
	Messages       []GPTMessage       `json:"messages"`
	Temperature    float64            `json:"temperature"`
	MaxTokens      int                `json:"max_tokens,omitempty"`
	ResponseFormat *GPTResponseFormat `json:"response_format,omitempty"`
}

type GPTMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type GPTResponseFormat struct {
	Type string `json:"type"`
}

type GPTResponse struct {
	Choices []struct {
		Message GPTMessage `json:"message"`
	} `json:"choices"`
}

// AIClient is the completion surface the report and response services
// depend on. Satisfied by OpenAIClient in production and by fakes in tests.
type AIClient interface {
	CompleteJSON(system, prompt string, maxTokens int, temperature float64) (string, error)
	Configured() bool
}

// OpenAIClient is a thin chat-completions client. Constructed once at startup
// and passed into the services that need it.
type OpenAIClient struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	if model == "" {
		model = "gpt-4o"
	}
	return &OpenAIClient{
		apiKey:  apiKey,
		model:   model,
		baseURL: openAIURL,
		client:  &http.Client{Timeout: openAITimeout},
	}
}

func (s *OpenAIClient) Configured() bool {
	return s != nil && s.apiKey != ""
}

// CompleteJSON sends one system+user exchange and returns the raw assistant
// content. response_format json_object is requested, but the output may still
// be wrapped in markdown fences; see ExtractJSONObject.
func (s *OpenAIClient) CompleteJSON(system, prompt string, maxTokens int, temperature float64) (string, error) {
	if !s.Configured() {
		return "", ErrAINotConfigured
	}

	reqBody := GPTRequest{
		Model: s.model,
		Messages: []GPTMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: prompt},
		},
		Temperature:    temperature,
		MaxTokens:      maxTokens,
		ResponseFormat: &GPTResponseFormat{Type: "json_object"},
	}

	bodyBytes, _ := json.Marshal(reqBody)
	req, err := http.NewRequest("POST", s.baseURL, bytes.NewBuffer(bodyBytes))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return "", ErrUpstreamTimeout
		}
		return "", fmt.Errorf("%w: %v", ErrUpstreamFailure, err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: openai api error (%d): %s", ErrUpstreamFailure, resp.StatusCode, string(respBody))
	}

	var gptResp GPTResponse
	if err := json.Unmarshal(respBody, &gptResp); err != nil {
		return "", fmt.Errorf("%w: failed to decode openai response: %v", ErrUpstreamFailure, err)
	}
	if len(gptResp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices in openai response", ErrUpstreamFailure)
	}

	return gptResp.Choices[0].Message.Content, nil
}

func isTimeout(err error) bool {
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return errors.Is(err, os.ErrDeadlineExceeded)
}

var fenceOpenRe = regexp.MustCompile("^```(?:json|JSON)?\\s*\n?")

var fenceCloseRe = regexp.MustCompile("\n?```\\s*$")

// ExtractJSONObject strips markdown fences and surrounding prose from a
// collaborator reply and returns the first balanced JSON object. Returns
// ErrParseFailure when none is present.
func ExtractJSONObject(content string) (string, error) {
	cleaned := strings.TrimSpace(content)

	if strings.HasPrefix(cleaned, "```") {
		cleaned = fenceOpenRe.ReplaceAllString(cleaned, "")
		cleaned = fenceCloseRe.ReplaceAllString(cleaned, "")
		cleaned = strings.TrimSpace(cleaned)
	}

	if strings.HasPrefix(cleaned, "{") {
		return cleaned, nil
	}

	start := strings.Index(cleaned, "{")
	if start < 0 {
		return "", ErrParseFailure
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(cleaned); i++ {
		ch := cleaned[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return cleaned[start : i+1], nil
			}
		}
	}
	return "", ErrParseFailure
}
