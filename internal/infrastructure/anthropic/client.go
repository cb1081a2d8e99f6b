package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"habithero-service/internal/config"
	"habithero-service/internal/domain/entity"
	"habithero-service/internal/domain/service"
)

const (
	defaultBaseURL = "https://api.anthropic.com"
	apiVersion     = "2023-06-01"
)

// jsonFence matches a fenced code block so the model may wrap its JSON answer
// in markdown without breaking parsing.
var jsonFence = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// Client calls the Anthropic messages API to generate quotes and habit analyses
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
}

// NewClient creates a text-generation client backed by the messages API
func NewClient(cfg *config.AnthropicConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.Model,
		maxTokens:  maxTokens,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type messageRequest struct {
	Model     string    `json:"model"`
	MaxTokens int       `json:"max_tokens"`
	System    string    `json:"system,omitempty"`
	Messages  []message `json:"messages"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messageResponse struct {
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// MotivationalQuote asks the model for a short quote about habits
func (c *Client) MotivationalQuote(ctx context.Context) (*entity.Quote, error) {
	system := "You are a motivational assistant for a habit tracking app. " +
		`Respond with a JSON object of the form {"quote": "...", "author": "..."} and nothing else.`
	prompt := "Give me a short motivational quote about building habits, discipline or consistency."

	raw, err := c.complete(ctx, system, prompt)
	if err != nil {
		return nil, err
	}

	var quote entity.Quote
	if err := unmarshalLoose(raw, &quote); err != nil {
		return nil, fmt.Errorf("failed to parse quote response: %w", err)
	}
	if quote.Text == "" {
		return nil, fmt.Errorf("empty quote in response")
	}
	return &quote, nil
}

// AnalyzeHabit asks the model to review a week of progress for one habit
func (c *Client) AnalyzeHabit(ctx context.Context, habit *entity.Habit, weekly *service.WeeklyReport, completionRate int) (*entity.HabitAnalysis, error) {
	system := "You are a habit coach. Analyze the user's habit data. " +
		`Respond with a JSON object of the form {"summary": "...", "recommendations": ["..."], "suggestedImprovements": ["..."]} and nothing else.`

	var days strings.Builder
	for _, d := range weekly.Days {
		fmt.Fprintf(&days, "%s: %d/%d\n", d.Label, d.Progress, habit.Frequency)
	}
	prompt := fmt.Sprintf(
		"Habit: %s\nDescription: %s\nDaily target: %d\nCurrent streak: %d days\n30-day completion rate: %d%%\nThis week:\n%s",
		habit.Title, habit.Description, habit.Frequency, habit.Streak, completionRate, days.String(),
	)

	raw, err := c.complete(ctx, system, prompt)
	if err != nil {
		return nil, err
	}

	var analysis entity.HabitAnalysis
	if err := unmarshalLoose(raw, &analysis); err != nil {
		return nil, fmt.Errorf("failed to parse analysis response: %w", err)
	}
	return &analysis, nil
}

func (c *Client) complete(ctx context.Context, system, prompt string) (string, error) {
	reqBody := messageRequest{
		Model:     c.model,
		MaxTokens: c.maxTokens,
		System:    system,
		Messages:  []message{{Role: "user", Content: prompt}},
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/messages", bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", apiVersion)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to call messages API: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("messages API returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var msgResp messageResponse
	if err := json.Unmarshal(body, &msgResp); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}

	for _, block := range msgResp.Content {
		if block.Type == "text" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("no text content in response")
}

// unmarshalLoose parses raw model output as JSON, accepting either a bare
// object or one wrapped in a markdown code fence.
func unmarshalLoose(raw string, v any) error {
	text := strings.TrimSpace(raw)
	if m := jsonFence.FindStringSubmatch(text); m != nil {
		text = m[1]
	}
	return json.Unmarshal([]byte(text), v)
}

var _ service.TextGenerator = (*Client)(nil)
