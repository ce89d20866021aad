package coach

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	apperrors "tradecoach/internal/errors"
	"tradecoach/internal/models"
	"tradecoach/pkg/utils"
)

// LLMClient is the completion surface the coach needs. *openai.Client is
// wrapped by OpenAIClient; tests substitute a stub.
type LLMClient interface {
	CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// OpenAIClient implements LLMClient against the OpenAI chat API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

// NewOpenAIClient creates a chat client for the given model.
func NewOpenAIClient(apiKey, model string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

// CompleteWithSystem sends a system + user message pair and returns the text.
func (c *OpenAIClient) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return "", apperrors.NewCoachError("completion", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.NewCoachError("completion", apperrors.ErrCoachUnavailable)
	}
	return resp.Choices[0].Message.Content, nil
}

// Coach renders coaching output, preferring the LLM and falling back to
// templates on any failure. The analysis result itself never depends on it.
type Coach struct {
	llm     LLMClient
	timeout time.Duration
	logger  zerolog.Logger
}

// New builds a Coach. A nil llm means fallback-only.
func New(llm LLMClient, timeout time.Duration, logger zerolog.Logger) *Coach {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Coach{llm: llm, timeout: timeout, logger: logger}
}

// Generate returns coaching output plus whether the template fallback was
// used. It never returns an error: any LLM failure, timeout, or malformed
// response downgrades to the fallback.
func (c *Coach) Generate(ctx context.Context, m *models.SummaryMetrics) (*models.CoachOutput, bool) {
	if c.llm == nil {
		return Fallback(m), true
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	systemPrompt, userPrompt := BuildPrompt(m)
	retryCfg := utils.DefaultRetryConfig()
	retryCfg.MaxAttempts = 2
	raw, err := utils.RetryWithResult(ctx, retryCfg, func() (string, error) {
		return c.llm.CompleteWithSystem(ctx, systemPrompt, userPrompt)
	})
	if err != nil {
		c.logger.Warn().Err(err).Msg("coach backend failed, using template fallback")
		return Fallback(m), true
	}

	out, err := parseOutput(raw)
	if err != nil {
		c.logger.Warn().Err(err).Msg("coach response unparseable, using template fallback")
		return Fallback(m), true
	}
	return out, false
}

// parseOutput decodes the model's JSON, tolerating markdown code fences.
func parseOutput(raw string) (*models.CoachOutput, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if i := strings.LastIndex(s, "```"); i >= 0 {
			s = s[:i]
		}
		s = strings.TrimSpace(s)
	}

	var out models.CoachOutput
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil, apperrors.NewCoachError("decode", err)
	}
	if out.Headline == "" || len(out.BiasCards) == 0 {
		return nil, apperrors.NewCoachError("decode", apperrors.NewValidationError(
			"coachOutput", s[:min(len(s), 80)], "missing headline or bias cards"))
	}
	if out.OverallRiskScore < 0 {
		out.OverallRiskScore = 0
	}
	if out.OverallRiskScore > 100 {
		out.OverallRiskScore = 100
	}
	return &out, nil
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
