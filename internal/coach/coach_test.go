package coach

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"tradecoach/internal/models"
)

func detectedMetrics(revenge models.Severity) *models.SummaryMetrics {
	return &models.SummaryMetrics{
		TotalTrades:     40,
		TradesPerDayAvg: 8,
		DetectedBiases: []models.BiasType{
			models.BiasOvertrading,
			models.BiasLossAversion,
			models.BiasRevengeTrading,
		},
		Severities: map[models.BiasType]models.Severity{
			models.BiasOvertrading:    models.SeverityMedium,
			models.BiasLossAversion:   models.SeverityLow,
			models.BiasRevengeTrading: revenge,
		},
		Evidence: map[models.BiasType][]string{
			models.BiasOvertrading: {"You average 8 trades/day."},
		},
	}
}

func TestFallbackOutput(t *testing.T) {
	out := Fallback(detectedMetrics(models.SeverityLow))

	if out.Headline != "We detected 3 behavioral patterns affecting your trading performance." {
		t.Errorf("headline = %q", out.Headline)
	}
	// MEDIUM + LOW + LOW = 22 + 10 + 10.
	if out.OverallRiskScore != 42 {
		t.Errorf("score = %d, want 42", out.OverallRiskScore)
	}
	if len(out.BiasCards) != 3 || len(out.LiteracyModules) != 3 {
		t.Fatalf("got %d cards and %d modules, want 3 each", len(out.BiasCards), len(out.LiteracyModules))
	}

	card := out.BiasCards[0]
	if card.Bias != string(models.BiasOvertrading) || card.Severity != "MEDIUM" {
		t.Errorf("card[0] = %s/%s", card.Bias, card.Severity)
	}
	if len(card.Evidence) != 1 || len(card.Rules) != 3 {
		t.Errorf("card[0] has %d evidence lines and %d rules", len(card.Evidence), len(card.Rules))
	}
	if out.LiteracyModules[1].Title != "Understanding the Disposition Effect" {
		t.Errorf("module[1] = %q", out.LiteracyModules[1].Title)
	}
	if out.OneSentenceNudge == "" || out.BrokerageFit.Summary == "" {
		t.Error("nudge or brokerage fit missing")
	}
}

func TestFallbackRestModeEscalation(t *testing.T) {
	calm := Fallback(detectedMetrics(models.SeverityLow))
	if calm.RestModePlan.RecommendedCooldownMinutes != 30 {
		t.Errorf("cooldown = %d, want 30", calm.RestModePlan.RecommendedCooldownMinutes)
	}
	if calm.RestModePlan.TriggerRule != "Activate after 2 consecutive losses" {
		t.Errorf("trigger = %q", calm.RestModePlan.TriggerRule)
	}

	hot := Fallback(detectedMetrics(models.SeverityHigh))
	if hot.RestModePlan.RecommendedCooldownMinutes != 60 {
		t.Errorf("cooldown = %d, want 60", hot.RestModePlan.RecommendedCooldownMinutes)
	}
	if hot.RestModePlan.TriggerRule != "Activate after any loss exceeding your average loss" {
		t.Errorf("trigger = %q", hot.RestModePlan.TriggerRule)
	}
}

func TestParseOutput(t *testing.T) {
	valid := `{"headline":"Test","overallRiskScore":150,"biasCards":[{"bias":"OVERTRADING","severity":"HIGH"}]}`

	tests := []struct {
		name    string
		raw     string
		wantErr bool
	}{
		{"plain json", valid, false},
		{"json fence", "```json\n" + valid + "\n```", false},
		{"bare fence", "```\n" + valid + "\n```", false},
		{"invalid json", "not json at all", true},
		{"missing headline", `{"biasCards":[{"bias":"OVERTRADING"}]}`, true},
		{"missing cards", `{"headline":"Test"}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := parseOutput(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("parseOutput: %v", err)
			}
			if out.Headline != "Test" {
				t.Errorf("headline = %q", out.Headline)
			}
			// Scores clamp into [0, 100].
			if out.OverallRiskScore != 100 {
				t.Errorf("score = %d, want 100", out.OverallRiskScore)
			}
		})
	}
}

type stubLLM struct {
	response string
	err      error
	calls    int
}

func (s *stubLLM) CompleteWithSystem(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	s.calls++
	return s.response, s.err
}

func TestGenerateUsesLLMResponse(t *testing.T) {
	llm := &stubLLM{response: `{"headline":"From the model","overallRiskScore":55,"biasCards":[{"bias":"OVERTRADING","severity":"MEDIUM"}]}`}
	c := New(llm, 0, zerolog.Nop())

	out, usedFallback := c.Generate(context.Background(), detectedMetrics(models.SeverityLow))
	if usedFallback {
		t.Fatal("fell back despite valid response")
	}
	if out.Headline != "From the model" || out.OverallRiskScore != 55 {
		t.Errorf("unexpected output: %+v", out)
	}
}

func TestGenerateFallsBackOnError(t *testing.T) {
	llm := &stubLLM{err: errors.New("backend down")}
	c := New(llm, 0, zerolog.Nop())

	out, usedFallback := c.Generate(context.Background(), detectedMetrics(models.SeverityLow))
	if !usedFallback {
		t.Fatal("expected fallback")
	}
	if !strings.Contains(out.Headline, "behavioral patterns") {
		t.Errorf("headline = %q, want template headline", out.Headline)
	}
	if llm.calls != 2 {
		t.Errorf("llm called %d times, want 2 (one retry)", llm.calls)
	}
}

func TestGenerateFallsBackOnGarbage(t *testing.T) {
	llm := &stubLLM{response: "I am sorry, I cannot produce JSON today."}
	c := New(llm, 0, zerolog.Nop())

	_, usedFallback := c.Generate(context.Background(), detectedMetrics(models.SeverityLow))
	if !usedFallback {
		t.Fatal("expected fallback on unparseable response")
	}
}

func TestGenerateNilClientIsFallbackOnly(t *testing.T) {
	c := New(nil, 0, zerolog.Nop())
	out, usedFallback := c.Generate(context.Background(), detectedMetrics(models.SeverityLow))
	if !usedFallback || out == nil {
		t.Fatal("nil client should produce template output")
	}
}

func TestBuildPromptIncludesEvidence(t *testing.T) {
	system, user := BuildPrompt(detectedMetrics(models.SeverityLow))
	if !strings.Contains(system, "JSON") {
		t.Error("system prompt does not pin the JSON contract")
	}
	if !strings.Contains(user, "You average 8 trades/day.") {
		t.Error("user prompt missing detector evidence")
	}
	if !strings.Contains(user, string(models.BiasOvertrading)) {
		t.Error("user prompt missing bias names")
	}
}
