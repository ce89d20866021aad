// Package coach turns the deterministic analysis into plain-language
// guidance. An LLM backend renders it when configured; a template fallback
// produces equivalent output when it is not, so coaching never blocks on a
// network call.
package coach

import (
	"fmt"
	"strings"

	"tradecoach/internal/models"
)

const systemPrompt = `You are a behavioral finance coach analyzing a retail trader's patterns.

STRICT RULES:
1. Use ONLY the evidence lines and metrics provided below. Do NOT invent statistics or numbers.
2. Respond with ONLY valid JSON matching the exact schema specified.
3. Be empathetic but direct. This trader needs actionable advice.
4. Reference specific numbers from the evidence when giving recommendations.
5. Keep each field concise.

OUTPUT JSON SCHEMA:
{
  "headline": "One-sentence summary of the trader's key behavioral patterns",
  "overallRiskScore": <number 0-100>,
  "biasCards": [
    {
      "bias": "OVERTRADING|LOSS_AVERSION|REVENGE_TRADING",
      "severity": "LOW|MEDIUM|HIGH",
      "evidence": ["evidence line 1", "evidence line 2"],
      "whyItHurts": "Brief explanation of impact",
      "rules": [{"title": "Rule name", "details": "Rule description"}],
      "microHabit": "One small actionable habit"
    }
  ],
  "literacyModules": [
    {
      "title": "Module title",
      "minutes": 3,
      "lesson": "Educational content about the bias",
      "oneRule": "Single actionable rule",
      "reflectionQuestion": "A question for self-reflection",
      "miniChallenge": "A challenge for their next session"
    }
  ],
  "brokerageFit": {
    "summary": "How their trading style relates to brokerage choice",
    "recommendations": ["recommendation 1", "recommendation 2"]
  },
  "restModePlan": {
    "recommendedCooldownMinutes": <number>,
    "triggerRule": "When to activate rest mode",
    "script": "Step-by-step cooldown instructions"
  },
  "oneSentenceNudge": "A motivational closing sentence"
}`

// BuildPrompt renders the metrics into the system and user messages. Only
// computed numbers appear in the prompt; the model is told to use no others.
func BuildPrompt(m *models.SummaryMetrics) (string, string) {
	var b strings.Builder
	b.WriteString("Here are the trader's metrics and detected biases. Analyze them and generate coaching output.\n\n")
	b.WriteString("TRADER METRICS:\n")
	fmt.Fprintf(&b, "- Trading window: %s\n", m.TradingWindow)
	fmt.Fprintf(&b, "- Total trades: %d\n", m.TotalTrades)
	fmt.Fprintf(&b, "- Active days: %d\n", m.ActiveDays)
	fmt.Fprintf(&b, "- Trades/day avg: %v\n", m.TradesPerDayAvg)
	fmt.Fprintf(&b, "- Trades/day max: %d\n", m.TradesPerDayMax)
	fmt.Fprintf(&b, "- Avg minutes between trades: %v\n", m.AvgMinutesBetweenTrades)
	fmt.Fprintf(&b, "- Win rate: %.1f%%\n", m.WinRate*100)
	fmt.Fprintf(&b, "- Avg win: $%v\n", m.AvgWin)
	fmt.Fprintf(&b, "- Avg loss: $%v\n", m.AvgLoss)
	fmt.Fprintf(&b, "- Profit factor: %v\n", m.ProfitFactor)
	if m.AvgHoldMinutesWins != nil {
		fmt.Fprintf(&b, "- Avg hold time (wins): %v min\n", *m.AvgHoldMinutesWins)
	}
	if m.AvgHoldMinutesLosses != nil {
		fmt.Fprintf(&b, "- Avg hold time (losses): %v min\n", *m.AvgHoldMinutesLosses)
	}
	fmt.Fprintf(&b, "- Post-loss trades within 30min (avg): %v\n", m.PostLossTradesWithin30MinAvg)
	fmt.Fprintf(&b, "- Post-loss win rate: %.1f%%\n", m.PostLossWinRate*100)
	if len(m.WorstHours) > 0 {
		fmt.Fprintf(&b, "- Worst hours: %s\n", strings.Join(m.WorstHours, ", "))
	} else {
		b.WriteString("- Worst hours: N/A\n")
	}

	b.WriteString("\nDETECTED BIASES:\n")
	for i, bias := range m.DetectedBiases {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s (%s)\n  Evidence:\n", bias, m.Severities[bias])
		for _, e := range m.Evidence[bias] {
			fmt.Fprintf(&b, "    * %s\n", e)
		}
	}

	b.WriteString("\nGenerate the coaching JSON now. Remember: use ONLY the numbers above, do not invent any statistics.")
	return systemPrompt, b.String()
}
