package coach

import (
	"fmt"

	"tradecoach/internal/biases"
	"tradecoach/internal/models"
)

// Fallback builds coaching output entirely from templates keyed by the
// detected biases. It is deterministic and always succeeds.
func Fallback(m *models.SummaryMetrics) *models.CoachOutput {
	results := make([]models.BiasResult, 0, len(m.DetectedBiases))
	for _, bias := range m.DetectedBiases {
		results = append(results, models.BiasResult{
			Bias:     bias,
			Severity: m.Severities[bias],
			Evidence: m.Evidence[bias],
		})
	}

	cards := make([]models.BiasCard, 0, len(results))
	for _, r := range results {
		tpl, ok := biasTemplates[r.Bias]
		if !ok {
			tpl = defaultTemplate
		}
		cards = append(cards, models.BiasCard{
			Bias:       string(r.Bias),
			Severity:   string(r.Severity),
			Evidence:   r.Evidence,
			WhyItHurts: tpl.whyItHurts,
			Rules:      tpl.rules,
			MicroHabit: tpl.microHabit,
		})
	}

	modules := make([]models.LiteracyModule, 0, len(m.DetectedBiases))
	for _, bias := range m.DetectedBiases {
		mod, ok := literacyTemplates[bias]
		if !ok {
			mod = defaultLiteracy
		}
		modules = append(modules, mod)
	}

	revengeHigh := m.Severities[models.BiasRevengeTrading] == models.SeverityHigh
	cooldown, trigger := 30, "Activate after 2 consecutive losses"
	if revengeHigh {
		cooldown, trigger = 60, "Activate after any loss exceeding your average loss"
	}

	return &models.CoachOutput{
		Headline: fmt.Sprintf(
			"We detected %d behavioral patterns affecting your trading performance.", len(m.DetectedBiases)),
		OverallRiskScore: biases.OverallRiskScore(results),
		BiasCards:        cards,
		LiteracyModules:  modules,
		BrokerageFit: models.BrokerageFit{
			Summary: fmt.Sprintf(
				"With %v trades/day, your commission costs add up significantly. Consider fee structures that reward your volume.",
				m.TradesPerDayAvg),
			Recommendations: []string{
				"Compare commission structures across brokerages",
				"Consider flat-fee or subscription models for high-volume trading",
				"Factor in hidden costs like ECN fees and currency conversion",
			},
		},
		RestModePlan: models.RestModePlan{
			RecommendedCooldownMinutes: cooldown,
			TriggerRule:                trigger,
			Script: "Step away from your trading station. Take 5 deep breaths. Review your trading plan. " +
				"Only return when you can articulate your next trade's thesis calmly.",
		},
		OneSentenceNudge: "The best traders don't trade more, they trade better. Today, focus on one less trade and one more review.",
	}
}

type biasTemplate struct {
	whyItHurts string
	rules      []models.CoachRule
	microHabit string
}

var biasTemplates = map[models.BiasType]biasTemplate{
	models.BiasOvertrading: {
		whyItHurts: "Each trade carries transaction costs and emotional toll. Overtrading erodes returns through fees and increases the chance of impulsive decisions.",
		rules: []models.CoachRule{
			{Title: "Set a Daily Trade Cap", Details: "Limit yourself to 60% of your current average. Quality over quantity."},
			{Title: "Pre-Trade Checklist", Details: "Before every trade, confirm: (1) Clear thesis, (2) Defined exit, (3) Proper sizing."},
			{Title: "Session Windows", Details: "Trade in 2 focused 45-minute sessions per day with breaks in between."},
		},
		microHabit: "Before your next trading session, write down your top 3 setups. Only trade those.",
	},
	models.BiasLossAversion: {
		whyItHurts: "Holding losers too long and cutting winners short (disposition effect) means your losses outsize your gains, the opposite of what profitable trading requires.",
		rules: []models.CoachRule{
			{Title: "Define Exit Before Entry", Details: "Set your stop-loss before placing any trade. Never widen a stop."},
			{Title: "Symmetric Exits", Details: "If your stop is X%, your take-profit should be at least 1.5X%."},
			{Title: "Time-Based Stops", Details: "If a trade hasn't moved in your favor within your expected timeframe, exit at market."},
		},
		microHabit: "For your next 5 trades, set stop-loss orders immediately after entry. No exceptions.",
	},
	models.BiasRevengeTrading: {
		whyItHurts: "Trading to 'win back' losses triggers cortisol-driven decisions. Your win rate drops significantly after losses, compounding damage.",
		rules: []models.CoachRule{
			{Title: "Mandatory Cooldown", Details: "After any loss, wait at least 30 minutes before your next trade."},
			{Title: "If-Then Plan", Details: "If I take a loss, then I close the app and review my trading checklist."},
			{Title: "Loss Limit", Details: "Set a daily loss limit. Once hit, you're done for the day. No exceptions."},
		},
		microHabit: "After your next loss, set a phone timer for 30 minutes. Journal what happened before returning.",
	},
}

var defaultTemplate = biasTemplate{
	whyItHurts: "Behavioral biases erode trading performance over time.",
	rules: []models.CoachRule{
		{Title: "Awareness", Details: "Recognize the pattern when it happens."},
	},
	microHabit: "Keep a trading journal and review it weekly.",
}

var literacyTemplates = map[models.BiasType]models.LiteracyModule{
	models.BiasOvertrading: {
		Title:   "The Cost of Overtrading",
		Minutes: 3,
		Lesson: "Every trade has an expected cost: commission + spread + slippage. When you trade 25+ times/day, these costs compound into thousands annually. " +
			"Studies show that the most active retail traders underperform passive investors by 6-7% per year on average.",
		OneRule:            "Never trade without a written thesis for the specific setup.",
		ReflectionQuestion: "Of your last 10 trades, how many had a clear, written rationale before entry?",
		MiniChallenge:      "Tomorrow, cut your usual trade count in half. Note whether your P&L improves.",
	},
	models.BiasLossAversion: {
		Title:   "Understanding the Disposition Effect",
		Minutes: 3,
		Lesson: "Loss aversion is a cognitive bias where losses feel ~2x more painful than equivalent gains feel good. " +
			"This leads to holding losers (hoping for recovery) and selling winners too early (locking in comfort). The result: a portfolio of losers.",
		OneRule:            "Always set your stop-loss before entering a trade.",
		ReflectionQuestion: "When did you last move a stop-loss further away from your entry? What was the outcome?",
		MiniChallenge:      "For your next 3 trades, pre-commit to stop-loss and take-profit levels. Do not adjust them once set.",
	},
	models.BiasRevengeTrading: {
		Title:   "Emotions, Cortisol & Why Cooldowns Work",
		Minutes: 3,
		Lesson: "After a loss, cortisol spikes and your prefrontal cortex (rational thinking) gets suppressed. Trading in this state is like driving angry. " +
			"A 30-minute cooldown lets cortisol levels normalize, restoring your ability to think clearly.",
		OneRule:            "If I take a loss, I close the app and do something physical for 10 minutes.",
		ReflectionQuestion: "Think of your worst trading day. How many trades were 'revenge' trades trying to recover?",
		MiniChallenge:      "Next time you take a loss, set a timer for 30 minutes. Journal what you feel before returning to trade.",
	},
}

var defaultLiteracy = models.LiteracyModule{
	Title:              "Trading Psychology 101",
	Minutes:            3,
	Lesson:             "Understanding your psychological biases is the first step to better trading.",
	OneRule:            "Review your trading journal at the end of every week.",
	ReflectionQuestion: "What patterns do you notice in your trading behavior?",
	MiniChallenge:      "Start a simple trading journal this week.",
}
