package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"loan-advisor/domain"
)

// axisOrder fixes both the score iteration order and the cyclic mapping
// of DNA sequence positions to axes.
var axisOrder = [5]string{
	domain.AxisSpend,
	domain.AxisSave,
	domain.AxisCredit,
	domain.AxisStability,
	domain.AxisGrowth,
}

// axisNucleotide maps each axis to its nucleotide. Five axes over four
// nucleotides, so adenine appears twice.
var axisNucleotide = map[string]string{
	domain.AxisSpend:     domain.NucleotideAdenine,
	domain.AxisSave:      domain.NucleotideThymine,
	domain.AxisCredit:    domain.NucleotideCytosine,
	domain.AxisStability: domain.NucleotideGuanine,
	domain.AxisGrowth:    domain.NucleotideAdenine,
}

// stabilityBase is the fixed employment-status lookup behind the
// stability axis.
var stabilityBase = map[string]int{
	"Salaried":       85,
	"Business Owner": 70,
	"Self-Employed":  60,
	"Freelancer":     45,
}

const stabilityBaseDefault = 55

// ProfileService turns a financial snapshot into a five-axis score
// vector, a DNA visualization sequence, ranked insights and a strategy.
// Scoring is fully deterministic; the optional language model may only
// rephrase the strategy text, never change the underlying facts.
type ProfileService struct {
	ai TextCompletion
}

func NewProfileService(ai TextCompletion) *ProfileService {
	return &ProfileService{ai: ai}
}

// Analyze produces the full profile report for snapshot.
func (s *ProfileService) Analyze(ctx context.Context, snapshot domain.FinancialSnapshot) (domain.ProfileReport, error) {
	if snapshot.Income <= 0 {
		return domain.ProfileReport{}, domain.NewValidationError("income must be positive")
	}

	scores := Score(snapshot)
	report := domain.ProfileReport{
		Scores:      scores,
		DnaSequence: dnaSequence(scores),
		Insights:    rankedInsights(scores),
		Strategy:    strategyFor(scores, snapshot.Goal),
	}

	if s.ai != nil && s.ai.Enabled() {
		if rephrased, err := s.ai.Complete(ctx, strategyParaphrasePrompt, report.Strategy); err == nil && rephrased != "" {
			report.Strategy = rephrased
		} else if err != nil {
			log.Warn().Err(err).Msg("strategy paraphrase failed, keeping templated text")
		}
	}

	return report, nil
}

const strategyParaphrasePrompt = "You are a financial advisor. Rephrase the following loan " +
	"strategy in a warmer tone without adding, removing or changing any facts or figures. " +
	"Reply with the rephrased text only."

// Score derives the five axis scores from snapshot. Each axis is an
// independent formula over a ratio clamped to [0,100].
func Score(snapshot domain.FinancialSnapshot) domain.ScoreVector {
	income := snapshot.Income

	spend := clampScore(100 - snapshot.Expenses/income*100)
	save := clampScore(snapshot.Savings / (income * 12) * 100)
	credit := clampScore((float64(snapshot.CibilScore) - CibilFloor) / 6)
	growth := clampScore(100 - snapshot.ExistingEMI/income*100)

	base, ok := stabilityBase[snapshot.EmploymentStatus]
	if !ok {
		base = stabilityBaseDefault
	}
	stability := clampScore(float64(base + emiBurdenAdjustment(snapshot.ExistingEMI/income)))

	return domain.ScoreVector{
		domain.AxisSpend:     spend,
		domain.AxisSave:      save,
		domain.AxisCredit:    credit,
		domain.AxisStability: stability,
		domain.AxisGrowth:    growth,
	}
}

// emiBurdenAdjustment shifts the stability base by up to ten points
// depending on how much of the income existing EMIs consume.
func emiBurdenAdjustment(ratio float64) int {
	switch {
	case ratio < 0.10:
		return 10
	case ratio > 0.40:
		return -10
	default:
		return 0
	}
}

func clampScore(v float64) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(v)
}

// dnaSequence encodes the score vector as a fixed-length nucleotide
// sequence: position i maps to axisOrder[i%5], intensity is the axis
// score scaled to [0,1].
func dnaSequence(scores domain.ScoreVector) []domain.DnaNode {
	sequence := make([]domain.DnaNode, DnaSequenceLength)
	for i := range sequence {
		axis := axisOrder[i%len(axisOrder)]
		sequence[i] = domain.DnaNode{
			Type:      axisNucleotide[axis],
			Intensity: float64(scores[axis]) / 100,
		}
	}
	return sequence
}

type insightTemplate struct {
	title string
	weak  string
	fine  string
}

var insightTemplates = map[string]insightTemplate{
	domain.AxisSpend: {
		title: "Spending Discipline",
		weak:  "Your expenses consume most of your income, leaving little room for an additional EMI.",
		fine:  "Your expenses leave a healthy share of income free for loan repayments.",
	},
	domain.AxisSave: {
		title: "Savings Buffer",
		weak:  "Your savings cover very little of a year's income; an emergency could force missed payments.",
		fine:  "Your savings give you a solid cushion against repayment disruptions.",
	},
	domain.AxisCredit: {
		title: "Credit Standing",
		weak:  "Your CIBIL score will limit the products and rates available to you.",
		fine:  "Your CIBIL score qualifies you for most products at competitive rates.",
	},
	domain.AxisStability: {
		title: "Income Stability",
		weak:  "Lenders will view your income profile as volatile, which lowers approval odds.",
		fine:  "Your employment profile reads as stable to lenders.",
	},
	domain.AxisGrowth: {
		title: "Borrowing Headroom",
		weak:  "Existing EMIs already absorb a large part of your income, capping new borrowing.",
		fine:  "Your current EMI load leaves real headroom for a new loan.",
	},
}

// rankedInsights returns three insight cards ordered from the weakest
// axis upward. Ties break on the canonical axis order so identical
// snapshots always produce identical reports.
func rankedInsights(scores domain.ScoreVector) []domain.Insight {
	axes := make([]string, len(axisOrder))
	copy(axes, axisOrder[:])
	sort.SliceStable(axes, func(i, j int) bool {
		return scores[axes[i]] < scores[axes[j]]
	})

	insights := make([]domain.Insight, 0, 3)
	for _, axis := range axes[:3] {
		tmpl := insightTemplates[axis]
		score := scores[axis]

		description := tmpl.fine
		if score < 50 {
			description = tmpl.weak
		}
		insights = append(insights, domain.Insight{
			Title:       tmpl.title,
			Description: fmt.Sprintf("%s (score %d/100)", description, score),
			Impact:      impactFor(score),
		})
	}
	return insights
}

func impactFor(score int) string {
	switch {
	case score < 40:
		return "High"
	case score < 70:
		return "Medium"
	default:
		return "Low"
	}
}

var strategyByWeakest = map[string]string{
	domain.AxisSpend:     "Trim monthly expenses before taking on new debt; lenders read a thin surplus as repayment risk.",
	domain.AxisSave:      "Build an emergency fund of at least three months of expenses before committing to a new EMI.",
	domain.AxisCredit:    "Raise your CIBIL score first: clear card balances and avoid new credit enquiries for a few months.",
	domain.AxisStability: "Favour longer tenures and smaller EMIs to offset income volatility, and document income thoroughly.",
	domain.AxisGrowth:    "Consolidate or prepay existing EMIs before applying; your current debt load caps what you can borrow.",
}

// strategyFor selects the primary recommendation from the weakest axis.
func strategyFor(scores domain.ScoreVector, goal string) string {
	weakest := axisOrder[0]
	for _, axis := range axisOrder {
		if scores[axis] < scores[weakest] {
			weakest = axis
		}
	}

	strategy := strategyByWeakest[weakest]
	if goal != "" {
		strategy = fmt.Sprintf("%s Keep your goal in sight: %s.", strategy, goal)
	}
	return strategy
}
