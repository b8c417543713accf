package domain

// FinancialSnapshot is the input for a financial profile report. Income
// must be positive; every other numeric field defaults to zero.
type FinancialSnapshot struct {
	Income           float64 `json:"income"`
	Expenses         float64 `json:"expenses"`
	ExistingEMI      float64 `json:"existing_emi"`
	CibilScore       int     `json:"cibil_score"`
	Savings          float64 `json:"savings"`
	EmploymentStatus string  `json:"employment_status"`
	Goal             string  `json:"goal"`
}

// Axis names for the score vector, in canonical order.
const (
	AxisSpend     = "spend"
	AxisSave      = "save"
	AxisCredit    = "credit"
	AxisStability = "stability"
	AxisGrowth    = "growth"
)

// ScoreVector maps each of the five fixed axes to a value in [0,100].
type ScoreVector map[string]int

// Nucleotide types for the DNA visualization sequence.
const (
	NucleotideAdenine  = "adenine"
	NucleotideThymine  = "thymine"
	NucleotideCytosine = "cytosine"
	NucleotideGuanine  = "guanine"
)

// DnaNode is one element of the symbolic DNA sequence. Intensity is the
// backing axis score scaled to [0,1].
type DnaNode struct {
	Type      string  `json:"type"`
	Intensity float64 `json:"intensity"`
}

// Insight is one ranked observation about the snapshot.
type Insight struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
}

// ProfileReport is the full output of the profile scorer.
type ProfileReport struct {
	Scores      ScoreVector `json:"scores"`
	DnaSequence []DnaNode   `json:"dna_sequence"`
	Insights    []Insight   `json:"insights"`
	Strategy    string      `json:"strategy"`
}
