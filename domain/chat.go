package domain

import "time"

// Intent is the classified purpose of one chat message.
type Intent string

const (
	IntentUnknown        Intent = ""
	IntentGreeting       Intent = "GREETING"
	IntentAskLoanTypes   Intent = "ASK_LOAN_TYPES"
	IntentAskEMI         Intent = "ASK_EMI"
	IntentAskEligibility Intent = "ASK_ELIGIBILITY"
	IntentAskRates       Intent = "ASK_RATES"
	IntentFreeform       Intent = "FREEFORM"
)

// Slots holds parameters extracted from chat messages. Nil means the slot
// has not been collected yet.
type Slots struct {
	Principal        *float64
	AnnualRate       *float64
	TenureYears      *float64
	LoanType         *string
	Age              *int
	Income           *float64
	CibilScore       *int
	EmploymentStatus *string
}

// Merge copies every slot set in other onto s, overwriting earlier values.
func (s *Slots) Merge(other Slots) {
	if other.Principal != nil {
		s.Principal = other.Principal
	}
	if other.AnnualRate != nil {
		s.AnnualRate = other.AnnualRate
	}
	if other.TenureYears != nil {
		s.TenureYears = other.TenureYears
	}
	if other.LoanType != nil {
		s.LoanType = other.LoanType
	}
	if other.Age != nil {
		s.Age = other.Age
	}
	if other.Income != nil {
		s.Income = other.Income
	}
	if other.CibilScore != nil {
		s.CibilScore = other.CibilScore
	}
	if other.EmploymentStatus != nil {
		s.EmploymentStatus = other.EmploymentStatus
	}
}

// MissingForEMI lists the slots still required before an EMI computation
// can run.
func (s *Slots) MissingForEMI() []string {
	var missing []string
	if s.Principal == nil {
		missing = append(missing, "principal")
	}
	if s.AnnualRate == nil {
		missing = append(missing, "annual rate")
	}
	if s.TenureYears == nil {
		missing = append(missing, "tenure")
	}
	return missing
}

// MissingForEligibility lists the slots still required before an
// eligibility check can run.
func (s *Slots) MissingForEligibility() []string {
	var missing []string
	if s.LoanType == nil {
		missing = append(missing, "loan type")
	}
	if s.Age == nil {
		missing = append(missing, "age")
	}
	if s.Income == nil {
		missing = append(missing, "monthly income")
	}
	if s.CibilScore == nil {
		missing = append(missing, "CIBIL score")
	}
	return missing
}

// Turn roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message in a conversation.
type Turn struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Session is the per-conversation state held by the session store. Turns
// is append-only; PendingIntent is non-empty while the router is waiting
// for slot-filling input.
type Session struct {
	ID            string
	CreatedAt     time.Time
	LastActiveAt  time.Time
	Turns         []Turn
	PendingIntent Intent
	PendingSlots  Slots
	LastIntent    Intent
}

// ChatRequest is the inbound chat contract.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatReply is the outbound chat contract. SessionID always carries the
// id the caller should use for the next turn.
type ChatReply struct {
	Reply     string `json:"reply"`
	SessionID string `json:"session_id"`
}
