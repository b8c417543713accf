package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"loan-advisor/domain"
	"loan-advisor/repository"
)

// Canned replies for paths that must stay deterministic.
const (
	replyEmptyMessage  = "I didn't receive a message. How can I help you today?"
	replyGreeting      = "Hello! I'm your loan advisor. I can calculate EMIs, check loan eligibility, and explain our loan products. What would you like to know?"
	replyNotUnderstood = "I didn't quite understand that. I can help you calculate EMIs, check loan eligibility, or explain our loan products. Just ask!"
	replyAIUnavailable = "I'm having trouble connecting to my AI service right now. Please try again in a moment."
)

// ChatService is the session-scoped intent router. Each turn it
// classifies the message, either dispatches to one of the deterministic
// engines or asks for the slots still missing, and appends both sides of
// the exchange to the session history.
type ChatService struct {
	sessions    *repository.SessionStore
	catalog     *repository.Catalog
	emi         *EMIService
	eligibility *EligibilityService
	ai          TextCompletion
	cache       repository.ReplyCache

	typeNames    []string
	systemPrompt string
}

func NewChatService(
	sessions *repository.SessionStore,
	catalog *repository.Catalog,
	emi *EMIService,
	eligibility *EligibilityService,
	ai TextCompletion,
	cache repository.ReplyCache,
) *ChatService {
	names := make([]string, 0)
	for _, p := range catalog.List() {
		names = append(names, p.Name)
	}
	return &ChatService{
		sessions:     sessions,
		catalog:      catalog,
		emi:          emi,
		eligibility:  eligibility,
		ai:           ai,
		cache:        cache,
		typeNames:    names,
		systemPrompt: buildSystemPrompt(catalog),
	}
}

// buildSystemPrompt embeds the live product list so the language model
// can only answer from catalog data.
func buildSystemPrompt(catalog *repository.Catalog) string {
	products, _ := json.MarshalIndent(catalog.List(), "", "  ")
	return fmt.Sprintf(`You are a professional and friendly AI loan advisor for a financial services company.

You have access to the following loan products:

%s

Your responsibilities:
- Answer questions about loan types, interest rates, eligibility criteria, and tenures using ONLY the data above.
- Help users understand EMI calculations (formula: EMI = [P x R x (1+R)^N] / [(1+R)^N - 1]).
- Be concise, accurate, and professional. Use the rupee symbol for amounts, e.g. ₹5,00,000.
- If a user asks something unrelated to loans or finance, politely redirect them.
- Never make up loan products or rates not listed above.
- Keep responses short and helpful, 2 to 5 sentences unless more detail is asked.`, products)
}

// HandleMessage processes one chat turn. It never hard-fails on an
// unknown session id: a fresh session is created and its id returned.
func (s *ChatService) HandleMessage(ctx context.Context, req domain.ChatRequest) domain.ChatReply {
	var reply string

	sessionID := s.sessions.WithSession(req.SessionID, func(session *domain.Session) {
		now := time.Now()
		session.Turns = append(session.Turns, domain.Turn{
			Role:      domain.RoleUser,
			Text:      req.Message,
			Timestamp: now,
		})

		reply = s.route(ctx, session, req.Message)

		session.Turns = append(session.Turns, domain.Turn{
			Role:      domain.RoleAssistant,
			Text:      reply,
			Timestamp: time.Now(),
		})
	})

	return domain.ChatReply{Reply: reply, SessionID: sessionID}
}

func (s *ChatService) route(ctx context.Context, session *domain.Session, message string) string {
	if strings.TrimSpace(message) == "" {
		return replyEmptyMessage
	}

	c := ClassifyMessage(message, s.typeNames)

	if session.PendingIntent != "" {
		if s.continuesPending(session, c) {
			return s.fillSlots(session, c)
		}
		// A new unrelated intent abandons the pending one.
		session.PendingIntent = domain.IntentUnknown
		session.PendingSlots = domain.Slots{}
	}

	session.LastIntent = c.Intent

	switch c.Intent {
	case domain.IntentGreeting:
		return replyGreeting
	case domain.IntentAskLoanTypes:
		return s.describeLoanTypes()
	case domain.IntentAskRates:
		return s.describeRates()
	case domain.IntentAskEMI:
		session.PendingIntent = domain.IntentAskEMI
		session.PendingSlots = domain.Slots{}
		return s.fillSlots(session, c)
	case domain.IntentAskEligibility:
		session.PendingIntent = domain.IntentAskEligibility
		session.PendingSlots = domain.Slots{}
		return s.fillSlots(session, c)
	default:
		return s.freeformReply(ctx, session, message)
	}
}

// continuesPending decides whether the classified message is slot-filling
// input for the pending intent rather than a topic change. Messages that
// supply any of the missing slots stay in the pending flow; so do plain
// freeform messages, which in this state are usually bare answers.
func (s *ChatService) continuesPending(session *domain.Session, c Classification) bool {
	if c.Intent == session.PendingIntent || c.Intent == domain.IntentFreeform {
		return true
	}
	if c.Intent == domain.IntentAskEMI || c.Intent == domain.IntentAskEligibility {
		return false
	}

	merged := session.PendingSlots
	merged.Merge(c.Slots)
	fillMissing(&merged, s.missingFor(session.PendingIntent, &session.PendingSlots), c.Unassigned)
	return len(s.missingFor(session.PendingIntent, &merged)) < len(s.missingFor(session.PendingIntent, &session.PendingSlots))
}

func (s *ChatService) missingFor(intent domain.Intent, slots *domain.Slots) []string {
	if intent == domain.IntentAskEligibility {
		return slots.MissingForEligibility()
	}
	return slots.MissingForEMI()
}

// fillSlots merges newly extracted slots into the pending set and either
// asks a targeted follow-up or runs the engine.
func (s *ChatService) fillSlots(session *domain.Session, c Classification) string {
	session.PendingSlots.Merge(c.Slots)
	fillMissing(&session.PendingSlots, s.missingFor(session.PendingIntent, &session.PendingSlots), c.Unassigned)

	missing := s.missingFor(session.PendingIntent, &session.PendingSlots)
	if len(missing) > 0 {
		if session.PendingIntent == domain.IntentAskEligibility {
			return fmt.Sprintf("To check your eligibility I still need your %s. Could you share that?", joinFields(missing))
		}
		return fmt.Sprintf("To calculate your EMI I still need the %s. Could you share that?", joinFields(missing))
	}

	intent := session.PendingIntent
	slots := session.PendingSlots
	session.PendingIntent = domain.IntentUnknown
	session.PendingSlots = domain.Slots{}
	session.LastIntent = intent

	if intent == domain.IntentAskEligibility {
		return s.eligibilityReply(slots)
	}
	return s.emiReply(slots)
}

func joinFields(fields []string) string {
	switch len(fields) {
	case 1:
		return fields[0]
	case 2:
		return fields[0] + " and " + fields[1]
	default:
		return strings.Join(fields[:len(fields)-1], ", ") + ", and " + fields[len(fields)-1]
	}
}

func (s *ChatService) emiReply(slots domain.Slots) string {
	result, err := s.emi.Calculate(domain.AmortizationRequest{
		Principal:   *slots.Principal,
		AnnualRate:  *slots.AnnualRate,
		TenureYears: *slots.TenureYears,
	})
	if err != nil {
		return fmt.Sprintf("I couldn't calculate that EMI: %s. Please check the numbers and try again.", err.Error())
	}

	return fmt.Sprintf(
		"For a loan of %s at %.2f%% over %s, your EMI works out to %s per month. You would pay %s in interest, %s in total.",
		formatINR(*slots.Principal),
		*slots.AnnualRate,
		formatTenure(*slots.TenureYears),
		formatINR(result.EMI),
		formatINR(result.TotalInterest),
		formatINR(result.TotalPayable),
	)
}

func (s *ChatService) eligibilityReply(slots domain.Slots) string {
	employment := "Salaried"
	if slots.EmploymentStatus != nil {
		employment = *slots.EmploymentStatus
	}

	verdict, err := s.eligibility.Evaluate(domain.ApplicantProfile{
		LoanType:         *slots.LoanType,
		Age:              *slots.Age,
		MonthlyIncome:    *slots.Income,
		CibilScore:       *slots.CibilScore,
		EmploymentStatus: employment,
	})
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			return fmt.Sprintf("I couldn't find that loan type. We offer: %s.", strings.Join(s.typeNames, ", "))
		}
		return fmt.Sprintf("I couldn't run that eligibility check: %s.", err.Error())
	}

	if !verdict.IsEligible {
		return fmt.Sprintf("Based on what you shared, you don't qualify right now. %s", verdict.Message)
	}
	return fmt.Sprintf("Good news — you're eligible for a %s loan! You could be approved for up to %s.",
		*slots.LoanType, formatINR(*verdict.MaxAmount))
}

func (s *ChatService) describeLoanTypes() string {
	var b strings.Builder
	b.WriteString("We offer the following loans:\n")
	for _, p := range s.catalog.List() {
		fmt.Fprintf(&b, "• %s — %s Up to %s over %d years.\n",
			p.Name, p.Description, formatINR(p.MaxAmount), p.TenureYears)
	}
	return strings.TrimRight(b.String(), "\n")
}

func (s *ChatService) describeRates() string {
	var b strings.Builder
	b.WriteString("Current annual interest rates:\n")
	for _, p := range s.catalog.List() {
		fmt.Fprintf(&b, "• %s loan: %.2f%%\n", p.Name, p.InterestRate)
	}
	return strings.TrimRight(b.String(), "\n")
}

// freeformReply delegates to the language model with a bounded call and a
// deterministic fallback, caching answers so repeated questions stay
// cheap and stable.
func (s *ChatService) freeformReply(ctx context.Context, session *domain.Session, message string) string {
	if s.ai == nil || !s.ai.Enabled() {
		return replyNotUnderstood
	}

	key := freeformCacheKey(message)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			return cached
		}
	}

	history := session.Turns
	if len(history) > MaxHistoryTurns {
		history = history[len(history)-MaxHistoryTurns:]
	}

	reply, err := s.ai.CompleteConversation(ctx, s.systemPrompt, history)
	if err != nil {
		log.Warn().Err(err).Msg("freeform reply fell back to canned text")
		return replyAIUnavailable
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, reply, replyCacheTTL); err != nil {
			log.Debug().Err(err).Msg("reply cache write failed")
		}
	}
	return reply
}

func freeformCacheKey(message string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(message))))
	return "chat:freeform:" + hex.EncodeToString(sum[:8])
}

// formatINR renders an amount with Indian digit grouping: the last three
// digits, then groups of two, e.g. ₹5,00,000.
func formatINR(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}

	whole := int64(v + 0.5)
	digits := fmt.Sprintf("%d", whole)

	var groups []string
	if len(digits) > 3 {
		head := digits[:len(digits)-3]
		groups = append(groups, digits[len(digits)-3:])
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		groups = append([]string{head}, groups...)
	} else {
		groups = []string{digits}
	}

	out := "₹" + strings.Join(groups, ",")
	if neg {
		out = "-" + out
	}
	return out
}

func formatTenure(years float64) string {
	if years == float64(int(years)) {
		if int(years) == 1 {
			return "1 year"
		}
		return fmt.Sprintf("%d years", int(years))
	}
	return fmt.Sprintf("%.1f years", years)
}
