package service

import (
	"regexp"
	"strconv"
	"strings"

	"loan-advisor/domain"
)

// Classification is the result of running the intent classifier over one
// chat message. It is a total, deterministic function of the text: no
// external model is involved.
type Classification struct {
	Intent domain.Intent
	Slots  domain.Slots
	// Unassigned holds numbers that carried no unit and no recognizable
	// context. In slot-filling mode they are matched positionally
	// against the pending intent's missing fields.
	Unassigned []float64
}

var (
	greetingRe    = regexp.MustCompile(`(?i)^\s*(hi+|hello|hey|namaste|good\s+(morning|afternoon|evening))\b`)
	eligibilityRe = regexp.MustCompile(`(?i)eligib|qualify|am\s+i\s+able\s+to\s+get|pre.?approved`)
	emiRe         = regexp.MustCompile(`(?i)\bemi\b|installment|instalment|monthly\s+payment|amortiz`)
	ratesRe       = regexp.MustCompile(`(?i)interest\s+rates?|\brates?\b`)
	loanTypesRe   = regexp.MustCompile(`(?i)types?\s+of\s+loans?|loan\s+(types|products|options)|what\s+loans|which\s+loans?|products\s+do\s+you`)

	numberRe = regexp.MustCompile(`(?i)([0-9]+(?:,[0-9]{2,3})*(?:\.[0-9]+)?)\s*(lakhs?|lacs?|crores?|\bcr\b|%|percent|per\s+cent|years?|yrs?|months?|\bk\b)?`)
	ageCtxRe = regexp.MustCompile(`\bage\b|\bold\b|\bi\s+am\s*$`)
)

// ClassifyMessage classifies text into an intent and extracts whatever
// slots the message already carries. loanTypeNames are the catalog's
// product names, used to recognize loan-type mentions.
func ClassifyMessage(text string, loanTypeNames []string) Classification {
	c := Classification{Intent: domain.IntentFreeform}

	switch {
	case eligibilityRe.MatchString(text):
		c.Intent = domain.IntentAskEligibility
	case emiRe.MatchString(text):
		c.Intent = domain.IntentAskEMI
	case loanTypesRe.MatchString(text):
		c.Intent = domain.IntentAskLoanTypes
	case ratesRe.MatchString(text):
		c.Intent = domain.IntentAskRates
	case greetingRe.MatchString(text):
		c.Intent = domain.IntentGreeting
	}

	c.Slots, c.Unassigned = extractSlots(text, loanTypeNames)
	return c
}

// extractSlots pulls typed parameters out of free text. Units win over
// context words; numbers with neither are returned unassigned.
func extractSlots(text string, loanTypeNames []string) (domain.Slots, []float64) {
	var slots domain.Slots
	var unassigned []float64

	lower := strings.ToLower(text)

	for _, name := range loanTypeNames {
		if strings.Contains(lower, strings.ToLower(name)) {
			n := name
			slots.LoanType = &n
			break
		}
	}

	if status := detectEmployment(lower); status != "" {
		slots.EmploymentStatus = &status
	}

	for _, m := range numberRe.FindAllStringSubmatchIndex(text, -1) {
		raw := strings.ReplaceAll(text[m[2]:m[3]], ",", "")
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}

		unit := ""
		if m[4] >= 0 {
			unit = strings.ToLower(strings.Join(strings.Fields(text[m[4]:m[5]]), " "))
		}
		context := precedingContext(lower, m[2])
		following := followingContext(lower, m[1])

		switch {
		case unit == "%" || unit == "percent" || unit == "per cent":
			slots.AnnualRate = &value
		case strings.HasPrefix(unit, "year") || strings.HasPrefix(unit, "yr"):
			if strings.HasPrefix(following, "old") || ageCtxRe.MatchString(context) {
				age := int(value)
				slots.Age = &age
			} else {
				slots.TenureYears = &value
			}
		case strings.HasPrefix(unit, "month") || strings.HasPrefix(unit, "mos"):
			years := value / 12
			slots.TenureYears = &years
		case strings.HasPrefix(unit, "lakh") || strings.HasPrefix(unit, "lac"):
			assignAmount(&slots, context, value*100_000)
		case strings.HasPrefix(unit, "crore") || unit == "cr":
			assignAmount(&slots, context, value*10_000_000)
		case unit == "k":
			assignAmount(&slots, context, value*1_000)
		case ageCtxRe.MatchString(context):
			age := int(value)
			slots.Age = &age
		case strings.Contains(context, "cibil") || strings.Contains(context, "credit score") || strings.Contains(context, "score"):
			score := int(value)
			slots.CibilScore = &score
		case strings.Contains(context, "rate") || strings.Contains(context, "interest"):
			slots.AnnualRate = &value
		case strings.Contains(context, "income") || strings.Contains(context, "salary") || strings.Contains(context, "earn"):
			slots.Income = &value
		case strings.Contains(context, "principal") || strings.Contains(context, "amount") ||
			strings.Contains(context, "borrow") || strings.Contains(context, "loan of") ||
			strings.Contains(context, "loan for"):
			slots.Principal = &value
		case strings.Contains(context, "tenure") || strings.Contains(context, "term"):
			slots.TenureYears = &value
		case value >= CibilFloor && value <= CibilCeiling && value == float64(int(value)) && strings.Contains(lower, "cibil"):
			score := int(value)
			slots.CibilScore = &score
		default:
			unassigned = append(unassigned, value)
		}
	}

	return slots, unassigned
}

// assignAmount routes a currency amount to income or principal based on
// the words before it; principal is the default for large sums.
func assignAmount(slots *domain.Slots, context string, value float64) {
	if strings.Contains(context, "income") || strings.Contains(context, "salary") || strings.Contains(context, "earn") {
		slots.Income = &value
		return
	}
	slots.Principal = &value
}

func detectEmployment(lower string) string {
	switch {
	case strings.Contains(lower, "salaried"):
		return "Salaried"
	case strings.Contains(lower, "self-employed") || strings.Contains(lower, "self employed"):
		return "Self-Employed"
	case strings.Contains(lower, "freelanc"):
		return "Freelancer"
	case strings.Contains(lower, "business owner"):
		return "Business Owner"
	}
	return ""
}

// precedingContext returns the few words immediately before a match.
func precedingContext(lower string, start int) string {
	from := start - 24
	if from < 0 {
		from = 0
	}
	return lower[from:start]
}

// followingContext returns the text right after a match.
func followingContext(lower string, end int) string {
	to := end + 12
	if to > len(lower) {
		to = len(lower)
	}
	return strings.TrimSpace(lower[end:to])
}

// fillMissing assigns unitless numbers to the pending intent's missing
// slots in declaration order. This is what lets a bare "500000" answer a
// "what amount?" follow-up.
func fillMissing(slots *domain.Slots, missing []string, values []float64) {
	for _, field := range missing {
		if len(values) == 0 {
			return
		}
		v := values[0]
		switch field {
		case "principal":
			if slots.Principal == nil {
				slots.Principal = &v
				values = values[1:]
			}
		case "annual rate":
			if slots.AnnualRate == nil {
				slots.AnnualRate = &v
				values = values[1:]
			}
		case "tenure":
			if slots.TenureYears == nil {
				slots.TenureYears = &v
				values = values[1:]
			}
		case "age":
			if slots.Age == nil {
				age := int(v)
				slots.Age = &age
				values = values[1:]
			}
		case "monthly income":
			if slots.Income == nil {
				slots.Income = &v
				values = values[1:]
			}
		case "CIBIL score":
			if slots.CibilScore == nil {
				score := int(v)
				slots.CibilScore = &score
				values = values[1:]
			}
		}
	}
}
