package rubric

// Names of the informational criteria in the reference rubric.
const (
	AgentName     = "Agent Name"
	CallType      = "Type of call"
	AccountNumber = "Account number"
)

var genericSuggestions = []string{
	"Follow the script sequence for all calls.",
	"Document call notes thoroughly after each interaction.",
	"Ensure you mention the consequences of non-payment clearly.",
	"Always be respectful and professional regardless of customer response.",
}

// referenceCriteria is the collections call scorecard.
var referenceCriteria = []Criterion{
	{
		Name:     AgentName,
		Fact:     FactAgentName,
		Keywords: []string{"my name is", "this is", "speaking with", "calling from"},
	},
	{
		Name:     CallType,
		Fact:     FactCallType,
		Keywords: []string{"outbound", "inbound", "regarding your account"},
	},
	{
		Name:     AccountNumber,
		Fact:     FactAccountNumber,
		Keywords: []string{"account", "regarding your account"},
	},
	{
		Name:   "Authentication",
		Weight: 20,
		Keywords: []string{"verify your details", "date of birth", "ID number", "telephone number",
			"cell phone", "residential address", "postal address", "company you work for"},
		Suggestion: "Ensure you ask at least 2 CIF and 2 Non-CIF questions for proper authentication.",
	},
	{
		Name:       "Business Disclaimer",
		Weight:     5,
		Keywords:   []string{"recorded for quality", "security purposes", "registered credit provider"},
		Suggestion: "Always state that the call is being recorded for Quality and Security Purposes and that Absa Bank is a Registered Credit provider.",
	},
	{
		Name:       "Mention CCPI",
		Weight:     5,
		Keywords:   []string{"cash deposit", "internet banking", "atm transfer", "bank transfer", "paying at the selected stores"},
		Suggestion: "Remember to discuss payment methods including CPPI (Paying at the selected stores).",
	},
	{
		Name:   "CIF Confirmed",
		Weight: 10,
		Keywords: []string{"confirm if we have your correct information", "verify contact details",
			"postal and residential address", "fica compliant"},
		Suggestion: "Always verify and update customer details including postal and residential addresses.",
	},
	{
		Name:       "Method of Payment",
		Weight:     5,
		Keywords:   []string{"method of payment", "paying via", "debit order", "bank transfer", "cash deposit"},
		Suggestion: "Confirm specific method of payment (Cash deposit, internet banking, ATM transfer, Bank transfer, etc.).",
	},
	{
		Name:       "Negotiation",
		Weight:     10,
		Keywords:   []string{"full payment", "arrears amount", "negotiate", "instalment amount", "minimum"},
		Suggestion: "Follow the negotiation hierarchy: full arrears amount, then instalment amount, then minimum amount.",
	},
	{
		Name:       "Reason for Non-Payment",
		Weight:     10,
		Keywords:   []string{"why did you fail to pay", "reason for", "non-payment", "missed payment", "short payment"},
		Suggestion: "Directly ask for and document the specific reason for non-payment or short payment.",
	},
	{
		Name:   "Forbearance",
		Weight: 10,
		Keywords: []string{"forbearance", "forbs", "financial strain", "unemployment letter", "bank statement",
			"proof of income", "monthly expenditure"},
		Suggestion: "For D2D-D5D accounts, offer forbearance plan and explain document requirements.",
	},
	{
		Name:       "NCA Clause",
		Weight:     10,
		Keywords:   []string{"legally required", "credit record", "credit bureau", "missed or late payment", "will affect this record"},
		Suggestion: "Include the NCA disclaimer about credit bureau reporting and consequences of missed payments.",
	},
	{
		// No remediation text is authored for voice quality.
		Name:     "Voice & Data",
		Weight:   5,
		Keywords: []string{"clearly", "audible", "professional", "articulate"},
	},
	{
		Name:       "Recap the arrangement",
		Weight:     5,
		Keywords:   []string{"recap", "confirm the", "PTP date", "amount", "payment method", "keeping their promise"},
		Suggestion: "Always recap the payment details including date, amount and payment method.",
	},
	{
		Name:       "Tone & Empathy with client",
		Weight:     5,
		Keywords:   []string{"understand", "appreciate", "thank you", "sorry to hear", "assistance", "help you"},
		Suggestion: "Show more empathy and understanding in your conversation with clients.",
	},
}

var reference = mustNew("collections-scorecard", referenceCriteria, genericSuggestions)

// Default returns the reference collections-call rubric.
func Default() *Rubric {
	return reference
}

// GenericSuggestions returns the default filler suggestions in order.
func GenericSuggestions() []string {
	out := make([]string, len(genericSuggestions))
	copy(out, genericSuggestions)
	return out
}

func mustNew(name string, criteria []Criterion, fillers []string) *Rubric {
	r, err := New(name, criteria, fillers)
	if err != nil {
		panic("invalid built-in rubric: " + err.Error())
	}
	return r
}
