package intent

import "regexp"

// Tier weights and the structural-pattern bonus. A tier contributes its
// weight once when at least one of its words appears in the utterance;
// repeated hits inside a tier never double-count.
const (
	weightPrimary   = 0.40
	weightSecondary = 0.30
	weightContext   = 0.10
	patternBonus    = 0.20
)

// Default thresholds; overridable per Config.
const (
	DefaultConfidentThreshold = 0.50
	DefaultClarifyThreshold   = 0.40
)

// Keywords holds the three disjoint hot-word tiers for one operation.
type Keywords struct {
	Primary   []string
	Secondary []string
	Context   []string
}

// Config is the full recognizer table set. Build it once at startup and
// treat it as immutable; the recognizer never mutates it, so parallel
// recognizers can hold different tables.
type Config struct {
	ConfidentThreshold float64
	ClarifyThreshold   float64

	// Priority is the declaration order used to break score ties:
	// check operations before queries before token operations.
	Priority []Operation

	Keywords map[Operation]Keywords

	// Bonus is the required structural pattern per operation, worth
	// +0.20 when it matches the raw text.
	Bonus map[Operation]*regexp.Regexp

	// Rules is the prioritized extraction rule list per operation.
	Rules map[Operation][]Rule

	// Required lists the parameters an operation cannot execute
	// without, in the order they are reported as ambiguities. An entry
	// of the form "a|b" is satisfied by either parameter and reported
	// under the first name when both are absent.
	Required map[Operation][]string
}

var (
	reAmountDollar = regexp.MustCompile(`\$\s*([0-9][0-9,]*(?:\.[0-9]+)?)`)
	reAmountBare   = regexp.MustCompile(`\b([0-9][0-9,]*(?:\.[0-9]+)?)\b`)
	reRefHash      = regexp.MustCompile(`#\s*([0-9]+)`)
	reRefWord      = regexp.MustCompile(`(?i)\b(?:check|cheque|token)\s*(?:number\s*)?#?\s*([0-9]+)`)
	rePartyQuoted  = regexp.MustCompile(`\b(?:[Tt]o|[Ff]rom)\s+"([^"]+)"`)
	rePartyCaps    = regexp.MustCompile(`\b(?:[Tt]o|[Ff]rom)\s+([A-Z][A-Za-z0-9'&.-]*(?:\s+[A-Z][A-Za-z0-9'&.-]*)*)`)

	reAnyAmount = regexp.MustCompile(`\$?\b[0-9][0-9,]*(?:\.[0-9]+)?\b`)
	reAnyRef    = regexp.MustCompile(`(?i)(?:#\s*[0-9]+|\b(?:check|cheque|token)\s*(?:number\s*)?#?\s*[0-9]+)`)
)

// DefaultConfig returns the shipped hot-word tables, extraction rules
// and thresholds.
func DefaultConfig() Config {
	counterpartyRules := []Rule{
		{Param: ParamCounterparty, Pattern: rePartyQuoted, Validate: validName},
		{Param: ParamCounterparty, Pattern: rePartyCaps, Validate: validName},
	}
	amountRules := []Rule{
		{Param: ParamAmount, Pattern: reAmountDollar, Validate: validAmount},
		{Param: ParamAmount, Pattern: reAmountBare, Validate: validAmount},
	}
	refRules := []Rule{
		{Param: ParamReferenceID, Pattern: reRefHash, Validate: validRef},
		{Param: ParamReferenceID, Pattern: reRefWord, Validate: validRef},
	}

	cfg := Config{
		ConfidentThreshold: DefaultConfidentThreshold,
		ClarifyThreshold:   DefaultClarifyThreshold,
		Priority: []Operation{
			OpIssueCheck, OpAcceptCheck, OpDenyCheck, OpForwardCheck,
			OpQueryBalance, OpQueryChecks, OpQueryTokens, OpQueryHistory,
			OpTokenizeCheck, OpBuyToken, OpRedeemToken,
		},
		Keywords: map[Operation]Keywords{
			OpIssueCheck: {
				Primary:   []string{"issue", "write", "create", "pay", "send"},
				Secondary: []string{"check", "cheque"},
				Context:   []string{"to", "for"},
			},
			OpAcceptCheck: {
				Primary:   []string{"accept", "approve", "take"},
				Secondary: []string{"check", "cheque"},
				Context:   []string{"from", "incoming", "pending"},
			},
			OpDenyCheck: {
				Primary:   []string{"deny", "reject", "decline", "refuse"},
				Secondary: []string{"check", "cheque"},
				Context:   []string{"from", "incoming"},
			},
			OpForwardCheck: {
				Primary:   []string{"forward", "endorse"},
				Secondary: []string{"check", "cheque"},
				Context:   []string{"to"},
			},
			OpTokenizeCheck: {
				Primary:   []string{"tokenize", "fractionalize"},
				Secondary: []string{"token", "tokens"},
				Context:   []string{"check", "cheque"},
			},
			OpBuyToken: {
				Primary:   []string{"buy", "purchase"},
				Secondary: []string{"token", "tokens"},
				Context:   []string{"market"},
			},
			OpRedeemToken: {
				Primary:   []string{"redeem", "cash"},
				Secondary: []string{"token", "tokens"},
				Context:   []string{"out"},
			},
			OpQueryBalance: {
				Primary:   []string{"balance"},
				Secondary: []string{"funds", "money"},
				Context:   []string{"my", "much"},
			},
			OpQueryChecks: {
				Primary:   []string{"show", "list", "view"},
				Secondary: []string{"checks", "cheques"},
				Context:   []string{"my", "pending", "incoming", "issued"},
			},
			OpQueryTokens: {
				Primary:   []string{"show", "list", "view"},
				Secondary: []string{"tokens"},
				Context:   []string{"my"},
			},
			OpQueryHistory: {
				Primary:   []string{"history", "activity"},
				Secondary: []string{"transactions", "recent"},
				Context:   []string{"my", "show"},
			},
		},
		Bonus: map[Operation]*regexp.Regexp{
			OpIssueCheck:    reAnyAmount,
			OpAcceptCheck:   reAnyRef,
			OpDenyCheck:     reAnyRef,
			OpForwardCheck:  reAnyRef,
			OpTokenizeCheck: reAnyRef,
			OpBuyToken:      reAnyRef,
			OpRedeemToken:   reAnyRef,
		},
		Rules: map[Operation][]Rule{
			OpIssueCheck:    join(counterpartyRules, amountRules),
			OpAcceptCheck:   join(refRules, counterpartyRules),
			OpDenyCheck:     join(refRules, counterpartyRules),
			OpForwardCheck:  join(refRules, counterpartyRules),
			OpTokenizeCheck: refRules,
			OpBuyToken:      join(refRules, amountRules),
			OpRedeemToken:   refRules,
		},
		Required: map[Operation][]string{
			OpIssueCheck:    {ParamCounterparty, ParamAmount},
			OpAcceptCheck:   {ParamReferenceID + "|" + ParamCounterparty},
			OpDenyCheck:     {ParamReferenceID + "|" + ParamCounterparty},
			OpForwardCheck:  {ParamReferenceID, ParamCounterparty},
			OpTokenizeCheck: {ParamReferenceID},
			OpBuyToken:      {ParamReferenceID},
			OpRedeemToken:   {ParamReferenceID},
		},
	}
	return cfg
}

func join(lists ...[]Rule) []Rule {
	out := make([]Rule, 0, 4)
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
