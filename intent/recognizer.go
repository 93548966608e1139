package intent

import (
	"strconv"
	"strings"
)

// Recognizer maps free-form text to a typed Intent. Parse is pure and
// deterministic: no stored state, no randomness, no external calls.
type Recognizer struct {
	cfg Config
}

func New(cfg Config) *Recognizer {
	if cfg.ConfidentThreshold <= 0 {
		cfg.ConfidentThreshold = DefaultConfidentThreshold
	}
	if cfg.ClarifyThreshold <= 0 {
		cfg.ClarifyThreshold = DefaultClarifyThreshold
	}
	return &Recognizer{cfg: cfg}
}

// Parse scores every candidate operation against the utterance and
// returns the Intent for the best one. Parsing never fails: an
// unrecognizable utterance comes back as UNKNOWN with confidence 0.
func (r *Recognizer) Parse(text string) Intent {
	it := Intent{Operation: OpUnknown, SourceText: text}

	raw := strings.TrimSpace(text)
	if raw == "" {
		it.clarify = true
		return it
	}

	tokens := tokenize(raw)

	// Priority order doubles as the tie-break: the first operation to
	// reach the top score keeps it.
	best := OpUnknown
	bestScore := 0.0
	for _, op := range r.cfg.Priority {
		if s := r.score(op, tokens, raw); s > bestScore {
			best, bestScore = op, s
		}
	}

	if bestScore > 0 {
		it.Operation = best
		it.Confidence = bestScore
		it.Parameters = r.extract(best, raw)
		it.Ambiguities = r.missing(best, it.Parameters)
	}

	it.confident = it.Confidence >= r.cfg.ConfidentThreshold
	it.clarify = it.Confidence < r.cfg.ClarifyThreshold || len(it.Ambiguities) > 0
	return it
}

func (r *Recognizer) score(op Operation, tokens map[string]bool, raw string) float64 {
	kw, ok := r.cfg.Keywords[op]
	if !ok {
		return 0
	}
	s := 0.0
	if tierHit(tokens, kw.Primary) {
		s += weightPrimary
	}
	if tierHit(tokens, kw.Secondary) {
		s += weightSecondary
	}
	if tierHit(tokens, kw.Context) {
		s += weightContext
	}
	if re := r.cfg.Bonus[op]; re != nil && re.MatchString(raw) {
		s += patternBonus
	}
	if s > 1.0 {
		s = 1.0
	}
	return s
}

func (r *Recognizer) extract(op Operation, raw string) Parameters {
	var p Parameters
	for _, rule := range r.cfg.Rules[op] {
		if p.has(rule.Param) {
			continue
		}
		m := rule.Pattern.FindStringSubmatch(raw)
		if m == nil || len(m) < 2 {
			continue
		}
		captured := m[1]
		if rule.Validate != nil && !rule.Validate(captured) {
			continue
		}
		p.set(rule.Param, captured)
	}
	return p
}

func (r *Recognizer) missing(op Operation, p Parameters) []string {
	var out []string
	for _, req := range r.cfg.Required[op] {
		names := strings.Split(req, "|")
		satisfied := false
		for _, n := range names {
			if p.has(n) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			out = append(out, names[0])
		}
	}
	return out
}

func (p *Parameters) has(name string) bool {
	switch name {
	case ParamCounterparty:
		return p.Counterparty != ""
	case ParamAmount:
		return p.Amount != nil
	case ParamReferenceID:
		return p.ReferenceID != nil
	}
	return false
}

func (p *Parameters) set(name, captured string) {
	switch name {
	case ParamCounterparty:
		p.Counterparty = strings.TrimSpace(captured)
	case ParamAmount:
		if d, err := parseAmount(captured); err == nil {
			p.Amount = &d
		}
	case ParamReferenceID:
		if n, err := strconv.ParseInt(strings.TrimSpace(captured), 10, 64); err == nil {
			p.ReferenceID = &n
		}
	}
}

func tokenize(text string) map[string]bool {
	tokens := make(map[string]bool)
	for _, f := range strings.Fields(strings.ToLower(text)) {
		f = strings.Trim(f, `.,!?;:()"'`)
		if f != "" {
			tokens[f] = true
		}
	}
	return tokens
}

func tierHit(tokens map[string]bool, words []string) bool {
	for _, w := range words {
		if tokens[w] {
			return true
		}
	}
	return false
}
