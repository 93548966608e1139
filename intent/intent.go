package intent

import (
	"strings"

	"github.com/shopspring/decimal"
)

type Operation string

const (
	OpIssueCheck    Operation = "ISSUE_CHECK"
	OpAcceptCheck   Operation = "ACCEPT_CHECK"
	OpDenyCheck     Operation = "DENY_CHECK"
	OpForwardCheck  Operation = "FORWARD_CHECK"
	OpTokenizeCheck Operation = "TOKENIZE_CHECK"
	OpBuyToken      Operation = "BUY_TOKEN"
	OpRedeemToken   Operation = "REDEEM_TOKEN"
	OpQueryBalance  Operation = "QUERY_BALANCE"
	OpQueryChecks   Operation = "QUERY_CHECKS"
	OpQueryTokens   Operation = "QUERY_TOKENS"
	OpQueryHistory  Operation = "QUERY_HISTORY"
	OpUnknown       Operation = "UNKNOWN"
)

// IsQuery reports whether the operation is a pure read.
func (o Operation) IsQuery() bool {
	return strings.HasPrefix(string(o), "QUERY_")
}

// IsTokenOp reports whether the operation belongs to the token layer,
// which is recognized but not executable in this build.
func (o Operation) IsTokenOp() bool {
	switch o {
	case OpTokenizeCheck, OpBuyToken, OpRedeemToken, OpQueryTokens:
		return true
	}
	return false
}

// Parameter names as they appear in Intent.Ambiguities.
const (
	ParamCounterparty = "counterparty"
	ParamAmount       = "amount"
	ParamReferenceID  = "reference_id"
)

// Parameters holds the structured values extracted from an utterance.
// Zero/nil means absent.
type Parameters struct {
	Counterparty string
	Amount       *decimal.Decimal
	ReferenceID  *int64
}

// Intent is the immutable result of parsing one utterance. Confidence
// is in [0,1]; Ambiguities lists required parameters that could not be
// extracted, in the operation's declared order.
type Intent struct {
	Operation   Operation
	Confidence  float64
	Parameters  Parameters
	Ambiguities []string
	SourceText  string

	confident bool
	clarify   bool
}

// IsConfident reports whether the confidence cleared the execution
// threshold the recognizer was configured with.
func (i Intent) IsConfident() bool { return i.confident }

// NeedsClarification reports whether the caller should ask a follow-up
// question instead of executing: confidence below the clarification
// threshold, or any required parameter missing.
func (i Intent) NeedsClarification() bool { return i.clarify }
