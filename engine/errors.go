package engine

import "fmt"

// ErrorKind classifies a rule violation so the controller can surface a
// stable error event regardless of which engine produced it.
type ErrorKind string

const (
	KindPhase              ErrorKind = "PhaseError"
	KindNotYourTurn        ErrorKind = "NotYourTurn"
	KindIllegalCard        ErrorKind = "IllegalCard"
	KindBadPass            ErrorKind = "BadPass"
	KindInvalidBid         ErrorKind = "InvalidBid"
	KindInvalidContract    ErrorKind = "InvalidContract"
	KindQuotaExhausted     ErrorKind = "QuotaExhausted"
	KindBlindNilNotAllowed ErrorKind = "BlindNilNotAllowed"
	KindInternal           ErrorKind = "InternalError"
)

// RuleError is a recoverable rule violation. Engines guarantee that state is
// untouched when a RuleError is returned.
type RuleError struct {
	Kind ErrorKind
	Msg  string
}

func (e *RuleError) Error() string {
	if e.Msg == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func Errf(kind ErrorKind, format string, args ...interface{}) *RuleError {
	return &RuleError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the error kind, defaulting to InternalError for anything
// that is not a RuleError.
func KindOf(err error) ErrorKind {
	if re, ok := err.(*RuleError); ok {
		return re.Kind
	}
	return KindInternal
}
