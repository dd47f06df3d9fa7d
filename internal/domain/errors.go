package domain

import "errors"

var (
	ErrReservationNotFound = errors.New("reservation not found")
	ErrInvalidID           = errors.New("invalid id")
	ErrEmailRequired       = errors.New("contact email required")
	ErrStartDateRequired   = errors.New("event start date required")
	ErrSessionRequired     = errors.New("payment session id required")
	ErrMessageRequired     = errors.New("change request message required")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)

// GuardViolation is a rejected state-machine precondition. The Code is stable
// and safe to expose to callers; no partial mutation happens on a violation.
type GuardViolation struct {
	Code   string
	Detail string
}

func (e GuardViolation) Error() string {
	return e.Detail
}

var (
	ErrWrongStatus        = GuardViolation{"wrong_status", "operation not allowed in current status"}
	ErrPastEvent          = GuardViolation{"past_event", "event start date already passed"}
	ErrInsufficientNotice = GuardViolation{"insufficient_notice", "not enough notice before event start"}
	ErrOwnershipMismatch  = GuardViolation{"ownership_mismatch", "requester does not own this reservation"}
	ErrAlreadySigned      = GuardViolation{"already_signed", "contract already signed"}
	ErrDepositNotPaid     = GuardViolation{"deposit_not_paid", "deposit has not been paid"}
	ErrBalanceAlreadyPaid = GuardViolation{"balance_already_paid", "balance has already been paid"}
	ErrNoSecurityDeposit  = GuardViolation{"security_deposit_not_configured", "no security deposit amount configured"}
)

// IsGuardViolation reports whether err is a state-machine guard failure.
func IsGuardViolation(err error) bool {
	var gv GuardViolation
	return errors.As(err, &gv)
}
