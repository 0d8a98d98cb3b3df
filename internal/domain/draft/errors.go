package draft

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindNotFound    Kind = "not_found"
	KindState       Kind = "state"
	KindValidation  Kind = "validation"
	KindIntegrity   Kind = "integrity"
	KindPersistence Kind = "persistence"
)

type Reason string

const (
	ReasonTournament         Reason = "tournament"
	ReasonPlayer             Reason = "player"
	ReasonRegistrationClosed Reason = "registration_closed"
	ReasonArchived           Reason = "archived"
	ReasonWrongCount         Reason = "wrong_count"
	ReasonBasketDuplicate    Reason = "basket_duplicate"
	ReasonBudgetExceeded     Reason = "budget_exceeded"
	ReasonPlayerMismatch     Reason = "player_mismatch"
	ReasonTransient          Reason = "transient"
)

// Error is the typed failure of a draft operation. Sentinels match on Kind and,
// when set, Reason.
type Error struct {
	Kind    Kind
	Reason  Reason
	Message string
	// Overage is spent minus budget for ReasonBudgetExceeded.
	Overage int64
	Err     error
}

var (
	ErrNotFound    = &Error{Kind: KindNotFound}
	ErrState       = &Error{Kind: KindState}
	ErrValidation  = &Error{Kind: KindValidation}
	ErrIntegrity   = &Error{Kind: KindIntegrity}
	ErrPersistence = &Error{Kind: KindPersistence, Reason: ReasonTransient}

	ErrTournamentNotFound = &Error{Kind: KindNotFound, Reason: ReasonTournament}
	ErrPlayerNotFound     = &Error{Kind: KindNotFound, Reason: ReasonPlayer}
	ErrRegistrationClosed = &Error{Kind: KindState, Reason: ReasonRegistrationClosed}
	ErrArchived           = &Error{Kind: KindState, Reason: ReasonArchived}
	ErrWrongCount         = &Error{Kind: KindValidation, Reason: ReasonWrongCount}
	ErrBasketDuplicate    = &Error{Kind: KindValidation, Reason: ReasonBasketDuplicate}
	ErrBudgetExceeded     = &Error{Kind: KindValidation, Reason: ReasonBudgetExceeded}
	ErrPlayerMismatch     = &Error{Kind: KindIntegrity, Reason: ReasonPlayerMismatch}
)

func (e *Error) Error() string {
	label := string(e.Kind)
	if e.Reason != "" {
		label += "(" + string(e.Reason) + ")"
	}
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %s: %v", label, e.Message, e.Err)
	case e.Message != "":
		return label + ": " + e.Message
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", label, e.Err)
	default:
		return label
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Reason == "" || t.Reason == e.Reason
}

func newError(sentinel *Error, format string, args ...any) *Error {
	return &Error{
		Kind:    sentinel.Kind,
		Reason:  sentinel.Reason,
		Message: fmt.Sprintf(format, args...),
	}
}

func NotFound(sentinel *Error, format string, args ...any) error {
	return newError(sentinel, format, args...)
}

func StateError(sentinel *Error, format string, args ...any) error {
	return newError(sentinel, format, args...)
}

func ValidationError(sentinel *Error, format string, args ...any) error {
	return newError(sentinel, format, args...)
}

func IntegrityError(format string, args ...any) error {
	return newError(ErrPlayerMismatch, format, args...)
}

func BudgetExceeded(budget, spent int64) error {
	overage := spent - budget
	e := newError(ErrBudgetExceeded, "budget exceeded by %d: budget=%d spent=%d", overage, budget, spent)
	e.Overage = overage
	return e
}

// PersistenceError wraps a storage failure that survived its retry.
func PersistenceError(err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return err
	}
	return &Error{Kind: KindPersistence, Reason: ReasonTransient, Message: "storage unavailable", Err: err}
}

// ReasonOf returns the reason of the first draft error in the chain.
func ReasonOf(err error) (Kind, Reason, bool) {
	var de *Error
	if !errors.As(err, &de) {
		return "", "", false
	}
	return de.Kind, de.Reason, true
}
