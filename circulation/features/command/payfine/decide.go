package payfine

import (
	"strings"

	"github.com/stanleyamo/library-management-system/core"
)

// State is the fine to be paid.
type State struct {
	Fine      core.Fine
	FineFound bool
}

// Decide determines whether the fine can be paid.
//
// Business Rules:
//
//	GIVEN: a pending fine
//	WHEN: PayFine is received
//	THEN: the fine is marked paid with the trimmed payment details
//	ERROR: NotFound if the fine does not exist
//	ERROR: Forbidden if a member pays another user's fine
//	ERROR: AlreadyPaid if the fine was paid before (paidAt stays unchanged)
//	ERROR: ValidationError if the fine was waived
func Decide(state State, command Command) core.DecisionResult[core.Payment] {
	if !state.FineFound {
		return core.FailureDecision[core.Payment](core.FineNotFound(command.FineID))
	}

	fine := state.Fine

	if !command.Actor.CanActFor(fine.UserID) {
		return core.FailureDecision[core.Payment](
			core.NewFailure(core.KindForbidden, "fine %s belongs to another user", fine.ID),
		)
	}

	switch fine.Status {
	case core.FinePaid:
		return core.FailureDecision[core.Payment](core.NewFailure(core.KindAlreadyPaid, "fine %s is already paid", fine.ID))
	case core.FineWaived:
		return core.FailureDecision[core.Payment](core.NewFailure(core.KindValidation, "fine %s was waived and cannot be paid", fine.ID))
	}

	return core.SuccessDecision(core.Payment{
		Method:    strings.TrimSpace(command.Payment.Method),
		Reference: strings.TrimSpace(command.Payment.Reference),
	})
}
