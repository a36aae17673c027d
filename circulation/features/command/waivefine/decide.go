package waivefine

import (
	"strings"

	"github.com/stanleyamo/library-management-system/core"
)

// State is the fine to be waived.
type State struct {
	Fine      core.Fine
	FineFound bool
}

// Decide determines whether the fine can be waived.
//
// Business Rules:
//
//	GIVEN: a pending fine
//	WHEN: WaiveFine is received from a librarian with a reason
//	THEN: the fine is marked waived, recording who waived it and why
//	ERROR: Forbidden if the actor is not a librarian
//	ERROR: ValidationError if the reason is blank
//	ERROR: NotFound if the fine does not exist
//	ERROR: AlreadyPaid / AlreadyWaived if the fine is settled
func Decide(state State, command Command) core.DecisionResult[core.Waiver] {
	if failure := command.Actor.RequireLibrarian("waive fines"); failure != nil {
		return core.FailureDecision[core.Waiver](failure)
	}

	reason := strings.TrimSpace(command.Reason)
	if reason == "" {
		return core.FailureDecision[core.Waiver](core.NewFailure(core.KindValidation, "a reason is required to waive a fine"))
	}

	if !state.FineFound {
		return core.FailureDecision[core.Waiver](core.FineNotFound(command.FineID))
	}

	switch state.Fine.Status {
	case core.FinePaid:
		return core.FailureDecision[core.Waiver](core.NewFailure(core.KindAlreadyPaid, "fine %s is already paid", state.Fine.ID))
	case core.FineWaived:
		return core.FailureDecision[core.Waiver](core.NewFailure(core.KindAlreadyWaived, "fine %s is already waived", state.Fine.ID))
	}

	return core.SuccessDecision(core.Waiver{By: command.Actor.UserID, Reason: reason})
}
