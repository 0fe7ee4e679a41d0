package booking

import "skillswap/utils"

func errValidation(detail string) error {
	return utils.NewServiceError(utils.CodeValidation, detail)
}

func errBookingNotFound() error {
	return utils.NewServiceError(utils.CodeNotFound, "booking does not exist")
}

func errNotParticipant() error {
	return utils.NewServiceError(utils.CodeAuthorization, "only a participant of this booking can perform this action")
}

func errConflict(detail string) error {
	return utils.NewServiceError(utils.CodeConflict, detail)
}

func errInvalidTransition(detail string) error {
	return utils.NewServiceError(utils.CodeInvalidTransition, detail)
}

func errDeadlinePassed(detail string) error {
	return utils.NewServiceError(utils.CodeDeadlinePassed, detail)
}
