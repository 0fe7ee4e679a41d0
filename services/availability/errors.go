package availability

import "skillswap/utils"

func errNotTeacher() error {
	return utils.NewServiceError(utils.CodeAuthorization, "only teachers can declare availability")
}

func errTeacherNotFound() error {
	return utils.NewServiceError(utils.CodeNotFound, "teacher does not exist")
}

func errInvalidWindow(detail string) error {
	return utils.NewServiceError(utils.CodeValidation, detail)
}

func errNotOffered() error {
	return utils.NewServiceError(utils.CodeValidation, "requested time is outside the teacher's declared availability")
}
