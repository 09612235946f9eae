package service

import (
	"net/http"

	apperrors "github.com/uofr/urcourses-teststudent/pkg/util"
)

// Error codes for the test student lifecycle. Every precondition violation and
// integration failure surfaces as one of these; callers present them directly.
const (
	CodeNotAllowed            = "NOT_ALLOWED"
	CodeAlreadyExists         = "ALREADY_EXISTS"
	CodeNotFound              = "NOT_FOUND"
	CodeAlreadyEnrolled       = "ALREADY_ENROLLED"
	CodeNotEnrolled           = "NOT_ENROLLED"
	CodePasswordSetFailed     = "PASSWORD_SET_FAILED"
	CodeEmailDeliveryFailed   = "EMAIL_DELIVERY_FAILED"
	CodeNoEnrolMethod         = "NO_ENROLMENT_METHOD"
	CodeEnrolmentNotConfirmed = "ENROLMENT_NOT_CONFIRMED"
)

func errNotAllowed() error {
	return apperrors.NewDomainError(CodeNotAllowed, "not allowed to manage a test student account", http.StatusForbidden, nil)
}

func errAlreadyExists(email string) error {
	return apperrors.NewDomainError(CodeAlreadyExists, "test student account already exists", http.StatusConflict,
		map[string]any{"email": email})
}

func errAccountNotFound() error {
	return apperrors.NewDomainError(CodeNotFound, "test student account does not exist", http.StatusNotFound, nil)
}

func errCourseNotFound(courseID int64) error {
	return apperrors.NewDomainError(CodeNotFound, "course not found", http.StatusNotFound,
		map[string]any{"course_id": courseID})
}

func errAlreadyEnrolled(courseID int64) error {
	return apperrors.NewDomainError(CodeAlreadyEnrolled, "test student is already enrolled in this course", http.StatusConflict,
		map[string]any{"course_id": courseID})
}

func errNotEnrolled(courseID int64) error {
	return apperrors.NewDomainError(CodeNotEnrolled, "test student is not enrolled in this course", http.StatusConflict,
		map[string]any{"course_id": courseID})
}

func errPasswordSetFailed(err error) error {
	domainErr := apperrors.NewDomainError(CodePasswordSetFailed, "could not set test student password", http.StatusInternalServerError, nil)
	domainErr.Err = err
	return domainErr
}

func errEmailDeliveryFailed(to string, err error) error {
	domainErr := apperrors.NewDomainError(CodeEmailDeliveryFailed, "could not send credentials email", http.StatusBadGateway,
		map[string]any{"to": to})
	domainErr.Err = err
	return domainErr
}

func errNoEnrolMethod(courseID int64) error {
	return apperrors.NewDomainError(CodeNoEnrolMethod, "course has no active manual enrolment method", http.StatusConflict,
		map[string]any{"course_id": courseID})
}

func errEnrolmentNotConfirmed(courseID int64) error {
	return apperrors.NewDomainError(CodeEnrolmentNotConfirmed, "enrolment change could not be confirmed", http.StatusInternalServerError,
		map[string]any{"course_id": courseID})
}
