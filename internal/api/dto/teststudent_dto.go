package dto

// TestStudentInfoResponse mirrors the info operation. Username and email are
// always present; the derived values are returned even before creation.
type TestStudentInfoResponse struct {
	Exists      bool    `json:"exists"`
	UserID      *int64  `json:"userid,omitempty"`
	Username    string  `json:"username"`
	Email       string  `json:"email"`
	DateCreated *string `json:"datecreated,omitempty"`
}

// TestStudentCreatedResponse is returned after a successful create.
type TestStudentCreatedResponse struct {
	UserID   int64  `json:"userid"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// TestStudentResetResponse is returned after a reset request.
type TestStudentResetResponse struct {
	Status   string `json:"status"`
	Notified string `json:"notified,omitempty"`
}

// EnrolmentStatusResponse is returned by enrol/unenrol.
type EnrolmentStatusResponse struct {
	Status   string `json:"status"`
	CourseID int64  `json:"course_id"`
}
