package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTestStudentCreated       EventType = "test_student_created"
	EventTestStudentPasswordReset EventType = "test_student_password_reset"
	EventTestStudentEnrolled      EventType = "test_student_enrolled"
	EventTestStudentUnenrolled    EventType = "test_student_unenrolled"
)

// Event represents a lifecycle event emitted by services. StaffID is the
// owning staff identity, AccountID the test student account acted on.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	StaffID   int64       `json:"staff_id"`
	AccountID int64       `json:"account_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TestStudentCreatedPayload payload.
type TestStudentCreatedPayload struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	MailError string `json:"mail_error,omitempty"`
}

// TestStudentPasswordResetPayload payload.
type TestStudentPasswordResetPayload struct {
	Username   string `json:"username"`
	NotifiedTo string `json:"notified_to,omitempty"`
	MailError  string `json:"mail_error,omitempty"`
}

// TestStudentEnrolmentPayload payload for enrol and unenrol events.
type TestStudentEnrolmentPayload struct {
	CourseID      int64 `json:"course_id"`
	EnrolMethodID int64 `json:"enrol_method_id,omitempty"`
}
