package domain

import "time"

// Course is a minimal view of a directory course row.
type Course struct {
	ID        int64
	Shortname string
	Fullname  string
}

// EnrolMethodType identifies a course membership mechanism.
type EnrolMethodType string

// EnrolMethodManual grants membership by direct administrative action.
const EnrolMethodManual EnrolMethodType = "manual"

// EnrolMethod is an enrolment mechanism instance attached to a course.
type EnrolMethod struct {
	ID       int64
	CourseID int64
	Method   EnrolMethodType
	Enabled  bool
}

// EnrolmentStatus is the state of a course enrolment.
type EnrolmentStatus string

const (
	EnrolmentStatusActive    EnrolmentStatus = "ACTIVE"
	EnrolmentStatusSuspended EnrolmentStatus = "SUSPENDED"
)

// CourseEnrolment relates an account to a course via an enrolment method.
// At most one enrolment per (course, account) pair exists.
type CourseEnrolment struct {
	ID            int64
	EnrolMethodID int64
	CourseID      int64
	AccountID     int64
	Status        EnrolmentStatus
	TimeStart     time.Time
	TimeEnd       *time.Time
	CreatedAt     time.Time
}
