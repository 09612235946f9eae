package domain

import (
	"fmt"
	"time"
)

const (
	testStudentUsernameSuffix = "-urstudent"
	testStudentEmailDomain    = "uregina.ca"
	testStudentEmailTag       = "urstudent"
)

// TestStudentIdentity is the derived username/email/name set for a staff
// member's sandbox account. Existence and identity are a pure function of the
// owning staff username; the email doubles as the directory lookup key.
type TestStudentIdentity struct {
	Username  string
	Email     string
	Firstname string
	Lastname  string
}

// DeriveTestStudentIdentity computes the test student identity for a staff
// identity. The formatting rule lives here and nowhere else.
func DeriveTestStudentIdentity(staff *StaffIdentity) TestStudentIdentity {
	return TestStudentIdentity{
		Username:  staff.Username + testStudentUsernameSuffix,
		Email:     fmt.Sprintf("%s+%s@%s", staff.Username, testStudentEmailTag, testStudentEmailDomain),
		Firstname: staff.Firstname,
		Lastname:  fmt.Sprintf("%s (%s)", staff.Lastname, testStudentEmailTag),
	}
}

// TestStudentAccount is a directory account created from a TestStudentIdentity.
// Created only by the create operation; only its password and flags are ever
// mutated afterwards.
type TestStudentAccount struct {
	ID                  int64
	Username            string
	Email               string
	Firstname           string
	Lastname            string
	AuthMethod          AuthMethod
	PasswordHash        string
	Confirmed           bool
	ForcePasswordChange bool
	PendingAutoPassword bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
