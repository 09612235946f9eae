package service

import (
	"context"
	"strings"
	"testing"

	"github.com/uofr/urcourses-teststudent/internal/domain"
	apperrors "github.com/uofr/urcourses-teststudent/pkg/util"
)

func TestCreateTestStudent(t *testing.T) {
	fx := newFixture()
	staff := fx.addStaff(1, "jdoe", domain.RoleEditingTeacher)

	account, err := fx.students.Create(context.Background(), staff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if account.Username != "jdoe-urstudent" {
		t.Fatalf("expected derived username, got %s", account.Username)
	}
	if account.Email != "jdoe+urstudent@uregina.ca" {
		t.Fatalf("expected derived email, got %s", account.Email)
	}
	if account.AuthMethod != domain.AuthMethodManual {
		t.Fatalf("expected manual auth, got %s", account.AuthMethod)
	}

	stored, err := fx.directory.GetTestStudentByEmail(context.Background(), account.Email)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored == nil {
		t.Fatalf("expected account to exist in directory")
	}
	if !stored.ForcePasswordChange {
		t.Fatalf("expected force password change to be set")
	}
	if stored.PendingAutoPassword {
		t.Fatalf("expected pending auto password flag to be cleared")
	}
	if stored.PasswordHash == "" {
		t.Fatalf("expected a password to be set")
	}

	if len(fx.mailer.sent) != 1 {
		t.Fatalf("expected 1 email, got %d", len(fx.mailer.sent))
	}
	msg := fx.mailer.sent[0]
	if msg.to != "jdoe+urstudent@uregina.ca" {
		t.Fatalf("expected mail to derived address, got %s", msg.to)
	}
	if !strings.Contains(msg.body, "jdoe-urstudent") {
		t.Fatalf("expected mail body to contain the username")
	}
}

func TestCreateTestStudentTwiceRejected(t *testing.T) {
	fx := newFixture()
	staff := fx.addStaff(1, "jdoe", domain.RoleEditingTeacher)

	if _, err := fx.students.Create(context.Background(), staff); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, err := fx.students.Create(context.Background(), staff)
	if !apperrors.HasCode(err, CodeAlreadyExists) {
		t.Fatalf("expected ALREADY_EXISTS, got %v", err)
	}
}

func TestCreateMapsUniqueViolationToAlreadyExists(t *testing.T) {
	fx := newFixture()
	first := fx.addStaff(1, "jdoe", domain.RoleEditingTeacher)

	if _, err := fx.students.Create(context.Background(), first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Lose the check-then-act race: the pre-check sees nothing but the
	// insert hits the unique email constraint.
	fx.directory.missOnLookup = true

	_, err := fx.students.Create(context.Background(), first)
	if !apperrors.HasCode(err, CodeAlreadyExists) {
		t.Fatalf("expected ALREADY_EXISTS from unique violation, got %v", err)
	}
}

func TestCreateRequiresEligibility(t *testing.T) {
	fx := newFixture()
	staff := fx.addStaff(2, "nobody")

	_, err := fx.students.Create(context.Background(), staff)
	if !apperrors.HasCode(err, CodeNotAllowed) {
		t.Fatalf("expected NOT_ALLOWED, got %v", err)
	}
	if account, _ := fx.students.Resolve(context.Background(), staff); account != nil {
		t.Fatalf("expected no account to be created")
	}
	if len(fx.mailer.sent) != 0 {
		t.Fatalf("expected no email, got %d", len(fx.mailer.sent))
	}
}

func TestCreateEmailFailureKeepsAccount(t *testing.T) {
	fx := newFixture()
	staff := fx.addStaff(1, "jdoe", domain.RoleManager)
	fx.mailer.fail = true

	account, err := fx.students.Create(context.Background(), staff)
	if !apperrors.HasCode(err, CodeEmailDeliveryFailed) {
		t.Fatalf("expected EMAIL_DELIVERY_FAILED, got %v", err)
	}
	if account == nil {
		t.Fatalf("expected created account to be returned alongside the error")
	}
	stored, _ := fx.students.Resolve(context.Background(), staff)
	if stored == nil {
		t.Fatalf("expected account to remain created after delivery failure")
	}
}

func TestCreatePasswordFailureRemovesAccount(t *testing.T) {
	fx := newFixture()
	staff := fx.addStaff(1, "jdoe", domain.RoleInstDesigner)
	fx.directory.failPasswordUpdate = true

	_, err := fx.students.Create(context.Background(), staff)
	if !apperrors.HasCode(err, CodePasswordSetFailed) {
		t.Fatalf("expected PASSWORD_SET_FAILED, got %v", err)
	}
	if account, _ := fx.students.Resolve(context.Background(), staff); account != nil {
		t.Fatalf("expected half-created account to be removed")
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	fx := newFixture()
	staff := fx.addStaff(1, "jdoe", domain.RoleEditingTeacher)

	if _, err := fx.students.Create(context.Background(), staff); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	first, err := fx.students.Resolve(context.Background(), staff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := fx.students.Resolve(context.Background(), staff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first == nil || second == nil || first.ID != second.ID || first.Email != second.Email {
		t.Fatalf("expected identical resolution, got %+v and %+v", first, second)
	}
}

func TestInfoBeforeAndAfterCreate(t *testing.T) {
	fx := newFixture()
	staff := fx.addStaff(1, "jdoe", domain.RoleEditingTeacher)

	info, err := fx.students.Info(context.Background(), staff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Exists {
		t.Fatalf("expected no account yet")
	}
	if info.Username != "jdoe-urstudent" || info.Email != "jdoe+urstudent@uregina.ca" {
		t.Fatalf("expected derived identity in info, got %+v", info)
	}

	if _, err := fx.students.Create(context.Background(), staff); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err = fx.students.Info(context.Background(), staff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !info.Exists || info.UserID == 0 || info.DateCreated == nil {
		t.Fatalf("expected existing account info, got %+v", info)
	}
}

func TestInfoRequiresEligibility(t *testing.T) {
	fx := newFixture()
	staff := fx.addStaff(2, "nobody")

	if _, err := fx.students.Info(context.Background(), staff); !apperrors.HasCode(err, CodeNotAllowed) {
		t.Fatalf("expected NOT_ALLOWED, got %v", err)
	}
}

func TestResetWithoutAccount(t *testing.T) {
	fx := newFixture()
	staff := fx.addStaff(1, "jdoe", domain.RoleEditingTeacher)

	_, err := fx.students.Reset(context.Background(), staff)
	if !apperrors.HasCode(err, CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestResetIssuesNewPassword(t *testing.T) {
	fx := newFixture()
	staff := fx.addStaff(1, "jdoe", domain.RoleEditingTeacher)

	if _, err := fx.students.Create(context.Background(), staff); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before, _ := fx.students.Resolve(context.Background(), staff)

	notified, err := fx.students.Reset(context.Background(), staff)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if notified != "jdoe+urstudent@uregina.ca" {
		t.Fatalf("expected notification address, got %s", notified)
	}

	after, _ := fx.students.Resolve(context.Background(), staff)
	if after.Username != before.Username || after.Email != before.Email {
		t.Fatalf("expected identity unchanged by reset")
	}
	if after.PasswordHash == before.PasswordHash {
		t.Fatalf("expected password hash to change")
	}
	if !after.ForcePasswordChange {
		t.Fatalf("expected force password change after reset")
	}
	if len(fx.mailer.sent) != 2 {
		t.Fatalf("expected create and reset emails, got %d", len(fx.mailer.sent))
	}
}

func TestResetEmailFailureKeepsNewPassword(t *testing.T) {
	fx := newFixture()
	staff := fx.addStaff(1, "jdoe", domain.RoleEditingTeacher)

	if _, err := fx.students.Create(context.Background(), staff); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	before, _ := fx.students.Resolve(context.Background(), staff)

	fx.mailer.fail = true
	_, err := fx.students.Reset(context.Background(), staff)
	if !apperrors.HasCode(err, CodeEmailDeliveryFailed) {
		t.Fatalf("expected EMAIL_DELIVERY_FAILED, got %v", err)
	}

	// The destructive action already happened; it must not be undone.
	after, _ := fx.students.Resolve(context.Background(), staff)
	if after.PasswordHash == before.PasswordHash {
		t.Fatalf("expected the new password to stay live after delivery failure")
	}
}

func TestResetRequiresEligibility(t *testing.T) {
	fx := newFixture()
	staff := fx.addStaff(2, "nobody")

	if _, err := fx.students.Reset(context.Background(), staff); !apperrors.HasCode(err, CodeNotAllowed) {
		t.Fatalf("expected NOT_ALLOWED, got %v", err)
	}
}
