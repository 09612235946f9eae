package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/uofr/urcourses-teststudent/internal/domain"
	"github.com/uofr/urcourses-teststudent/internal/events"
	"github.com/uofr/urcourses-teststudent/internal/repository"
)

// EnrolmentService moves a test student account in and out of courses through
// the course's manual enrolment method.
type EnrolmentService struct {
	directory  repository.DirectoryRepository
	enrolments repository.EnrolmentRepository
	dispatcher events.Dispatcher
}

// EnrolmentDependencies bundles repositories for the enrolment service.
type EnrolmentDependencies struct {
	DirectoryRepo repository.DirectoryRepository
	EnrolmentRepo repository.EnrolmentRepository
	Dispatcher    events.Dispatcher
}

// NewEnrolmentService constructs the service.
func NewEnrolmentService(deps EnrolmentDependencies) *EnrolmentService {
	return &EnrolmentService{
		directory:  deps.DirectoryRepo,
		enrolments: deps.EnrolmentRepo,
		dispatcher: deps.Dispatcher,
	}
}

// Enrol adds the staff identity's test student to the course. Double enrol is
// rejected with ALREADY_ENROLLED, never silently accepted. The written row is
// re-read afterwards to catch silent no-ops in the enrolment backend.
func (s *EnrolmentService) Enrol(ctx context.Context, staff *domain.StaffIdentity, courseID int64) error {
	account, err := s.resolveAccount(ctx, staff)
	if err != nil {
		return err
	}

	if _, err := s.enrolments.GetCourse(ctx, courseID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return errCourseNotFound(courseID)
		}
		return err
	}

	existing, err := s.enrolments.GetEnrolment(ctx, courseID, account.ID)
	if err != nil {
		return err
	}
	if existing != nil {
		return errAlreadyEnrolled(courseID)
	}

	method, err := s.enrolments.GetManualEnrolMethod(ctx, courseID)
	if err != nil {
		return err
	}
	if method == nil {
		return errNoEnrolMethod(courseID)
	}

	enrolment := &domain.CourseEnrolment{
		EnrolMethodID: method.ID,
		CourseID:      courseID,
		AccountID:     account.ID,
		Status:        domain.EnrolmentStatusActive,
		TimeStart:     time.Now(),
	}
	if err := s.enrolments.CreateEnrolment(ctx, enrolment); err != nil {
		return err
	}

	confirmed, err := s.enrolments.GetEnrolment(ctx, courseID, account.ID)
	if err != nil {
		return err
	}
	if confirmed == nil {
		return errEnrolmentNotConfirmed(courseID)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventTestStudentEnrolled,
		StaffID:   staff.ID,
		AccountID: account.ID,
		Payload: events.TestStudentEnrolmentPayload{
			CourseID:      courseID,
			EnrolMethodID: method.ID,
		},
	})
	return nil
}

// Unenrol removes the test student from the course. Removal is always
// permitted for the owning staff member; the only preconditions are that the
// account exists and is currently enrolled.
func (s *EnrolmentService) Unenrol(ctx context.Context, staff *domain.StaffIdentity, courseID int64) error {
	account, err := s.resolveAccount(ctx, staff)
	if err != nil {
		return err
	}

	existing, err := s.enrolments.GetEnrolment(ctx, courseID, account.ID)
	if err != nil {
		return err
	}
	if existing == nil {
		return errNotEnrolled(courseID)
	}

	if err := s.enrolments.DeleteEnrolment(ctx, courseID, account.ID); err != nil {
		return err
	}

	remaining, err := s.enrolments.GetEnrolment(ctx, courseID, account.ID)
	if err != nil {
		return err
	}
	if remaining != nil {
		return errEnrolmentNotConfirmed(courseID)
	}

	s.publish(ctx, events.Event{
		Type:      events.EventTestStudentUnenrolled,
		StaffID:   staff.ID,
		AccountID: account.ID,
		Payload: events.TestStudentEnrolmentPayload{
			CourseID: courseID,
		},
	})
	return nil
}

func (s *EnrolmentService) resolveAccount(ctx context.Context, staff *domain.StaffIdentity) (*domain.TestStudentAccount, error) {
	identity := domain.DeriveTestStudentIdentity(staff)
	account, err := s.directory.GetTestStudentByEmail(ctx, identity.Email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, errAccountNotFound()
	}
	return account, nil
}

func (s *EnrolmentService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
