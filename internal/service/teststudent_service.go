package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/uofr/urcourses-teststudent/internal/auth"
	"github.com/uofr/urcourses-teststudent/internal/config"
	"github.com/uofr/urcourses-teststudent/internal/domain"
	"github.com/uofr/urcourses-teststudent/internal/events"
	"github.com/uofr/urcourses-teststudent/internal/mail"
	"github.com/uofr/urcourses-teststudent/internal/repository"
)

const pgUniqueViolation = "23505"

// TestStudentService coordinates the create/reset lifecycle of test student
// accounts and resolves their derived identity.
type TestStudentService struct {
	directory   repository.DirectoryRepository
	eligibility *EligibilityService
	mailer      mail.Mailer
	dispatcher  events.Dispatcher
	logger      *zap.Logger
	site        config.SiteConfig
	bcryptCost  int
	tempPwLen   int
}

// TestStudentDependencies bundles collaborator requirements.
type TestStudentDependencies struct {
	DirectoryRepo repository.DirectoryRepository
	Eligibility   *EligibilityService
	Mailer        mail.Mailer
	Dispatcher    events.Dispatcher
	Logger        *zap.Logger
}

// TestStudentInfo is the read-only view returned to the UI. Username and
// email are filled from the derivation rule even before the account exists so
// the caller can display what would be created.
type TestStudentInfo struct {
	Exists      bool
	UserID      int64
	Username    string
	Email       string
	DateCreated *time.Time
}

// NewTestStudentService constructs the service.
func NewTestStudentService(cfg config.Config, deps TestStudentDependencies) *TestStudentService {
	return &TestStudentService{
		directory:   deps.DirectoryRepo,
		eligibility: deps.Eligibility,
		mailer:      deps.Mailer,
		dispatcher:  deps.Dispatcher,
		logger:      deps.Logger,
		site:        cfg.Site,
		bcryptCost:  cfg.Auth.BcryptCost,
		tempPwLen:   cfg.Auth.TempPasswordLength,
	}
}

// Resolve maps a staff identity to its existing test student account, or nil
// when none has been created yet. Absence is a normal state, not an error.
func (s *TestStudentService) Resolve(ctx context.Context, staff *domain.StaffIdentity) (*domain.TestStudentAccount, error) {
	identity := domain.DeriveTestStudentIdentity(staff)
	return s.directory.GetTestStudentByEmail(ctx, identity.Email)
}

// Info returns the account state for the staff identity's test student.
func (s *TestStudentService) Info(ctx context.Context, staff *domain.StaffIdentity) (*TestStudentInfo, error) {
	eligible, err := s.eligibility.CanManageTestStudent(ctx, staff)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, errNotAllowed()
	}

	identity := domain.DeriveTestStudentIdentity(staff)
	account, err := s.directory.GetTestStudentByEmail(ctx, identity.Email)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return &TestStudentInfo{
			Exists:   false,
			Username: identity.Username,
			Email:    identity.Email,
		}, nil
	}
	created := account.CreatedAt
	return &TestStudentInfo{
		Exists:      true,
		UserID:      account.ID,
		Username:    account.Username,
		Email:       account.Email,
		DateCreated: &created,
	}, nil
}

// Create provisions the test student account for the staff identity and mails
// the temporary credentials. The credentials email failing surfaces
// EMAIL_DELIVERY_FAILED while the created account stays in place; the account
// is also returned alongside that error.
func (s *TestStudentService) Create(ctx context.Context, staff *domain.StaffIdentity) (*domain.TestStudentAccount, error) {
	eligible, err := s.eligibility.CanManageTestStudent(ctx, staff)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return nil, errNotAllowed()
	}

	identity := domain.DeriveTestStudentIdentity(staff)
	existing, err := s.directory.GetTestStudentByEmail(ctx, identity.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errAlreadyExists(identity.Email)
	}

	account := &domain.TestStudentAccount{
		Username:            identity.Username,
		Email:               identity.Email,
		Firstname:           identity.Firstname,
		Lastname:            identity.Lastname,
		AuthMethod:          domain.AuthMethodManual,
		Confirmed:           true,
		ForcePasswordChange: true,
	}
	if err := s.directory.CreateTestStudent(ctx, account); err != nil {
		// The unique email constraint is the real guard against two racing
		// create calls; the lookup above only gives the friendly fast path.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, errAlreadyExists(identity.Email)
		}
		return nil, err
	}

	newPassword, err := s.setTemporaryPassword(ctx, account)
	if err != nil {
		// Compensate: without a usable password the half-created account is
		// useless, so remove it rather than strand it.
		if delErr := s.directory.DeleteAccount(ctx, account.ID); delErr != nil {
			s.logger.Error("failed to remove account after password failure",
				zap.String("username", account.Username), zap.Error(delErr))
		}
		return nil, err
	}

	// Clearing the pending flag keeps the password cron from overwriting the
	// credential before it reaches the instructor's inbox.
	if err := s.directory.SetAccountFlags(ctx, account.ID, true, false); err != nil {
		return nil, err
	}
	account.ForcePasswordChange = true
	account.PendingAutoPassword = false

	mailErr := s.sendCredentials(account, newPassword)
	s.publish(ctx, events.Event{
		Type:      events.EventTestStudentCreated,
		StaffID:   staff.ID,
		AccountID: account.ID,
		Payload: events.TestStudentCreatedPayload{
			Username:  account.Username,
			Email:     account.Email,
			MailError: errString(mailErr),
		},
	})
	if mailErr != nil {
		return account, errEmailDeliveryFailed(account.Email, mailErr)
	}
	return account, nil
}

// Reset issues a new temporary password for the existing test student account
// and mails it. A missing account is reported as NOT_FOUND; callers treat it
// as nothing-to-do. A failed email does not undo the password change.
func (s *TestStudentService) Reset(ctx context.Context, staff *domain.StaffIdentity) (string, error) {
	eligible, err := s.eligibility.CanManageTestStudent(ctx, staff)
	if err != nil {
		return "", err
	}
	if !eligible {
		return "", errNotAllowed()
	}

	account, err := s.Resolve(ctx, staff)
	if err != nil {
		return "", err
	}
	if account == nil {
		return "", errAccountNotFound()
	}

	newPassword, err := s.setTemporaryPassword(ctx, account)
	if err != nil {
		return "", err
	}
	if err := s.directory.SetAccountFlags(ctx, account.ID, true, false); err != nil {
		return "", err
	}

	mailErr := s.sendCredentials(account, newPassword)
	s.publish(ctx, events.Event{
		Type:      events.EventTestStudentPasswordReset,
		StaffID:   staff.ID,
		AccountID: account.ID,
		Payload: events.TestStudentPasswordResetPayload{
			Username:   account.Username,
			NotifiedTo: account.Email,
			MailError:  errString(mailErr),
		},
	})
	if mailErr != nil {
		// The new password is already live; fail loud, do not roll back.
		return "", errEmailDeliveryFailed(account.Email, mailErr)
	}
	return account.Email, nil
}

func (s *TestStudentService) setTemporaryPassword(ctx context.Context, account *domain.TestStudentAccount) (string, error) {
	if !account.AuthMethod.SupportsPassword() {
		return "", errPasswordSetFailed(errors.New("auth method does not support password changes"))
	}

	newPassword, err := auth.GenerateTemporaryPassword(s.tempPwLen)
	if err != nil {
		return "", errPasswordSetFailed(err)
	}
	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return "", errPasswordSetFailed(err)
	}
	if err := s.directory.UpdatePassword(ctx, account.ID, hash); err != nil {
		return "", errPasswordSetFailed(err)
	}
	account.PasswordHash = hash
	return newPassword, nil
}

func (s *TestStudentService) sendCredentials(account *domain.TestStudentAccount, newPassword string) error {
	body, err := mail.RenderCredentials(mail.CredentialsData{
		Firstname:   account.Firstname,
		Sitename:    s.site.Name,
		Username:    account.Username,
		NewPassword: newPassword,
		LoginURL:    s.site.LoginURL,
		Signoff:     s.site.Signoff,
	})
	if err != nil {
		return err
	}
	// The derived plus-address routes back to the owning staff inbox.
	return s.mailer.Send(account.Email, mail.CredentialsSubject(s.site.Name), body)
}

func (s *TestStudentService) publish(ctx context.Context, event events.Event) {
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

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
