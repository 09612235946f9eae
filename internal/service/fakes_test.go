package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/uofr/urcourses-teststudent/internal/config"
	"github.com/uofr/urcourses-teststudent/internal/domain"
)

type fakeDirectory struct {
	mu                 sync.Mutex
	nextID             int64
	accounts           map[string]*domain.TestStudentAccount
	staff              map[int64]*domain.StaffIdentity
	failPasswordUpdate bool
	missOnLookup       bool
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		nextID:   1000,
		accounts: make(map[string]*domain.TestStudentAccount),
		staff:    make(map[int64]*domain.StaffIdentity),
	}
}

func (f *fakeDirectory) GetStaffByID(_ context.Context, id int64) (*domain.StaffIdentity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	staff, ok := f.staff[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return staff, nil
}

func (f *fakeDirectory) GetStaffCredentials(_ context.Context, username string) (*domain.StaffIdentity, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, staff := range f.staff {
		if staff.Username == username {
			return staff, "", nil
		}
	}
	return nil, "", pgx.ErrNoRows
}

func (f *fakeDirectory) GetTestStudentByEmail(_ context.Context, email string) (*domain.TestStudentAccount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missOnLookup {
		return nil, nil
	}
	account, ok := f.accounts[email]
	if !ok {
		return nil, nil
	}
	copied := *account
	return &copied, nil
}

func (f *fakeDirectory) CreateTestStudent(_ context.Context, account *domain.TestStudentAccount) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.accounts[account.Email]; exists {
		return &pgconn.PgError{Code: "23505", ConstraintName: "directory_accounts_email_key"}
	}
	f.nextID++
	account.ID = f.nextID
	account.CreatedAt = time.Now()
	account.UpdatedAt = account.CreatedAt
	stored := *account
	f.accounts[account.Email] = &stored
	return nil
}

func (f *fakeDirectory) UpdatePassword(_ context.Context, id int64, passwordHash string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPasswordUpdate {
		return errors.New("password update rejected")
	}
	for _, account := range f.accounts {
		if account.ID == id {
			account.PasswordHash = passwordHash
			account.UpdatedAt = time.Now()
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeDirectory) SetAccountFlags(_ context.Context, id int64, forcePasswordChange, pendingAutoPassword bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, account := range f.accounts {
		if account.ID == id {
			account.ForcePasswordChange = forcePasswordChange
			account.PendingAutoPassword = pendingAutoPassword
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (f *fakeDirectory) DeleteAccount(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for email, account := range f.accounts {
		if account.ID == id {
			delete(f.accounts, email)
			return nil
		}
	}
	return nil
}

type fakeRoles struct {
	mu    sync.Mutex
	roles map[int64]map[domain.RoleShortname]bool
}

func newFakeRoles() *fakeRoles {
	return &fakeRoles{roles: make(map[int64]map[domain.RoleShortname]bool)}
}

func (f *fakeRoles) assign(accountID int64, role domain.RoleShortname) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.roles[accountID] == nil {
		f.roles[accountID] = make(map[domain.RoleShortname]bool)
	}
	f.roles[accountID][role] = true
}

func (f *fakeRoles) HasAnyRole(_ context.Context, accountID int64, roles []domain.RoleShortname) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	assigned := f.roles[accountID]
	for _, role := range roles {
		if assigned[role] {
			return true, nil
		}
	}
	return false, nil
}

type sentMail struct {
	to      string
	subject string
	body    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (f *fakeMailer) Send(to, subject, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return errors.New("smtp unavailable")
	}
	f.sent = append(f.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

type enrolmentKey struct {
	courseID  int64
	accountID int64
}

type fakeEnrolments struct {
	mu         sync.Mutex
	nextID     int64
	courses    map[int64]*domain.Course
	methods    map[int64]*domain.EnrolMethod
	rows       map[enrolmentKey]*domain.CourseEnrolment
	dropWrites bool
}

func newFakeEnrolments() *fakeEnrolments {
	return &fakeEnrolments{
		nextID:  1,
		courses: make(map[int64]*domain.Course),
		methods: make(map[int64]*domain.EnrolMethod),
		rows:    make(map[enrolmentKey]*domain.CourseEnrolment),
	}
}

func (f *fakeEnrolments) addCourse(id int64, manualMethod bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.courses[id] = &domain.Course{ID: id, Shortname: "CS100", Fullname: "Intro"}
	if manualMethod {
		f.nextID++
		f.methods[id] = &domain.EnrolMethod{ID: f.nextID, CourseID: id, Method: domain.EnrolMethodManual, Enabled: true}
	}
}

func (f *fakeEnrolments) GetCourse(_ context.Context, id int64) (*domain.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	course, ok := f.courses[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return course, nil
}

func (f *fakeEnrolments) GetManualEnrolMethod(_ context.Context, courseID int64) (*domain.EnrolMethod, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	method, ok := f.methods[courseID]
	if !ok {
		return nil, nil
	}
	return method, nil
}

func (f *fakeEnrolments) GetEnrolment(_ context.Context, courseID, accountID int64) (*domain.CourseEnrolment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	row, ok := f.rows[enrolmentKey{courseID, accountID}]
	if !ok {
		return nil, nil
	}
	return row, nil
}

func (f *fakeEnrolments) CreateEnrolment(_ context.Context, enrolment *domain.CourseEnrolment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dropWrites {
		return nil
	}
	f.nextID++
	enrolment.ID = f.nextID
	enrolment.CreatedAt = time.Now()
	stored := *enrolment
	f.rows[enrolmentKey{enrolment.CourseID, enrolment.AccountID}] = &stored
	return nil
}

func (f *fakeEnrolments) DeleteEnrolment(_ context.Context, courseID, accountID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dropWrites {
		return nil
	}
	delete(f.rows, enrolmentKey{courseID, accountID})
	return nil
}

func testConfig() config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			BcryptCost:         4,
			TempPasswordLength: 8,
		},
		Site: config.SiteConfig{
			Name:     "UR Courses",
			LoginURL: "https://urcourses.uregina.ca/login",
			Signoff:  "UR Courses Support",
		},
	}
}

type serviceFixture struct {
	directory  *fakeDirectory
	roles      *fakeRoles
	mailer     *fakeMailer
	enrolments *fakeEnrolments
	students   *TestStudentService
	courses    *EnrolmentService
}

func newFixture() *serviceFixture {
	directory := newFakeDirectory()
	roles := newFakeRoles()
	mailer := &fakeMailer{}
	enrolments := newFakeEnrolments()
	logger := zap.NewNop()

	eligibility := NewEligibilityService(roles, nil, 0, logger)
	students := NewTestStudentService(testConfig(), TestStudentDependencies{
		DirectoryRepo: directory,
		Eligibility:   eligibility,
		Mailer:        mailer,
		Dispatcher:    nil,
		Logger:        logger,
	})
	courses := NewEnrolmentService(EnrolmentDependencies{
		DirectoryRepo: directory,
		EnrolmentRepo: enrolments,
		Dispatcher:    nil,
	})

	return &serviceFixture{
		directory:  directory,
		roles:      roles,
		mailer:     mailer,
		enrolments: enrolments,
		students:   students,
		courses:    courses,
	}
}

func (f *serviceFixture) addStaff(id int64, username string, roles ...domain.RoleShortname) *domain.StaffIdentity {
	staff := &domain.StaffIdentity{
		ID:        id,
		Username:  username,
		Firstname: "Jane",
		Lastname:  "Doe",
		Email:     username + "@uregina.ca",
	}
	f.directory.staff[id] = staff
	for _, role := range roles {
		f.roles.assign(id, role)
	}
	return staff
}
