package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uofr/urcourses-teststudent/internal/domain"
)

// EnrolmentRepository defines persistence access for courses, enrolment
// methods and course enrolments.
type EnrolmentRepository interface {
	GetCourse(ctx context.Context, id int64) (*domain.Course, error)
	GetManualEnrolMethod(ctx context.Context, courseID int64) (*domain.EnrolMethod, error)
	GetEnrolment(ctx context.Context, courseID, accountID int64) (*domain.CourseEnrolment, error)
	CreateEnrolment(ctx context.Context, enrolment *domain.CourseEnrolment) error
	DeleteEnrolment(ctx context.Context, courseID, accountID int64) error
}

type enrolmentRepository struct {
	pool *pgxpool.Pool
}

// NewEnrolmentRepository returns a Postgres-backed implementation.
func NewEnrolmentRepository(pool *pgxpool.Pool) EnrolmentRepository {
	return &enrolmentRepository{pool: pool}
}

func (r *enrolmentRepository) GetCourse(ctx context.Context, id int64) (*domain.Course, error) {
	const query = `
        SELECT id, shortname, fullname
        FROM courses WHERE id=$1`

	var course domain.Course
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&course.ID,
		&course.Shortname,
		&course.Fullname,
	); err != nil {
		return nil, err
	}
	return &course, nil
}

// GetManualEnrolMethod returns the course's enabled manual enrolment method,
// or nil when the course has none configured.
func (r *enrolmentRepository) GetManualEnrolMethod(ctx context.Context, courseID int64) (*domain.EnrolMethod, error) {
	const query = `
        SELECT id, course_id, method, enabled
        FROM enrol_methods
        WHERE course_id=$1 AND method=$2 AND enabled
        ORDER BY id
        LIMIT 1`

	var method domain.EnrolMethod
	if err := r.pool.QueryRow(ctx, query, courseID, domain.EnrolMethodManual).Scan(
		&method.ID,
		&method.CourseID,
		&method.Method,
		&method.Enabled,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &method, nil
}

// GetEnrolment returns the enrolment for the (course, account) pair, or nil
// when the account is not enrolled.
func (r *enrolmentRepository) GetEnrolment(ctx context.Context, courseID, accountID int64) (*domain.CourseEnrolment, error) {
	const query = `
        SELECT id, enrol_method_id, course_id, account_id, status, time_start, time_end, created_at
        FROM course_enrolments
        WHERE course_id=$1 AND account_id=$2`

	var enrolment domain.CourseEnrolment
	if err := r.pool.QueryRow(ctx, query, courseID, accountID).Scan(
		&enrolment.ID,
		&enrolment.EnrolMethodID,
		&enrolment.CourseID,
		&enrolment.AccountID,
		&enrolment.Status,
		&enrolment.TimeStart,
		&enrolment.TimeEnd,
		&enrolment.CreatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &enrolment, nil
}

func (r *enrolmentRepository) CreateEnrolment(ctx context.Context, enrolment *domain.CourseEnrolment) error {
	const query = `
        INSERT INTO course_enrolments (enrol_method_id, course_id, account_id, status, time_start, time_end)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		enrolment.EnrolMethodID,
		enrolment.CourseID,
		enrolment.AccountID,
		enrolment.Status,
		enrolment.TimeStart,
		enrolment.TimeEnd,
	).Scan(&enrolment.ID, &enrolment.CreatedAt)
}

func (r *enrolmentRepository) DeleteEnrolment(ctx context.Context, courseID, accountID int64) error {
	const query = `DELETE FROM course_enrolments WHERE course_id=$1 AND account_id=$2`
	_, err := r.pool.Exec(ctx, query, courseID, accountID)
	return err
}
