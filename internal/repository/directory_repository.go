package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/uofr/urcourses-teststudent/internal/domain"
)

// DirectoryRepository defines persistence access for directory accounts.
// Staff identities are read-only; test student rows are the only ones this
// service creates or mutates.
type DirectoryRepository interface {
	GetStaffByID(ctx context.Context, id int64) (*domain.StaffIdentity, error)
	GetStaffCredentials(ctx context.Context, username string) (*domain.StaffIdentity, string, error)
	GetTestStudentByEmail(ctx context.Context, email string) (*domain.TestStudentAccount, error)
	CreateTestStudent(ctx context.Context, account *domain.TestStudentAccount) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetAccountFlags(ctx context.Context, id int64, forcePasswordChange, pendingAutoPassword bool) error
	DeleteAccount(ctx context.Context, id int64) error
}

type directoryRepository struct {
	pool *pgxpool.Pool
}

// NewDirectoryRepository returns a Postgres-backed implementation.
func NewDirectoryRepository(pool *pgxpool.Pool) DirectoryRepository {
	return &directoryRepository{pool: pool}
}

func (r *directoryRepository) GetStaffByID(ctx context.Context, id int64) (*domain.StaffIdentity, error) {
	const query = `
        SELECT id, username, firstname, lastname, email, site_admin, created_at
        FROM directory_accounts WHERE id=$1`

	var staff domain.StaffIdentity
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&staff.ID,
		&staff.Username,
		&staff.Firstname,
		&staff.Lastname,
		&staff.Email,
		&staff.SiteAdmin,
		&staff.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *directoryRepository) GetStaffCredentials(ctx context.Context, username string) (*domain.StaffIdentity, string, error) {
	const query = `
        SELECT id, username, firstname, lastname, email, site_admin, created_at, password_hash
        FROM directory_accounts WHERE username=$1`

	var staff domain.StaffIdentity
	var hash string
	if err := r.pool.QueryRow(ctx, query, username).Scan(
		&staff.ID,
		&staff.Username,
		&staff.Firstname,
		&staff.Lastname,
		&staff.Email,
		&staff.SiteAdmin,
		&staff.CreatedAt,
		&hash,
	); err != nil {
		return nil, "", err
	}
	return &staff, hash, nil
}

func (r *directoryRepository) GetTestStudentByEmail(ctx context.Context, email string) (*domain.TestStudentAccount, error) {
	const query = `
        SELECT id, username, email, firstname, lastname, auth_method, password_hash,
               confirmed, force_password_change, pending_auto_password, created_at, updated_at
        FROM directory_accounts WHERE email=$1`

	var account domain.TestStudentAccount
	if err := r.pool.QueryRow(ctx, query, email).Scan(
		&account.ID,
		&account.Username,
		&account.Email,
		&account.Firstname,
		&account.Lastname,
		&account.AuthMethod,
		&account.PasswordHash,
		&account.Confirmed,
		&account.ForcePasswordChange,
		&account.PendingAutoPassword,
		&account.CreatedAt,
		&account.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *directoryRepository) CreateTestStudent(ctx context.Context, account *domain.TestStudentAccount) error {
	const query = `
        INSERT INTO directory_accounts
            (username, email, firstname, lastname, auth_method, password_hash,
             confirmed, force_password_change, pending_auto_password)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		account.Username,
		account.Email,
		account.Firstname,
		account.Lastname,
		account.AuthMethod,
		account.PasswordHash,
		account.Confirmed,
		account.ForcePasswordChange,
		account.PendingAutoPassword,
	).Scan(&account.ID, &account.CreatedAt, &account.UpdatedAt)
}

func (r *directoryRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	const query = `
        UPDATE directory_accounts SET password_hash=$1, updated_at=NOW()
        WHERE id=$2`

	cmd, err := r.pool.Exec(ctx, query, passwordHash, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *directoryRepository) SetAccountFlags(ctx context.Context, id int64, forcePasswordChange, pendingAutoPassword bool) error {
	const query = `
        UPDATE directory_accounts
        SET force_password_change=$1, pending_auto_password=$2, updated_at=NOW()
        WHERE id=$3`

	cmd, err := r.pool.Exec(ctx, query, forcePasswordChange, pendingAutoPassword, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *directoryRepository) DeleteAccount(ctx context.Context, id int64) error {
	const query = `DELETE FROM directory_accounts WHERE id=$1`
	_, err := r.pool.Exec(ctx, query, id)
	return err
}
