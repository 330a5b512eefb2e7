package users

import (
	"context"
	"time"

	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/auth"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/errcodes"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/models"
	"github.com/WabukoWabuko/MicroClinicPlusPharmacyManager-sub000/pkg/sync"
	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

// Service handles user management operations.
type Service struct {
	db       *bun.DB
	recorder *sync.Recorder
}

// NewService creates a new users service.
func NewService(db *bun.DB, recorder *sync.Recorder) *Service {
	return &Service{db: db, recorder: recorder}
}

// CreateUserOptions contains options for creating a user.
type CreateUserOptions struct {
	Username string
	FullName string
	Password string
	Role     string
}

// Create creates a new user and queues it for upload.
func (s *Service) Create(ctx context.Context, opts CreateUserOptions) (*models.User, error) {
	exists, err := s.db.NewSelect().
		Model((*models.User)(nil)).
		Where("username = ? COLLATE NOCASE", opts.Username).
		Exists(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	if exists {
		return nil, errcodes.ConstraintError("Username already exists")
	}

	hashedPassword, err := auth.HashPassword(opts.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := &models.User{
		Username:     opts.Username,
		PasswordHash: hashedPassword,
		FullName:     opts.FullName,
		Role:         opts.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
		SyncStatus:   models.SyncStatusPending,
	}

	err = s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(user).Exec(ctx); err != nil {
			return errors.WithStack(err)
		}
		return s.recorder.Record(ctx, tx, "users", models.SyncOpInsert, int64(user.ID), user)
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Retrieve gets a user by ID.
func (s *Service) Retrieve(ctx context.Context, id int) (*models.User, error) {
	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Where("u.user_id = ?", id).
		Scan(ctx)
	if err != nil {
		return nil, errcodes.NotFound("User")
	}
	return user, nil
}

// ListOptions contains options for listing users.
type ListOptions struct {
	Limit  int
	Offset int
}

// List returns a paginated list of users.
func (s *Service) List(ctx context.Context, opts ListOptions) ([]*models.User, int, error) {
	users := []*models.User{}

	query := s.db.NewSelect().
		Model(&users).
		Order("u.user_id ASC")

	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}

	total, err := query.ScanAndCount(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	return users, total, nil
}

// UpdateOptions contains options for updating a user.
type UpdateOptions struct {
	Columns []string
}

// Update persists the given columns and queues the new row state for upload.
func (s *Service) Update(ctx context.Context, user *models.User, opts UpdateOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	user.UpdatedAt = time.Now().UTC()
	user.IsSynced = false
	user.SyncStatus = models.SyncStatusPending
	columns := append(opts.Columns, "updated_at", "is_synced", "sync_status")

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		_, err := tx.NewUpdate().
			Model(user).
			Column(columns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		return s.recorder.Record(ctx, tx, "users", models.SyncOpUpdate, int64(user.ID), user)
	})
}

// ResetPassword changes a user's password and queues the new row state.
func (s *Service) ResetPassword(ctx context.Context, userID int, newPassword string) error {
	user, err := s.Retrieve(ctx, userID)
	if err != nil {
		return err
	}

	hashedPassword, err := auth.HashPassword(newPassword)
	if err != nil {
		return err
	}

	user.PasswordHash = hashedPassword
	return s.Update(ctx, user, UpdateOptions{Columns: []string{"password_hash"}})
}

// VerifyPassword checks if the password is correct for a user.
func (s *Service) VerifyPassword(ctx context.Context, userID int, password string) (bool, error) {
	user := &models.User{}
	err := s.db.NewSelect().
		Model(user).
		Column("password_hash").
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		return false, errors.WithStack(err)
	}

	return auth.CheckPassword(password, user.PasswordHash), nil
}

// Deactivate deactivates a user (soft delete) and queues the new row state.
func (s *Service) Deactivate(ctx context.Context, userID int) error {
	user, err := s.Retrieve(ctx, userID)
	if err != nil {
		return err
	}

	user.IsActive = false
	return s.Update(ctx, user, UpdateOptions{Columns: []string{"is_active"}})
}
