package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tassot/tassot/internal/invitation/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repo struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repo{db: db}
}

func (r *repo) WithTx(tx *gorm.DB) domain.Repository {
	return &repo{db: tx}
}

func (r *repo) IsMemberEmail(ctx context.Context, projectID snowflake.ID, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM project_members m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.project_id = ? AND LOWER(u.email) = LOWER(?)`,
		projectID, email,
	).Scan(&count).Error
	return count > 0, err
}

func (r *repo) HasPending(ctx context.Context, projectID snowflake.ID, email string, now time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COUNT(*) FROM invitations
		 WHERE project_id = ? AND LOWER(email) = LOWER(?)
		   AND status = ? AND expires_at > ?`,
		projectID, email, domain.StatusPending, now,
	).Scan(&count).Error
	return count > 0, err
}

func (r *repo) Insert(ctx context.Context, invitation domain.Invitation) error {
	return r.db.WithContext(ctx).Create(&invitation).Error
}

func (r *repo) FindVerify(ctx context.Context, token string, now time.Time) (*domain.VerifyResult, error) {
	var result domain.VerifyResult
	err := r.db.WithContext(ctx).Raw(
		`SELECT i.email, p.name AS project_name, u.display_name AS inviter_name
		 FROM invitations i
		 JOIN projects p ON p.id = i.project_id
		 JOIN users u ON u.id = i.invited_by
		 WHERE i.token = ? AND i.status = ? AND i.expires_at > ?`,
		token, domain.StatusPending, now,
	).Scan(&result).Error
	if err != nil {
		return nil, err
	}
	if result.Email == "" {
		return nil, domain.ErrNotFound
	}
	return &result, nil
}

func (r *repo) FindByTokenForUpdate(ctx context.Context, token string) (*domain.Invitation, error) {
	stmt := r.db.WithContext(ctx)
	if stmt.Dialector.Name() != "sqlite" {
		stmt = stmt.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var invitation domain.Invitation
	err := stmt.Where("token = ?", token).First(&invitation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &invitation, nil
}

func (r *repo) InsertMembership(ctx context.Context, memberID, projectID, userID snowflake.ID, role string) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO project_members (id, project_id, user_id, role, pinned, created_at)
		 VALUES (?, ?, ?, ?, FALSE, ?)
		 ON CONFLICT (project_id, user_id) DO NOTHING`,
		memberID, projectID, userID, role, time.Now().UTC(),
	).Error
}

func (r *repo) MarkAccepted(ctx context.Context, invitationID snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE invitations SET status = ? WHERE id = ?`,
		domain.StatusAccepted, invitationID,
	).Error
}

func (r *repo) InviteContext(ctx context.Context, projectID, inviterID snowflake.ID) (*domain.InviteContext, error) {
	var out domain.InviteContext
	err := r.db.WithContext(ctx).Raw(
		`SELECT p.name AS project_name, u.display_name AS inviter_name
		 FROM projects p, users u
		 WHERE p.id = ? AND u.id = ?`,
		projectID, inviterID,
	).Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return &out, nil
}
