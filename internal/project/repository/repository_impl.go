package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/tassot/tassot/internal/project/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) CreateProject(ctx context.Context, project domain.Project) error {
	return r.db.WithContext(ctx).Create(&project).Error
}

func (r *repository) CreateMember(ctx context.Context, member domain.ProjectMember) error {
	return r.db.WithContext(ctx).Create(&member).Error
}

func (r *repository) CreateBoards(ctx context.Context, boards []domain.DefaultBoard) error {
	for _, board := range boards {
		err := r.db.WithContext(ctx).Exec(
			`INSERT INTO boards (id, project_id, name, position, color, created_at, updated_at)
			 VALUES (?, ?, ?, ?, '', ?, ?)`,
			board.ID,
			board.ProjectID,
			board.Name,
			board.Position,
			board.CreatedAt,
			board.CreatedAt,
		).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) FindByURL(ctx context.Context, url string) (*domain.Project, error) {
	var project domain.Project
	if err := r.db.WithContext(ctx).First(&project, "url = ?", url).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Project, error) {
	var project domain.Project
	if err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &project, nil
}

func (r *repository) ListByUser(ctx context.Context, userID snowflake.ID) ([]domain.ProjectListItem, error) {
	var items []domain.ProjectListItem
	err := r.db.WithContext(ctx).Raw(
		`SELECT p.id, p.url, p.project_key AS key, p.name, m.role, m.pinned, m.sort_order, p.created_at
		 FROM projects p
		 JOIN project_members m ON m.project_id = p.id
		 WHERE m.user_id = ?
		 ORDER BY m.pinned DESC, m.sort_order ASC, p.created_at ASC`,
		userID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) UpdateProject(ctx context.Context, project *domain.Project) error {
	return r.db.WithContext(ctx).Save(project).Error
}

func (r *repository) DeleteByURL(ctx context.Context, url string) (int64, error) {
	result := r.db.WithContext(ctx).Exec(`DELETE FROM projects WHERE url = ?`, url)
	return result.RowsAffected, result.Error
}

func (r *repository) FindMember(ctx context.Context, projectID, userID snowflake.ID) (*domain.ProjectMember, error) {
	var member domain.ProjectMember
	err := r.db.WithContext(ctx).
		First(&member, "project_id = ? AND user_id = ?", projectID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotMember
		}
		return nil, err
	}
	return &member, nil
}

func (r *repository) ListMembers(ctx context.Context, projectID snowflake.ID) ([]domain.MemberItem, error) {
	var items []domain.MemberItem
	err := r.db.WithContext(ctx).Raw(
		`SELECT u.id AS user_id, u.email, u.display_name, u.photo_url, m.role
		 FROM project_members m
		 JOIN users u ON u.id = m.user_id
		 WHERE m.project_id = ?
		 ORDER BY m.created_at ASC`,
		projectID,
	).Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) CountMemberships(ctx context.Context, userID snowflake.ID, projectIDs []snowflake.ID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.ProjectMember{}).
		Where("user_id = ? AND project_id IN ?", userID, projectIDs).
		Count(&count).Error
	return count, err
}

func (r *repository) UpdateMemberPin(ctx context.Context, projectID, userID snowflake.ID, pinned bool) error {
	if pinned {
		return r.db.WithContext(ctx).Exec(
			`UPDATE project_members SET pinned = ? WHERE project_id = ? AND user_id = ?`,
			true, projectID, userID,
		).Error
	}
	// unpinning also clears the manual ordering slot
	return r.db.WithContext(ctx).Exec(
		`UPDATE project_members SET pinned = ?, sort_order = NULL WHERE project_id = ? AND user_id = ?`,
		false, projectID, userID,
	).Error
}

func (r *repository) UpdateMemberSortOrder(ctx context.Context, projectID, userID snowflake.ID, sortOrder int) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE project_members SET sort_order = ? WHERE project_id = ? AND user_id = ?`,
		sortOrder, projectID, userID,
	).Error
}

func (r *repository) LoadMemberRoles(ctx context.Context, projectID, actorID, targetID snowflake.ID) (*domain.MemberRoles, error) {
	var row struct {
		ActorRole  *string
		TargetRole *string
		OwnerID    snowflake.ID
	}
	err := r.db.WithContext(ctx).Raw(
		`SELECT
		   (SELECT role FROM project_members WHERE project_id = p.id AND user_id = ?) AS actor_role,
		   (SELECT role FROM project_members WHERE project_id = p.id AND user_id = ?) AS target_role,
		   p.owner_id
		 FROM projects p
		 WHERE p.id = ?`,
		actorID, targetID, projectID,
	).Scan(&row).Error
	if err != nil {
		return nil, err
	}
	if row.OwnerID == 0 {
		return nil, domain.ErrNotFound
	}

	roles := &domain.MemberRoles{OwnerID: row.OwnerID}
	if row.ActorRole != nil {
		roles.ActorRole = domain.Role(*row.ActorRole)
	}
	if row.TargetRole != nil {
		roles.TargetRole = domain.Role(*row.TargetRole)
	}
	return roles, nil
}

func (r *repository) UpdateMemberRole(ctx context.Context, projectID, userID snowflake.ID, role domain.Role) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE project_members SET role = ? WHERE project_id = ? AND user_id = ?`,
		string(role), projectID, userID,
	).Error
}

func (r *repository) UpdateOwner(ctx context.Context, projectID, ownerID snowflake.ID) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE projects SET owner_id = ? WHERE id = ?`,
		ownerID, projectID,
	).Error
}

func (r *repository) DeleteMember(ctx context.Context, projectID, userID snowflake.ID) (int64, error) {
	result := r.db.WithContext(ctx).Exec(
		`DELETE FROM project_members WHERE project_id = ? AND user_id = ?`,
		projectID, userID,
	)
	return result.RowsAffected, result.Error
}
