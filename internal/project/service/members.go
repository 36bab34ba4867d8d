package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/tassot/tassot/internal/activity/domain"
	"github.com/tassot/tassot/internal/project/domain"
	"gorm.io/gorm"
)

func (s *service) MemberRole(ctx context.Context, projectID, userID snowflake.ID) (domain.Role, error) {
	member, err := s.repo.FindMember(ctx, projectID, userID)
	if err != nil {
		return "", err
	}
	return member.Role, nil
}

func (s *service) ListMembers(ctx context.Context, projectID snowflake.ID) ([]domain.MemberItem, error) {
	return s.repo.ListMembers(ctx, projectID)
}

func (s *service) UpdateMemberRole(ctx context.Context, actorID, projectID, targetUserID snowflake.ID, newRole domain.Role) error {
	if actorID == targetUserID {
		return domain.ErrCannotTargetSelf
	}
	if !newRole.Valid() {
		return domain.ErrInvalidRole
	}

	roles, err := s.repo.LoadMemberRoles(ctx, projectID, actorID, targetUserID)
	if err != nil {
		return err
	}
	if roles.ActorRole == "" {
		return domain.ErrNotMember
	}
	if roles.TargetRole == "" {
		return domain.ErrMemberNotFound
	}
	if !roles.ActorRole.CanChangeRoles() {
		return domain.ErrForbidden
	}
	// editors may neither promote to owner nor touch the owner's membership
	if roles.ActorRole == domain.RoleEditor && (newRole == domain.RoleOwner || roles.TargetRole == domain.RoleOwner) {
		return domain.ErrForbidden
	}

	if newRole == domain.RoleOwner {
		if roles.ActorRole != domain.RoleOwner {
			return domain.ErrForbidden
		}
		return s.transferOwnership(ctx, actorID, projectID, targetUserID)
	}

	if roles.TargetRole == newRole {
		return nil
	}

	if err := s.repo.UpdateMemberRole(ctx, projectID, targetUserID, newRole); err != nil {
		return err
	}

	s.activity.Record(ctx, activitydomain.Entry{
		ProjectID:           projectID,
		UserID:              actorID,
		EntityType:          "member",
		EntityID:            targetUserID,
		ActionType:          "role_change",
		SecondaryEntityType: "user",
		SecondaryEntityID:   targetUserID,
		ChangeData:          map[string]any{"from": string(roles.TargetRole), "to": string(newRole)},
	})
	return nil
}

// transferOwnership demotes the current owner to editor, promotes the target
// and repoints projects.owner_id, all in one transaction.
func (s *service) transferOwnership(ctx context.Context, actorID, projectID, targetUserID snowflake.ID) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if err := repo.UpdateOwner(ctx, projectID, targetUserID); err != nil {
			return err
		}
		if err := repo.UpdateMemberRole(ctx, projectID, actorID, domain.RoleEditor); err != nil {
			return err
		}
		return repo.UpdateMemberRole(ctx, projectID, targetUserID, domain.RoleOwner)
	})
	if err != nil {
		return err
	}

	s.activity.Record(ctx, activitydomain.Entry{
		ProjectID:           projectID,
		UserID:              actorID,
		EntityType:          "project",
		EntityID:            projectID,
		ActionType:          "transfer_ownership",
		SecondaryEntityType: "user",
		SecondaryEntityID:   targetUserID,
		ChangeData:          map[string]any{"from": actorID.String(), "to": targetUserID.String()},
	})
	return nil
}

func (s *service) RemoveMember(ctx context.Context, requesterID, projectID, memberUserID snowflake.ID) error {
	if requesterID == memberUserID {
		return domain.ErrCannotTargetSelf
	}

	roles, err := s.repo.LoadMemberRoles(ctx, projectID, requesterID, memberUserID)
	if err != nil {
		return err
	}
	if roles.ActorRole != domain.RoleOwner {
		return domain.ErrForbidden
	}

	affected, err := s.repo.DeleteMember(ctx, projectID, memberUserID)
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrMemberNotFound
	}

	s.activity.Record(ctx, activitydomain.Entry{
		ProjectID:           projectID,
		UserID:              requesterID,
		EntityType:          "member",
		EntityID:            memberUserID,
		ActionType:          "remove",
		SecondaryEntityType: "user",
		SecondaryEntityID:   memberUserID,
		ChangeData:          map[string]any{"role": string(roles.TargetRole)},
	})
	return nil
}
