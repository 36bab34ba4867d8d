package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/tassot/tassot/internal/activity/domain"
	"github.com/tassot/tassot/internal/config"
	"github.com/tassot/tassot/internal/invitation/domain"
	projectdomain "github.com/tassot/tassot/internal/project/domain"
	"github.com/tassot/tassot/internal/providers/email"
	"github.com/tassot/tassot/pkg/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const tokenBytes = 24

type service struct {
	db       *gorm.DB
	repo     domain.Repository
	genID    *snowflake.Node
	emails   email.Provider
	activity activitydomain.Service
	baseURL  string
	ttl      time.Duration
	log      *zap.Logger
}

func NewService(gdb *gorm.DB, repo domain.Repository, genID *snowflake.Node, emails email.Provider, activity activitydomain.Service, cfg config.Config, log *zap.Logger) domain.Service {
	return &service{
		db:       gdb,
		repo:     repo,
		genID:    genID,
		emails:   emails,
		activity: activity,
		baseURL:  cfg.BaseURL,
		ttl:      time.Duration(cfg.InvitationTTLHours) * time.Hour,
		log:      log.Named("invitation.service"),
	}
}

func (s *service) Create(ctx context.Context, inviterID, projectID snowflake.ID, rawEmail string) (*domain.Invitation, error) {
	address := strings.ToLower(strings.TrimSpace(rawEmail))
	if address == "" || !strings.Contains(address, "@") {
		return nil, domain.ErrInvalidEmail
	}

	now := time.Now().UTC()
	invitation := domain.Invitation{
		ID:        s.genID.Generate(),
		Token:     newToken(),
		ProjectID: projectID,
		Email:     address,
		InvitedBy: inviterID,
		Status:    domain.StatusPending,
		ExpiresAt: now.Add(s.ttl),
		CreatedAt: now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		isMember, err := repo.IsMemberEmail(ctx, projectID, address)
		if err != nil {
			return err
		}
		if isMember {
			return domain.ErrAlreadyMember
		}

		pending, err := repo.HasPending(ctx, projectID, address, now)
		if err != nil {
			return err
		}
		if pending {
			return domain.ErrAlreadyPending
		}

		return repo.Insert(ctx, invitation)
	})
	if err != nil {
		// the partial unique index closes the check-then-insert race
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrAlreadyPending
		}
		return nil, err
	}

	s.activity.Record(ctx, activitydomain.Entry{
		ProjectID:  projectID,
		UserID:     inviterID,
		EntityType: "invitation",
		EntityID:   invitation.ID,
		ActionType: "invite",
		ChangeData: map[string]any{"email": address},
	})

	// the row is committed first; a failed send leaves it in place and
	// surfaces as an error to the caller
	inviteCtx, err := s.repo.InviteContext(ctx, projectID, inviterID)
	if err != nil {
		s.log.Error("failed to load invite context", zap.Error(err))
		return nil, domain.ErrEmailSend
	}
	err = s.emails.SendInvite(ctx, address, email.InviteData{
		ProjectName: inviteCtx.ProjectName,
		InviterName: inviteCtx.InviterName,
		AcceptURL:   s.baseURL + "/invitations/" + invitation.Token,
		ExpiresAt:   invitation.ExpiresAt.Format("Jan 2, 2006"),
	})
	if err != nil {
		s.log.Error("failed to send invitation email",
			zap.String("project_id", projectID.String()),
			zap.Error(err),
		)
		return nil, domain.ErrEmailSend
	}

	return &invitation, nil
}

func (s *service) Verify(ctx context.Context, token string) (*domain.VerifyResult, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrNotFound
	}
	return s.repo.FindVerify(ctx, token, time.Now().UTC())
}

func (s *service) Accept(ctx context.Context, userID snowflake.ID, userEmail, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.ErrCouldNotAccept
	}

	var accepted *domain.Invitation
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		invitation, err := repo.FindByTokenForUpdate(ctx, token)
		if err != nil {
			return domain.ErrCouldNotAccept
		}
		if invitation.Status != domain.StatusPending {
			return domain.ErrCouldNotAccept
		}
		if !invitation.ExpiresAt.After(time.Now().UTC()) {
			return domain.ErrCouldNotAccept
		}
		if !strings.EqualFold(invitation.Email, strings.TrimSpace(userEmail)) {
			return domain.ErrCouldNotAccept
		}

		err = repo.InsertMembership(ctx, s.genID.Generate(), invitation.ProjectID, userID, string(projectdomain.RoleUser))
		if err != nil {
			return err
		}
		if err := repo.MarkAccepted(ctx, invitation.ID); err != nil {
			return err
		}
		accepted = invitation
		return nil
	})
	if err != nil {
		return err
	}

	s.activity.Record(ctx, activitydomain.Entry{
		ProjectID:           accepted.ProjectID,
		UserID:              userID,
		EntityType:          "invitation",
		EntityID:            accepted.ID,
		ActionType:          "join",
		SecondaryEntityType: "user",
		SecondaryEntityID:   userID,
	})
	return nil
}

func newToken() string {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return hex.EncodeToString(buf)
}
