package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/tassot/tassot/internal/user/domain"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type service struct {
	db    *gorm.DB
	repo  domain.Repository
	genID *snowflake.Node
	log   *zap.Logger
}

func NewService(db *gorm.DB, repo domain.Repository, genID *snowflake.Node, log *zap.Logger) domain.Service {
	return &service{
		db:    db,
		repo:  repo,
		genID: genID,
		log:   log.Named("user.service"),
	}
}

func (s *service) UpsertBySubject(ctx context.Context, req domain.UpsertRequest) (*domain.User, error) {
	subjectID := strings.TrimSpace(req.SubjectID)
	if subjectID == "" {
		return nil, domain.ErrInvalidSubject
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidEmail
	}

	existing, err := s.repo.FindBySubject(ctx, subjectID)
	if err == nil {
		changed := false
		if existing.Email != email {
			existing.Email = email
			changed = true
		}
		if req.DisplayName != "" && existing.DisplayName != req.DisplayName {
			existing.DisplayName = req.DisplayName
			changed = true
		}
		if req.PhotoURL != "" && existing.PhotoURL != req.PhotoURL {
			existing.PhotoURL = req.PhotoURL
			changed = true
		}
		if changed {
			existing.UpdatedAt = time.Now().UTC()
			if err := s.repo.Update(ctx, existing); err != nil {
				return nil, err
			}
		}
		return existing, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	now := time.Now().UTC()
	user := domain.User{
		ID:          s.genID.Generate(),
		SubjectID:   subjectID,
		Email:       email,
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
		Settings:    datatypes.JSONMap{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user created", zap.String("user_id", user.ID.String()))
	return &user, nil
}

func (s *service) GetByID(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	if id == 0 {
		return nil, domain.ErrNotFound
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) GetBySubject(ctx context.Context, subjectID string) (*domain.User, error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return nil, domain.ErrInvalidSubject
	}
	return s.repo.FindBySubject(ctx, subjectID)
}

func (s *service) UpdateProfile(ctx context.Context, id snowflake.ID, req domain.UpdateProfileRequest) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		user.DisplayName = strings.TrimSpace(*req.DisplayName)
	}
	if req.PhotoURL != nil {
		user.PhotoURL = strings.TrimSpace(*req.PhotoURL)
	}
	if len(req.Settings) > 0 {
		if user.Settings == nil {
			user.Settings = datatypes.JSONMap{}
		}
		for key, value := range req.Settings {
			user.Settings[key] = value
		}
	}
	user.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) CompleteOnboarding(ctx context.Context, id snowflake.ID) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if user.Onboarded {
		return nil
	}
	user.Onboarded = true
	user.UpdatedAt = time.Now().UTC()
	return s.repo.Update(ctx, user)
}
