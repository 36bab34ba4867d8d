package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	userdomain "github.com/tassot/tassot/internal/user/domain"
)

type upsertUserRequest struct {
	SubjectID   string `json:"subject_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	PhotoURL    string `json:"photo_url"`
}

// UpsertUser is the sign-in bootstrap: creates or refreshes the user row
// keyed by the identity provider's subject id.
func (s *Server) UpsertUser(c *gin.Context) {
	var req upsertUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	user, err := s.userSvc.UpsertBySubject(c.Request.Context(), userdomain.UpsertRequest{
		SubjectID:   req.SubjectID,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) GetMe(c *gin.Context) {
	c.JSON(http.StatusOK, currentUser(c))
}

type updateMeRequest struct {
	DisplayName *string        `json:"display_name"`
	PhotoURL    *string        `json:"photo_url"`
	Settings    map[string]any `json:"settings"`
}

func (s *Server) UpdateMe(c *gin.Context) {
	var req updateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	user, err := s.userSvc.UpdateProfile(c.Request.Context(), currentUser(c).ID, userdomain.UpdateProfileRequest{
		DisplayName: req.DisplayName,
		PhotoURL:    req.PhotoURL,
		Settings:    req.Settings,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (s *Server) CompleteOnboarding(c *gin.Context) {
	if err := s.userSvc.CompleteOnboarding(c.Request.Context(), currentUser(c).ID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"onboarded": true})
}
