package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type createInvitationRequest struct {
	ProjectURL string `json:"projectUrl"`
	Email      string `json:"email"`
}

func (s *Server) CreateInvitation(c *gin.Context) {
	var req createInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	user := currentUser(c)
	project, err := s.projectSvc.GetByURL(c.Request.Context(), req.ProjectURL)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	role, err := s.projectSvc.MemberRole(c.Request.Context(), project.ID, user.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !role.CanInvite() {
		AbortWithError(c, ErrForbidden)
		return
	}

	if _, err := s.invitationSvc.Create(c.Request.Context(), user.ID, project.ID, req.Email); err != nil {
		AbortWithError(c, err)
		return
	}
	// the token travels by email only
	c.JSON(http.StatusOK, gin.H{"message": "sent"})
}

// VerifyInvitation is public: it powers the accept page before sign-in.
func (s *Server) VerifyInvitation(c *gin.Context) {
	result, err := s.invitationSvc.Verify(c.Request.Context(), c.Param("token"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

type acceptInvitationRequest struct {
	Token string `json:"token"`
}

func (s *Server) AcceptInvitation(c *gin.Context) {
	var req acceptInvitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	user := currentUser(c)
	if err := s.invitationSvc.Accept(c.Request.Context(), user.ID, user.Email, req.Token); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accepted": true})
}
