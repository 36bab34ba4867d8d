package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	projectdomain "github.com/tassot/tassot/internal/project/domain"
)

func (s *Server) ListMembers(c *gin.Context) {
	members, err := s.projectSvc.ListMembers(c.Request.Context(), currentProject(c).ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

type updateMemberRoleRequest struct {
	Role string `json:"role"`
}

// UpdateMemberRole delegates the authorization ladder, including ownership
// transfer, to the project service.
func (s *Server) UpdateMemberRole(c *gin.Context) {
	targetID, ok := parseID(c, "userId")
	if !ok {
		return
	}

	var req updateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	err := s.projectSvc.UpdateMemberRole(c.Request.Context(),
		currentUser(c).ID, currentProject(c).ID, targetID, projectdomain.Role(req.Role))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"role": req.Role})
}

func (s *Server) RemoveMember(c *gin.Context) {
	targetID, ok := parseID(c, "userId")
	if !ok {
		return
	}

	err := s.projectSvc.RemoveMember(c.Request.Context(),
		currentUser(c).ID, currentProject(c).ID, targetID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
