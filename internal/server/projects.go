package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	projectdomain "github.com/tassot/tassot/internal/project/domain"
)

type createProjectRequest struct {
	ProjectName string `json:"projectName"`
	ProjectKey  string `json:"projectKey"`
}

func (s *Server) CreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	project, err := s.projectSvc.Create(c.Request.Context(), currentUser(c).ID, projectdomain.CreateProjectRequest{
		Name: req.ProjectName,
		Key:  req.ProjectKey,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"projectUrl": project.URL,
		"project":    project,
	})
}

func (s *Server) ListProjects(c *gin.Context) {
	items, err := s.projectSvc.ListByUser(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"projects": items})
}

// GetProject returns the project together with its boards and tasks, which
// is everything the board view needs in one round trip.
func (s *Server) GetProject(c *gin.Context) {
	project := currentProject(c)

	boards, err := s.boardSvc.List(c.Request.Context(), project.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	tasks, err := s.taskSvc.ListByProject(c.Request.Context(), project.ID)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"project": project,
		"role":    currentRole(c),
		"boards":  boards,
		"tasks":   tasks,
	})
}

type editProjectRequest struct {
	Name        *string        `json:"name"`
	Key         *string        `json:"key"`
	Description *string        `json:"description"`
	Details     map[string]any `json:"details"`
}

func (s *Server) EditProject(c *gin.Context) {
	var req editProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	project, err := s.projectSvc.Edit(c.Request.Context(), currentUser(c).ID, c.Param("url"), projectdomain.EditProjectRequest{
		Name:        req.Name,
		Key:         req.Key,
		Description: req.Description,
		Details:     req.Details,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

func (s *Server) DeleteProject(c *gin.Context) {
	if err := s.projectSvc.Delete(c.Request.Context(), currentUser(c).ID, c.Param("url")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type pinProjectRequest struct {
	Pinned bool `json:"pinned"`
}

func (s *Server) PinProject(c *gin.Context) {
	var req pinProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	err := s.projectSvc.Pin(c.Request.Context(), currentUser(c).ID, currentProject(c).ID, req.Pinned)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"pinned": req.Pinned})
}

type projectOrderRequest struct {
	Order []struct {
		ProjectID snowflake.ID `json:"project_id"`
		SortOrder int          `json:"sort_order"`
	} `json:"order"`
}

func (s *Server) UpdateProjectOrder(c *gin.Context) {
	var req projectOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	order := make([]projectdomain.ProjectOrder, 0, len(req.Order))
	for _, item := range req.Order {
		order = append(order, projectdomain.ProjectOrder{
			ProjectID: item.ProjectID,
			SortOrder: item.SortOrder,
		})
	}

	if err := s.projectSvc.UpdateOrder(c.Request.Context(), currentUser(c).ID, order); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
