package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	aidraftdomain "github.com/tassot/tassot/internal/aidraft/domain"
	projectdomain "github.com/tassot/tassot/internal/project/domain"
)

type draftRequest struct {
	ProjectURL string `json:"projectUrl"`
	Prompt     string `json:"prompt"`
}

// memberProject loads a project by URL and requires the caller to be a
// member, for AI routes that carry the project reference in the body.
func (s *Server) memberProject(c *gin.Context, url string) (*projectdomain.Project, bool) {
	project, err := s.projectSvc.GetByURL(c.Request.Context(), url)
	if err != nil {
		AbortWithError(c, err)
		return nil, false
	}
	if _, err := s.projectSvc.MemberRole(c.Request.Context(), project.ID, currentUser(c).ID); err != nil {
		AbortWithError(c, err)
		return nil, false
	}
	return project, true
}

func (s *Server) DraftTaskName(c *gin.Context) {
	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	project, ok := s.memberProject(c, req.ProjectURL)
	if !ok {
		return
	}

	name, err := s.aidraftSvc.DraftName(c.Request.Context(), project, req.Prompt)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"name": name})
}

func (s *Server) DraftTaskDescription(c *gin.Context) {
	var req draftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	project, ok := s.memberProject(c, req.ProjectURL)
	if !ok {
		return
	}

	description, err := s.aidraftSvc.DraftDescription(c.Request.Context(), project, req.Prompt)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"description": description})
}

type aiCreateTaskRequest struct {
	Prompt     string `json:"prompt"`
	Complexity string `json:"complexity"`
}

func (s *Server) CreateTaskWithAI(c *gin.Context) {
	var req aiCreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	project, ok := s.memberProject(c, c.Param("projectUrl"))
	if !ok {
		return
	}

	complexity := aidraftdomain.Complexity(req.Complexity)
	if complexity == "" {
		complexity = aidraftdomain.ComplexityMedium
	}

	task, err := s.aidraftSvc.CreateTask(c.Request.Context(), currentUser(c).ID, project, aidraftdomain.CreateRequest{
		Prompt:     req.Prompt,
		Complexity: complexity,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}
