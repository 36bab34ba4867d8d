package server

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	projectdomain "github.com/tassot/tassot/internal/project/domain"
	userdomain "github.com/tassot/tassot/internal/user/domain"
	"go.uber.org/zap"
)

const (
	contextUserKey     = "current_user"
	contextProjectKey  = "current_project"
	contextRoleKey     = "current_role"
	contextTaskProjKey = "task_project_id"

	headerRequestID = "X-Request-ID"
)

func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(headerRequestID))
		if id == "" {
			id = uuid.NewString()
		}
		c.Writer.Header().Set(headerRequestID, id)
		c.Set(headerRequestID, id)
		c.Next()
	}
}

func AccessLog(log *zap.Logger) gin.HandlerFunc {
	log = log.Named("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", c.GetString(headerRequestID)),
		)
	}
}

// AuthRequired verifies the bearer token with the identity provider and
// resolves the internal user row. Expired tokens map to 401, invalid or
// unregistered subjects to 403.
func (s *Server) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		subject, err := s.verifier.Verify(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		user, err := s.userSvc.GetBySubject(c.Request.Context(), subject.ID)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

func currentUser(c *gin.Context) *userdomain.User {
	value, ok := c.Get(contextUserKey)
	if !ok {
		return nil
	}
	user, _ := value.(*userdomain.User)
	return user
}

// ProjectContext resolves the :url param to a project and requires the
// caller to be a member. Non-members get 404, never 403.
func (s *Server) ProjectContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		project, err := s.projectSvc.GetByURL(c.Request.Context(), c.Param("url"))
		if err != nil {
			AbortWithError(c, err)
			return
		}

		role, err := s.projectSvc.MemberRole(c.Request.Context(), project.ID, user.ID)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextProjectKey, project)
		c.Set(contextRoleKey, role)
		c.Next()
	}
}

func currentProject(c *gin.Context) *projectdomain.Project {
	value, ok := c.Get(contextProjectKey)
	if !ok {
		return nil
	}
	project, _ := value.(*projectdomain.Project)
	return project
}

func currentRole(c *gin.Context) projectdomain.Role {
	value, ok := c.Get(contextRoleKey)
	if !ok {
		return ""
	}
	role, _ := value.(projectdomain.Role)
	return role
}

// RequireEditor gates board and task writes to owner/editor.
func (s *Server) RequireEditor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentRole(c).CanManageBoards() {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

func (s *Server) RequireOwner() gin.HandlerFunc {
	return func(c *gin.Context) {
		if currentRole(c) != projectdomain.RoleOwner {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

// TaskContext resolves the :taskId param to its project and requires the
// caller to be a member of that project.
func (s *Server) TaskContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := currentUser(c)
		if user == nil {
			AbortWithError(c, ErrUnauthorized)
			return
		}

		taskID, err := snowflake.ParseString(c.Param("taskId"))
		if err != nil {
			AbortWithError(c, ErrNotFound)
			return
		}

		projectID, err := s.taskSvc.ResolveProject(c.Request.Context(), taskID)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		if _, err := s.projectSvc.MemberRole(c.Request.Context(), projectID, user.ID); err != nil {
			AbortWithError(c, err)
			return
		}

		c.Set(contextTaskProjKey, projectID)
		c.Next()
	}
}

func taskProjectID(c *gin.Context) snowflake.ID {
	value, ok := c.Get(contextTaskProjKey)
	if !ok {
		return 0
	}
	id, _ := value.(snowflake.ID)
	return id
}

func parseID(c *gin.Context, param string) (snowflake.ID, bool) {
	id, err := snowflake.ParseString(c.Param(param))
	if err != nil || id == 0 {
		AbortWithError(c, ErrNotFound)
		return 0, false
	}
	return id, true
}
