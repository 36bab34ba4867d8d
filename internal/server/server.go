package server

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tassot/tassot/internal/activity"
	activitydomain "github.com/tassot/tassot/internal/activity/domain"
	"github.com/tassot/tassot/internal/aidraft"
	aidraftdomain "github.com/tassot/tassot/internal/aidraft/domain"
	"github.com/tassot/tassot/internal/board"
	boarddomain "github.com/tassot/tassot/internal/board/domain"
	"github.com/tassot/tassot/internal/comment"
	commentdomain "github.com/tassot/tassot/internal/comment/domain"
	"github.com/tassot/tassot/internal/config"
	"github.com/tassot/tassot/internal/identity"
	"github.com/tassot/tassot/internal/invitation"
	invitationdomain "github.com/tassot/tassot/internal/invitation/domain"
	"github.com/tassot/tassot/internal/project"
	projectdomain "github.com/tassot/tassot/internal/project/domain"
	providerai "github.com/tassot/tassot/internal/providers/ai"
	"github.com/tassot/tassot/internal/providers/email"
	"github.com/tassot/tassot/internal/task"
	taskdomain "github.com/tassot/tassot/internal/task/domain"
	"github.com/tassot/tassot/internal/user"
	userdomain "github.com/tassot/tassot/internal/user/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	identity.Module,
	email.Module,
	providerai.Module,
	activity.Module,
	user.Module,
	project.Module,
	board.Module,
	task.Module,
	comment.Module,
	invitation.Module,
	aidraft.Module,
	fx.Provide(NewServer),
	fx.Invoke(func(*Server) {}),
	fx.Invoke(run),
)

func NewEngine(log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(AccessLog(log))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(log *zap.Logger) *gin.Engine {
	return NewEngine(log)
}

func run(lc fx.Lifecycle, cfg config.Config, r *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	genID         *snowflake.Node
	verifier      identity.Verifier
	userSvc       userdomain.Service
	projectSvc    projectdomain.Service
	boardSvc      boarddomain.Service
	taskSvc       taskdomain.Service
	commentSvc    commentdomain.Service
	invitationSvc invitationdomain.Service
	activitySvc   activitydomain.Service
	aidraftSvc    aidraftdomain.Service
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	GenID         *snowflake.Node
	Verifier      identity.Verifier
	UserSvc       userdomain.Service
	ProjectSvc    projectdomain.Service
	BoardSvc      boarddomain.Service
	TaskSvc       taskdomain.Service
	CommentSvc    commentdomain.Service
	InvitationSvc invitationdomain.Service
	ActivitySvc   activitydomain.Service
	AidraftSvc    aidraftdomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		genID:         p.GenID,
		verifier:      p.Verifier,
		userSvc:       p.UserSvc,
		projectSvc:    p.ProjectSvc,
		boardSvc:      p.BoardSvc,
		taskSvc:       p.TaskSvc,
		commentSvc:    p.CommentSvc,
		invitationSvc: p.InvitationSvc,
		activitySvc:   p.ActivitySvc,
		aidraftSvc:    p.AidraftSvc,
	}

	s.registerAPIRoutes()
	s.registerFallback()

	return s
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// bootstrap + public invitation verify
	api.POST("/users", s.UpsertUser)
	api.GET("/invitations/:token", s.VerifyInvitation)

	authed := api.Group("", s.AuthRequired())

	authed.GET("/users/me", s.GetMe)
	authed.PUT("/users/me", s.UpdateMe)
	authed.PUT("/users/onboarding", s.CompleteOnboarding)

	authed.POST("/projects", s.CreateProject)
	authed.GET("/projects", s.ListProjects)
	authed.PUT("/projects/order", s.UpdateProjectOrder)

	authed.POST("/invitations", s.CreateInvitation)
	authed.POST("/invitations/accept", s.AcceptInvitation)

	proj := authed.Group("/projects/:url", s.ProjectContext())
	proj.GET("", s.GetProject)
	proj.PATCH("", s.requireProjectEdit(), s.EditProject)
	proj.DELETE("", s.RequireOwner(), s.DeleteProject)
	proj.PUT("/pin", s.PinProject)

	proj.GET("/activities", s.ListActivities)

	proj.GET("/members", s.ListMembers)
	proj.PATCH("/members/:userId", s.UpdateMemberRole)
	proj.DELETE("/members/:userId", s.RemoveMember)

	proj.POST("/boards", s.RequireEditor(), s.CreateBoard)
	proj.PATCH("/boards/:boardId", s.RequireEditor(), s.UpdateBoard)
	proj.DELETE("/boards/:boardId", s.RequireEditor(), s.DeleteBoard)

	proj.POST("/boards/:boardId/tasks", s.RequireEditor(), s.CreateTask)
	proj.GET("/tasks/:taskId", s.GetTask)
	proj.PUT("/tasks/:taskId", s.RequireEditor(), s.UpdateTask)
	proj.DELETE("/tasks/:taskId", s.RequireEditor(), s.DeleteTask)

	taskScoped := authed.Group("/tasks/:taskId", s.TaskContext())
	taskScoped.GET("/comments", s.ListComments)
	taskScoped.POST("/comments", s.CreateComment)

	ai := authed.Group("/ai")
	ai.POST("/tasks/task-name", s.DraftTaskName)
	ai.POST("/tasks/task-description", s.DraftTaskDescription)
	ai.POST("/tasks/create/:projectUrl", s.CreateTaskWithAI)
}

func (s *Server) requireProjectEdit() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !currentRole(c).CanEditProject() {
			AbortWithError(c, ErrForbidden)
			return
		}
		c.Next()
	}
}

// registerFallback serves the compiled SPA: real files from ./public,
// index.html for any other non-API path.
func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			c.JSON(http.StatusNotFound, errorResponse{Error: "not found"})
			return
		}

		file := filepath.Join("public", filepath.Clean("/"+path))
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			c.File(file)
			return
		}
		c.File(filepath.Join("public", "index.html"))
	})
}
