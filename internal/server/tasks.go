package server

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	taskdomain "github.com/tassot/tassot/internal/task/domain"
)

type createTaskRequest struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Deadline    *time.Time     `json:"deadline"`
	AssigneeIDs []snowflake.ID `json:"assignee_ids"`
}

func (s *Server) CreateTask(c *gin.Context) {
	boardID, ok := parseID(c, "boardId")
	if !ok {
		return
	}

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	task, err := s.taskSvc.Create(c.Request.Context(), currentUser(c).ID, currentProject(c).ID, boardID, taskdomain.CreateTaskRequest{
		Name:        req.Name,
		Description: req.Description,
		Deadline:    req.Deadline,
		AssigneeIDs: req.AssigneeIDs,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

func (s *Server) GetTask(c *gin.Context) {
	taskID, ok := parseID(c, "taskId")
	if !ok {
		return
	}

	task, err := s.taskSvc.Get(c.Request.Context(), currentProject(c).ID, taskID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

type updateTaskRequest struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Deadline    *time.Time      `json:"deadline"`
	BoardID     *snowflake.ID   `json:"board_id"`
	AssigneeIDs *[]snowflake.ID `json:"assignee_ids"`
}

// UpdateTask distinguishes "deadline absent" from "deadline: null" by
// inspecting the raw body keys, so the deadline can be cleared.
func (s *Server) UpdateTask(c *gin.Context) {
	taskID, ok := parseID(c, "taskId")
	if !ok {
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	var req updateTaskRequest
	if err := json.Unmarshal(body, &req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	var keys map[string]json.RawMessage
	if err := json.Unmarshal(body, &keys); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}
	_, deadlineSet := keys["deadline"]

	task, err := s.taskSvc.Update(c.Request.Context(), currentUser(c).ID, currentProject(c).ID, taskID, taskdomain.UpdateTaskRequest{
		Name:        req.Name,
		Description: req.Description,
		Deadline:    req.Deadline,
		SetDeadline: deadlineSet,
		BoardID:     req.BoardID,
		AssigneeIDs: req.AssigneeIDs,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func (s *Server) DeleteTask(c *gin.Context) {
	taskID, ok := parseID(c, "taskId")
	if !ok {
		return
	}

	if err := s.taskSvc.Delete(c.Request.Context(), currentUser(c).ID, currentProject(c).ID, taskID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
