package server

import (
	"net/http"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	commentdomain "github.com/tassot/tassot/internal/comment/domain"
)

func (s *Server) ListComments(c *gin.Context) {
	taskID, ok := parseID(c, "taskId")
	if !ok {
		return
	}

	thread, err := s.commentSvc.ListThread(c.Request.Context(), taskID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": thread})
}

type createCommentRequest struct {
	Content  string        `json:"content"`
	ParentID *snowflake.ID `json:"parent_id"`
}

func (s *Server) CreateComment(c *gin.Context) {
	taskID, ok := parseID(c, "taskId")
	if !ok {
		return
	}

	var req createCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	comment, err := s.commentSvc.Create(c.Request.Context(), currentUser(c).ID, taskID, commentdomain.CreateCommentRequest{
		Content:  req.Content,
		ParentID: req.ParentID,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}
