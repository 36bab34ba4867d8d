package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	boarddomain "github.com/tassot/tassot/internal/board/domain"
)

type createBoardRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (s *Server) CreateBoard(c *gin.Context) {
	var req createBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	board, err := s.boardSvc.Create(c.Request.Context(), currentUser(c).ID, currentProject(c).ID, boarddomain.CreateBoardRequest{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, board)
}

type updateBoardRequest struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

func (s *Server) UpdateBoard(c *gin.Context) {
	boardID, ok := parseID(c, "boardId")
	if !ok {
		return
	}

	var req updateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, ErrInvalidRequest)
		return
	}

	board, err := s.boardSvc.Update(c.Request.Context(), currentUser(c).ID, currentProject(c).ID, boardID, boarddomain.UpdateBoardRequest{
		Name:  req.Name,
		Color: req.Color,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}

func (s *Server) DeleteBoard(c *gin.Context) {
	boardID, ok := parseID(c, "boardId")
	if !ok {
		return
	}

	if err := s.boardSvc.Delete(c.Request.Context(), currentUser(c).ID, currentProject(c).ID, boardID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
