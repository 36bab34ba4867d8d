package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	activitydomain "github.com/tassot/tassot/internal/activity/domain"
	"github.com/tassot/tassot/pkg/db/pagination"
)

func (s *Server) ListActivities(c *gin.Context) {
	pageSize, _ := strconv.Atoi(c.Query("page_size"))

	resp, err := s.activitySvc.List(c.Request.Context(), activitydomain.ListRequest{
		Pagination: pagination.Pagination{
			PageSize:  pageSize,
			PageToken: c.Query("page_token"),
		},
		ProjectID:  currentProject(c).ID,
		EntityType: c.Query("entity_type"),
		ActionType: c.Query("action_type"),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
