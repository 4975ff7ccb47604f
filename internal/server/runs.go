package server

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"export-pilot/internal/common"
)

func (s *Server) ListRuns(c *gin.Context) {
	id, ok := s.projectID(c)
	if !ok {
		return
	}
	runs, err := s.runs.ListByProject(c.Request.Context(), id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, runs)
}

func (s *Server) GetRun(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, common.InvalidInputf("id must be a UUID"))
		return
	}
	run, err := s.runs.GetByID(c.Request.Context(), id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, run)
}
