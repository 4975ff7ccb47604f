package server

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"export-pilot/constants"
	"export-pilot/internal/common"
	"export-pilot/internal/labs"
)

func (s *Server) AutoFillLabs(c *gin.Context) {
	id, ok := s.projectID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	files, err := s.files.ListByProject(ctx, id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	slotIDs := make([]string, 0, len(labs.SubmissionSlots))
	for _, slot := range labs.SubmissionSlots {
		slotIDs = append(slotIDs, slot.ID)
	}
	bound := slotBindings(files, slotIDs...)
	next := labs.AutoFill(files, bound)

	if err := s.persistSlots(ctx, files, bound, next); err != nil {
		s.logger.Warn("lab autofill persist failed", zap.Error(err))
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, gin.H{
		"bindings":  bindingNames(next),
		"can_start": labs.CanStart(next),
	})
}

func (s *Server) RunLabs(c *gin.Context) {
	id, ok := s.projectID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	files, err := s.files.ListByProject(ctx, id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}

	slotIDs := make([]string, 0, len(labs.SubmissionSlots))
	for _, slot := range labs.SubmissionSlots {
		slotIDs = append(slotIDs, slot.ID)
	}
	if !labs.CanStart(slotBindings(files, slotIDs...)) {
		ErrorResponse(c, common.InvalidInputf("at least %d documents must be bound", labs.MinimumDocs))
		return
	}

	market := p.Market
	run, err := s.runner.Start(ctx, id, constants.RunKindLabs, market, func(context.Context) (json.RawMessage, error) {
		return json.Marshal(labs.NewReport(s.catalog, market))
	})
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	CreatedResponse(c, run)
}

func (s *Server) LatestLabs(c *gin.Context) {
	s.latestRun(c, constants.RunKindLabs)
}
