package server

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"export-pilot/constants"
	"export-pilot/internal/common"
	"export-pilot/internal/docs"
)

func (s *Server) AutoFillDocs(c *gin.Context) {
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

	bound, err := docs.AutoFill(p.Market, files, nil)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, gin.H{
		"inputs":    bound,
		"can_start": docs.CanStart(bound),
	})
}

type runDocsRequest struct {
	// Inputs binds input requirement ids to file names. When omitted for an
	// EU project the bindings are auto-filled from the repository.
	Inputs map[string]string `json:"inputs"`
}

func (s *Server) RunDocs(c *gin.Context) {
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

	var req runDocsRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			ErrorResponse(c, common.InvalidInputf("malformed body"))
			return
		}
	}

	bound := req.Inputs
	if len(bound) == 0 && p.Market == constants.MarketEU {
		files, err := s.files.ListByProject(ctx, id)
		if err != nil {
			ErrorResponse(c, err)
			return
		}
		if bound, err = docs.AutoFill(p.Market, files, nil); err != nil {
			ErrorResponse(c, err)
			return
		}
	}
	if !docs.CanStart(bound) {
		ErrorResponse(c, common.InvalidInputf("at least one input document must be bound"))
		return
	}

	market := p.Market
	run, err := s.runner.Start(ctx, id, constants.RunKindDocs, market, func(context.Context) (json.RawMessage, error) {
		return json.Marshal(docs.Generate(market, bound))
	})
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	CreatedResponse(c, run)
}

func (s *Server) LatestDocs(c *gin.Context) {
	s.latestRun(c, constants.RunKindDocs)
}

func (s *Server) DownloadPackage(c *gin.Context) {
	id, ok := s.projectID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	run, err := s.runs.Latest(ctx, id, constants.RunKindDocs)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	if run.Status != constants.RunStatusComplete || len(run.Result) == 0 {
		ErrorResponse(c, common.InvalidInputf("document generation has not completed yet"))
		return
	}

	var rep docs.Report
	if err := json.Unmarshal(run.Result, &rep); err != nil {
		s.logger.Error("stored docs result is unreadable", zap.Error(err))
		ErrorResponse(c, common.ErrInternal)
		return
	}

	data, err := s.exporter.PackageXLSX(&rep)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="document_package.xlsx"`)
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
