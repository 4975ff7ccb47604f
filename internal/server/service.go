// Package server exposes the HTTP JSON API: projects, the file repository,
// the three analysis flows and the XLSX downloads.
package server

import (
	"database/sql"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"export-pilot/internal/analysis"
	"export-pilot/internal/common"
	"export-pilot/internal/entity"
	"export-pilot/internal/export"
	"export-pilot/internal/repository"
	"export-pilot/internal/schema"
)

// Server bundles the handler dependencies.
type Server struct {
	db          *sql.DB
	projects    repository.ProjectRepository
	files       repository.FileRepository
	runs        repository.RunRepository
	actionItems repository.ActionItemRepository
	runner      *analysis.Runner
	exporter    *export.Service
	master      *schema.Master
	catalog     []entity.LabCandidate
	logger      *zap.Logger
}

type Deps struct {
	DB          *sql.DB
	Projects    repository.ProjectRepository
	Files       repository.FileRepository
	Runs        repository.RunRepository
	ActionItems repository.ActionItemRepository
	Runner      *analysis.Runner
	Exporter    *export.Service
	Master      *schema.Master
	Catalog     []entity.LabCandidate
	Logger      *zap.Logger
}

func New(d Deps) *Server {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		db:          d.DB,
		projects:    d.Projects,
		files:       d.Files,
		runs:        d.Runs,
		actionItems: d.ActionItems,
		runner:      d.Runner,
		exporter:    d.Exporter,
		master:      d.Master,
		catalog:     d.Catalog,
		logger:      logger,
	}
}

// Router wires middleware and routes onto a fresh engine.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(Recovery(s.logger))
	r.Use(RequestLogger(s.logger))

	r.GET("/healthz", s.Healthz)

	v1 := r.Group("/api/v1")
	{
		projects := v1.Group("/projects")
		{
			projects.POST("", s.CreateProject)
			projects.GET("", s.ListProjects)
			projects.GET("/:id", s.GetProject)
			projects.PATCH("/:id", s.UpdateProject)
			projects.DELETE("/:id", s.DeleteProject)

			projects.GET("/:id/files", s.ListFiles)
			projects.POST("/:id/files", s.AddFile)

			projects.POST("/:id/diagnosis/autofill", s.AutoFillDiagnosis)
			projects.POST("/:id/diagnosis/run", s.RunDiagnosis)
			projects.GET("/:id/diagnosis", s.LatestDiagnosis)
			projects.GET("/:id/diagnosis/checklist.xlsx", s.DownloadChecklist)

			projects.GET("/:id/action-items", s.ListActionItems)
			projects.PATCH("/:id/action-items/:itemID", s.UpdateActionItem)

			projects.POST("/:id/labs/autofill", s.AutoFillLabs)
			projects.POST("/:id/labs/run", s.RunLabs)
			projects.GET("/:id/labs", s.LatestLabs)

			projects.POST("/:id/docs/autofill", s.AutoFillDocs)
			projects.POST("/:id/docs/run", s.RunDocs)
			projects.GET("/:id/docs", s.LatestDocs)
			projects.GET("/:id/docs/package.xlsx", s.DownloadPackage)

			projects.GET("/:id/runs", s.ListRuns)
		}

		files := v1.Group("/files")
		{
			files.DELETE("/:id", s.DeleteFile)
			files.PATCH("/:id/slot", s.SetFileSlot)
		}

		v1.GET("/runs/:id", s.GetRun)
	}
	return r
}

// Healthz reports process and store health.
func (s *Server) Healthz(c *gin.Context) {
	if s.db != nil {
		ctx, cancel := common.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := repository.Healthcheck(ctx, s.db); err != nil {
			c.JSON(503, Response{Code: "UNHEALTHY", Message: "database unreachable"})
			return
		}
	}
	SuccessResponse(c, gin.H{"status": "ok"})
}
