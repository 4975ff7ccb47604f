package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"export-pilot/constants"
	"export-pilot/internal/common"
)

type createProjectRequest struct {
	Name   string `json:"name" binding:"required"`
	Market string `json:"market"`
}

type updateProjectRequest struct {
	Name   *string `json:"name"`
	Market *string `json:"market"`
}

func (s *Server) CreateProject(c *gin.Context) {
	var req createProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, common.InvalidInputf("name is required"))
		return
	}
	if req.Market != "" {
		v := common.NewValidator().Field("market", req.Market, common.MarketCode)
		if v.HasErrors() {
			ErrorResponse(c, v.Error())
			return
		}
	}

	p, err := s.projects.Create(c.Request.Context(), strings.TrimSpace(req.Name), constants.SafeMarket(req.Market))
	if err != nil {
		s.logger.Warn("create project failed", zap.Error(err))
		ErrorResponse(c, err)
		return
	}
	CreatedResponse(c, p)
}

func (s *Server) ListProjects(c *gin.Context) {
	ps, err := s.projects.List(c.Request.Context())
	if err != nil {
		s.logger.Warn("list projects failed", zap.Error(err))
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, ps)
}

func (s *Server) GetProject(c *gin.Context) {
	id, ok := s.projectID(c)
	if !ok {
		return
	}
	p, err := s.projects.GetByID(c.Request.Context(), id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, p)
}

func (s *Server) UpdateProject(c *gin.Context) {
	id, ok := s.projectID(c)
	if !ok {
		return
	}
	var req updateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, common.InvalidInputf("malformed body"))
		return
	}
	if req.Name == nil && req.Market == nil {
		ErrorResponse(c, common.InvalidInputf("nothing to update"))
		return
	}

	ctx := c.Request.Context()
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			ErrorResponse(c, common.InvalidInputf("name must not be empty"))
			return
		}
		if err := s.projects.Rename(ctx, id, name); err != nil {
			ErrorResponse(c, err)
			return
		}
	}
	if req.Market != nil {
		if err := s.projects.SetMarket(ctx, id, constants.SafeMarket(*req.Market)); err != nil {
			ErrorResponse(c, err)
			return
		}
	}

	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, p)
}

func (s *Server) DeleteProject(c *gin.Context) {
	id, ok := s.projectID(c)
	if !ok {
		return
	}
	if err := s.projects.Delete(c.Request.Context(), id); err != nil {
		ErrorResponse(c, err)
		return
	}
	NoContentResponse(c)
}

// projectID parses the :id param and responds on failure. The parsed id is
// pushed into the request context so the request log carries it.
func (s *Server) projectID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, common.InvalidInputf("id must be a UUID"))
		return uuid.Nil, false
	}
	c.Request = c.Request.WithContext(common.WithProjectID(c.Request.Context(), id.String()))
	return id, true
}
