package server

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"export-pilot/internal/common"
	"export-pilot/internal/entity"
)

type addFileRequest struct {
	Name     string `json:"name" binding:"required"`
	SlotID   string `json:"slot_id"`
	FileSize int64  `json:"file_size"`
	Origin   string `json:"origin"`
}

type setSlotRequest struct {
	SlotID string `json:"slot_id"`
}

func (s *Server) ListFiles(c *gin.Context) {
	id, ok := s.projectID(c)
	if !ok {
		return
	}
	fs, err := s.files.ListByProject(c.Request.Context(), id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, fs)
}

func (s *Server) AddFile(c *gin.Context) {
	id, ok := s.projectID(c)
	if !ok {
		return
	}
	var req addFileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, common.InvalidInputf("name is required"))
		return
	}

	ctx := c.Request.Context()
	if exists, err := s.projects.Exists(ctx, id); err != nil {
		ErrorResponse(c, err)
		return
	} else if !exists {
		ErrorResponse(c, common.NotFoundf("project %s", id))
		return
	}

	rec, err := s.files.Add(ctx, &entity.FileRecord{
		ProjectID: id,
		SlotID:    strings.TrimSpace(req.SlotID),
		Name:      strings.TrimSpace(req.Name),
		FileSize:  req.FileSize,
		Origin:    req.Origin,
	})
	if err != nil {
		s.logger.Warn("add file failed", zap.Error(err))
		ErrorResponse(c, err)
		return
	}
	CreatedResponse(c, rec)
}

func (s *Server) DeleteFile(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, common.InvalidInputf("id must be a UUID"))
		return
	}
	if err := s.files.Delete(c.Request.Context(), id); err != nil {
		ErrorResponse(c, err)
		return
	}
	NoContentResponse(c)
}

func (s *Server) SetFileSlot(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		ErrorResponse(c, common.InvalidInputf("id must be a UUID"))
		return
	}
	var req setSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, common.InvalidInputf("malformed body"))
		return
	}
	if err := s.files.SetSlot(c.Request.Context(), id, strings.TrimSpace(req.SlotID)); err != nil {
		ErrorResponse(c, err)
		return
	}
	f, err := s.files.GetByID(c.Request.Context(), id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, f)
}
