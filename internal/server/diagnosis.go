package server

import (
	"context"
	"encoding/json"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"export-pilot/constants"
	"export-pilot/internal/common"
	"export-pilot/internal/diagnosis"
	"export-pilot/internal/entity"
)

func (s *Server) AutoFillDiagnosis(c *gin.Context) {
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

	bound := slotBindings(files, constants.SlotDiagnosisBOM, constants.SlotDiagnosisCAD)
	next := diagnosis.AutoFill(files, bound)

	if err := s.persistSlots(ctx, files, bound, next); err != nil {
		s.logger.Warn("diagnosis autofill persist failed", zap.Error(err))
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, bindingNames(next))
}

func (s *Server) RunDiagnosis(c *gin.Context) {
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

	in := diagnosis.Inputs{}
	for i := range files {
		switch files[i].SlotID {
		case constants.SlotDiagnosisBOM:
			f := files[i]
			in.BOM = &f
		case constants.SlotDiagnosisCAD:
			f := files[i]
			in.CAD = &f
		}
	}
	market := p.Market

	run, err := s.runner.Start(ctx, id, constants.RunKindDiagnosis, market, func(runCtx context.Context) (json.RawMessage, error) {
		rep := diagnosis.NewReport(s.master, market, in)
		if err := s.actionItems.Replace(runCtx, id, market, rep.ActionItems); err != nil {
			return nil, err
		}
		return json.Marshal(rep)
	})
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	CreatedResponse(c, run)
}

func (s *Server) LatestDiagnosis(c *gin.Context) {
	s.latestRun(c, constants.RunKindDiagnosis)
}

func (s *Server) ListActionItems(c *gin.Context) {
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
	items, err := s.actionItems.List(ctx, id, p.Market)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, items)
}

type updateActionItemRequest struct {
	Status string `json:"status" binding:"required"`
}

func (s *Server) UpdateActionItem(c *gin.Context) {
	id, ok := s.projectID(c)
	if !ok {
		return
	}
	var req updateActionItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, common.InvalidInputf("status is required"))
		return
	}

	ctx := c.Request.Context()
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	itemID := c.Param("itemID")
	if err := s.actionItems.SetStatus(ctx, id, p.Market, itemID, req.Status); err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, gin.H{"id": itemID, "status": req.Status})
}

func (s *Server) DownloadChecklist(c *gin.Context) {
	id, ok := s.projectID(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	run, err := s.runs.Latest(ctx, id, constants.RunKindDiagnosis)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	if run.Status != constants.RunStatusComplete || len(run.Result) == 0 {
		ErrorResponse(c, common.InvalidInputf("diagnosis has not completed yet"))
		return
	}

	var rep diagnosis.Report
	if err := json.Unmarshal(run.Result, &rep); err != nil {
		s.logger.Error("stored diagnosis result is unreadable", zap.Error(err))
		ErrorResponse(c, common.ErrInternal)
		return
	}

	data, err := s.exporter.ChecklistXLSX(s.master, &rep)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="checklist_results.xlsx"`)
	c.Data(200, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}

// slotBindings extracts the current file per slot id, first writer wins.
func slotBindings(files []entity.FileRecord, slotIDs ...string) map[string]entity.FileRecord {
	want := make(map[string]struct{}, len(slotIDs))
	for _, id := range slotIDs {
		want[id] = struct{}{}
	}
	out := make(map[string]entity.FileRecord)
	for _, f := range files {
		if _, ok := want[f.SlotID]; !ok {
			continue
		}
		if _, taken := out[f.SlotID]; !taken {
			out[f.SlotID] = f
		}
	}
	return out
}

// persistSlots applies the binding delta to the file rows.
func (s *Server) persistSlots(ctx context.Context, files []entity.FileRecord, before, after map[string]entity.FileRecord) error {
	for slotID, f := range after {
		prev, had := before[slotID]
		if had && prev.ID == f.ID {
			continue
		}
		if had {
			if err := s.files.SetSlot(ctx, prev.ID, ""); err != nil {
				return err
			}
		}
		if err := s.files.SetSlot(ctx, f.ID, slotID); err != nil {
			return err
		}
	}
	return nil
}

func bindingNames(bound map[string]entity.FileRecord) map[string]string {
	out := make(map[string]string, len(bound))
	for slot, f := range bound {
		out[slot] = f.Name
	}
	return out
}

// latestRun responds with the newest run of a kind for the project.
func (s *Server) latestRun(c *gin.Context, kind constants.RunKind) {
	id, ok := s.projectID(c)
	if !ok {
		return
	}
	run, err := s.runs.Latest(c.Request.Context(), id, kind)
	if err != nil {
		ErrorResponse(c, err)
		return
	}
	SuccessResponse(c, run)
}
