package rest

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/KevinKickass/PanelSchema/internal/defaults"
	"github.com/KevinKickass/PanelSchema/internal/hardware"
	"github.com/KevinKickass/PanelSchema/internal/repair"
	"github.com/KevinKickass/PanelSchema/internal/schema"
	"github.com/KevinKickass/PanelSchema/internal/types"
)

type documentRequest struct {
	Schema   json.RawMessage `json:"schema" binding:"required"`
	Hardware json.RawMessage `json:"hardware"`
}

// hardwareJSON returns nil when the request carries no hardware document.
func (r documentRequest) hardwareJSON() []byte {
	if len(r.Hardware) == 0 || bytes.Equal(bytes.TrimSpace(r.Hardware), []byte("null")) {
		return nil
	}
	return r.Hardware
}

func (s *Server) bindDocuments(c *gin.Context) (documentRequest, bool) {
	var req documentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.BadRequest(err.Error()))
		return req, false
	}
	return req, true
}

// abortStructural answers 422 for structural failures and 500 otherwise.
func (s *Server) abortStructural(c *gin.Context, err error) {
	var serrs schema.StructuralErrors
	if errors.As(err, &serrs) {
		c.JSON(http.StatusUnprocessableEntity, types.NewErrorResponse(types.ErrCodeStructural, "Document failed structural validation", serrs))
		return
	}
	s.logger.Error("Pipeline failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, types.NewErrorResponse(types.ErrCodeInternal, "Failed to process document", err.Error()))
}

// POST /api/v1/validate
func (s *Server) validate(c *gin.Context) {
	req, ok := s.bindDocuments(c)
	if !ok {
		return
	}

	doc, err := s.engine.Validator().ValidateUISchema(req.Schema)
	if err != nil {
		s.abortStructural(c, err)
		return
	}

	if hw := req.hardwareJSON(); hw != nil {
		if _, err := s.engine.Validator().ValidateHardware(hw); err != nil {
			s.abortStructural(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":  true,
		"schema": defaults.Merge(doc),
	})
}

// POST /api/v1/check
func (s *Server) check(c *gin.Context) {
	req, ok := s.bindDocuments(c)
	if !ok {
		return
	}

	res, err := s.engine.Run(req.Schema, req.hardwareJSON())
	if err != nil {
		s.abortStructural(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"runId":    res.RunID,
		"blocked":  res.Report.HasBlocking(),
		"report":   res.Report,
		"bindings": res.Resolved.Bindings,
	})
}

// POST /api/v1/repair
func (s *Server) repair(c *gin.Context) {
	req, ok := s.bindDocuments(c)
	if !ok {
		return
	}

	res, err := s.engine.Run(req.Schema, req.hardwareJSON())
	if err != nil {
		s.abortStructural(c, err)
		return
	}

	repaired := req.Schema
	if res.Repaired != nil {
		repaired, err = repair.Rewrite(req.Schema, res.Applied, res.Pruned)
		if err != nil {
			s.abortStructural(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"runId":     res.RunID,
		"blocked":   res.Blocked,
		"schema":    json.RawMessage(repaired),
		"applied":   res.Applied,
		"pruned":    res.Pruned,
		"report":    res.Report,
		"remaining": res.Remaining,
	})
}

// POST /api/v1/copy-configs
func (s *Server) copyConfigs(c *gin.Context) {
	req, ok := s.bindDocuments(c)
	if !ok {
		return
	}
	hwJSON := req.hardwareJSON()
	if hwJSON == nil {
		c.JSON(http.StatusBadRequest, types.BadRequest("hardware is required"))
		return
	}

	doc, err := s.engine.Validator().ValidateUISchema(req.Schema)
	if err != nil {
		s.abortStructural(c, err)
		return
	}
	hw, err := s.engine.Validator().ValidateHardware(hwJSON)
	if err != nil {
		s.abortStructural(c, err)
		return
	}

	merged, summary, err := hardware.MergeDocument(req.Schema, doc, hw)
	if err != nil {
		s.abortStructural(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"schema":  json.RawMessage(merged),
		"summary": summary,
	})
}
