package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/schoolbot-backend/internal/middleware"
	"github.com/stemsi/schoolbot-backend/internal/model"
	"github.com/stemsi/schoolbot-backend/internal/response"
	"github.com/stemsi/schoolbot-backend/internal/tools"
)

const maxToolInputBytes = 64 << 10

// ToolRunner lists and invokes tools.
type ToolRunner interface {
	Definitions() []tools.Definition
	Invoke(ctx context.Context, id *model.Identity, name string, input json.RawMessage) (tools.Result, error)
}

// ToolHandler exposes the tool registry over HTTP.
type ToolHandler struct {
	tools ToolRunner
	log   zerolog.Logger
}

// NewToolHandler creates a new ToolHandler.
func NewToolHandler(tools ToolRunner, log zerolog.Logger) *ToolHandler {
	return &ToolHandler{
		tools: tools,
		log:   log.With().Str("component", "tool_handler").Logger(),
	}
}

// List godoc
// GET /api/v1/tools
// Returns name, description and input schema of every tool.
func (h *ToolHandler) List(c *gin.Context) {
	response.Success(c, http.StatusOK, h.tools.Definitions())
}

// Invoke godoc
// POST /api/v1/tools/:name
// Runs a tool as the caller. The body is the tool input object. Refusals are
// returned with 200 and ok=false so the caller can relay them.
func (h *ToolHandler) Invoke(c *gin.Context) {
	id := middleware.GetIdentity(c)
	if id == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxToolInputBytes)
	raw, err := c.GetRawData()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Fail(c, http.StatusRequestEntityTooLarge, response.ErrInvalidPayload)
			return
		}
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	name := c.Param("name")
	res, err := h.tools.Invoke(c.Request.Context(), id, name, raw)
	if err != nil {
		h.log.Error().Err(err).Str("tool", name).Msg("Tool execution failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	if res.ErrorKind == tools.KindUnknownTool {
		response.Fail(c, http.StatusNotFound, response.ErrToolNotFound)
		return
	}

	response.Success(c, http.StatusOK, res)
}
