package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/schoolbot-backend/internal/model"
)

// Registry holds the tools in registration order. It is read-only once built
// and safe for concurrent Invoke calls.
type Registry struct {
	tools map[string]*Tool
	order    []string
	recorder Recorder
	log      zerolog.Logger
}

// NewRegistry creates an empty Registry.
func NewRegistry(log zerolog.Logger) *Registry {
	return &Registry{
		tools: make(map[string]*Tool),
		log:   log.With().Str("component", "tools").Logger(),
	}
}

// Register adds a tool.
func (r *Registry) Register(t *Tool) error {
	if t == nil || t.name == "" || t.handler == nil {
		return ErrInvalidTool
	}
	if _, exists := r.tools[t.name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateTool, t.name)
	}
	r.tools[t.name] = t
	r.order = append(r.order, t.name)
	return nil
}

// SetRecorder installs rec to receive an Invocation per call. Call it before
// the registry is shared.
func (r *Registry) SetRecorder(rec Recorder) {
	r.recorder = rec
}

// Get retrieves a tool by name.
func (r *Registry) Get(name string) (*Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// Definitions lists every tool in registration order.
func (r *Registry) Definitions() []Definition {
	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		t := r.tools[name]
		defs = append(defs, Definition{Name: t.name, Description: t.description, InputSchema: t.inputSchema})
	}
	return defs
}

// Invoke runs the named tool for id. Refusals come back as a Result with OK
// false; only unexpected storage faults are returned as an error.
func (r *Registry) Invoke(ctx context.Context, id *model.Identity, name string, input json.RawMessage) (Result, error) {
	t, ok := r.tools[name]
	if !ok {
		return Failure(KindUnknownTool, fmt.Sprintf("Unknown tool %q.", name)), nil
	}

	start := time.Now()
	res, err := t.handler(ctx, id, input)
	latency := time.Since(start)

	event := r.log.Debug()
	if err != nil {
		event = r.log.Error().Err(err)
	}
	if id != nil {
		event = event.Str("user_id", id.UserID).Str("role", id.Role.String())
	}
	event.
		Str("tool", name).
		Bool("ok", res.OK).
		Str("error_kind", string(res.ErrorKind)).
		Dur("latency", latency).
		Msg("Tool invoked")

	if r.recorder != nil {
		inv := Invocation{Tool: name, OK: res.OK, ErrorKind: res.ErrorKind, Latency: latency, At: start}
		if err != nil {
			inv.ErrorKind = KindInternal
		}
		if id != nil {
			inv.TenantID, inv.UserID, inv.Role = id.TenantID, id.UserID, id.Role.String()
		}
		r.recorder.Record(ctx, inv)
	}

	return res, err
}
