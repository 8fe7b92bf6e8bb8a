// Package tools exposes the gateway operations as named tools with JSON input
// schemas, ready to be offered to a reasoning loop.
package tools

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/stemsi/schoolbot-backend/internal/model"
)

var (
	// ErrInvalidTool is returned when a tool is built without a name or handler.
	ErrInvalidTool = errors.New("tool requires a name and a handler")
	// ErrDuplicateTool is returned when a name is registered twice.
	ErrDuplicateTool = errors.New("tool already registered")
)

// Handler executes a tool on behalf of a verified identity.
type Handler func(ctx context.Context, id *model.Identity, input json.RawMessage) (Result, error)

// Tool is a registered capability.
type Tool struct {
	name        string
	description string
	inputSchema Schema
	handler     Handler
}

// Name returns the stable identifier of the tool.
func (t *Tool) Name() string { return t.name }

// Description returns what the tool does, phrased for a language model.
func (t *Tool) Description() string { return t.description }

// InputSchema returns the JSON Schema of the tool's input.
func (t *Tool) InputSchema() Schema { return t.inputSchema }

// Definition is the listing form of a tool.
type Definition struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema Schema `json:"input_schema"`
}

// Builder provides a fluent API for constructing tools.
type Builder struct {
	tool *Tool
}

// NewBuilder creates a new tool builder with the given name.
func NewBuilder(name string) *Builder {
	return &Builder{tool: &Tool{name: name}}
}

// WithDescription sets the tool description.
func (b *Builder) WithDescription(desc string) *Builder {
	b.tool.description = desc
	return b
}

// WithInputSchema sets the input schema.
func (b *Builder) WithInputSchema(schema Schema) *Builder {
	b.tool.inputSchema = schema
	return b
}

// WithHandler sets the tool handler function.
func (b *Builder) WithHandler(h Handler) *Builder {
	b.tool.handler = h
	return b
}

// Build returns the tool, or ErrInvalidTool when it is incomplete.
func (b *Builder) Build() (*Tool, error) {
	if b.tool.name == "" || b.tool.handler == nil {
		return nil, ErrInvalidTool
	}
	return b.tool, nil
}
