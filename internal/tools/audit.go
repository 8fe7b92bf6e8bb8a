package tools

import (
	"context"
	"time"
)

// Invocation is the audit record of one tool call. It never carries the tool
// input or the returned data.
type Invocation struct {
	Tool      string        `json:"tool"`
	TenantID  string        `json:"tenant_id"`
	UserID    string        `json:"user_id"`
	Role      string        `json:"role"`
	OK        bool          `json:"ok"`
	ErrorKind ErrorKind     `json:"error_kind,omitempty"`
	Latency   time.Duration `json:"latency_ns"`
	At        time.Time     `json:"at"`
}

// Recorder receives an Invocation after every tool call. Implementations must
// not block the caller for long.
type Recorder interface {
	Record(ctx context.Context, inv Invocation)
}
