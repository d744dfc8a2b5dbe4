package ports

import (
	"context"
	"io"
	"time"
)

// Workspace is an isolated per-request directory for the uploaded template and the output
type Workspace interface {
	ID() string
	Dir() string

	// SaveTemplate copies the upload into the workspace under a sanitized name
	SaveTemplate(filename string, r io.Reader) (string, error)

	// OutputPath returns where the generated document is written
	OutputPath() string

	// Release removes the workspace and everything in it
	Release() error
}

// WorkspaceStore hands out workspaces and evicts abandoned ones
type WorkspaceStore interface {
	Create(ctx context.Context) (Workspace, error)

	// Sweep removes workspaces older than maxAge and returns how many were removed
	Sweep(ctx context.Context, maxAge time.Duration) (int, error)

	Root() string
}
