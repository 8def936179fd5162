// Package store persists AuditReports behind one opaque interface, the
// way the teacher's internal/storage.Sink persists normalized Markdown
// documents behind one opaque interface — same idempotent-write
// discipline, repurposed from a Markdown file per page to one JSON file
// per completed audit.
package store

import (
	"context"
	"errors"

	"github.com/seoaudit/engine/internal/model"
)

// ErrNotFound is returned by Load when no report with the given ID has
// been saved.
var ErrNotFound = errors.New("store: audit not found")

// Store is the persistence contract internal/api and cmd/seoaudit run
// against. Save is idempotent: saving the same report ID twice
// overwrites rather than duplicates, mirroring the teacher's
// overwrite-safe rerun guarantee for Markdown output.
type Store interface {
	Save(ctx context.Context, report *model.AuditReport) error
	Load(ctx context.Context, id string) (*model.AuditReport, error)
	List(ctx context.Context) ([]*model.AuditReport, error)
}
