package store

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/seoaudit/engine/internal/model"
	"github.com/seoaudit/engine/pkg/fileutil"
	"github.com/seoaudit/engine/pkg/hashutil"
)

// fileRecord is the on-disk envelope: the report plus a content_hash
// integrity field computed over the report's own JSON encoding, the
// way the teacher's WriteResult carries a content hash alongside a
// written Markdown file.
type fileRecord struct {
	ContentHash string             `json:"content_hash"`
	Report      *model.AuditReport `json:"report"`
}

// JSONFileStore persists one <audit_id>.json per report under Dir,
// adapted from the teacher's LocalSink: same EnsureDir-then-WriteFile
// discipline, same idempotent overwrite-safe rerun guarantee, but
// writing a whole AuditReport rather than one normalized Markdown
// document, and hashing the report's content instead of its canonical
// source URL.
type JSONFileStore struct {
	dir string
	mu  sync.Mutex
}

// NewJSONFileStore builds a JSONFileStore rooted at dir. dir is
// created on first Save if it doesn't already exist.
func NewJSONFileStore(dir string) *JSONFileStore {
	return &JSONFileStore{dir: dir}
}

func (s *JSONFileStore) Save(_ context.Context, report *model.AuditReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fileutil.EnsureDir(s.dir); err != nil {
		return &StoreError{Message: err.Error(), Retryable: true, Cause: CauseWriteFailure, Path: s.dir}
	}

	reportJSON, err := json.Marshal(report)
	if err != nil {
		return &StoreError{Message: err.Error(), Retryable: false, Cause: CauseDecodeFailure}
	}
	contentHash, err := hashutil.HashBytes(reportJSON, hashutil.HashAlgoBLAKE3)
	if err != nil {
		return &StoreError{Message: err.Error(), Retryable: false, Cause: CauseHashFailure}
	}

	record := fileRecord{ContentHash: contentHash, Report: report}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return &StoreError{Message: err.Error(), Retryable: false, Cause: CauseDecodeFailure}
	}

	path := s.pathFor(report.ID)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &StoreError{Message: err.Error(), Retryable: !errors.Is(err, os.ErrPermission), Cause: CauseWriteFailure, Path: path}
	}
	return nil
}

func (s *JSONFileStore) Load(_ context.Context, id string) (*model.AuditReport, error) {
	path := s.pathFor(id)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, &StoreError{Message: err.Error(), Retryable: true, Cause: CauseReadFailure, Path: path}
	}

	var record fileRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, &StoreError{Message: err.Error(), Retryable: false, Cause: CauseDecodeFailure, Path: path}
	}
	return record.Report, nil
}

func (s *JSONFileStore) List(_ context.Context) ([]*model.AuditReport, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &StoreError{Message: err.Error(), Retryable: true, Cause: CauseReadFailure, Path: s.dir}
	}

	var out []*model.AuditReport
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		report, err := s.Load(context.Background(), id)
		if err != nil {
			continue
		}
		out = append(out, report)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.Before(out[j].StartedAt) })
	return out, nil
}

func (s *JSONFileStore) pathFor(id string) string {
	return filepath.Join(s.dir, id+".json")
}

var _ Store = (*JSONFileStore)(nil)
