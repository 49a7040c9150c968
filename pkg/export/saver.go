package export

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Outcome reports a completed side-effecting export. Bytes is the
// artifact size for file targets; Cells counts updated cells for
// spreadsheet targets.
type Outcome struct {
	Format      Format `json:"format"`
	Destination string `json:"destination"`
	Bytes       int    `json:"bytes"`
	Cells       int64  `json:"cells,omitempty"`
}

// Saver is the platform save primitive injected into exporters. A file
// system implementation interprets nameOrPath as a path, an HTTP
// implementation as the attachment name. Savers report failure and own
// no retry policy; export logic stays environment-agnostic.
type Saver interface {
	Save(ctx context.Context, nameOrPath string, data []byte) error
}

// FileSaver writes artifacts beneath a base directory. Relative names
// resolve against BaseDir and may not escape it; absolute paths are
// used as given.
type FileSaver struct {
	BaseDir string
}

// NewFileSaver creates a saver rooted at baseDir
func NewFileSaver(baseDir string) *FileSaver {
	return &FileSaver{BaseDir: baseDir}
}

// Save writes data to the resolved path, creating parent directories
func (s *FileSaver) Save(ctx context.Context, nameOrPath string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.resolve(nameOrPath)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write file: %w", err)
	}
	return nil
}

func (s *FileSaver) resolve(nameOrPath string) (string, error) {
	if filepath.IsAbs(nameOrPath) {
		return filepath.Clean(nameOrPath), nil
	}
	clean := filepath.Clean(nameOrPath)
	if clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %q escapes the base directory", nameOrPath)
	}
	return filepath.Join(s.BaseDir, clean), nil
}

// HTTPSaver triggers a browser download by writing the artifact as an
// attachment on an HTTP response. The destination is reduced to its
// base name so callers cannot address client paths.
type HTTPSaver struct {
	w http.ResponseWriter
}

// NewHTTPSaver wraps a response writer
func NewHTTPSaver(w http.ResponseWriter) *HTTPSaver {
	return &HTTPSaver{w: w}
}

// Save streams data as an attachment named after nameOrPath's base
func (s *HTTPSaver) Save(ctx context.Context, nameOrPath string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	name := filepath.Base(filepath.Clean(nameOrPath))
	if name == "." || name == string(filepath.Separator) {
		name = "download"
	}

	s.w.Header().Set("Content-Type", contentTypeByExt(name))
	s.w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", name))
	s.w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := s.w.Write(data); err != nil {
		return fmt.Errorf("write response: %w", err)
	}
	return nil
}

// contentTypeByExt maps artifact extensions to media types
func contentTypeByExt(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return "text/csv"
	case ".json":
		return "application/json"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}
