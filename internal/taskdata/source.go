package taskdata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joshharrison/netdiagram/internal/ctxlog"
)

// Format selects the task file syntax.
type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatHCL  Format = "hcl"
)

// ParseFormat validates a format name. The empty string means auto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "", FormatAuto:
		return FormatAuto, nil
	case FormatJSON, FormatHCL:
		return f, nil
	default:
		return "", fmt.Errorf("unknown format %q (want auto, json or hcl)", s)
	}
}

// DetectFormat picks a format from a file extension. Anything that is not
// .hcl is read as JSON.
func DetectFormat(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".hcl") {
		return FormatHCL
	}
	return FormatJSON
}

// Parse decodes data in the given format. FormatAuto detects it from name.
func Parse(name string, data []byte, format Format) ([]Record, error) {
	if format == FormatAuto || format == "" {
		format = DetectFormat(name)
	}
	switch format {
	case FormatHCL:
		return ParseHCL(name, data)
	case FormatJSON:
		return ParseJSON(name, data)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

// FileSource reads task records from a file on disk.
type FileSource struct {
	Path   string
	Format Format
}

// Open returns a FileSource for path in the given format.
func Open(path string, format Format) *FileSource {
	return &FileSource{Path: path, Format: format}
}

func (s *FileSource) Read(ctx context.Context) ([]Record, error) {
	logger := ctxlog.FromContext(ctx)

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, fmt.Errorf("read task file: %w", err)
	}

	format := s.Format
	if format == FormatAuto || format == "" {
		format = DetectFormat(s.Path)
	}
	logger.Debug("reading task file", "path", s.Path, "format", format, "bytes", len(data))

	records, err := Parse(s.Path, data, format)
	if err != nil {
		return nil, err
	}
	logger.Debug("parsed task file", "path", s.Path, "tasks", len(records))
	return records, nil
}

// BytesSource serves records from an in-memory document.
type BytesSource struct {
	Name   string
	Data   []byte
	Format Format
}

func (s *BytesSource) Read(ctx context.Context) ([]Record, error) {
	return Parse(s.Name, s.Data, s.Format)
}
