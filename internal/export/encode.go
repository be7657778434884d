package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"specweaver/internal/diagnostic"
	"specweaver/internal/entity"
	"specweaver/internal/pipeline"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Format is an output encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// ErrUnknownFormat is returned for an unsupported output format.
var ErrUnknownFormat = errors.New("unknown export format")

// Formats lists the supported output formats.
var Formats = []Format{FormatJSON, FormatYAML, FormatMsgpack}

// ParseFormat accepts a format name or a file extension ("yml", "mp").
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "msgpack", "mp", "mpk":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Bundle is the serializable outcome of a run.
type Bundle struct {
	RunID     string                     `json:"run_id" yaml:"run_id" msgpack:"run_id"`
	Entities  []*entity.EntitySpec       `json:"entities" yaml:"entities" msgpack:"entities"`
	Report    *diagnostic.Report         `json:"report" yaml:"report" msgpack:"report"`
	Documents []pipeline.DocumentSummary `json:"documents" yaml:"documents" msgpack:"documents"`
}

// NewBundle collects the exportable parts of res.
func NewBundle(res *pipeline.Result) Bundle {
	entities := res.Entities
	if entities == nil {
		entities = []*entity.EntitySpec{}
	}

	documents := res.Documents
	if documents == nil {
		documents = []pipeline.DocumentSummary{}
	}

	return Bundle{
		RunID:     res.RunID.String(),
		Entities:  entities,
		Report:    res.Report,
		Documents: documents,
	}
}

// Encode serializes v in the given format.
func Encode(format Format, v any) ([]byte, error) {
	switch format {
	case FormatJSON:
		var buf bytes.Buffer

		enc := json.NewEncoder(&buf)
		enc.SetIndent("", "  ")

		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("encoding json: %w", err)
		}

		return buf.Bytes(), nil

	case FormatYAML:
		var buf bytes.Buffer

		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)

		if err := enc.Encode(v); err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}

		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encoding yaml: %w", err)
		}

		return buf.Bytes(), nil

	case FormatMsgpack:
		data, err := msgpack.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding msgpack: %w", err)
		}

		return data, nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// Write encodes v to w.
func Write(w io.Writer, format Format, v any) error {
	data, err := Encode(format, v)
	if err != nil {
		return err
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("writing %s output: %w", format, err)
	}

	return nil
}

// WriteFile encodes v to path, creating parent directories as needed.
func WriteFile(path string, format Format, v any) error {
	data, err := Encode(format, v)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("writing file %s: %w", path, err)
	}

	return nil
}
