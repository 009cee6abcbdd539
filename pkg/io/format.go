package io

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/eventline/pkg/errors"
	"github.com/matzehuels/eventline/pkg/task"
)

// Format names a snapshot encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatCSV  Format = "csv"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML, FormatCSV}

// ParseFormat returns the format named s ("yml" is accepted for YAML).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML, FormatTOML, FormatCSV:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unknown format %q (must be json, yaml, toml or csv)", s)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", errors.New(errors.ErrCodeInvalidFormat, "cannot infer format of %s: no extension", path)
	}
	return ParseFormat(ext)
}

// Read decodes a snapshot in format f from r. It does not validate the result
// beyond what decoding requires.
func Read(r io.Reader, f Format) (task.Snapshot, error) {
	if f == FormatCSV {
		tasks, err := ReadCSV(r)
		return task.Snapshot{Tasks: tasks}, err
	}

	var doc document
	var err error
	switch f {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&doc)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&doc)
	default:
		return task.Snapshot{}, errors.New(errors.ErrCodeUnsupported, "format %q", f)
	}
	if err != nil && err != io.EOF {
		return task.Snapshot{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", f)
	}
	return fromDocument(doc)
}

// Write encodes s in format f to w. CSV output drops the event anchor.
func Write(w io.Writer, s task.Snapshot, f Format) error {
	if f == FormatCSV {
		return WriteCSV(w, s.Tasks)
	}

	doc := toDocument(s)
	var err error
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(doc)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(doc); err == nil {
			err = enc.Close()
		}
	case FormatTOML:
		err = toml.NewEncoder(w).Encode(doc)
	default:
		return errors.New(errors.ErrCodeUnsupported, "format %q", f)
	}
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode %s", f)
	}
	return nil
}

// Import reads and validates the snapshot stored at path.
func Import(path string) (task.Snapshot, error) {
	s, err := readFile(path)
	if err != nil {
		return task.Snapshot{}, err
	}
	if err := s.Validate(); err != nil {
		return task.Snapshot{}, err
	}
	return s, nil
}

// Dropped is a task that ImportLenient left out of the snapshot.
type Dropped struct {
	ID    string
	Title string
	Err   error
}

// ImportLenient reads the snapshot stored at path like Import, except that
// tasks with an unparseable date are removed and returned as Dropped. The
// remaining tasks must still pass validation.
func ImportLenient(path string) (task.Snapshot, []Dropped, error) {
	s, err := readFile(path)
	if err != nil {
		return task.Snapshot{}, nil, err
	}

	var dropped []Dropped
	kept := make([]task.Task, 0, len(s.Tasks))
	for _, t := range s.Tasks {
		if err := t.Validate(); err != nil && errors.Is(err, errors.ErrCodeInvalidDate) {
			dropped = append(dropped, Dropped{ID: t.ID, Title: t.Title, Err: err})
			continue
		}
		kept = append(kept, t)
	}
	s.Tasks = kept

	if err := s.Validate(); err != nil {
		return task.Snapshot{}, dropped, err
	}
	return s, dropped, nil
}

func readFile(path string) (task.Snapshot, error) {
	f, err := FormatFromPath(path)
	if err != nil {
		return task.Snapshot{}, err
	}
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return task.Snapshot{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return task.Snapshot{}, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer file.Close()
	return Read(file, f)
}

// Export validates s and writes it to path in the format its extension
// names. Nothing is written when validation fails.
func Export(s task.Snapshot, path string) error {
	f, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	if err := s.Validate(); err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Write(&buf, s, f); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
	}
	return nil
}

// Encode is Write into a byte slice.
func Encode(s task.Snapshot, f Format) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, s, f); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
