package snapshot

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// exportEnvelope matches a previously exported report so it can be re-imported.
type exportEnvelope struct {
	FormData *FormData `json:"formData" yaml:"formData"`
}

// DecodeJSON reads a form snapshot or an exported report from r.
func DecodeJSON(r io.Reader) (FormData, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return FormData{}, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var env exportEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return FormData{}, fmt.Errorf("failed to decode JSON snapshot: %w", err)
	}
	if env.FormData != nil {
		return *env.FormData, nil
	}

	var form FormData
	if err := json.Unmarshal(data, &form); err != nil {
		return FormData{}, fmt.Errorf("failed to decode JSON snapshot: %w", err)
	}
	return form, nil
}

// DecodeYAML reads a form snapshot or an exported report in YAML from r.
func DecodeYAML(r io.Reader) (FormData, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return FormData{}, fmt.Errorf("failed to read snapshot: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return FormData{}, nil
	}

	var env exportEnvelope
	if err := yaml.Unmarshal(data, &env); err != nil {
		return FormData{}, fmt.Errorf("failed to decode YAML snapshot: %w", err)
	}
	if env.FormData != nil {
		return *env.FormData, nil
	}

	var form FormData
	if err := yaml.Unmarshal(data, &form); err != nil {
		return FormData{}, fmt.Errorf("failed to decode YAML snapshot: %w", err)
	}
	return form, nil
}

// Read loads a snapshot file, choosing YAML for .yaml/.yml and JSON otherwise.
func Read(path string) (FormData, error) {
	f, err := os.Open(path)
	if err != nil {
		return FormData{}, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(f)
	default:
		return DecodeJSON(f)
	}
}
