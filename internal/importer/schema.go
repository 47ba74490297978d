package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ProgramSchema is the top-level structure of a program definition file.
// Refs are author-chosen handles that only need to be unique inside the file;
// Convert replaces module and lesson refs with generated ids.
type ProgramSchema struct {
	Program ProgramImport  `json:"program" yaml:"program"`
	Modules []ModuleImport `json:"modules" yaml:"modules" validate:"required,min=1,dive"`
}

// ProgramImport defines the program-level fields.
type ProgramImport struct {
	Title   string `json:"title" yaml:"title" validate:"required,notblank"`
	OwnerID string `json:"owner_id" yaml:"owner_id" validate:"required,notblank"`
}

// ModuleImport defines one module and its lessons in curriculum order.
type ModuleImport struct {
	Ref     string         `json:"ref" yaml:"ref" validate:"required,notblank"`
	Title   string         `json:"title" yaml:"title" validate:"required,notblank"`
	Gated   bool           `json:"gated,omitempty" yaml:"gated,omitempty"`
	Lessons []LessonImport `json:"lessons" yaml:"lessons" validate:"omitempty,dive"`
}

// LessonImport defines one lesson. Parts are only allowed on content types
// that support them.
type LessonImport struct {
	Ref   string       `json:"ref" yaml:"ref" validate:"required,notblank"`
	Title string       `json:"title" yaml:"title" validate:"required,notblank"`
	Type  string       `json:"type" yaml:"type" validate:"required,content_type"`
	Parts []PartImport `json:"parts,omitempty" yaml:"parts,omitempty" validate:"omitempty,dive"`
}

// PartImport defines one independently completable part of a lesson.
type PartImport struct {
	Ref   string `json:"ref" yaml:"ref" validate:"required,notblank"`
	Title string `json:"title,omitempty" yaml:"title,omitempty"`
}

// LoadSchema reads a program definition file. Files ending in .yaml or .yml
// are parsed as YAML, everything else as JSON.
func LoadSchema(path string) (*ProgramSchema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// ParseJSON decodes a JSON program definition.
func ParseJSON(data []byte) (*ProgramSchema, error) {
	var schema ProgramSchema
	if err := json.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing program file: %w", err)
	}
	return &schema, nil
}

// ParseYAML decodes a YAML program definition.
func ParseYAML(data []byte) (*ProgramSchema, error) {
	var schema ProgramSchema
	if err := yaml.Unmarshal(data, &schema); err != nil {
		return nil, fmt.Errorf("parsing program file: %w", err)
	}
	return &schema, nil
}
