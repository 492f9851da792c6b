package contracts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/domain"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/schemas"
)

const (
	schemaBaseURL = "https://schemas.nahdat-alkhaleej.sa/"
	schemaVersion = "1.0.0"
)

// RecordValidator validates record payloads against the embedded JSON Schemas.
type RecordValidator struct {
	compiled map[string]*jsonschema.Schema
}

// NewRecordValidator compiles one schema per entity kind.
func NewRecordValidator() (*RecordValidator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	err := fs.WalkDir(schemas.SchemasFS, "records", func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		raw, err := schemas.SchemasFS.ReadFile(path)
		if err != nil {
			return err
		}
		return compiler.AddResource(schemaBaseURL+path, bytes.NewReader(raw))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load record schemas: %w", err)
	}

	v := &RecordValidator{compiled: make(map[string]*jsonschema.Schema)}
	for _, kind := range domain.AllKinds() {
		url := fmt.Sprintf("%srecords/%s/v1.json", schemaBaseURL, kind.SchemaSlug())
		schema, err := compiler.Compile(url)
		if err != nil {
			return nil, fmt.Errorf("failed to compile schema %s: %w", url, err)
		}
		v.compiled[schemaKey(kind)] = schema
	}
	return v, nil
}

// schemaKey names a schema the way events are versioned, e.g. "TeamMemberRecord/1.0.0".
func schemaKey(kind domain.EntityKind) string {
	words := cases.Title(language.English).String(strings.ReplaceAll(string(kind), "_", " "))
	return strings.ReplaceAll(words, " ", "") + "Record/" + schemaVersion
}

// Validate checks data against the kind's schema. Violations wrap domain.ErrInvalidRecord.
func (v *RecordValidator) Validate(kind domain.EntityKind, data map[string]any) error {
	schema, ok := v.compiled[schemaKey(kind)]
	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrUnknownEntityKind, kind)
	}

	// the validator only understands values produced by encoding/json
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("%w: payload is not serializable: %v", domain.ErrInvalidRecord, err)
	}
	var doc interface{}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRecord, err)
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidRecord, err)
	}
	return nil
}
