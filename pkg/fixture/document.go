package fixture

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/getmockd/castlepact/pkg/stateful"
)

// Common errors for fixture loading.
var (
	ErrFileNotFound    = errors.New("fixture file not found")
	ErrEmptyFile       = errors.New("fixture file is empty")
	ErrInvalidSyntax   = errors.New("invalid fixture syntax")
	ErrInvalidDocument = errors.New("fixture document does not match schema")
	ErrInvalidRecord   = errors.New("invalid fixture record")
)

//go:embed fixture.schema.json
var schemaJSON []byte

const schemaURL = "fixture.schema.json"

// Document is a parsed fixture file.
type Document struct {
	Castles      []stateful.Castle `json:"castles,omitempty"`
	Rulers       []stateful.Ruler  `json:"rulers,omitempty"`
	Interactions []Interaction     `json:"interactions,omitempty"`
}

// Interaction is a recorded exchange whose body carries records of one entity.
type Interaction struct {
	Description   string `json:"description,omitempty"`
	ProviderState string `json:"providerState,omitempty"`
	Entity        string `json:"entity"`
	Select        string `json:"select,omitempty"`
	Body          any    `json:"body"`
}

// ProviderStates returns the distinct provider states named by interactions,
// in first-seen order.
func (d *Document) ProviderStates() []string {
	seen := make(map[string]bool)
	states := make([]string, 0)
	for _, in := range d.Interactions {
		if in.ProviderState == "" || seen[in.ProviderState] {
			continue
		}
		seen[in.ProviderState] = true
		states = append(states, in.ProviderState)
	}
	return states
}

type schemas struct {
	document *jsonschema.Schema
	records  map[string]*jsonschema.Schema
}

var (
	compiled    schemas
	compileErr  error
	compileOnce sync.Once
)

// loadSchemas compiles the embedded document schema and the per-entity
// record schemas it defines.
func loadSchemas() (schemas, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.Draft = jsonschema.Draft2020
		if err := c.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			compileErr = err
			return
		}

		doc, err := c.Compile(schemaURL)
		if err != nil {
			compileErr = err
			return
		}
		compiled.document = doc
		compiled.records = make(map[string]*jsonschema.Schema)
		for entity, ref := range map[string]string{
			stateful.EntityCastle: "#/$defs/castle",
			stateful.EntityRuler:  "#/$defs/ruler",
		} {
			s, err := c.Compile(schemaURL + ref)
			if err != nil {
				compileErr = err
				return
			}
			compiled.records[entity] = s
		}
	})
	return compiled, compileErr
}

// Parse decodes a YAML or JSON fixture document and validates it against the
// embedded schema.
func Parse(data []byte) (*Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmptyFile
	}

	generic, err := decodeGeneric(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSyntax, err)
	}

	s, err := loadSchemas()
	if err != nil {
		return nil, fmt.Errorf("compile fixture schema: %w", err)
	}
	if err := s.document.Validate(generic); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}

	var doc Document
	if err := remarshal(generic, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return &doc, nil
}

// ParseReader reads and parses a fixture document.
func ParseReader(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(data)
}

// LoadFile reads and parses the fixture document at path.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("read fixture file: %w", err)
	}

	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// decodeGeneric decodes JSON input directly and anything else as YAML.
func decodeGeneric(data []byte) (any, error) {
	var raw any
	if json.Valid(data) {
		err := json.Unmarshal(data, &raw)
		return raw, err
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return toJSONValue(raw)
}

// toJSONValue converts a decoded YAML tree into the value space produced by
// encoding/json, which is what the schema validator and JSONPath expect.
func toJSONValue(v any) (any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func remarshal(in, out any) error {
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
