package metadata

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/peridotvault/peridot-core/internal/adapter"
	"github.com/peridotvault/peridot-core/internal/domain"
)

// maxReportedErrors caps how many schema violations end up in one error
const maxReportedErrors = 5

// ErrInvalidDocument is returned for documents that do not match their schema
var ErrInvalidDocument = fmt.Errorf("%w: invalid metadata document", domain.ErrInvariantViolation)

const gameSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name", "description"],
	"properties": {
		"name": {"type": "string", "minLength": 1, "maxLength": 200},
		"description": {"type": "string"},
		"image": {"type": "string", "format": "uri"},
		"banner": {"type": "string", "format": "uri"},
		"external_url": {"type": "string", "format": "uri"},
		"genres": {"type": "array", "items": {"type": "string"}, "uniqueItems": true},
		"platforms": {"type": "array", "items": {"type": "string", "enum": ["windows", "macos", "linux", "web", "android", "ios"]}},
		"release_date": {"type": "string", "format": "date"},
		"version": {"type": "string"},
		"builds": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["platform", "uri"],
				"properties": {
					"platform": {"type": "string"},
					"uri": {"type": "string", "format": "uri"},
					"sha256": {"type": "string", "pattern": "^[0-9a-f]{64}$"}
				}
			}
		}
	}
}`

const contractSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"type": "object",
	"required": ["name"],
	"properties": {
		"name": {"type": "string", "minLength": 1, "maxLength": 200},
		"description": {"type": "string"},
		"image": {"type": "string", "format": "uri"},
		"external_link": {"type": "string", "format": "uri"},
		"seller_fee_basis_points": {"type": "integer", "minimum": 0, "maximum": 10000},
		"fee_recipient": {"type": "string", "pattern": "^0x[0-9a-fA-F]{40}$"}
	}
}`

// DefaultSchemas returns the built-in JSON schemas per metadata kind
func DefaultSchemas() map[domain.MetadataKind][]byte {
	return map[domain.MetadataKind][]byte{
		domain.MetadataKindGame:     []byte(gameSchema),
		domain.MetadataKindContract: []byte(contractSchema),
	}
}

// LoadSchemas returns the built-in schemas with the game schema replaced by
// the file at gameSchemaPath when one is given
func LoadSchemas(fs adapter.FileSystem, gameSchemaPath string) (map[domain.MetadataKind][]byte, error) {
	schemas := DefaultSchemas()
	if gameSchemaPath == "" {
		return schemas, nil
	}
	data, err := fs.ReadFile(gameSchemaPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata schema: %w", err)
	}
	schemas[domain.MetadataKindGame] = data
	return schemas, nil
}

// Validator checks metadata documents against the schema of their kind
//
//go:generate mockgen -source=validator.go -destination=../mocks/metadata_validator.go -package=mocks -mock_names=Validator=MockMetadataValidator
type Validator interface {
	Validate(kind domain.MetadataKind, doc []byte) error
}

type validator struct {
	schemas map[domain.MetadataKind]*gojsonschema.Schema
}

// NewValidator compiles one schema per metadata kind
func NewValidator(schemas map[domain.MetadataKind][]byte) (Validator, error) {
	v := &validator{schemas: make(map[domain.MetadataKind]*gojsonschema.Schema, len(schemas))}
	for kind, raw := range schemas {
		if !domain.IsValidMetadataKind(kind) {
			return nil, fmt.Errorf("unknown metadata kind %q", kind)
		}
		s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to compile %s metadata schema: %w", kind, err)
		}
		v.schemas[kind] = s
	}
	return v, nil
}

func (v *validator) Validate(kind domain.MetadataKind, doc []byte) error {
	s, ok := v.schemas[kind]
	if !ok {
		return fmt.Errorf("no schema for metadata kind %q", kind)
	}

	res, err := s.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if res.Valid() {
		return nil
	}

	var msgs []string
	for i, e := range res.Errors() {
		if i >= maxReportedErrors {
			break
		}
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
}
