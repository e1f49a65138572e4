// Package records reads holdings from JSON and YAML documents.
//
// A document lists holdings whose rules nest factor records. Each factor
// record names its type; a record carrying only a name refers back to a
// factor defined earlier in the same document, so one entity or fact can
// appear in several places. Enactment records either carry their text or
// name a node whose text a TextSource supplies.
package records

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/mscarey/AuthoritySpoke-sub000/internal/enactment"
)

var (
	ErrUnknownType   = errors.New("unknown factor type")
	ErrUnknownName   = errors.New("reference to undefined name")
	ErrDuplicateName = errors.New("name already defined as a different factor")
	ErrWrongKind     = errors.New("factor of the wrong kind")
	ErrNoText        = errors.New("enactment has no text and no text source")
	ErrUnknownFormat = errors.New("unknown document format")
	ErrUnnamedEntity = errors.New("entity needs a name")
)

var validate = validator.New()

// Factor types accepted in the type field.
const (
	TypeEntity     = "entity"
	TypeFact       = "fact"
	TypeExhibit    = "exhibit"
	TypeEvidence   = "evidence"
	TypePleading   = "pleading"
	TypeAllegation = "allegation"
)

// FactorRecord is the serialized form of any factor. Only the fields of
// the named type are read.
type FactorRecord struct {
	Type    string `json:"type,omitempty" yaml:"type,omitempty" validate:"omitempty,oneof=entity fact exhibit evidence pleading allegation"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty" validate:"required_without=Type"`
	Generic *bool  `json:"generic,omitempty" yaml:"generic,omitempty"`
	Absent  bool   `json:"absent,omitempty" yaml:"absent,omitempty"`
	Plural  bool   `json:"plural,omitempty" yaml:"plural,omitempty"`

	// Fact
	Content          string          `json:"content,omitempty" yaml:"content,omitempty" validate:"required_if=Type fact"`
	Truth            *bool           `json:"truth,omitempty" yaml:"truth,omitempty"`
	Sign             string          `json:"sign,omitempty" yaml:"sign,omitempty" validate:"required_with=Expression"`
	Expression       string          `json:"expression,omitempty" yaml:"expression,omitempty" validate:"required_with=Sign"`
	IncludeNegatives bool            `json:"include_negatives,omitempty" yaml:"include_negatives,omitempty"`
	Terms            []*FactorRecord `json:"terms,omitempty" yaml:"terms,omitempty" validate:"dive,required"`
	StandardOfProof  string          `json:"standard_of_proof,omitempty" yaml:"standard_of_proof,omitempty"`

	// Exhibit
	Form                 string        `json:"form,omitempty" yaml:"form,omitempty"`
	Statement            *FactorRecord `json:"statement,omitempty" yaml:"statement,omitempty"`
	StatementAttribution *FactorRecord `json:"statement_attribution,omitempty" yaml:"statement_attribution,omitempty"`

	// Evidence
	Exhibit  *FactorRecord `json:"exhibit,omitempty" yaml:"exhibit,omitempty"`
	ToEffect *FactorRecord `json:"to_effect,omitempty" yaml:"to_effect,omitempty"`

	// Pleading
	Filer *FactorRecord `json:"filer,omitempty" yaml:"filer,omitempty"`

	// Allegation
	Pleading *FactorRecord `json:"pleading,omitempty" yaml:"pleading,omitempty"`
	Fact     *FactorRecord `json:"fact,omitempty" yaml:"fact,omitempty"`
}

// IsReference reports whether the record only names an earlier factor.
func (r *FactorRecord) IsReference() bool {
	return r.Type == "" && r.Name != ""
}

// EnactmentRecord cites a legislative node. Without Content, the text is
// looked up by Node.
type EnactmentRecord struct {
	Node      string                    `json:"node" yaml:"node" validate:"required,startswith=/"`
	Heading   string                    `json:"heading,omitempty" yaml:"heading,omitempty"`
	Content   string                    `json:"content,omitempty" yaml:"content,omitempty"`
	Quotes    []enactment.QuoteSelector `json:"quotes,omitempty" yaml:"quotes,omitempty" validate:"dive"`
	Selection []enactment.Range         `json:"selection,omitempty" yaml:"selection,omitempty"`
}

// RuleRecord is a rule with its procedure flattened in.
type RuleRecord struct {
	Name              string             `json:"name,omitempty" yaml:"name,omitempty"`
	Outputs           []*FactorRecord    `json:"outputs" yaml:"outputs" validate:"required,min=1,dive,required"`
	Inputs            []*FactorRecord    `json:"inputs,omitempty" yaml:"inputs,omitempty" validate:"dive,required"`
	Despite           []*FactorRecord    `json:"despite,omitempty" yaml:"despite,omitempty" validate:"dive,required"`
	Mandatory         bool               `json:"mandatory,omitempty" yaml:"mandatory,omitempty"`
	Universal         bool               `json:"universal,omitempty" yaml:"universal,omitempty"`
	Enactments        []*EnactmentRecord `json:"enactments,omitempty" yaml:"enactments,omitempty" validate:"dive,required"`
	EnactmentsDespite []*EnactmentRecord `json:"enactments_despite,omitempty" yaml:"enactments_despite,omitempty" validate:"dive,required"`
}

// HoldingRecord is a rule plus the court's position on it. Decided and
// RuleValid default to true.
type HoldingRecord struct {
	RuleRecord `yaml:",inline"`
	Decided    *bool `json:"decided,omitempty" yaml:"decided,omitempty"`
	RuleValid  *bool `json:"rule_valid,omitempty" yaml:"rule_valid,omitempty"`
	Exclusive  bool  `json:"exclusive,omitempty" yaml:"exclusive,omitempty"`
}

// Document is a file of holdings sharing one namespace of names.
type Document struct {
	Holdings []*HoldingRecord `json:"holdings" yaml:"holdings" validate:"required,min=1,dive,required"`
}

// TextSource supplies the text of legislative nodes.
type TextSource interface {
	ProvisionText(ctx context.Context, node string) (heading, content string, err error)
}

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks a format by file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
}

// Parse decodes and validates a document.
func Parse(data []byte, format Format) (*Document, error) {
	doc := &Document{}
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(doc); err != nil {
			return nil, fmt.Errorf("failed to parse document: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, doc); err != nil {
			return nil, fmt.Errorf("failed to parse document: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err := Validate(doc); err != nil {
		return nil, err
	}
	return doc, nil
}

// LoadFile reads a document, choosing the format by extension.
func LoadFile(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return Parse(data, format)
}

// Validate checks a record's struct tags.
func Validate(record any) error {
	if err := validate.Struct(record); err != nil {
		return fmt.Errorf("invalid record: %w", err)
	}
	return nil
}
