package domain

import "time"

// DocumentType identifies one of the built-in official document types.
type DocumentType string

// Built-in document types.
const (
	// DocumentOficio is a formal letter, numbered annually.
	DocumentOficio DocumentType = "OFICIO"

	// DocumentCircular is an internal circular, numbered annually.
	DocumentCircular DocumentType = "CIRCULAR"

	// DocumentOrdemServico is a service order. Its numbering never resets:
	// one continuous sequence across years, and no year in the identifier.
	DocumentOrdemServico DocumentType = "ORDEM_SERVICO"
)

// IsValid returns true if the document type is recognised.
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentOficio, DocumentCircular, DocumentOrdemServico:
		return true
	default:
		return false
	}
}

// Label returns the human-readable name of the type.
func (t DocumentType) Label() string {
	switch t {
	case DocumentOficio:
		return "Ofício"
	case DocumentCircular:
		return "Circular"
	case DocumentOrdemServico:
		return "Ordem de Serviço"
	default:
		return "Unknown"
	}
}

// Rule returns the numbering rule for the type.
func (t DocumentType) Rule() NumberingRule {
	switch t {
	case DocumentOficio:
		return NumberingRule{TypeCode: string(t), Prefix: "OF", Annual: true}
	case DocumentCircular:
		return NumberingRule{TypeCode: string(t), Prefix: "CI", Annual: true}
	case DocumentOrdemServico:
		return NumberingRule{TypeCode: string(t), Prefix: "OS", Annual: false}
	default:
		return NumberingRule{TypeCode: string(t)}
	}
}

// DocumentTypes lists all built-in document types.
func DocumentTypes() []DocumentType {
	return []DocumentType{DocumentOficio, DocumentCircular, DocumentOrdemServico}
}

// Document represents a persisted official document.
type Document struct {
	// ID is the unique identifier for the document record.
	ID string

	// Type is the document type.
	Type DocumentType

	// Number is the allocated sequence number within the type's bucket.
	Number int

	// Year is the numbering year. Nil for continuous types, which carry
	// no year in their identifier.
	Year *int

	// Identifier is the formatted human-readable identifier, derived
	// from (Type, Number, Year).
	Identifier string

	// Content is the document body as rich text.
	Content string

	// CreatedBy names the author. Ownership of users and sessions lives
	// outside this subsystem; only the display value is carried.
	CreatedBy string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DocumentDraft is the input for creating a document. The number and
// identifier are allocated by the store inside the creation transaction.
type DocumentDraft struct {
	Type      DocumentType
	Content   string
	CreatedBy string
	CreatedAt time.Time
}
