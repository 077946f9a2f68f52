// Package query implements the typed file-query engine: the registry of
// queryable file attributes, the criterion evaluator and the resolver
// that turns a query plus a candidate file set into an ordered list of
// file IDs.
package query

import (
	"errors"

	"github.com/picstrata/backend/internal/models"
)

// Errors returned for malformed or incompatible queries.  None of them
// is retryable; they are surfaced to the caller as bad-request errors.
var (
	ErrUnknownAttribute        = errors.New("unknown attribute")
	ErrUnsupportedOperator     = errors.New("unsupported operator")
	ErrUnsupportedQueryVersion = errors.New("unsupported query version")
	ErrInvalidValue            = errors.New("invalid criterion value")
)

// ValueType is the type family of a queryable attribute
type ValueType string

const (
	// TypeID compares case-sensitively (object identifiers)
	TypeID ValueType = "id"
	// TypeText compares case-insensitively (file and folder names)
	TypeText ValueType = "text"
	TypeNumber  ValueType = "number"
	TypeBoolean ValueType = "boolean"
	TypeDate    ValueType = "date"
	// TypeTags is a set of strings; tags compare case-sensitively
	TypeTags ValueType = "tags"
)

// AttributeSpec describes a queryable attribute: its value type family
// and the operator families it supports
type AttributeSpec struct {
	Type       ValueType
	Equality   bool // eq, neq
	Ordering   bool // lt, lte, gt, gte
	Membership bool // oneOf, notOneOf
	Substring  bool // contains
}

// attributes is the registry of queryable file attributes.
// Membership operators carry string-set values on the wire, so only
// string-typed attributes and tags support them.
var attributes = map[models.FileAttribute]AttributeSpec{
	models.AttributeParentFolderID:   {Type: TypeID, Equality: true, Membership: true},
	models.AttributeParentFolderName: {Type: TypeText, Equality: true, Membership: true, Substring: true},
	models.AttributeFilename:         {Type: TypeText, Equality: true, Membership: true, Substring: true},
	models.AttributeRating:           {Type: TypeNumber, Equality: true, Ordering: true},
	models.AttributeIsVideo:          {Type: TypeBoolean, Equality: true},
	models.AttributeImportedOn:       {Type: TypeDate, Equality: true, Ordering: true},
	models.AttributeTakenOn:          {Type: TypeDate, Equality: true, Ordering: true},
	models.AttributeModifiedOn:       {Type: TypeDate, Equality: true, Ordering: true},
	models.AttributeTags:             {Type: TypeTags, Equality: true, Membership: true, Substring: true},
}

// Lookup returns the spec for the given attribute, or ErrUnknownAttribute
func Lookup(attr models.FileAttribute) (AttributeSpec, error) {
	spec, ok := attributes[attr]
	if !ok {
		return AttributeSpec{}, ErrUnknownAttribute
	}
	return spec, nil
}

// SupportsOperator reports whether the attribute supports the operator's family
func (s AttributeSpec) SupportsOperator(op models.Operator) bool {
	switch op {
	case models.OperatorEquals, models.OperatorNotEquals:
		return s.Equality
	case models.OperatorLessThan, models.OperatorLessThanOrEquals,
		models.OperatorGreaterThan, models.OperatorGreaterThanOrEquals:
		return s.Ordering
	case models.OperatorOneOf, models.OperatorNotOneOf:
		return s.Membership
	case models.OperatorContains:
		return s.Substring
	default:
		return false
	}
}

// Sortable reports whether the attribute may appear in an order-by
// clause.  A tag set has no total order.
func (s AttributeSpec) Sortable() bool {
	return s.Type != TypeTags
}
