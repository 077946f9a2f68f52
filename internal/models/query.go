package models

// FileQueryVersion is the query format version this service understands
const FileQueryVersion = "1.0"

// FileCriterion is one filter condition in a file query.
//
// Value is a scalar (string, number or boolean) for comparison operators
// and an array of strings for membership operators.  Its shape is checked
// against the attribute's type family when the query is compiled.
type FileCriterion struct {
	Attribute FileAttribute `json:"attribute"`
	Operator  Operator      `json:"operator"`
	Value     any           `json:"value"`
}

// FileOrderBy is one order-by clause in a file query
type FileOrderBy struct {
	Attribute FileAttribute `json:"attribute"`
	Direction SortDirection `json:"direction"`
}

// FileQuery is a persisted file query.  A file query can be the source
// of files for an album.  Criteria combine with AND semantics; order-by
// clauses apply in listed priority, each breaking ties left by the
// previous one.
type FileQuery struct {
	Version  string          `json:"version"`
	Criteria []FileCriterion `json:"criteria,omitempty"`
	OrderBy  []FileOrderBy   `json:"orderBy,omitempty"`
}
