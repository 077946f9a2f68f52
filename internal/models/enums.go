package models

// ObjectType identifies the kind of object a grant applies to
type ObjectType string

const (
	ObjectTypeLibrary ObjectType = "library"
	ObjectTypeFolder  ObjectType = "folder"
	ObjectTypeFile    ObjectType = "file"
	ObjectTypeAlbum   ObjectType = "album"
)

// IsValid reports whether the object type is one of the known values
func (t ObjectType) IsValid() bool {
	switch t {
	case ObjectTypeLibrary, ObjectTypeFolder, ObjectTypeFile, ObjectTypeAlbum:
		return true
	default:
		return false
	}
}

// Role is the role a user holds on a library object
type Role string

const (
	RoleOwner       Role = "owner"
	RoleContributor Role = "contributor"
	RoleReader      Role = "reader"
)

// IsValid reports whether the role is one of the known values
func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleContributor, RoleReader:
		return true
	default:
		return false
	}
}

// privilege orders roles: owner > contributor > reader
func (r Role) privilege() int {
	switch r {
	case RoleOwner:
		return 3
	case RoleContributor:
		return 2
	case RoleReader:
		return 1
	default:
		return 0
	}
}

// Includes reports whether role r carries at least the privilege of required
func (r Role) Includes(required Role) bool {
	return r.privilege() >= required.privilege()
}

// ExportJobStatus is the lifecycle state of an export job
type ExportJobStatus string

const (
	ExportJobStatusQueued     ExportJobStatus = "queued"
	ExportJobStatusProcessing ExportJobStatus = "processing"
	ExportJobStatusFailed     ExportJobStatus = "failed"
	ExportJobStatusSuccess    ExportJobStatus = "success"
)

// IsTerminal reports whether no further transitions are permitted
func (s ExportJobStatus) IsTerminal() bool {
	return s == ExportJobStatusSuccess || s == ExportJobStatusFailed
}

// FileAttribute is a file attribute that may be used in a query
type FileAttribute string

const (
	AttributeParentFolderID   FileAttribute = "parentFolderId"
	AttributeParentFolderName FileAttribute = "parentFolderName"
	AttributeFilename         FileAttribute = "filename"
	AttributeRating           FileAttribute = "rating"
	AttributeIsVideo          FileAttribute = "isVideo"
	AttributeImportedOn       FileAttribute = "importedOn"
	AttributeTakenOn          FileAttribute = "takenOn"
	AttributeModifiedOn       FileAttribute = "modifiedOn"
	AttributeTags             FileAttribute = "tags"
)

// Operator is an operator that can be used in a query criterion
type Operator string

const (
	OperatorEquals              Operator = "eq"
	OperatorNotEquals           Operator = "neq"
	OperatorOneOf               Operator = "oneOf"
	OperatorNotOneOf            Operator = "notOneOf"
	OperatorLessThan            Operator = "lt"
	OperatorLessThanOrEquals    Operator = "lte"
	OperatorGreaterThan         Operator = "gt"
	OperatorGreaterThanOrEquals Operator = "gte"
	OperatorContains            Operator = "contains"
)

// SortDirection is the direction of an order-by clause
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)
