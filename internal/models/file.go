package models

import "time"

// File represents a file in a library.
//
// Identity (libraryId, folderId, fileId) is immutable; the descriptive
// fields are owned by the file store and treated as read-only here.
// GPS coordinates are decimal strings to preserve precision.
type File struct {
	LibraryID      string     `json:"libraryId" db:"library_id"`
	FolderID       string     `json:"folderId" db:"folder_id"`
	FileID         string     `json:"fileId" db:"file_id"`
	Name           string     `json:"name" db:"name"`
	MimeType       string     `json:"mimeType" db:"mime_type"`
	IsVideo        bool       `json:"isVideo" db:"is_video"`
	Height         int        `json:"height" db:"height"`
	Width          int        `json:"width" db:"width"`
	ImportedOn     time.Time  `json:"importedOn" db:"imported_on"`
	TakenOn        *time.Time `json:"takenOn,omitempty" db:"taken_on"`
	ModifiedOn     *time.Time `json:"modifiedOn,omitempty" db:"modified_on"`
	Rating         *int       `json:"rating,omitempty" db:"rating"`
	Title          *string    `json:"title,omitempty" db:"title"`
	Comments       *string    `json:"comments,omitempty" db:"comments"`
	CameraMake     *string    `json:"cameraMake,omitempty" db:"camera_make"`
	CameraModel    *string    `json:"cameraModel,omitempty" db:"camera_model"`
	Latitude       *string    `json:"latitude,omitempty" db:"latitude"`
	Longitude      *string    `json:"longitude,omitempty" db:"longitude"`
	Altitude       *string    `json:"altitude,omitempty" db:"altitude"`
	FileSize       int64      `json:"fileSize" db:"file_size"`
	FileSizeSm     *int64     `json:"fileSizeSm,omitempty" db:"file_size_sm"`
	FileSizeMd     *int64     `json:"fileSizeMd,omitempty" db:"file_size_md"`
	FileSizeLg     *int64     `json:"fileSizeLg,omitempty" db:"file_size_lg"`
	FileSizeCnv    *int64     `json:"fileSizeCnv,omitempty" db:"file_size_cnv"`
	FileSizeBackup *int64     `json:"fileSizeBackup,omitempty" db:"file_size_backup"`
	IsProcessing   bool       `json:"isProcessing" db:"is_processing"`
	Tags           []string   `json:"tags" db:"-"`

	// FolderName and FolderPath come from the containing folder record.
	// They exist for query evaluation and export bundling and are not
	// part of the file's wire shape.
	FolderName string `json:"-" db:"folder_name"`
	FolderPath string `json:"-" db:"folder_path"`
}
