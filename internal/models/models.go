package models

import "time"

// Album is a container of files.  An album without a query is static:
// its membership is an explicit file-id set maintained by the store.
// An album with a query is live: its membership is recomputed from the
// query each time it is resolved.
type Album struct {
	LibraryID string     `json:"libraryId" db:"library_id"`
	AlbumID   string     `json:"albumId" db:"album_id"`
	Name      string     `json:"name" db:"name"`
	Query     *FileQuery `json:"query,omitempty" db:"query"`
}

// IsLive reports whether the album's membership comes from a query
func (a *Album) IsLive() bool {
	return a.Query != nil
}

// AlbumAdd is the request body for creating an album
type AlbumAdd struct {
	Name  string     `json:"name"`
	Query *FileQuery `json:"query,omitempty"`
}

// AlbumUpdate is the request body for updating an album.  Provided
// fields replace the stored ones wholesale; partial query edits are
// not supported.
type AlbumUpdate struct {
	Name  *string    `json:"name,omitempty"`
	Query *FileQuery `json:"query,omitempty"`
}

// ObjectUser is the role assigned to a user for a given object in
// a library.  (objectType, objectId, userId) is the composite key.
type ObjectUser struct {
	LibraryID  string     `json:"libraryId" db:"library_id"`
	ObjectType ObjectType `json:"objectType" db:"object_type"`
	ObjectID   string     `json:"objectId" db:"object_id"`
	UserID     string     `json:"userId" db:"user_id"`
	Role       Role       `json:"role" db:"role"`
}

// ObjectUserAdd is the request body for adding a user to an object
type ObjectUserAdd struct {
	UserID string `json:"userId"`
	Role   Role   `json:"role"`
}

// ObjectUserUpdate is the request body for changing a user's role on an object
type ObjectUserUpdate struct {
	Role Role `json:"role"`
}

// ExportJob tracks a bulk export request from submission to completion
type ExportJob struct {
	JobID     string          `json:"jobId" db:"job_id"`
	LibraryID string          `json:"libraryId" db:"library_id"`
	Status    ExportJobStatus `json:"status" db:"status"`
	Error     *string         `json:"error,omitempty" db:"error"`
	CreatedBy string          `json:"createdBy" db:"created_by"`
	UpdatedBy string          `json:"updatedBy" db:"updated_by"`
	UpdatedOn time.Time       `json:"updatedOn" db:"updated_on"`
	FileIDs   []string        `json:"fileIds" db:"-"`
}

// ExportJobAdd is the request body for submitting an export job
type ExportJobAdd struct {
	FileIDs []string `json:"fileIds"`
}

// Statistics describes the service as a whole
type Statistics struct {
	LibraryCount    int `json:"libraryCount"`
	FolderCount     int `json:"folderCount"`
	FileCount       int `json:"fileCount"`
	AlbumCount      int `json:"albumCount"`
	ObjectUserCount int `json:"objectUserCount"`
	QueueLength     int `json:"queueLength"`
}
