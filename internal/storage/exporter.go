package storage

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/picstrata/backend/internal/models"
)

// localExporter bundles files from the local media store into zip
// archives on the local filesystem
type localExporter struct {
	mediaBasePath  string
	exportBasePath string
}

// NewLocalExporter creates a new localExporter instance
func NewLocalExporter(mediaBasePath, exportBasePath string) *localExporter {
	return &localExporter{
		mediaBasePath:  mediaBasePath,
		exportBasePath: exportBasePath,
	}
}

// mediaPath is the on-disk location of a file's original content
func (e *localExporter) mediaPath(f *models.File) string {
	return filepath.Join(e.mediaBasePath, f.LibraryID, filepath.FromSlash(f.FolderPath), f.Name)
}

// archivePath is the on-disk location of a job's finished archive
func (e *localExporter) archivePath(jobID string) string {
	return filepath.Join(e.exportBasePath, jobID+".zip")
}

// Export writes the given files into a zip archive named after the job
// and returns the archive's path.  Entry names keep each file's folder
// path so the archive unpacks into the library's folder structure.
func (e *localExporter) Export(jobID string, files []*models.File) (string, error) {
	if err := os.MkdirAll(e.exportBasePath, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	archive := e.archivePath(jobID)
	out, err := os.Create(archive)
	if err != nil {
		return "", fmt.Errorf("failed to create archive: %w", err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)
	for _, f := range files {
		if err := e.addFile(zw, f); err != nil {
			zw.Close()
			os.Remove(archive)
			return "", err
		}
	}

	if err := zw.Close(); err != nil {
		os.Remove(archive)
		return "", fmt.Errorf("failed to finalize archive: %w", err)
	}
	return archive, nil
}

// addFile streams one file's content into the archive
func (e *localExporter) addFile(zw *zip.Writer, f *models.File) error {
	src, err := os.Open(e.mediaPath(f))
	if err != nil {
		return fmt.Errorf("failed to open file %s: %w", f.FileID, err)
	}
	defer src.Close()

	entry := f.Name
	if f.FolderPath != "" {
		entry = f.FolderPath + "/" + f.Name
	}

	w, err := zw.Create(entry)
	if err != nil {
		return fmt.Errorf("failed to add archive entry %s: %w", entry, err)
	}
	if _, err := io.Copy(w, src); err != nil {
		return fmt.Errorf("failed to write archive entry %s: %w", entry, err)
	}
	return nil
}
