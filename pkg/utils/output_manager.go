package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// OutputManager handles per-upload directory layout under one base directory
type OutputManager struct {
	BaseOutputDir string
}

// NewOutputManager creates a new output manager
func NewOutputManager(baseOutputDir string) *OutputManager {
	return &OutputManager{
		BaseOutputDir: baseOutputDir,
	}
}

// CreateUploadDir creates the directory that holds an upload and its results
func (om *OutputManager) CreateUploadDir(uploadID string) (string, error) {
	dir := om.UploadDir(uploadID)

	err := os.MkdirAll(dir, 0o755)
	if err != nil {
		return "", fmt.Errorf("failed to create upload directory: %w", err)
	}

	return dir, nil
}

// UploadDir returns the directory for uploadID without creating it
func (om *OutputManager) UploadDir(uploadID string) string {
	return filepath.Join(om.BaseOutputDir, filepath.Base(uploadID))
}

// GetOutputFilePath generates a full path for a file stored with an upload
func (om *OutputManager) GetOutputFilePath(uploadID, fileName string) (string, error) {
	dir, err := om.CreateUploadDir(uploadID)
	if err != nil {
		return "", err
	}

	// Clean the filename to remove any path separators
	cleanFileName := filepath.Base(fileName)
	if cleanFileName == "." || cleanFileName == string(filepath.Separator) {
		return "", fmt.Errorf("invalid file name %q", fileName)
	}

	return filepath.Join(dir, cleanFileName), nil
}

// GetDownloadURL generates a download URL for a stored result
func (om *OutputManager) GetDownloadURL(uploadID, fileName string) string {
	cleanFileName := filepath.Base(fileName)
	return fmt.Sprintf("/downloads/%s/%s", uploadID, cleanFileName)
}

// RemoveUploadDir deletes an upload directory and everything in it
func (om *OutputManager) RemoveUploadDir(uploadID string) error {
	return os.RemoveAll(om.UploadDir(uploadID))
}

// ContentType returns the MIME type served for a stored file
func ContentType(fileName string) string {
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".xlsx", ".xlsm":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}

// EnsureOutputDirExists ensures the base output directory exists
func (om *OutputManager) EnsureOutputDirExists() error {
	return os.MkdirAll(om.BaseOutputDir, 0o755)
}
