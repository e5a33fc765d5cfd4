package generator

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/tacogips/pipelinedoc/internal/logging"
)

// DocumentMode is the permission of written documents.
const DocumentMode os.FileMode = 0644

// Writer writes files to the filesystem.
type Writer interface {
	// WriteFile writes content to a file with the specified permissions.
	WriteFile(path string, content []byte, mode os.FileMode) error

	// CreateDir creates a directory and any necessary parent directories.
	CreateDir(path string) error

	// Exists checks if a file or directory exists at the given path.
	Exists(path string) bool
}

// FileWriter implements Writer for filesystem operations.
type FileWriter struct{}

// NewFileWriter creates a new FileWriter.
func NewFileWriter() Writer {
	return &FileWriter{}
}

// WriteFile replaces path with content. Parent directories are created as
// needed and the document is staged in a temporary sibling, so readers never
// observe a partially written file.
func (w *FileWriter) WriteFile(path string, content []byte, mode os.FileMode) (err error) {
	log := logging.Component("generator")
	log.Debug().Str("path", path).Int("bytes", len(content)).Msg("writing file")

	dir := filepath.Dir(path)
	if err := w.CreateDir(dir); err != nil {
		return err
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return newGeneratorError(GeneratorWriteFailed, "failed to stage document", path, err)
	}
	staged := f.Name()
	defer func() {
		if err != nil {
			_ = os.Remove(staged)
		}
	}()

	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		return newGeneratorError(GeneratorWriteFailed, "failed to write document", path, err)
	}
	if err := f.Close(); err != nil {
		return newGeneratorError(GeneratorWriteFailed, "failed to flush document", path, err)
	}
	if err := os.Chmod(staged, mode); err != nil {
		return newGeneratorError(GeneratorWriteFailed, "failed to set document mode", path, err)
	}
	if err := os.Rename(staged, path); err != nil {
		return newGeneratorError(GeneratorWriteFailed, "failed to replace document", path, err)
	}
	return nil
}

// CreateDir creates an output directory and its parents with mode 0755.
func (w *FileWriter) CreateDir(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return newGeneratorError(GeneratorWriteFailed, "failed to create output directory", path, err)
	}
	return nil
}

// Exists checks if a file or directory exists at the given path.
func (w *FileWriter) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// OutputPath joins a slash-separated document path onto outputDir. The
// document path must be relative and stay inside outputDir.
func OutputPath(outputDir, docPath string) (string, error) {
	if docPath == "" {
		return "", newGeneratorError(GeneratorPathError, "empty document path", docPath, nil)
	}

	native := filepath.FromSlash(docPath)
	if filepath.IsAbs(native) || strings.HasPrefix(docPath, "/") {
		return "", newGeneratorError(GeneratorPathError, "document path must be relative", docPath, nil)
	}

	cleaned := filepath.Clean(native)
	if cleaned == "." {
		return "", newGeneratorError(GeneratorPathError, "document path resolves to the output directory", docPath, nil)
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", newGeneratorError(GeneratorPathError, "document path escapes the output directory", docPath, nil)
	}

	return filepath.Join(outputDir, cleaned), nil
}
