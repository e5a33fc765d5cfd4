package integration

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tacogips/pipelinedoc/internal/config"
)

// copyFixtureToTemp copies a fixture template directory to a temp directory
// and returns the absolute path of the copy.
func copyFixtureToTemp(t *testing.T, fixtureName string) string {
	t.Helper()

	// Get the absolute path to the fixture
	fixtureDir, err := filepath.Abs(filepath.Join("../fixtures/templates", fixtureName))
	if err != nil {
		t.Fatalf("failed to get fixture path: %v", err)
	}

	destDir := filepath.Join(t.TempDir(), fixtureName)

	err = filepath.Walk(fixtureDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(fixtureDir, path)
		if err != nil {
			return err
		}
		destPath := filepath.Join(destDir, relPath)

		if info.IsDir() {
			return os.MkdirAll(destPath, 0755)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		return os.WriteFile(destPath, data, 0644)
	})
	if err != nil {
		t.Fatalf("failed to copy fixture: %v", err)
	}

	return destDir
}

// fixtureConfig returns a configuration that writes to a temp directory and
// documents templates as hosted in Platform/Templates.
func fixtureConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Output.Dir = filepath.Join(t.TempDir(), "docs")
	cfg.Repo.Detect = false
	cfg.Repo.Name = "Platform/Templates"
	cfg.Repo.Type = "git"
	cfg.Repo.Ref = "refs/heads/main"
	return cfg
}

// readFile returns the content of a file, failing the test when it is missing.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	return string(data)
}
