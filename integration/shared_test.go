//go:build basic || database

package integration

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"testing"
)

var (
	// sharedEvotrackPath holds the path to a shared evotrack binary built once for all tests.
	sharedEvotrackPath string

	// buildOnce ensures we only build the binary once.
	buildOnce sync.Once

	// buildMutex protects the shared binary path.
	buildMutex sync.Mutex

	// tempDir holds the temp directory for cleanup.
	tempDir string
)

// TestMain handles setup and cleanup for all integration tests.
func TestMain(m *testing.M) {
	// Run all tests
	code := m.Run()

	// Cleanup the shared binary after all tests
	if tempDir != "" {
		_ = os.RemoveAll(tempDir)
	}

	os.Exit(code)
}

// getEvotrackBinary returns the path to the evotrack binary, building it once if needed.
func getEvotrackBinary() string {
	buildMutex.Lock()
	defer buildMutex.Unlock()

	buildOnce.Do(func() {
		// Create a temp directory for the binary
		var err error
		tempDir, err = os.MkdirTemp("", "evotrack-integration-*")
		if err != nil {
			panic(fmt.Sprintf("failed to create temp dir: %v", err))
		}

		evotrackPath := filepath.Join(tempDir, "evotrack")
		buildCmd := exec.Command("go", "build", "-o", evotrackPath, ".")
		buildCmd.Dir = ".." // Build from parent directory (project root)
		err = buildCmd.Run()
		if err != nil {
			panic(fmt.Sprintf("failed to build evotrack: %v", err))
		}

		sharedEvotrackPath = evotrackPath
	})

	return sharedEvotrackPath
}

// runEvotrackCommand runs the shared binary with the given args in dir.
func runEvotrackCommand(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	evotrackPath := getEvotrackBinary()
	cmd := exec.Command(evotrackPath, args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Logf("Command failed: %s\nOutput: %s", cmd.String(), string(output))
	}
	return string(output), err
}

// seedBundle writes snapshot input files and adds them to a fresh bundle,
// returning the bundle directory.
func seedBundle(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	bundleDir := filepath.Join(root, "bundle")

	snapshots := []string{
		`{"timestamp": "2024-01-01T00:00:00Z", "state": "Starting point", "metadata": {"location": "Austin"}}`,
		`{"timestamp": "2024-02-01T00:00:00Z", "state": "Training hard", "metadata": {"location": "Austin"}}`,
		`{"timestamp": "2024-03-01T00:00:00Z", "state": "Relocated", "metadata": {"location": "Denver"}}`,
	}
	for i, doc := range snapshots {
		inputPath := filepath.Join(root, fmt.Sprintf("snap%d.json", i))
		if err := os.WriteFile(inputPath, []byte(doc), 0o644); err != nil {
			panic(fmt.Sprintf("failed to write snapshot input: %v", err))
		}
		if _, err := runEvotrackCommand(t, root, "snapshots", "add", inputPath, "--bundle", bundleDir); err != nil {
			panic(fmt.Sprintf("failed to seed bundle: %v", err))
		}
	}

	return bundleDir
}
