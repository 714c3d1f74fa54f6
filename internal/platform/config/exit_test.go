package config_test

import (
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/astmary-project/astmery/internal/platform/config"
)

// Exitf calls os.Exit, so the assertion runs against a re-exec of the test
// binary rather than in-process.
func TestExitfWritesStderrAndExits(t *testing.T) {
	if os.Getenv("ASTMERY_EXITF_CHILD") == "1" {
		config.Exitf("astmery: %v", "journal unavailable")
		t.Fatal("Exitf returned")
	}

	cmd := exec.Command(os.Args[0], "-test.run=^TestExitfWritesStderrAndExits$")
	cmd.Env = append(os.Environ(), "ASTMERY_EXITF_CHILD=1")
	out, err := cmd.CombinedOutput()

	exitErr, ok := err.(*exec.ExitError)
	if !ok {
		t.Fatalf("child err = %T (%v), want *exec.ExitError", err, err)
	}
	if code := exitErr.ExitCode(); code != 1 {
		t.Fatalf("exit code = %d, want 1", code)
	}
	if !strings.Contains(string(out), "astmery: journal unavailable") {
		t.Fatalf("child output %q missing the formatted message", string(out))
	}
}
