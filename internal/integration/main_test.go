package integration

import (
	"testing"

	"go.uber.org/goleak"
)

// TestMain verifies no goroutines leak out of the build and watch workflows.
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}
