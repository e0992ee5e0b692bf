// Package testing forces CLAIMFLOW_TEST_MODE before any test in an importing
// package runs, keeping test binaries away from live postgres and redis.
// Test files opt in with a blank import.
package testing

import (
	"os"
	"sync"
	stdtesting "testing"
)

var once sync.Once

func ensureTestMode() {
	once.Do(func() {
		_ = os.Setenv("CLAIMFLOW_TEST_MODE", "1")
	})
}

func init() {
	ensureTestMode()
}

func TestMain(m *stdtesting.M) {
	ensureTestMode()
	os.Exit(m.Run())
}
