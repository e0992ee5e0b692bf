package app

import (
	"os"
	"sync"
	"sync/atomic"
)

const testModeEnv = "CLAIMFLOW_TEST_MODE"

var (
	testModeFlag atomic.Bool
	testModeOnce sync.Once
)

func detectTestMode() {
	testModeFlag.Store(os.Getenv(testModeEnv) == "1")
}

// InTestMode reports whether CLAIMFLOW_TEST_MODE is set. The server and
// worker mains exit immediately in test mode so test binaries never open
// postgres, redis or asynq connections.
func InTestMode() bool {
	testModeOnce.Do(detectTestMode)
	return testModeFlag.Load()
}

// RefreshTestMode re-reads the flag after a test changes the environment.
func RefreshTestMode() {
	detectTestMode()
}
