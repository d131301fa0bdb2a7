package app

import "os"

const testModeEnv = "BILLFOLD_TEST_MODE"

// InTestMode reports whether the binaries should skip runtime side effects.
// The flag is consulted rarely (once per process start), so there is no
// point caching it.
func InTestMode() bool {
	return os.Getenv(testModeEnv) == "1"
}
