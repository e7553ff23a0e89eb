// Package guard switches the process into test mode when imported, so
// binaries exercised from tests skip listeners and workers.
package guard

import (
	"os"
	"sync"
)

var once sync.Once

func init() {
	once.Do(func() {
		if os.Getenv("EXECBOARD_TEST_MODE") == "" {
			_ = os.Setenv("EXECBOARD_TEST_MODE", "1")
		}
	})
}
