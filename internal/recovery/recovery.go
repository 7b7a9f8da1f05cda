// internal/recovery/recovery.go
package recovery

import (
	"os"
	"runtime/debug"

	"github.com/sirupsen/logrus"
)

// HandlePanic should be deferred at the top of main() or goroutines.
// It logs panic details with a stack trace and exits with code 1.
func HandlePanic() {
	HandlePanicFunc(nil)
}

// HandlePanicFunc logs panic details, calls the provided cleanup function if
// any, and exits with code 1.
func HandlePanicFunc(cleanup func()) {
	if r := recover(); r != nil {
		logrus.WithFields(logrus.Fields{
			"panic": r,
			"stack": string(debug.Stack()),
		}).Error("fatal panic")
		if cleanup != nil {
			cleanup()
		}
		os.Exit(1)
	}
}
