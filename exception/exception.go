package exception

import (
	"fmt"
	"os"
	"runtime/debug"

	"github.com/mezonai/vewallet/logx"
	"github.com/mezonai/vewallet/monitoring"
)

func SafeGo(name string, fn func()) {
	go func() {
		defer recoverPanic(name, false)
		fn()
	}()
}

func SafeGoWithPanic(name string, fn func()) {
	go func() {
		defer recoverPanic(name, true)
		fn()
	}()
}

// Run calls fn on the current goroutine and converts a panic into an error.
func Run(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			monitoring.IncreasePanicCount()
			logx.Error("PANIC", fmt.Sprintf("Panic in: %s: %v\n%s", name, r, debug.Stack()))
			err = fmt.Errorf("panic in %s: %v", name, r)
		}
	}()
	return fn()
}

func recoverPanic(name string, exit bool) {
	if r := recover(); r != nil {
		monitoring.IncreasePanicCount()
		logx.Error("PANIC", fmt.Sprintf("Panic in: %s: %v\n%s", name, r, debug.Stack()))
		if exit {
			os.Exit(1)
		}
	}
}
