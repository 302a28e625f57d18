package main

import (
	"os"
	"runtime/debug"

	"github.com/mezonai/vewallet/cmd"
	"github.com/mezonai/vewallet/logx"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			_ = logx.Errorf("VEWALLET CRASHED: %v\n%s", r, debug.Stack())
			os.Exit(1)
		}
	}()

	cmd.Execute()
}
