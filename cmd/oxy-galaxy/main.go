package main

import (
	"os"
	"runtime"
)

func init() {
	// GLFW requires every window call on the main OS thread.
	runtime.LockOSThread()
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
