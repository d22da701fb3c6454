package main

import (
	"os"
	"testing"
)

func TestMainVersion(t *testing.T) {
	oldArgs := os.Args
	os.Args = []string{"xplore", "version"}
	defer func() { os.Args = oldArgs }()
	oldExit := osExit
	osExit = func(code int) {
		t.Fatalf("unexpected exit code: %d", code)
	}
	defer func() { osExit = oldExit }()
	main()
}
