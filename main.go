package main

import (
	"fmt"
	"os"

	"github.com/xplore-go/xplore/cmd"
)

var (
	version   string
	commit    string
	date      string
	buildType string = "unclassified"

	osExit = os.Exit
)

func main() {
	err := cmd.Execute(os.Args, cmd.BuildArgs{
		Version:   version,
		Commit:    commit,
		Date:      date,
		BuildType: buildType,
	})
	if err != nil {
		fmt.Printf("xplore: %s\n", err.Error())
		osExit(1)
	}
}
