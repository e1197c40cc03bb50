package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/MacroPower/cordova-set-version/internal/cli"
)

const (
	cmdName = "cordova-set-version"

	shortDesc = "Set the version of Cordova projects."
	longDesc  = `cordova-set-version sets the version and build numbers of a Cordova project.

It edits the root <widget> element of config.xml in place, leaving every other
byte of the file untouched, and keeps the version of package.json in sync.
`
)

func main() {
	cmd := cli.NewRootCmd(cmdName, shortDesc, longDesc)

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, strings.TrimLeft(err.Error(), "\n"))
		os.Exit(1)
	}
}
