package main

import (
	"os"

	"authcheck-cli/commands"
)

// Version is set at build time
var Version = "dev"

func main() {
	os.Exit(commands.Main(Version))
}
