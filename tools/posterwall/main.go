package main

import (
	"os"

	"github.com/perpetuallyhorni/posterwall/tools/posterwall/cmd"
)

// version is set at build time with -ldflags "-X main.version=v1.2".
var version = "dev"

func main() {
	cmd.SetVersion(version)
	os.Exit(cmd.Execute())
}
