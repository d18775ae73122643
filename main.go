package main

import "github.com/Kaesebrot84/hips-lib/cmd"

// Version is the version of the binary.
var Version = "1.0.0"

func main() {
	cmd.Version = Version
	cmd.Execute()
}
