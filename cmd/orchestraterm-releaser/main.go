package main

import (
	"github.com/orchestraterm/releaser/cmd/orchestraterm-releaser/cmd"
)

func main() {
	cmd.Execute()
}
