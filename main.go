package main

import (
	"github.com/recordlab/micfx/cmd"
	"github.com/recordlab/micfx/internal/recovery"
)

func main() {
	defer recovery.HandlePanic()
	cmd.Execute()
}
