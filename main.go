package main

import (
	"github.com/notedown-sh/notedown/cmd"
	"github.com/notedown-sh/notedown/internal/logging"
	"github.com/notedown-sh/notedown/internal/status"
)

func main() {
	defer logging.RecoverPanic("main", func() {
		status.Error("Application terminated due to unhandled panic")
	})

	cmd.Execute()
}
