package main

import (
	"os"

	"github.com/pterm/pterm"

	"lectern/app"
	"lectern/config"
)

func run(args []string) error {
	return app.Get().Run(args)
}

func main() {
	config.InitializePaths()
	config.InitLogging()

	if err := run(os.Args); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}
