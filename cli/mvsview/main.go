// Package main is the mvsview command itself.
package main

import (
	"os"

	"go.viam.com/mvs/cli"
	"go.viam.com/mvs/logging"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		logging.NewWriterLogger("mvsview", logging.INFO, os.Stderr).Fatal(err)
	}
}
