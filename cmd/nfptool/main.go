package main

import (
	"fmt"
	"io"
	"os"

	cmdcommon "github.com/corigine/nfptool/cmd/common"
	"github.com/corigine/nfptool/cmd/nfptool/command"
)

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	app := command.App()
	app.Writer = stdout
	app.ErrWriter = stderr

	if err := app.Run(args); err != nil {
		fmt.Fprintf(stderr, "%s %s\n", cmdcommon.WarningSign, err)
		return 1
	}
	return 0
}
