// Package list implements the "nfptool list" command.
package list

import (
	"fmt"

	"github.com/urfave/cli"

	cmdcommon "github.com/corigine/nfptool/cmd/common"
	"github.com/corigine/nfptool/pkg/log"
	"github.com/corigine/nfptool/pkg/nfp"
)

func Command(cliContext *cli.Context) error {
	logLevel := cliContext.String("log-level")
	zapLvl, err := log.ParseLogLevel(logLevel)
	if err != nil {
		return err
	}
	log.Logger = log.CreateLogger(zapLvl, "")

	log.Logger.Debugw("starting list command")

	ifaces, err := nfp.ListInterfaces(nfp.WithSysRoot(cliContext.String("sys-root")))
	if err != nil {
		return err
	}

	out := cliContext.App.Writer
	if len(ifaces) == 0 {
		fmt.Fprintf(out, "%s no NFP network interfaces found\n", cmdcommon.WarningSign)
		return nil
	}

	fmt.Fprintf(out, "%s found %d NFP network interface(s)\n", cmdcommon.CheckMark, len(ifaces))
	ifaces.RenderTable(out)
	return nil
}
