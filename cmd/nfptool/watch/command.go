// Package watch implements the "nfptool watch" command.
package watch

import (
	"context"
	"errors"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/muesli/termenv"
	"github.com/urfave/cli"
	"golang.org/x/sys/unix"
	"golang.org/x/term"

	"github.com/corigine/nfptool/pkg/log"
	"github.com/corigine/nfptool/pkg/nfp"
	"github.com/corigine/nfptool/pkg/statwatch"
)

var errTooManyArgs = errors.New("expected exactly one interface name")

type flags struct {
	ethtoolOnly  bool
	noEthtool    bool
	ethtoolIoctl bool

	colorAll     bool
	colorRx      bool
	colorTx      bool
	colorErr     bool
	colorDiscard bool
	dim          bool

	include []string
	exclude []string

	interval time.Duration
}

func parseFlags(cliContext *cli.Context) flags {
	return flags{
		ethtoolOnly:  cliContext.Bool("ethtool-only"),
		noEthtool:    cliContext.Bool("no-ethtool"),
		ethtoolIoctl: cliContext.Bool("ethtool-ioctl"),
		colorAll:     cliContext.Bool("color"),
		colorRx:      cliContext.Bool("color-rx"),
		colorTx:      cliContext.Bool("color-tx"),
		colorErr:     cliContext.Bool("color-err"),
		colorDiscard: cliContext.Bool("color-disc"),
		dim:          cliContext.Bool("dim"),
		include:      cliContext.StringSlice("filter"),
		exclude:      cliContext.StringSlice("exclude"),
		interval:     cliContext.Duration("interval"),
	}
}

// buildConfig turns the parsed flags into the watcher configuration.
func buildConfig(ifc string, sysRoot string, f flags) (statwatch.Config, error) {
	filters, err := statwatch.NewFilterSet(f.include, f.exclude)
	if err != nil {
		return statwatch.Config{}, err
	}

	cfg := statwatch.Config{
		Interface:    ifc,
		Sysfs:        !f.ethtoolOnly,
		Ethtool:      !f.noEthtool,
		EthtoolIoctl: f.ethtoolIoctl,
		Filters:      filters,
		DimIdle:      f.dim || f.colorAll,
		Interval:     f.interval,
	}
	if sysRoot != "" {
		cfg.SysfsRoot = filepath.Join(sysRoot, "class", "net")
	}

	if f.colorAll {
		cfg.Colors = statwatch.AllColorRules()
	} else {
		if f.colorDiscard {
			cfg.Colors = append(cfg.Colors, statwatch.DiscardColorRules...)
		}
		if f.colorErr {
			cfg.Colors = append(cfg.Colors, statwatch.ErrorColorRules...)
		}
		if f.colorRx {
			cfg.Colors = append(cfg.Colors, statwatch.RxColorRules...)
		}
		if f.colorTx {
			cfg.Colors = append(cfg.Colors, statwatch.TxColorRules...)
		}
	}

	return cfg, cfg.Validate()
}

func Command(cliContext *cli.Context) error {
	logLevel := cliContext.String("log-level")
	zapLvl, err := log.ParseLogLevel(logLevel)
	if err != nil {
		return err
	}
	log.Logger = log.CreateLogger(zapLvl, cliContext.String("log-file"))
	defer func() {
		_ = log.Logger.Desugar().Sync()
	}()

	log.Logger.Debugw("starting watch command")

	if n := cliContext.NArg(); n != 1 {
		_ = cli.ShowCommandHelp(cliContext, "watch")
		if n == 0 {
			return statwatch.ErrInterfaceRequired
		}
		return errTooManyArgs
	}
	ifc := cliContext.Args().First()
	sysRoot := cliContext.String("sys-root")

	iface, isNFP, err := nfp.Lookup(ifc, nfp.WithSysRoot(sysRoot))
	if err != nil {
		_ = cli.ShowCommandHelp(cliContext, "watch")
		return err
	}
	if !isNFP {
		log.Logger.Warnw("interface is not backed by an NFP device", "interface", ifc)
	} else {
		log.Logger.Infow("watching NFP interface", "interface", ifc, "pci", iface.PCIAddress, "chip", iface.Chip())
	}

	cfg, err := buildConfig(ifc, sysRoot, parseFlags(cliContext))
	if err != nil {
		_ = cli.ShowCommandHelp(cliContext, "watch")
		return err
	}

	out := cliContext.App.Writer
	w, err := statwatch.New(cfg, out, statwatch.WithProfile(profileFor(out)))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), unix.SIGINT, unix.SIGTERM)
	defer stop()

	return w.Run(ctx)
}

// profileFor enables ANSI styling only when writing to a terminal.
func profileFor(out io.Writer) termenv.Profile {
	f, ok := out.(*os.File)
	if ok && term.IsTerminal(int(f.Fd())) {
		return termenv.ANSI
	}
	return termenv.Ascii
}
