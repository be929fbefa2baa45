package command

import (
	"github.com/urfave/cli"

	cmdlist "github.com/corigine/nfptool/cmd/nfptool/list"
	cmdwatch "github.com/corigine/nfptool/cmd/nfptool/watch"
	"github.com/corigine/nfptool/pkg/statwatch"
	"github.com/corigine/nfptool/version"
)

const usage = `
# to find the NFP interfaces on this machine
nfptool list

# to watch the counters of one interface, all colors on
nfptool watch -c enp1s0np0
`

func App() *cli.App {
	app := cli.NewApp()

	app.Name = "nfptool"
	app.Version = version.String()
	app.Usage = usage
	app.Description = "NFP network interface diagnostics"

	app.Commands = []cli.Command{
		{
			Name:  "watch",
			Usage: "watch the counters of one interface (rate, session delta and total, refreshed every second)",
			UsageText: `# sysfs statistics and "ethtool -S" counters
nfptool watch enp1s0np0

# only driver counters, colored, without byte counters
nfptool watch -E -c -x bytes enp1s0np0

# only queue counters, but not queue 0
nfptool watch -f '^rxq_' -f '^txq_' -x '_0_' enp1s0np0

# exclude takes precedence over filter, both can be repeated
`,
			ArgsUsage: "<interface>",
			Action:    cmdwatch.Command,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level,l",
					Usage: "set the logging level [debug, info, warn, error, fatal, panic, dpanic]",
					Value: "warn",
				},
				&cli.StringFlag{
					Name:  "log-file",
					Usage: "set the log file path (set empty to stderr)",
				},

				// sources
				&cli.BoolFlag{
					Name:  "ethtool-only,E",
					Usage: "show only driver statistics (exclude the sysfs interface statistics)",
				},
				&cli.BoolFlag{
					Name:  "no-ethtool",
					Usage: "show only the sysfs interface statistics",
				},
				&cli.BoolFlag{
					Name:  "ethtool-ioctl",
					Usage: "read driver statistics with the ethtool ioctl instead of running 'ethtool -S'",
				},

				// colors
				&cli.BoolFlag{
					Name:  "color,c",
					Usage: "enable all colors and dim idle stats",
				},
				&cli.BoolFlag{
					Name:  "color-rx",
					Usage: "color RX stats",
				},
				&cli.BoolFlag{
					Name:  "color-tx",
					Usage: "color TX stats",
				},
				&cli.BoolFlag{
					Name:  "color-err",
					Usage: "color error stats",
				},
				&cli.BoolFlag{
					Name:  "color-disc",
					Usage: "color discard stats",
				},
				&cli.BoolFlag{
					Name:  "dim,d",
					Usage: "dim idle stats",
				},

				// filters
				&cli.StringSliceFlag{
					Name:  "filter,f",
					Usage: "include only stats that match the pattern (regular expression, repeatable)",
				},
				&cli.StringSliceFlag{
					Name:  "exclude,x",
					Usage: "exclude stats which match the pattern (regular expression, repeatable)",
				},

				&cli.DurationFlag{
					Name:  "interval",
					Usage: "refresh interval",
					Value: statwatch.DefaultInterval,
				},
				&cli.StringFlag{
					Name:   "sys-root",
					Usage:  "sysfs mount point",
					Hidden: true,
				},
			},
		},
		{
			Name:   "list",
			Usage:  "list network interfaces backed by NFP devices",
			Action: cmdlist.Command,
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "log-level,l",
					Usage: "set the logging level [debug, info, warn, error, fatal, panic, dpanic]",
					Value: "warn",
				},
				&cli.StringFlag{
					Name:   "sys-root",
					Usage:  "sysfs mount point",
					Hidden: true,
				},
			},
		},
	}

	return app
}
