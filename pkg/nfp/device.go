// Package nfp discovers NFP network interfaces through sysfs.
package nfp

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/procfs/sysfs"

	"github.com/corigine/nfptool/pkg/log"
)

const DefaultSysRoot = "/sys"

var ErrInterfaceNotFound = errors.New("interface not found")

// VendorNames maps the PCI vendor IDs that ship NFP silicon.
var VendorNames = map[string]string{
	"0x19ee": "Netronome",
	"0x1da8": "Corigine",
}

// ChipNames maps the PCI device IDs of NFP physical functions.
var ChipNames = map[string]string{
	"0x3800": "NFP-3800",
	"0x4000": "NFP-4000",
	"0x6000": "NFP-6000",
}

type Op struct {
	sysRoot string
}

type OpOption func(*Op)

func (op *Op) applyOpts(opts []OpOption) {
	for _, opt := range opts {
		opt(op)
	}
	if op.sysRoot == "" {
		op.sysRoot = DefaultSysRoot
	}
}

// WithSysRoot overrides the "/sys" mount point.
func WithSysRoot(dir string) OpOption {
	return func(op *Op) {
		op.sysRoot = dir
	}
}

// Interface is a netdev backed by an NFP PCI function.
type Interface struct {
	Name       string
	PCIAddress string
	VendorID   string
	DeviceID   string
	Driver     string

	// From the netdev class attributes; empty or nil when unavailable.
	OperState string
	SpeedMbps *int64
	MTU       *int64
}

// Vendor returns the vendor name, or the raw ID when unknown.
func (i Interface) Vendor() string {
	if n, ok := VendorNames[i.VendorID]; ok {
		return n
	}
	return i.VendorID
}

// Chip returns the chip name for physical functions, or the raw device ID
// for virtual functions and unknown parts.
func (i Interface) Chip() string {
	if n, ok := ChipNames[i.DeviceID]; ok {
		return n
	}
	return i.DeviceID
}

// IsPF is true for physical function netdevs.
func (i Interface) IsPF() bool {
	_, ok := ChipNames[i.DeviceID]
	return ok
}

type Interfaces []Interface

// ListInterfaces returns every NFP netdev sorted by name.
func ListInterfaces(opts ...OpOption) (Interfaces, error) {
	op := &Op{}
	op.applyOpts(opts)

	netDir := filepath.Join(op.sysRoot, "class", "net")
	entries, err := os.ReadDir(netDir)
	if err != nil {
		return nil, fmt.Errorf("could not list %q: %w", netDir, err)
	}

	fs, err := sysfs.NewFS(op.sysRoot)
	if err != nil {
		return nil, err
	}

	var ifaces Interfaces
	for _, e := range entries {
		iface, ok, err := readInterface(op.sysRoot, e.Name())
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		fillClassAttributes(fs, &iface)
		ifaces = append(ifaces, iface)
	}

	sort.Slice(ifaces, func(i, j int) bool {
		return ifaces[i].Name < ifaces[j].Name
	})
	return ifaces, nil
}

// Lookup returns the interface and whether it is backed by an NFP.
// It returns ErrInterfaceNotFound when the netdev does not exist.
func Lookup(name string, opts ...OpOption) (Interface, bool, error) {
	op := &Op{}
	op.applyOpts(opts)

	if _, err := os.Stat(filepath.Join(op.sysRoot, "class", "net", name)); err != nil {
		if os.IsNotExist(err) {
			return Interface{}, false, fmt.Errorf("%w: %q", ErrInterfaceNotFound, name)
		}
		return Interface{}, false, err
	}

	iface, ok, err := readInterface(op.sysRoot, name)
	if err != nil {
		return Interface{}, false, err
	}
	if !ok {
		return Interface{Name: name}, false, nil
	}
	return iface, true, nil
}

// readInterface returns false for netdevs without a PCI device (e.g., "lo")
// and for other vendors.
func readInterface(sysRoot string, name string) (Interface, bool, error) {
	devDir := filepath.Join(sysRoot, "class", "net", name, "device")

	vendor, err := readAttr(filepath.Join(devDir, "vendor"))
	if err != nil {
		if os.IsNotExist(err) {
			return Interface{}, false, nil
		}
		return Interface{}, false, err
	}
	if _, ok := VendorNames[vendor]; !ok {
		return Interface{}, false, nil
	}

	device, err := readAttr(filepath.Join(devDir, "device"))
	if err != nil {
		return Interface{}, false, err
	}

	iface := Interface{
		Name:     name,
		VendorID: vendor,
		DeviceID: device,
	}

	if p, err := filepath.EvalSymlinks(devDir); err == nil {
		iface.PCIAddress = filepath.Base(p)
	}
	if p, err := filepath.EvalSymlinks(filepath.Join(devDir, "driver")); err == nil {
		iface.Driver = filepath.Base(p)
	}
	return iface, true, nil
}

// fillClassAttributes adds operstate, speed and MTU. A down link has no
// readable speed, so failures only leave the fields empty.
func fillClassAttributes(fs sysfs.FS, iface *Interface) {
	nc, err := fs.NetClassByIface(iface.Name)
	if err != nil {
		log.Logger.Debugw("failed to read net class attributes", "interface", iface.Name, "error", err)
		return
	}
	iface.OperState = nc.OperState
	iface.SpeedMbps = nc.Speed
	iface.MTU = nc.MTU
}

func readAttr(p string) (string, error) {
	b, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	return strings.ToLower(strings.TrimSpace(string(b))), nil
}

func (ifaces Interfaces) RenderTable(wr io.Writer) {
	table := tablewriter.NewWriter(wr)
	table.SetHeader([]string{"Interface", "PCI Address", "Vendor", "Chip", "Driver", "State", "Speed", "MTU"})
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	for _, i := range ifaces {
		table.Append([]string{
			i.Name,
			orDash(i.PCIAddress),
			i.Vendor(),
			i.Chip(),
			orDash(i.Driver),
			orDash(i.OperState),
			formatSpeed(i.SpeedMbps),
			formatInt(i.MTU),
		})
	}
	table.Render()
}

func formatSpeed(v *int64) string {
	if v == nil || *v <= 0 {
		return "-"
	}
	if *v%1000 == 0 {
		return strconv.FormatInt(*v/1000, 10) + "G"
	}
	return strconv.FormatInt(*v, 10) + "M"
}

func formatInt(v *int64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatInt(*v, 10)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
