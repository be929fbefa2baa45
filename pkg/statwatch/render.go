package statwatch

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"math/big"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// DefaultColumns is assumed when the terminal width is unknown.
const DefaultColumns = 80

// baseWidths are the STAT, RATE, SESSION and TOTAL column widths at
// DefaultColumns. The key shares its column with RATE.
var baseWidths = [4]int{26, 13, 19, 19}

// columnWidths spreads the extra terminal width evenly over the four
// columns. The last column takes the rounding remainder.
func columnWidths(columns int) [4]int {
	w := baseWidths
	for i := 0; i < 3; i++ {
		w[i] += (columns - DefaultColumns) / 4
	}
	w[3] += (columns + 3 - DefaultColumns) / 4
	return w
}

// TerminalWidth returns the width of w if it is a terminal,
// or DefaultColumns otherwise.
func TerminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return DefaultColumns
	}
	cols, _, err := term.GetSize(int(f.Fd()))
	if err != nil || cols <= 0 {
		return DefaultColumns
	}
	return cols
}

// Renderer draws full-screen frames.
type Renderer struct {
	out     *termenv.Output
	profile termenv.Profile
	colors  ColorRules
	dimIdle bool
}

// NewRenderer writes frames to w. With the termenv.Ascii profile frames
// are plain text and the screen is not cleared.
func NewRenderer(w io.Writer, profile termenv.Profile, colors ColorRules, dimIdle bool) *Renderer {
	return &Renderer{
		out:     termenv.NewOutput(w, termenv.WithProfile(profile)),
		profile: profile,
		colors:  colors,
		dimIdle: dimIdle,
	}
}

// Frame formats the header and rows for a terminal of the given width.
func (r *Renderer) Frame(title string, columns int, rows []Row) string {
	w := columnWidths(columns)

	var buf bytes.Buffer
	buf.WriteString(title)
	buf.WriteByte('\n')

	header := fmt.Sprintf("STAT %*s %*s %*s", w[0]+w[1]-4, "RATE", w[2], "SESSION", w[3], "TOTAL")
	buf.WriteString(r.out.String(header).Underline().Bold().String())
	buf.WriteByte('\n')

	for _, row := range rows {
		keyWidth := max(w[0]+w[1]-len(row.Key), 1)
		line := fmt.Sprintf("%s %*s %*s %*s",
			row.Key,
			keyWidth, humanize.Comma(row.Rate),
			w[2], humanize.Comma(row.Session),
			w[3], commaUint(row.Total),
		)

		style := r.out.String(line).Foreground(r.colors.Resolve(row.Key))
		if r.dimIdle && row.Idle() {
			style = style.Faint()
		}
		buf.WriteString(style.String())
		buf.WriteByte('\n')
	}
	return buf.String()
}

// Draw replaces the screen contents with one frame.
func (r *Renderer) Draw(title string, columns int, rows []Row) error {
	r.clear()
	_, err := io.WriteString(r.out, r.Frame(title, columns, rows))
	return err
}

// DrawReadFailure replaces the table with a read failure notice.
func (r *Renderer) DrawReadFailure(ifc string) error {
	r.clear()
	_, err := fmt.Fprintf(r.out, "Reading stats from device %s failed\n", r.out.String(ifc).Bold())
	return err
}

// Exit prints the final status line.
func (r *Renderer) Exit() error {
	_, err := io.WriteString(r.out, " Exiting...\n")
	return err
}

func (r *Renderer) clear() {
	if r.profile == termenv.Ascii {
		return
	}
	r.out.ClearScreen()
}

func commaUint(v uint64) string {
	if v <= math.MaxInt64 {
		return humanize.Comma(int64(v))
	}
	return humanize.BigComma(new(big.Int).SetUint64(v))
}
