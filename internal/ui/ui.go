package ui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/muesli/termenv"
)

type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// ANSI palette indexes.
const (
	red    = "1"
	green  = "2"
	yellow = "3"
	blue   = "4"
)

// UI writes status lines for humans. Errors and warnings go to Err so they
// never mix with exported data on Out.
type UI struct {
	Out          io.Writer
	Err          io.Writer
	Output       *termenv.Output
	ErrOutput    *termenv.Output
	ColorEnabled bool
}

func New(out io.Writer, err io.Writer, mode ColorMode, disableColor bool) *UI {
	output := termenv.NewOutput(out)
	return &UI{
		Out:          out,
		Err:          err,
		Output:       output,
		ErrOutput:    termenv.NewOutput(err),
		ColorEnabled: shouldEnableColor(output, mode, disableColor),
	}
}

func shouldEnableColor(output *termenv.Output, mode ColorMode, disableColor bool) bool {
	if disableColor {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	default:
		return output.ColorProfile() != termenv.Ascii
	}
}

func (u *UI) Errorf(format string, args ...any) {
	u.printf(u.Err, u.ErrOutput, red, format, args...)
}

func (u *UI) Warnf(format string, args ...any) {
	u.printf(u.Err, u.ErrOutput, yellow, format, args...)
}

func (u *UI) Infof(format string, args ...any) {
	u.printf(u.Out, u.Output, blue, format, args...)
}

func (u *UI) Successf(format string, args ...any) {
	u.printf(u.Out, u.Output, green, format, args...)
}

func (u *UI) printf(w io.Writer, output *termenv.Output, color string, format string, args ...any) {
	msg := strings.TrimRight(fmt.Sprintf(format, args...), "\n")
	fmt.Fprintln(w, u.paint(output, color, msg))
}

func (u *UI) paint(output *termenv.Output, color string, text string) string {
	if !u.ColorEnabled || output == nil {
		return text
	}
	return output.String(text).Foreground(output.Color(color)).String()
}

// Quality colors a resume quality label for stderr: green for the top two
// grades, yellow for good and red otherwise.
func (u *UI) Quality(label string) string {
	switch strings.ToLower(label) {
	case "excellent", "very good":
		return u.paint(u.ErrOutput, green, label)
	case "good":
		return u.paint(u.ErrOutput, yellow, label)
	default:
		return u.paint(u.ErrOutput, red, label)
	}
}

func NormalizeColorMode(value string) ColorMode {
	switch value = strings.ToLower(strings.TrimSpace(value)); value {
	case string(ColorAlways):
		return ColorAlways
	case string(ColorNever):
		return ColorNever
	default:
		return ColorAuto
	}
}
