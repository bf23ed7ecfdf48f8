package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Blue   = "\033[34m"
)

// RGB represents a TrueColor
type RGB struct {
	R, G, B float64
}

var (
	BrandBlue   = RGB{0, 120, 255}
	BrandPurple = RGB{189, 52, 235}
)

// disableColor is a cached check for the environment variable
var disableColor = checkNoColor()

func checkNoColor() bool {
	_, exists := os.LookupEnv("NO_COLOR")
	return exists
}

// Style wraps text in a specific color code
func Style(text string, colorCode string) string {
	if disableColor {
		return text
	}
	return colorCode + text + Reset
}

// Gradient colors each rune of text along a linear blend from start to end.
func Gradient(text string, start, end RGB) string {
	if disableColor {
		return text
	}
	runes := []rune(text)
	if len(runes) == 0 {
		return text
	}

	var b strings.Builder
	for i, r := range runes {
		progress := 0.0
		if len(runes) > 1 {
			progress = float64(i) / float64(len(runes)-1)
		}
		fmt.Fprintf(&b, "\033[38;2;%d;%d;%dm%c",
			int(start.R+(end.R-start.R)*progress),
			int(start.G+(end.G-start.G)*progress),
			int(start.B+(end.B-start.B)*progress),
			r,
		)
	}
	b.WriteString(Reset)
	return b.String()
}

func CheckMark() string {
	return Style("✔", Green)
}

func CrossMark() string {
	return Style("✘", Red)
}

// BannerInfo is what the startup banner reports.
type BannerInfo struct {
	Version  string
	Addr     string
	Provider string
	Model    string
	MockMode bool
	Storage  string
}

// PrintBanner writes the startup summary to w.
func PrintBanner(w io.Writer, info BannerInfo) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "  %s %s\n", Gradient("scribe", BrandBlue, BrandPurple), Style(info.Version, Bold))
	fmt.Fprintf(w, "  %s listening on %s\n", CheckMark(), info.Addr)

	provider := info.Provider
	if info.Model != "" {
		provider += " (" + info.Model + ")"
	}
	mark := CheckMark()
	if info.MockMode {
		mark = Style("!", Yellow)
		provider += ", mock mode"
	}
	fmt.Fprintf(w, "  %s provider %s\n", mark, provider)

	if info.Storage == "" {
		fmt.Fprintf(w, "  %s generation log disabled\n", CrossMark())
	} else {
		fmt.Fprintf(w, "  %s generation log at %s\n", CheckMark(), info.Storage)
	}
	fmt.Fprintln(w)
}
