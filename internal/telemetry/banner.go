package telemetry

import (
	"fmt"
	"io"

	"github.com/common-nighthawk/go-figure"
)

// BannerOptions configures the startup banner.
type BannerOptions struct {
	ShowBanner  bool
	ShowVersion bool
}

// DefaultBannerOptions returns the standard full banner.
func DefaultBannerOptions() BannerOptions {
	return BannerOptions{ShowBanner: true, ShowVersion: true}
}

// PrintBanner writes the driver's startup banner to w.
func PrintBanner(w io.Writer, version string, opts BannerOptions) {
	if w == nil {
		return
	}
	if !opts.ShowBanner {
		if opts.ShowVersion {
			fmt.Fprintf(w, "vc4c-go v%s\n", version)
		}
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintln(w, ASCIILogo())
	if opts.ShowVersion {
		fmt.Fprintf(w, "vc4c-go v%s\n", version)
	}
	fmt.Fprintln(w)
}

// ASCIILogo renders the driver name as ASCII art.
func ASCIILogo() string {
	fig := figure.NewFigure("vc4c-go", "standard", true)
	return fig.String()
}

// CompactBanner returns a single-line banner for non-TTY output.
func CompactBanner(version string) string {
	return fmt.Sprintf("vc4c-go v%s", version)
}

// ShouldShowBanner reports whether the banner should print, given the
// --no-banner flag and whether output is a terminal.
func ShouldShowBanner(isTTY bool, noBannerFlag bool) bool {
	if noBannerFlag {
		return false
	}
	return isTTY
}
