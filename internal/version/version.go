// Package version carries build information for the circa CLI.
package version

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// These can be overridden at build time via -ldflags "-X circa/internal/version.Version=...".
var (
	Version   = "0.1.0-dev"
	GitCommit = ""
	BuildDate = ""
)

var (
	majorColor = color.New(color.FgYellow, color.Bold)
	minorColor = color.New(color.FgGreen, color.Bold)
	patchColor = color.New(color.FgBlue, color.Bold)
)

// Colored renders Version with each numeric part in its own colour. Versions
// that are not `x.y.z[-suffix]` come back unchanged.
func Colored(enabled bool) string {
	core, suffix, _ := strings.Cut(Version, "-")
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return Version
	}
	paint := []*color.Color{majorColor, minorColor, patchColor}
	for i, c := range paint {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		parts[i] = c.Sprint(parts[i])
	}
	out := strings.Join(parts, ".")
	if suffix != "" {
		out += "-" + suffix
	}
	return out
}

// Print writes the banner shown by `circa version`.
func Print(w io.Writer, colored bool) {
	fmt.Fprintf(w, "circa %s\n", Colored(colored))
	if GitCommit != "" {
		fmt.Fprintf(w, "commit: %s\n", GitCommit)
	}
	if BuildDate != "" {
		fmt.Fprintf(w, "built:  %s\n", BuildDate)
	}
}
