package display

import (
	"fmt"
	"os"

	"github.com/backmassage/vidmaker/internal/term"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	fmt.Fprint(os.Stdout, term.Paint(term.Magenta, ` _    _     _                 _
| |  | (_) __| |_ __ ___   __ _| | _____ _ __
| |  | | |/ _`+"`"+` | '_ `+"`"+` _ \ / _`+"`"+` | |/ / _ \ '__|
 \ \/ /| | (_| | | | | | | (_| |   <  __/ |
  \__/ |_|\__,_|_| |_| |_|\__,_|_|\_\___|_|
`))
	fmt.Fprintln(os.Stdout)
}
