package display

import (
	"fmt"
	"os"

	"github.com/swareham/ffmpegd/internal/logging"
)

// PrintBanner prints the ASCII art banner; uses Magenta if colors are enabled.
func PrintBanner() {
	if logging.Magenta != "" {
		fmt.Fprint(os.Stdout, "\033[1;95m")
	}
	fmt.Fprint(os.Stdout, `  __  __                                _
 / _|/ _|_ __ ___  _ __   ___  __ _  __| |
| |_| |_| '_ ` + "`" + ` _ \| '_ \ / _ \/ _` + "`" + ` |/ _` + "`" + ` |
|  _|  _| | | | | | |_) |  __/ (_| | (_| |
|_| |_| |_| |_| |_| .__/ \___|\__, |\__,_|
                  |_|         |___/
`)
	if logging.Magenta != "" {
		fmt.Fprintln(os.Stdout, logging.NC)
	}
}
