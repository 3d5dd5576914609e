package cli

import (
	"fmt"
	"os"
)

// printSystemMessage prints a standardized system message to stderr,
// keeping stdout free for converted data.
func printSystemMessage(cfg Config, format string, args ...any) {
	w := cfg.Stderr
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, ">>> %s\n", fmt.Sprintf(format, args...))
}
