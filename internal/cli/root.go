package cli

import (
	"fmt"
	"os"

	"github.com/rowfilter/rowfilter/internal/cli/commands"
)

// Execute runs the CLI and returns an exit code.
func Execute(argv []string) int {
	if len(argv) == 0 {
		PrintRootHelp(os.Stdout)
		return 0
	}

	verb := argv[0]
	rest := argv[1:]

	switch verb {
	case "--help", "-h", "help":
		PrintRootHelp(os.Stdout)
		return 0
	case "filter":
		return commands.RunFilter(rest)
	case "check":
		return commands.RunCheck(rest)
	case "fields":
		return commands.RunFields(rest)
	case "grep":
		return commands.RunGrep(rest)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n", verb)
		PrintRootHelp(os.Stderr)
		return 2
	}
}
