package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-dungeon/internal/errors"
	"github.com/vovakirdan/tui-dungeon/internal/level"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check level files",
	Long: `Parse and build every level in each file, reporting the first problem
found in a file together with the level, room or hallway it concerns.

Examples:
  dungeon validate levels/dungeon.levels
  dungeon validate levels/*.yaml`,
	Args: cobra.MinimumNArgs(1),
	Run:  runValidate,
}

func runValidate(_ *cobra.Command, args []string) {
	loader := level.NewLoader("")
	failed := 0

	for _, path := range args {
		levels, err := loader.LoadFile(path)
		if err != nil {
			failed++
			fmt.Printf("FAIL  %s\n      %v\n", path, err)
			if loc := location(err); loc != "" {
				fmt.Printf("      at %s\n", loc)
			}
			continue
		}

		fmt.Printf("ok    %s (%d levels)\n", path, len(levels))
		for _, lvl := range levels {
			fmt.Printf("      level %d: %d rooms, %d hallways\n",
				lvl.Index+1, len(lvl.Layout.Rooms), len(lvl.Layout.Halls))
		}
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d files invalid\n", failed, len(args))
		os.Exit(1)
	}
}

// location formats the level/room/hall metadata of a malformed-level error.
func location(err error) string {
	meta := errors.GetMeta(err)
	if len(meta) == 0 {
		return ""
	}
	keys := make([]string, 0, len(meta))
	for k := range meta {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var out string
	for _, k := range keys {
		if out != "" {
			out += ", "
		}
		out += fmt.Sprintf("%s %v", k, meta[k])
	}
	return out
}
