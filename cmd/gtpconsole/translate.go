// =============================================================================
// translate.go - REPL Input Translation
// =============================================================================
//
// Turns what the user types into a GTP command line. Anything that is not
// a shorthand is passed through unchanged, so every engine extension stays
// reachable. Shorthands:
//
//   b d4 / w q16 / black pass    →  play <color> <VERTEX>
//   gen b / g w                  →  genmove <color>
//   size 19                      →  boardsize 19
//   clear                        →  clear_board
//   show                         →  showboard
//   u                            →  undo
//   score                        →  final_score
//
// Full-width characters (as typed with a CJK input method active) are
// folded to their ASCII forms first, so "ｂ　ｄ４" works like "b d4".
//
// =============================================================================

package main

import (
	"strings"

	"github.com/Ekenstein/gogtp/gtp"
	"golang.org/x/text/width"
)

// aliases maps single-word shorthands to GTP command names. Arguments
// following the shorthand are kept.
var aliases = map[string]string{
	"size":  "boardsize",
	"clear": "clear_board",
	"show":  "showboard",
	"board": "showboard",
	"u":     "undo",
	"score": "final_score",
	"list":  "list_commands",
}

// genmoveWords introduce a genmove shorthand.
var genmoveWords = map[string]bool{
	"gen": true,
	"g":   true,
}

// normalizeInput folds full-width characters and trims the line.
func normalizeInput(line string) string {
	return strings.TrimSpace(width.Fold.String(line))
}

// translateInput converts a REPL line into the command line to send.
func translateInput(line string) string {
	line = normalizeInput(line)
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return ""
	}

	first := strings.ToLower(fields[0])

	// Color and vertex: a move.
	if len(fields) == 2 {
		if color, err := gtp.ParseColor(first); err == nil {
			if vertex, err := gtp.ParseVertex(fields[1]); err == nil {
				return gtp.NewPlayCommand(gtp.Move{Color: color, Vertex: vertex}).Format()
			}
		}
	}

	// gen <color>
	if genmoveWords[first] && len(fields) == 2 {
		if color, err := gtp.ParseColor(fields[1]); err == nil {
			return gtp.NewGenMoveCommand(color).Format()
		}
	}

	if name, ok := aliases[first]; ok {
		return strings.Join(append([]string{name}, fields[1:]...), " ")
	}

	return line
}
