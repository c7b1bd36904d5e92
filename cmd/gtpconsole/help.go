// =============================================================================
// help.go - REPL Help System
// =============================================================================
//
// .help prints an overview of dot-commands, shorthands and the standard
// GTP commands. .help <topic> prints the entry for one command; the topic
// may be a dot-command (with or without the dot), a shorthand or a GTP
// command name. Lookups are case-insensitive.
//
// =============================================================================

package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// dotHelp documents the REPL's own commands.
var dotHelp = map[string]string{
	"quit": `.quit
    Send quit to the engine, close the connection and exit.
    Ctrl-D does the same.`,

	"help": `.help [topic]
    Show the overview, or the entry for one command.
    Example: .help genmove`,

	"timeout": `.timeout [duration]
    Show or set the timeout for each command. 0 waits forever.
    Example: .timeout 2m`,

	"id": `.id
    Show the session id that tags this console's log records.`,

	"state": `.state
    Show whether the console is open and the engine it talks to.`,
}

// shorthandHelp documents the input shorthands understood by the REPL.
var shorthandHelp = map[string]string{
	"b": `b <vertex> / w <vertex>
    Play a move. "b d4" sends "play black D4", "w pass" sends "play white pass".`,

	"gen": `gen <color>
    Generate a move. "gen w" sends "genmove white". "g" works too.`,

	"size": `size <n>
    Same as boardsize.`,

	"clear": `clear
    Same as clear_board.`,

	"show": `show
    Same as showboard.`,

	"u": `u
    Same as undo.`,

	"score": `score
    Same as final_score.`,

	"list": `list
    Same as list_commands.`,
}

// gtpHelp documents the GTP version 2 standard commands.
var gtpHelp = map[string]string{
	"protocol_version": `protocol_version
    Version of GTP the engine speaks. Answers "2".`,

	"name": `name
    Name of the engine.`,

	"version": `version
    Version of the engine.`,

	"known_command": `known_command <command>
    Answers "true" if the engine implements the command.`,

	"list_commands": `list_commands
    Every command the engine implements, one per line.`,

	"quit": `quit
    Ends the session. Prefer .quit, which also closes the connection.`,

	"boardsize": `boardsize <size>
    Changes the board size. The board is cleared.
    Example: boardsize 19`,

	"clear_board": `clear_board
    Removes all stones and resets captures and history.`,

	"komi": `komi <komi>
    Sets komi.
    Example: komi 6.5`,

	"fixed_handicap": `fixed_handicap <stones>
    Places handicap stones on the standard points. Answers the vertices.`,

	"place_free_handicap": `place_free_handicap <stones>
    Lets the engine choose handicap points. Answers the vertices.`,

	"set_free_handicap": `set_free_handicap <vertex>...
    Places handicap stones on the given vertices.
    Example: set_free_handicap D4 Q16`,

	"play": `play <color> <vertex>
    Plays a move. Columns skip the letter I.
    Example: play black D4`,

	"genmove": `genmove <color>
    The engine generates, plays and answers a move, "pass" or "resign".
    Example: genmove white`,

	"reg_genmove": `reg_genmove <color>
    Like genmove, but the move is not played.`,

	"undo": `undo
    Takes back the last move.`,

	"time_settings": `time_settings <main> <byo-yomi time> <byo-yomi stones>
    Sets Canadian byo-yomi time settings, in seconds.
    Example: time_settings 1800 30 5`,

	"time_left": `time_left <color> <seconds> <stones>
    Tells the engine how much time a player has left.`,

	"final_score": `final_score
    The engine's estimate of the result, e.g. "B+3.5".`,

	"final_status_list": `final_status_list <alive|dead|seki>
    Vertices of stones with the given status.`,

	"loadsgf": `loadsgf <file> [move]
    Loads a game, up to the given move number.`,

	"showboard": `showboard
    Draws the board. Not part of every engine.`,
}

// printHelp prints help for a topic, or the overview when topic is empty.
func printHelp(w io.Writer, topic string) {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" {
		printHelpOverview(w)
		return
	}

	// Strip a leading dot so ".quit" and "quit" both work.
	dotted := strings.HasPrefix(topic, ".")
	topic = strings.TrimPrefix(topic, ".")

	// A dot-command wins over the GTP command of the same name only when
	// the user asked for it with a dot, or no GTP entry exists.
	if text, ok := dotHelp[topic]; ok && (dotted || gtpHelp[topic] == "") {
		fmt.Fprintln(w, text)
		return
	}
	if text, ok := gtpHelp[topic]; ok {
		fmt.Fprintln(w, text)
		return
	}
	if topic == "w" {
		topic = "b"
	}
	if topic == "g" {
		topic = "gen"
	}
	if text, ok := shorthandHelp[topic]; ok {
		fmt.Fprintln(w, text)
		return
	}

	fmt.Fprintf(w, "No help for '%s'. Type .help for a list of commands.\n", topic)
}

// printHelpOverview prints the list of all commands.
func printHelpOverview(w io.Writer) {
	fmt.Fprintln(w, "Console commands:")
	fmt.Fprintln(w, "  .quit              Close the engine and exit")
	fmt.Fprintln(w, "  .help [topic]      Show help")
	fmt.Fprintln(w, "  .timeout [dur]     Show or set the command timeout")
	fmt.Fprintln(w, "  .id                Show the session id")
	fmt.Fprintln(w, "  .state             Show the connection state")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Shorthands:")
	fmt.Fprintln(w, "  b d4, w pass       play black D4, play white pass")
	fmt.Fprintln(w, "  gen b              genmove black")
	fmt.Fprintln(w, "  size, clear, show, u, score, list")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "GTP commands:")
	for _, line := range wrapWords(sortedKeys(gtpHelp), 70) {
		fmt.Fprintln(w, "  "+line)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Anything else is sent to the engine as typed.")
	fmt.Fprintln(w, "Type '.help <command>' for details.")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// wrapWords joins words with spaces into lines no longer than limit.
func wrapWords(words []string, limit int) []string {
	var lines []string
	var current strings.Builder
	for _, word := range words {
		if current.Len() > 0 && current.Len()+1+len(word) > limit {
			lines = append(lines, current.String())
			current.Reset()
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(word)
	}
	if current.Len() > 0 {
		lines = append(lines, current.String())
	}
	return lines
}
