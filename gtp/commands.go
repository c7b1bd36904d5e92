package gtp

import "strings"

// Command constructors for the GTP version 2 standard command set. They are
// thin wrappers over NewCommand; anything else can be sent with NewCommand or
// Console.SendRaw.

// NewProtocolVersionCommand creates a protocol_version command.
func NewProtocolVersionCommand() Command {
	return NewCommand("protocol_version")
}

// NewNameCommand creates a name command.
func NewNameCommand() Command {
	return NewCommand("name")
}

// NewVersionCommand creates a version command.
func NewVersionCommand() Command {
	return NewCommand("version")
}

// NewKnownCommandCommand asks whether the engine implements name.
func NewKnownCommandCommand(name string) Command {
	return NewCommand("known_command", String{s: name})
}

// NewListCommandsCommand creates a list_commands command.
func NewListCommandsCommand() Command {
	return NewCommand("list_commands")
}

// NewQuitCommand creates a quit command.
func NewQuitCommand() Command {
	return NewCommand("quit")
}

// NewBoardSizeCommand creates a boardsize command.
func NewBoardSizeCommand(size uint) Command {
	return NewCommand("boardsize", Int(size))
}

// NewClearBoardCommand creates a clear_board command.
func NewClearBoardCommand() Command {
	return NewCommand("clear_board")
}

// NewKomiCommand creates a komi command.
func NewKomiCommand(komi float64) Command {
	return NewCommand("komi", Float(komi))
}

// NewFixedHandicapCommand creates a fixed_handicap command.
func NewFixedHandicapCommand(stones uint) Command {
	return NewCommand("fixed_handicap", Int(stones))
}

// NewPlaceFreeHandicapCommand creates a place_free_handicap command.
func NewPlaceFreeHandicapCommand(stones uint) Command {
	return NewCommand("place_free_handicap", Int(stones))
}

// NewSetFreeHandicapCommand creates a set_free_handicap command.
func NewSetFreeHandicapCommand(vertices ...Vertex) Command {
	args := make([]Value, len(vertices))
	for i, v := range vertices {
		args[i] = v
	}
	return NewCommand("set_free_handicap", args...)
}

// NewPlayCommand creates a play command.
func NewPlayCommand(move Move) Command {
	return NewCommand("play", move)
}

// NewGenMoveCommand creates a genmove command.
func NewGenMoveCommand(color Color) Command {
	return NewCommand("genmove", color)
}

// NewRegGenMoveCommand creates a reg_genmove command, which generates a move
// without playing it.
func NewRegGenMoveCommand(color Color) Command {
	return NewCommand("reg_genmove", color)
}

// NewUndoCommand creates an undo command.
func NewUndoCommand() Command {
	return NewCommand("undo")
}

// NewTimeSettingsCommand creates a time_settings command. Times are in
// seconds; byoYomiStones of 0 with byoYomiTime above 0 means no time limit.
func NewTimeSettingsCommand(mainTime, byoYomiTime, byoYomiStones uint) Command {
	return NewCommand("time_settings", Int(mainTime), Int(byoYomiTime), Int(byoYomiStones))
}

// NewTimeLeftCommand creates a time_left command.
func NewTimeLeftCommand(color Color, seconds, stones uint) Command {
	return NewCommand("time_left", color, Int(seconds), Int(stones))
}

// NewFinalScoreCommand creates a final_score command.
func NewFinalScoreCommand() Command {
	return NewCommand("final_score")
}

// FinalStatus is a stone status accepted by final_status_list.
type FinalStatus string

const (
	StatusAlive FinalStatus = "alive"
	StatusDead  FinalStatus = "dead"
	StatusSeki  FinalStatus = "seki"
)

// NewFinalStatusListCommand creates a final_status_list command.
func NewFinalStatusListCommand(status FinalStatus) Command {
	return NewCommand("final_status_list", String{s: string(status)})
}

// NewLoadSGFCommand creates a loadsgf command. A moveNumber of 0 loads the
// whole game.
func NewLoadSGFCommand(filename string, moveNumber uint) Command {
	if moveNumber == 0 {
		return NewCommand("loadsgf", String{s: filename})
	}
	return NewCommand("loadsgf", String{s: filename}, Int(moveNumber))
}

// NewShowBoardCommand creates a showboard command.
func NewShowBoardCommand() Command {
	return NewCommand("showboard")
}

// ParseGenMove interprets a genmove answer. It returns ErrResign when the
// engine resigned.
func ParseGenMove(data string) (Vertex, error) {
	if strings.EqualFold(strings.TrimSpace(data), ResignToken) {
		return Vertex{}, ErrResign
	}
	return ParseVertex(data)
}
