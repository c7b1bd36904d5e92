// Package gtp implements the controller side of the Go Text Protocol
// (GTP version 2): it encodes commands, drives a Go engine over a byte
// stream and decodes the engine's responses.
//
// # Protocol Overview
//
// GTP is a line-oriented text protocol. The controller writes one command
// per line; the engine answers each command with a response block that
// ends at the first empty line.
//
//	Request (Controller -> Engine):  [id ]<command> [arguments...]\n
//	Success Response:                =[id] <response-data>\n\n
//	Failure Response:                ?[id] <error-message>\n\n
//
// Lines between the header and the terminating empty line belong to the
// same payload and are joined with "\n".
//
//	CTL: 1 boardsize 19
//	ENG: =1
//	ENG:
//	CTL: 2 play black D4
//	ENG: =2
//	ENG:
//	CTL: 3 genmove white
//	ENG: =3 Q16
//	ENG:
//
// # Basic Usage
//
// Start an engine and talk to it:
//
//	console, err := gtp.OpenProcess(gtp.ProcessConfig{
//	    Path: "gnugo",
//	    Args: []string{"--mode", "gtp"},
//	}, gtp.WithCommandTimeout(30*time.Second))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer console.Close()
//
//	resp, err := console.Send(gtp.NewBoardSizeCommand(19))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if resp.IsFailure() {
//	    fmt.Println("engine refused:", resp.Data)
//	}
//
// Engines listening on a socket are reached with OpenSocket, and engines
// behind a websocket bridge with OpenWebSocket. Any other byte stream can
// be wrapped with NewConsole once it implements Transport.
//
// # Commands and Values
//
// A Command is a name with typed arguments: Int, Float, Bool, String,
// Color, Vertex and Move. Each renders itself in the wire form GTP expects,
// independent of the host locale. Columns skip the letter I, so column 9
// is J:
//
//	gtp.NewPlayCommand(gtp.Move{Color: gtp.Black, Vertex: gtp.Point(9, 9)})
//	// play black J9
//
// The constructors in this package cover the standard command set.
// Extensions are sent with NewCommand, or as typed text with SendRaw:
//
//	resp, err := console.SendRaw("kgs-genmove_cleanup black")
//
// # Dialects
//
// By default every command carries an id and responses are matched by the
// id the engine echoes (DialectCorrelated). A response that arrives after
// its sender timed out is parked and can never be mistaken for the answer
// to a later command. Engines that do not echo ids can be driven with
// DialectFIFO, which matches responses by arrival order.
//
// # Errors
//
// A failure response is a normal Response, not an error. The errors
// returned by Send are ErrEngineClosed, ErrEngineTimedOut, and the
// terminal *ProtocolError (matching ErrProtocolDesync) or *TransportError
// (matching ErrTransportFailure) that ended the session.
//
// # Thread Safety
//
// Console is safe for concurrent use from multiple goroutines. Commands are
// written one at a time in a strict order; waiting for an answer does not
// block other senders.
package gtp
