package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func helpText(topic string) string {
	var buf bytes.Buffer
	printHelp(&buf, topic)
	return buf.String()
}

func TestPrintHelp_Overview(t *testing.T) {
	out := helpText("")

	for _, want := range []string{".quit", ".help", ".timeout", ".id", ".state", "genmove", "showboard"} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, out, helpText("   "))
}

func TestPrintHelp_OverviewListsEveryGTPCommand(t *testing.T) {
	out := helpText("")
	for name := range gtpHelp {
		assert.Contains(t, out, name)
	}
}

func TestPrintHelp_Topics(t *testing.T) {
	tests := []struct {
		topic string
		want  string
	}{
		{"genmove", "genmove <color>"},
		{"GENMOVE", "genmove <color>"},
		{".timeout", ".timeout [duration]"},
		{"timeout", ".timeout [duration]"},
		{"quit", "Ends the session"},
		{".quit", "Send quit to the engine"},
		{"w", "b <vertex> / w <vertex>"},
		{"g", "gen <color>"},
		{"size", "Same as boardsize"},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			assert.Contains(t, helpText(tt.topic), tt.want)
		})
	}
}

func TestPrintHelp_Unknown(t *testing.T) {
	assert.Contains(t, helpText("frobnicate"), "No help for 'frobnicate'")
}

func TestWrapWords(t *testing.T) {
	lines := wrapWords(strings.Fields("aaa bbb ccc ddd"), 7)
	assert.Equal(t, []string{"aaa bbb", "ccc ddd"}, lines)
	assert.Nil(t, wrapWords(nil, 10))
}

func TestHelpEntriesStartWithTheirName(t *testing.T) {
	for name, text := range gtpHelp {
		assert.True(t, strings.HasPrefix(text, name), name)
	}
	for name, text := range dotHelp {
		assert.True(t, strings.HasPrefix(text, "."+name), name)
	}
}
