package extract

import (
	"strings"
	"testing"
)

func TestParseVTT(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name: "basic captions",
			input: "WEBVTT\n\n00:00:00.000 --> 00:00:02.000\nchop the onions\n\n" +
				"00:00:02.000 --> 00:00:04.000\nadd them to the pan\n",
			expected: "chop the onions add them to the pan",
		},
		{
			name: "numeric cue identifiers",
			input: "WEBVTT\n\n1\n00:00:00.000 --> 00:00:02.000\nfirst line\n\n" +
				"2\n00:00:02.000 --> 00:00:04.000\nsecond line\n",
			expected: "first line second line",
		},
		{
			name: "multi-line cue",
			input: "WEBVTT\n\n00:00:00.000 --> 00:00:02.000\nmix the flour\nand the sugar\n",
			expected: "mix the flour and the sugar",
		},
		{
			name: "inline markup stripped",
			input: "WEBVTT\n\n00:00:00.000 --> 00:00:02.000\n<c.yellow>season</c> with <b>salt</b>\n",
			expected: "season with salt",
		},
		{
			name:     "note block skipped",
			input:    "WEBVTT\n\nNOTE\nthis is a comment\nstill a comment\n\n00:00:00.000 --> 00:00:01.000\nhello\n",
			expected: "hello",
		},
		{
			name:     "style block skipped",
			input:    "WEBVTT\n\nSTYLE\n::cue { color: red }\n\n00:00:00.000 --> 00:00:01.000\nstir well\n",
			expected: "stir well",
		},
		{
			name:     "empty file",
			input:    "",
			expected: "",
		},
		{
			name:     "header only",
			input:    "WEBVTT\n",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseVTT(strings.NewReader(tt.input))
			if got != tt.expected {
				t.Errorf("ParseVTT() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestStripTags(t *testing.T) {
	if got := stripTags("<00:00:01.000><c>word</c>"); got != "word" {
		t.Errorf("stripTags() = %q, want %q", got, "word")
	}
	if got := stripTags("plain text"); got != "plain text" {
		t.Errorf("stripTags() = %q, want %q", got, "plain text")
	}
}
