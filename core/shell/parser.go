// Package shell holds the line level grammar understood by guish.
//
// Unlike a POSIX shell, guish performs no quoting, expansion, redirection or
// operator recognition. A line is either a recall request or a list of words
// separated by whitespace:
//
//	line   := recall | words
//	recall := "r" [ blank+ selector ]
//	words  := word { blank+ word }
//
// The first word names the command and the remaining words are passed to it
// verbatim.
package shell

import (
	"strings"
	"unicode"
)

// RecallCommand is the name of the history recall request.
const RecallCommand = "r"

// Split breaks a raw line into words on runs of whitespace. Empty or blank
// lines produce no words.
func Split(line string) []string {
	return strings.FieldsFunc(line, unicode.IsSpace)
}

// ParseRecall reports whether line is a recall request and, if it is,
// returns the selector text following the "r" with surrounding whitespace
// removed. An empty selector refers to the most recent history entry.
func ParseRecall(line string) (selector string, ok bool) {
	rest := strings.TrimLeftFunc(line, unicode.IsSpace)
	if !strings.HasPrefix(rest, RecallCommand) {
		return "", false
	}

	rest = rest[len(RecallCommand):]
	if rest == "" {
		return "", true
	}

	// "r" must be a word of its own, e.g. "rm" is not a recall.
	first := []rune(rest)[0]
	if !unicode.IsSpace(first) {
		return "", false
	}

	return strings.TrimSpace(rest), true
}
