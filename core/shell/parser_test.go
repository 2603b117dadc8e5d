package shell

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func ExampleSplit() {
	fmt.Printf("%q\n", Split("  ls   -l\t/tmp  "))
	fmt.Printf("%q\n", Split(" \t "))

	// Output: ["ls" "-l" "/tmp"]
	// []
}

func TestSplit(t *testing.T) {
	cases := map[string]struct {
		line     string
		expected []string
	}{
		"empty":          {"", nil},
		"blank":          {" \t\v\f\r\n ", nil},
		"single":         {"hist", []string{"hist"}},
		"leading":        {"   echo hi", []string{"echo", "hi"}},
		"trailing":       {"echo hi \t", []string{"echo", "hi"}},
		"internal runs":  {"echo   hi\t\tthere", []string{"echo", "hi", "there"}},
		"no quoting":     {`echo 'a b' "c"`, []string{"echo", "'a", "b'", `"c"`}},
		"no expansion":   {"echo $HOME *.go", []string{"echo", "$HOME", "*.go"}},
		"no operators":   {"ls|wc > out", []string{"ls|wc", ">", "out"}},
		"unicode spaces": {"echo\u00a0hi\u2003there", []string{"echo", "hi", "there"}},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			actual := Split(tc.line)
			if len(tc.expected) == 0 {
				assert.Empty(t, actual)
				return
			}
			assert.Equal(t, tc.expected, actual)
		})
	}
}

func TestSplitNormalizesWhitespace(t *testing.T) {
	assert.Equal(t, Split("cd /tmp"), Split("\t cd  \t /tmp   "))
}

func TestParseRecall(t *testing.T) {
	cases := []struct {
		line     string
		selector string
		ok       bool
	}{
		{"r", "", true},
		{"r ", "", true},
		{"r 3", "3", true},
		{"r\t3", "3", true},
		{"r   12  ", "12", true},
		{"  r 2", "2", true},
		{"r abc", "abc", true},
		{"r 1 2", "1 2", true},
		{"rm -rf", "", false},
		{"r2", "", false},
		{"R 2", "", false},
		{"echo r", "", false},
		{"", "", false},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("%q", tc.line), func(t *testing.T) {
			selector, ok := ParseRecall(tc.line)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.selector, selector)
		})
	}
}
