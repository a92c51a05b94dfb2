package asm

import (
	"regexp"
	"strings"
)

var labelRegex = regexp.MustCompile(`^(\w+):`)

// sourceLine is one input line reduced to its syntactic parts: an optional
// label, then either a directive or a mnemonic with comma-separated
// operands. Comments are already stripped.
type sourceLine struct {
	number    int    // 1-based line number in the input
	original  string // untouched text, kept for diagnostics
	label     string
	directive string // ".text", ".data", ".word", lower-cased
	mnemonic  string // lower-cased
	operands  []string
}

// parseLine splits a raw source line into its parts. It never fails;
// semantic validation happens later, in the passes.
func parseLine(number int, raw string) sourceLine {
	ln := sourceLine{number: number, original: strings.TrimRight(raw, " \t\r\n")}

	text := raw
	if i := strings.IndexByte(text, '#'); i >= 0 {
		text = text[:i]
	}
	text = strings.TrimSpace(text)

	if m := labelRegex.FindStringSubmatch(text); m != nil {
		ln.label = m[1]
		text = strings.TrimSpace(text[len(m[0]):])
	}
	if text == "" {
		return ln
	}

	head := text
	var rest string
	if i := strings.IndexAny(text, " \t"); i >= 0 {
		head, rest = text[:i], strings.TrimSpace(text[i+1:])
	}

	if strings.HasPrefix(head, ".") {
		ln.directive = strings.ToLower(head)
	} else {
		ln.mnemonic = strings.ToLower(head)
	}
	if rest != "" {
		ln.operands = splitOperands(rest)
	}
	return ln
}

func splitOperands(s string) []string {
	parts := strings.Split(s, ",")
	ops := make([]string, 0, len(parts))
	for _, p := range parts {
		ops = append(ops, strings.TrimSpace(p))
	}
	return ops
}
