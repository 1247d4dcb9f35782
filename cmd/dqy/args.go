package main

import (
	"os"
	"strings"
)

// splitPositionals separates the leading run of non-dash tokens (qtype,
// domain, @resolver, in any order per spec.md §6) from the dash-options
// that must follow them. The first token starting with "-" ends the
// positional run.
func splitPositionals(args []string) (positionals, rest []string) {
	for i, a := range args {
		if strings.HasPrefix(a, "-") {
			return args[:i], args[i:]
		}
	}
	return args, nil
}

// expandFlagsEnv merges DQY_FLAGS's whitespace-tokenized contents (applied
// first, per SPEC_FULL §4.6) with argv, keeping positionals-before-dash-
// options enforced on the *merged* list rather than on the raw
// concatenation: splitting each source independently and then
// concatenating positionals ahead of dash-options means a dash-option
// living in DQY_FLAGS can never strand argv's own positionals behind it.
// Quoting in DQY_FLAGS is simple: single or double quotes group a run of
// whitespace into one token, no escape sequences.
func expandFlagsEnv(args []string) []string {
	raw := os.Getenv("DQY_FLAGS")
	if raw == "" {
		return args
	}
	envPositionals, envDash := splitPositionals(tokenizeShellWords(raw))
	argPositionals, argDash := splitPositionals(args)

	merged := make([]string, 0, len(envPositionals)+len(argPositionals)+len(envDash)+len(argDash))
	merged = append(merged, envPositionals...)
	merged = append(merged, argPositionals...)
	merged = append(merged, envDash...)
	merged = append(merged, argDash...)
	return merged
}

func tokenizeShellWords(s string) []string {
	var tokens []string
	var cur strings.Builder
	var quote byte
	inToken := false

	flush := func() {
		if inToken {
			tokens = append(tokens, cur.String())
			cur.Reset()
			inToken = false
		}
	}

	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				cur.WriteByte(c)
			}
		case c == '\'' || c == '"':
			quote = c
			inToken = true
		case c == ' ' || c == '\t' || c == '\n':
			flush()
		default:
			inToken = true
			cur.WriteByte(c)
		}
	}
	flush()
	return tokens
}

// classifyPositional buckets one positional token as a QTYPE mnemonic, an
// @resolver, or (by elimination) the query domain.
func classifyPositional(tok string) (isResolver bool, isQType bool) {
	if strings.HasPrefix(tok, "@") {
		return true, false
	}
	if _, err := parseQType(tok); err == nil {
		return false, true
	}
	return false, false
}
