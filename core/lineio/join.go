package lineio

import "strings"

// JoinSubstitutions merges tokens that a whitespace tokenizer split apart
// inside a $( ... ) command substitution back into a single word, so the
// syntax builder sees one token per substitution:
//
//	["echo", "$(date", "+%s)"] -> ["echo", "$(date +%s)"]
//
// Unbalanced substitutions are passed through unchanged.
func JoinSubstitutions(tokens []string) []string {
	var out []string
	var buffer []string
	depth := 0

	for _, token := range tokens {
		depth += strings.Count(token, "$(")
		if depth > 0 {
			depth -= strings.Count(token, ")")
		}

		switch {
		case depth > 0:
			buffer = append(buffer, token)
		case len(buffer) > 0:
			buffer = append(buffer, token)
			out = append(out, strings.Join(buffer, " "))
			buffer = nil
		default:
			out = append(out, token)
		}
	}

	// Unbalanced, hand the pieces back for the parser to reject.
	out = append(out, buffer...)

	return out
}
