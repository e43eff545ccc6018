package ast

import (
	"fmt"
	"strings"

	"github.com/hostsh/hostsh/core/lineio"
)

// SyntaxError reports a grammar violation in the token stream. It aborts
// only the current line; the session continues.
type SyntaxError struct {
	Msg string
}

func (e *SyntaxError) Error() string {
	return "syntax error: " + e.Msg
}

func syntaxErrorf(format string, args ...interface{}) error {
	return &SyntaxError{Msg: fmt.Sprintf(format, args...)}
}

// redirections maps each redirection operator to the stream it reassigns
// and the file mode it opens the target with.
var redirections = map[string]struct {
	mode FileMode
	set  func(*StdStreams, StreamDest)
}{
	TokRedirOut:    {ModeWrite, func(s *StdStreams, d StreamDest) { s.Stdout = d }},
	TokRedirAppend: {ModeAppend, func(s *StdStreams, d StreamDest) { s.Stdout = d }},
	TokRedirErr:    {ModeWrite, func(s *StdStreams, d StreamDest) { s.Stderr = d }},
	TokRedirErrApp: {ModeAppend, func(s *StdStreams, d StreamDest) { s.Stderr = d }},
	TokRedirIn:     {ModeRead, func(s *StdStreams, d StreamDest) { s.Stdin = d }},
}

// Build parses tokens into an ordered node tree. The tokenizer is needed
// to re-split the inner text of $( ... ) substitution words, which recurse
// back through Build.
func Build(tokens []string, tok lineio.Tokenizer) ([]Node, error) {
	// One node list per subshell nesting level; scopes[0] is the line.
	scopes := [][]Node{nil}

	// Set after a '|' so the next node created takes the pipe's read side.
	pendingStdin := false

	for i := 0; i < len(tokens); i++ {
		token := tokens[i]

		switch {
		case token == TokOpen:
			scopes = append(scopes, nil)

		case token == TokClose:
			if len(scopes) < 2 {
				return nil, syntaxErrorf("unbalanced, too many ')'")
			}
			inner := scopes[len(scopes)-1]
			scopes = scopes[:len(scopes)-1]

			subshell := newSubshellNode(inner)
			if pendingStdin {
				subshell.Stdin = PipeInMarker{}
				pendingStdin = false
			}
			scopes[len(scopes)-1] = append(scopes[len(scopes)-1], subshell)

		case token == TokPipe:
			scope := scopes[len(scopes)-1]
			if len(scope) == 0 {
				return nil, syntaxErrorf("pipe %q with no previous command", token)
			}
			scope[len(scope)-1].Streams().Stdout = PipeOutMarker{}
			pendingStdin = true

		case isRedirection(token):
			scope := scopes[len(scopes)-1]
			if len(scope) == 0 {
				return nil, syntaxErrorf("redirection %q with no previous command", token)
			}
			if i+1 >= len(tokens) {
				return nil, syntaxErrorf("missing target for %q", token)
			}
			target := tokens[i+1]
			i++ // consume the filename

			redir := redirections[token]
			redir.set(scope[len(scope)-1].Streams(), &FileDest{Path: target, Mode: redir.mode})

		default:
			arg, err := parseArgument(token, tok)
			if err != nil {
				return nil, err
			}

			scope := scopes[len(scopes)-1]
			if startsNewCommand(scope, pendingStdin) {
				cmd := newCommandNode()
				cmd.Args = append(cmd.Args, arg)
				if pendingStdin {
					cmd.Stdin = PipeInMarker{}
					pendingStdin = false
				}
				scopes[len(scopes)-1] = append(scope, cmd)
			} else {
				last := scope[len(scope)-1].(*CommandNode)
				last.Args = append(last.Args, arg)
			}
		}
	}

	if len(scopes) > 1 {
		return nil, syntaxErrorf("unbalanced, missing ')'")
	}

	return scopes[0], nil
}

func isRedirection(token string) bool {
	_, ok := redirections[token]
	return ok
}

// startsNewCommand decides whether a word opens a new command: the scope is
// empty, the previous node is a subshell (words cannot attach to it), or a
// pipe boundary is pending.
func startsNewCommand(scope []Node, pendingStdin bool) bool {
	if len(scope) == 0 || pendingStdin {
		return true
	}
	_, lastIsSubshell := scope[len(scope)-1].(*SubshellNode)
	return lastIsSubshell
}

// parseArgument classifies a word as a literal or, for tokens of the exact
// form $( ... ), re-tokenizes the inner text and builds the nested tree.
func parseArgument(token string, tok lineio.Tokenizer) (Arg, error) {
	if !strings.HasPrefix(token, "$(") || !strings.HasSuffix(token, ")") {
		return Literal(token), nil
	}

	inner := token[2 : len(token)-1]
	innerTokens, err := tok.Tokenize(inner)
	if err != nil {
		return nil, syntaxErrorf("bad substitution %q: %v", token, err)
	}

	innerAst, err := Build(innerTokens, tok)
	if err != nil {
		return nil, err
	}

	return &Substitution{Inner: innerAst}, nil
}
