// Package ast turns a token sequence into the syntax tree the executor
// walks: commands and subshells connected by pipes, with per-node stream
// destinations and command-substitution arguments.
package ast

import (
	"fmt"
	"strings"

	"github.com/hostsh/hostsh/core/job"
)

// Structural tokens recognized by the builder. Everything else is a word.
const (
	TokOpen         = "("
	TokClose        = ")"
	TokPipe         = "|"
	TokRedirOut     = ">"
	TokRedirAppend  = ">>"
	TokRedirErr     = "2>"
	TokRedirErrApp  = "2>>"
	TokRedirIn      = "<"
)

// FileMode is the open mode for a file redirection target.
type FileMode string

const (
	ModeRead   FileMode = "r"
	ModeWrite  FileMode = "w"
	ModeAppend FileMode = "a"
)

// StreamDest is a closed variant describing where one of a node's standard
// streams goes. Markers exist only between parsing and linking; the linker
// resolves matching marker pairs into concrete *PipeDest values and the
// executor never sees a marker on a well-formed tree.
type StreamDest interface {
	streamDest()
	String() string
}

// Inherited means the stream falls through to the caller's default.
type Inherited struct{}

func (Inherited) streamDest()    {}
func (Inherited) String() string { return "inherit" }

// PipeOutMarker marks a stdout that the linker must connect to the next
// sibling's stdin.
type PipeOutMarker struct{}

func (PipeOutMarker) streamDest()    {}
func (PipeOutMarker) String() string { return "pipe-out" }

// PipeInMarker marks a stdin awaiting the previous sibling's stdout.
type PipeInMarker struct{}

func (PipeInMarker) streamDest()    {}
func (PipeInMarker) String() string { return "pipe-in" }

// PipeDest is a linked pipe end. When set as a node's stdout the node owns
// the write end; as a node's stdin it owns the read end.
type PipeDest struct {
	Pipe *job.Pipe
}

func (*PipeDest) streamDest()      {}
func (p *PipeDest) String() string { return "pipe" }

// FileDest redirects the stream to a file.
type FileDest struct {
	Path string
	Mode FileMode
}

func (*FileDest) streamDest() {}
func (f *FileDest) String() string {
	return fmt.Sprintf("file(%s,%s)", f.Path, f.Mode)
}

// StdStreams holds the three stream destinations every pipeline node has.
type StdStreams struct {
	Stdin  StreamDest
	Stdout StreamDest
	Stderr StreamDest
}

func newStdStreams() StdStreams {
	return StdStreams{Stdin: Inherited{}, Stdout: Inherited{}, Stderr: Inherited{}}
}

// Streams lets the builder and linker address a node's destinations
// without caring about its kind.
func (s *StdStreams) Streams() *StdStreams { return s }

// Arg is a closed variant: a literal word or a command substitution whose
// captured output replaces it at dispatch time.
type Arg interface {
	arg()
	String() string
}

// Literal is a plain word argument.
type Literal string

func (Literal) arg()             {}
func (l Literal) String() string { return string(l) }

// Substitution carries the parsed tree of a $( ... ) argument.
type Substitution struct {
	Inner []Node
}

func (*Substitution) arg() {}
func (s *Substitution) String() string {
	var parts []string
	for _, n := range s.Inner {
		parts = append(parts, n.String())
	}
	return "$(" + strings.Join(parts, "; ") + ")"
}

// Node is a closed variant over the two pipeline node kinds.
type Node interface {
	node()
	Streams() *StdStreams
	String() string
}

// CommandNode is one command invocation with its arguments.
type CommandNode struct {
	StdStreams
	Args []Arg
}

func (*CommandNode) node() {}

func (c *CommandNode) String() string {
	var words []string
	for _, a := range c.Args {
		words = append(words, a.String())
	}
	return fmt.Sprintf("[command %s in=%s out=%s err=%s]",
		strings.Join(words, " "), c.Stdin, c.Stdout, c.Stderr)
}

// SubshellNode groups child nodes that share redirected streams.
type SubshellNode struct {
	StdStreams
	Children []Node
}

func (*SubshellNode) node() {}

func (s *SubshellNode) String() string {
	var parts []string
	for _, n := range s.Children {
		parts = append(parts, n.String())
	}
	return fmt.Sprintf("[subshell (%s) in=%s out=%s err=%s]",
		strings.Join(parts, " "), s.Stdin, s.Stdout, s.Stderr)
}

func newCommandNode() *CommandNode {
	return &CommandNode{StdStreams: newStdStreams()}
}

func newSubshellNode(children []Node) *SubshellNode {
	return &SubshellNode{StdStreams: newStdStreams(), Children: children}
}

// Render pretty-prints a node list, one node per line, for debugging and
// golden tests.
func Render(nodes []Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		sb.WriteString(n.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
