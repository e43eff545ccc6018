package ast

import "github.com/hostsh/hostsh/core/job"

// LinkPipes walks a node list and replaces each adjacent
// PipeOutMarker/PipeInMarker pair with the two ends of a freshly allocated
// pipe: the write end on the producer's stdout, the read end on the
// consumer's stdin. Subshell children are linked recursively.
//
// File destinations set by redirections are left alone: a parse-time
// redirection always beats a pipe marker on the same stage.
func LinkPipes(nodes []Node) ([]Node, error) {
	for i := 0; i+1 < len(nodes); i++ {
		curr := nodes[i].Streams()
		next := nodes[i+1].Streams()

		_, outMarked := curr.Stdout.(PipeOutMarker)
		_, inMarked := next.Stdin.(PipeInMarker)
		if !outMarked || !inMarked {
			continue
		}

		p, err := job.NewPipe()
		if err != nil {
			return nil, err
		}

		dest := &PipeDest{Pipe: p}
		curr.Stdout = dest
		next.Stdin = dest
	}

	for _, node := range nodes {
		if subshell, ok := node.(*SubshellNode); ok {
			if _, err := LinkPipes(subshell.Children); err != nil {
				return nil, err
			}
		}
	}

	return nodes, nil
}

// CountPipes returns the number of distinct linked pipes in the tree.
// Mostly useful in tests.
func CountPipes(nodes []Node) int {
	seen := map[*job.Pipe]bool{}
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for _, n := range nodes {
			s := n.Streams()
			for _, d := range []StreamDest{s.Stdin, s.Stdout, s.Stderr} {
				if pd, ok := d.(*PipeDest); ok {
					seen[pd.Pipe] = true
				}
			}
			if sub, ok := n.(*SubshellNode); ok {
				walk(sub.Children)
			}
		}
	}
	walk(nodes)
	return len(seen)
}
