// Package dot renders GraphViz "digraph" sources for debugging: the
// planned Job DAG (nodes are jobs, blue edges from inputs, green edges
// to outputs) and a module-dependency graph (nodes colored by module
// kind). These are diagnostic-only outputs with no third-party library
// in the retrieval pack for DOT/GraphViz emission, so this writer is
// built directly on the standard library's io/fmt/strings; no
// dependency covers this narrow a concern.
package dot

import (
	"fmt"
	"io"
	"strings"
)

// Node is one graph vertex.
type Node struct {
	ID    string
	Label string
	Color string // empty means default
	Bold  bool
}

// Edge is one directed graph edge.
type Edge struct {
	From, To string
	Color    string
	Bold     bool
}

// Graph is an ordered collection of nodes and edges ready to render.
type Graph struct {
	Name  string
	Nodes []Node
	Edges []Edge
}

// AddNode appends a node, returning its ID for convenient edge wiring.
func (g *Graph) AddNode(id, label, color string, bold bool) string {
	g.Nodes = append(g.Nodes, Node{ID: id, Label: label, Color: color, Bold: bold})
	return id
}

// AddEdge appends a directed edge.
func (g *Graph) AddEdge(from, to, color string, bold bool) {
	g.Edges = append(g.Edges, Edge{From: from, To: to, Color: color, Bold: bold})
}

// WriteTo renders the graph as a GraphViz "digraph" source.
func (g *Graph) WriteTo(w io.Writer) (int64, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "digraph %s {\n", quoteID(g.Name))
	b.WriteString("  rankdir=LR;\n")

	for _, n := range g.Nodes {
		attrs := []string{fmt.Sprintf("label=%s", quoteLabel(n.Label))}
		if n.Color != "" {
			attrs = append(attrs, fmt.Sprintf("color=%s", n.Color), "style=filled")
		}
		if n.Bold {
			attrs = append(attrs, "penwidth=2")
		}
		fmt.Fprintf(&b, "  %s [%s];\n", quoteID(n.ID), strings.Join(attrs, ", "))
	}

	for _, e := range g.Edges {
		attrs := []string{}
		if e.Color != "" {
			attrs = append(attrs, fmt.Sprintf("color=%s", e.Color))
		}
		if e.Bold {
			attrs = append(attrs, "penwidth=2")
		}
		if len(attrs) == 0 {
			fmt.Fprintf(&b, "  %s -> %s;\n", quoteID(e.From), quoteID(e.To))
		} else {
			fmt.Fprintf(&b, "  %s -> %s [%s];\n", quoteID(e.From), quoteID(e.To), strings.Join(attrs, ", "))
		}
	}

	b.WriteString("}\n")

	n, err := io.WriteString(w, b.String())
	return int64(n), err
}

func quoteID(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

func quoteLabel(s string) string {
	return quoteID(s)
}

// JobGraph builds the job-dependency DOT graph: one node per job (bold
// if it is a post-compile job), blue edges from each input's producing
// job, green edges to each output.
//
// producerOf maps an output name to the job ID that produces it (the
// planner's producer map, keyed by display string instead of handle so
// this package has no dependency on the job/vpath packages).
func JobGraph(name string, jobIDs []string, jobLabels map[string]string, postCompile map[string]bool, inputsOf map[string][]string, outputsOf map[string][]string, producerOf map[string]string) *Graph {
	g := &Graph{Name: name}

	for _, id := range jobIDs {
		g.AddNode(id, jobLabels[id], "", postCompile[id])
	}

	for _, id := range jobIDs {
		for _, in := range inputsOf[id] {
			if producer, ok := producerOf[in]; ok && producer != id {
				g.AddEdge(producer, id, "blue", false)
			}
		}
		for _, out := range outputsOf[id] {
			outNode := "out:" + out
			g.AddNode(outNode, out, "lightgray", false)
			g.AddEdge(id, outNode, "green", false)
		}
	}

	return g
}

// ModuleKindColor maps a module dependency kind to its DOT fill color,
// used by the module-dependency-graph serializer.
func ModuleKindColor(kind string) string {
	switch kind {
	case "source":
		return "lightblue"
	case "binary":
		return "lightyellow"
	case "clang":
		return "lightgreen"
	case "placeholder":
		return "lightgray"
	default:
		return "white"
	}
}
