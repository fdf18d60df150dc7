package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/detentsh/driver/internal/dot"
	"github.com/detentsh/driver/internal/job"
)

var graphCmd = &cobra.Command{
	Use:                "graph [compile-options] <inputs>",
	Short:              "Plan a compile and dump its job DAG as GraphViz DOT",
	DisableFlagParsing: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		inv, handled, err := planInvocation(args, cmd.OutOrStdout())
		if handled || err != nil {
			return err
		}

		g := jobGraphDOT(inv)
		if _, err := g.WriteTo(cmd.OutOrStdout()); err != nil {
			return fmt.Errorf("writing graph: %w", err)
		}
		return nil
	},
}

// jobGraphDOT flattens the planned graph into the string-keyed shape
// the dot package renders, keyed by job index so two jobs with the
// same display name stay distinct nodes.
func jobGraphDOT(inv *invocation) *dot.Graph {
	graph := inv.result.Graph

	var ids []string
	labels := make(map[string]string, len(graph.Jobs))
	postCompile := make(map[string]bool, len(graph.Jobs))
	inputsOf := make(map[string][]string, len(graph.Jobs))
	outputsOf := make(map[string][]string, len(graph.Jobs))
	producerOf := make(map[string]string)

	idOf := func(idx int, j *job.Job) string {
		return fmt.Sprintf("job%d:%s", idx, j.DisplayName)
	}

	for idx, j := range graph.Jobs {
		id := idOf(idx, j)
		ids = append(ids, id)
		labels[id] = j.Label(inv.cache)
		postCompile[id] = j.Kind.IsPostCompile()
		for _, in := range j.Inputs {
			inputsOf[id] = append(inputsOf[id], inv.cache.Lookup(in.Handle).String())
		}
		for _, out := range j.Outputs {
			path := inv.cache.Lookup(out.Handle).String()
			outputsOf[id] = append(outputsOf[id], path)
			producerOf[path] = id
		}
	}

	return dot.JobGraph(inv.result.ModuleName, ids, labels, postCompile, inputsOf, outputsOf, producerOf)
}
