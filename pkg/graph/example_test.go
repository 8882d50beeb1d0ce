package graph_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/bundlescope/pkg/bundle"
	"github.com/matzehuels/bundlescope/pkg/graph"
)

func ExampleGraph_Depths() {
	g := graph.New([]bundle.Module{
		{ID: "A", VerboseName: "src/App.tsx", Dependencies: []string{"B", "C"}},
		{ID: "B", VerboseName: "src/Home.tsx", Dependencies: []string{"D"}},
		{ID: "C", VerboseName: "src/Settings.tsx", Dependencies: []string{"D"}},
		{ID: "D", VerboseName: "node_modules/react/index.js", Dependencies: []string{}},
	})

	depths, err := g.Depths(context.Background(), graph.DepthOptions{})
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	for _, d := range depths {
		fmt.Printf("%s %s: %d\n", d.ID, g.Name(d.ID), d.Depth)
	}
	// Output:
	// A src/App.tsx: 3
	// B src/Home.tsx: 2
	// C src/Settings.tsx: 2
	// D node_modules/react/index.js: 1
}

func ExampleGraph_Depth_cycle() {
	g := graph.New([]bundle.Module{
		{ID: "1", VerboseName: "a.js", Dependencies: []string{"1"}},
		{ID: "2", VerboseName: "b.js", Dependencies: []string{"3"}},
		{ID: "3", VerboseName: "c.js", Dependencies: []string{"2", "404"}},
	})

	for _, id := range []string{"1", "2", "3"} {
		d, _ := g.Depth(id)
		fmt.Println(id, d, g.Cyclic(id))
	}
	fmt.Println(g.Cycles())
	// Output:
	// 1 1 true
	// 2 3 true
	// 3 2 true
	// [[1] [2 3]]
}
