// Package graph resolves the build order of the transformation layers.
//
// Each node declares its direct upstream dependencies by name. The resolver
// computes a topological order (Kahn's algorithm with name-sorted
// tie-breaking so the order is deterministic), rejects cycles before any
// build step runs, and can compute the downstream closure of a changed node
// set so only stale nodes are rebuilt.
package graph

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrCycle is returned when the declared dependencies do not form a DAG.
var ErrCycle = errors.New("dependency cycle")

// Node is one transformation in the graph. Materialized nodes persist their
// output and are skipped when not stale; virtual nodes recompute every run.
type Node struct {
	Name        string
	DependsOn   []string
	Materialize bool
	Build       func(ctx context.Context) error
}

// Graph is an immutable set of validated transformation nodes.
type Graph struct {
	nodes     map[string]Node
	order     []string            // topological build order
	consumers map[string][]string // node -> direct downstream nodes
}

// New validates the node set and precomputes the build order.
// Returns ErrCycle (wrapped, naming the offending nodes) if the declared
// edges contain a cycle, or an error for dependencies on undeclared nodes.
func New(nodes []Node) (*Graph, error) {
	byName := make(map[string]Node, len(nodes))
	for _, n := range nodes {
		if _, dup := byName[n.Name]; dup {
			return nil, fmt.Errorf("duplicate node %q", n.Name)
		}
		byName[n.Name] = n
	}

	consumers := make(map[string][]string, len(nodes))
	indegree := make(map[string]int, len(nodes))
	for _, n := range nodes {
		indegree[n.Name] += 0
		for _, dep := range n.DependsOn {
			if _, ok := byName[dep]; !ok {
				return nil, fmt.Errorf("node %q depends on undeclared node %q", n.Name, dep)
			}
			consumers[dep] = append(consumers[dep], n.Name)
			indegree[n.Name]++
		}
	}

	order, err := kahn(byName, consumers, indegree)
	if err != nil {
		return nil, err
	}

	return &Graph{nodes: byName, order: order, consumers: consumers}, nil
}

// kahn produces a topological order, or ErrCycle naming the nodes left on
// the cycle. Ready nodes are processed in name order for determinism.
func kahn(nodes map[string]Node, consumers map[string][]string, indegree map[string]int) ([]string, error) {
	remaining := make(map[string]int, len(indegree))
	var ready []string
	for name, deg := range indegree {
		remaining[name] = deg
		if deg == 0 {
			ready = append(ready, name)
		}
	}
	sort.Strings(ready)

	order := make([]string, 0, len(nodes))
	for len(ready) > 0 {
		name := ready[0]
		ready = ready[1:]
		order = append(order, name)

		released := make([]string, 0, len(consumers[name]))
		for _, next := range consumers[name] {
			remaining[next]--
			if remaining[next] == 0 {
				released = append(released, next)
			}
		}
		sort.Strings(released)
		ready = mergeSorted(ready, released)
	}

	if len(order) != len(nodes) {
		var cyclic []string
		for name, deg := range remaining {
			if deg > 0 {
				cyclic = append(cyclic, name)
			}
		}
		sort.Strings(cyclic)
		return nil, fmt.Errorf("%w involving nodes: %s", ErrCycle, strings.Join(cyclic, ", "))
	}
	return order, nil
}

func mergeSorted(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] <= b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

// Order returns the precomputed topological build order. Every node appears
// after all of its dependencies.
func (g *Graph) Order() []string {
	out := make([]string, len(g.order))
	copy(out, g.order)
	return out
}

// Closure returns the changed set plus every node transitively depending on
// it: the minimal set that must be rebuilt when those nodes change.
func (g *Graph) Closure(changed ...string) map[string]bool {
	stale := make(map[string]bool)
	var visit func(string)
	visit = func(name string) {
		if stale[name] {
			return
		}
		stale[name] = true
		for _, next := range g.consumers[name] {
			visit(next)
		}
	}
	for _, name := range changed {
		if _, ok := g.nodes[name]; ok {
			visit(name)
		}
	}
	return stale
}

// Execute builds the stale nodes of the graph. Nodes with no dependency
// relation run concurrently; a node never starts before all of its
// predecessors finish. Materialized nodes outside the stale set are skipped
// (their persisted output is still current); virtual nodes always run so
// stale dependents read fresh input.
//
// When a node fails, everything downstream of it is skipped and Execute
// returns the first error; downstream tables are never advanced past a
// failed input. The skipped and failed node names are reported via the
// result callback when one is provided.
func (g *Graph) Execute(ctx context.Context, stale map[string]bool, observe func(node, outcome string, err error)) error {
	if observe == nil {
		observe = func(string, string, error) {}
	}

	type result struct {
		failed bool
	}
	done := make(map[string]chan result, len(g.nodes))
	for name := range g.nodes {
		done[name] = make(chan result, 1)
	}

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	for _, name := range g.order {
		node := g.nodes[name]
		wg.Add(1)
		go func() {
			defer wg.Done()

			failed := false
			for _, dep := range node.DependsOn {
				r := <-done[dep]
				done[dep] <- r // re-buffer for sibling consumers
				if r.failed {
					failed = true
				}
			}

			switch {
			case failed || ctx.Err() != nil:
				observe(node.Name, "skipped", nil)
				done[node.Name] <- result{failed: true}
			case node.Materialize && !stale[node.Name]:
				observe(node.Name, "cached", nil)
				done[node.Name] <- result{}
			default:
				if err := node.Build(ctx); err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("build %s: %w", node.Name, err)
					}
					mu.Unlock()
					observe(node.Name, "failed", err)
					done[node.Name] <- result{failed: true}
					return
				}
				observe(node.Name, "built", nil)
				done[node.Name] <- result{}
			}
		}()
	}

	wg.Wait()
	if firstErr != nil {
		return firstErr
	}
	return ctx.Err()
}
