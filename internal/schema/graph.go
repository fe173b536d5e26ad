package schema

import (
	"slices"
	"strings"
)

// Graph is the result of ordering a set of tables for deletion.
type Graph struct {
	// ToDelete lists every table once. A table that references another
	// table comes before it, except across CyclicRelationships.
	ToDelete []Table
	// CyclicRelationships holds one relationship per detected cycle. Its
	// constraint has to be suspended while the tables are emptied.
	CyclicRelationships []Relationship
}

// ParentTables returns the distinct parent tables of the cyclic relationships.
func (g *Graph) ParentTables() []Table {
	var parents []Table
	seen := make(map[Table]bool)
	for _, r := range g.CyclicRelationships {
		if seen[r.Parent] {
			continue
		}
		seen[r.Parent] = true
		parents = append(parents, r.Parent)
	}
	return parents
}

type visitState int

const (
	unvisited visitState = iota
	visiting
	visited
)

// frame is one level of the explicit DFS stack.
type frame struct {
	table Table
	next  int
}

// ---------------------------------------------------------------------
// Graph Building
// ---------------------------------------------------------------------

// BuildGraph computes a deletion order for tables and the relationships that
// close cycles between them.
//
// Roots are visited in ascending (schema, name) order and each table's
// relationships in ascending name order, so the result depends only on the
// input sets. Relationships that leave the table set or reference their own
// table are ignored.
func BuildGraph(tables []Table, relationships []Relationship) *Graph {
	roots := distinctTables(tables)
	slices.SortFunc(roots, compareTables)

	adjacency := attach(roots, relationships)

	state := make(map[Table]visitState, len(roots))
	finished := make([]Table, 0, len(roots))
	var cyclic []Relationship

	for _, root := range roots {
		if state[root] != unvisited {
			continue
		}

		state[root] = visiting
		stack := []frame{{table: root}}

		for len(stack) > 0 {
			top := &stack[len(stack)-1]
			edges := adjacency[top.table]

			if top.next < len(edges) {
				r := edges[top.next]
				top.next++

				switch state[r.Referenced] {
				case visiting:
					// Back-edge: r closes a cycle.
					cyclic = append(cyclic, r)
				case unvisited:
					state[r.Referenced] = visiting
					stack = append(stack, frame{table: r.Referenced})
				}
				continue
			}

			state[top.table] = visited
			finished = append(finished, top.table)
			stack = stack[:len(stack)-1]
		}
	}

	// Last finished is deleted first.
	slices.Reverse(finished)

	return &Graph{
		ToDelete:            finished,
		CyclicRelationships: cyclic,
	}
}

// attach indexes relationships by parent table. Only relationships whose
// parent and referenced tables are both in tables, and differ, are kept.
// Duplicate names keep the first occurrence.
func attach(tables []Table, relationships []Relationship) map[Table][]Relationship {
	members := make(map[Table]bool, len(tables))
	for _, t := range tables {
		members[t] = true
	}

	adjacency := make(map[Table][]Relationship, len(tables))
	names := make(map[string]bool, len(relationships))

	for _, r := range relationships {
		if names[r.Name] {
			continue
		}
		names[r.Name] = true

		if !members[r.Parent] || !members[r.Referenced] || r.IsSelfReference() {
			continue
		}
		adjacency[r.Parent] = append(adjacency[r.Parent], r)
	}

	for _, edges := range adjacency {
		slices.SortFunc(edges, func(a, b Relationship) int {
			return strings.Compare(a.Name, b.Name)
		})
	}

	return adjacency
}

func distinctTables(tables []Table) []Table {
	out := make([]Table, 0, len(tables))
	seen := make(map[Table]bool, len(tables))
	for _, t := range tables {
		if seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

func compareTables(a, b Table) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	}
	return 0
}
