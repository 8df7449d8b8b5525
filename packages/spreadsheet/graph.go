package spreadsheet

import (
	"cmp"
	"slices"
)

// DependencyNode represents a cell in the dependency graph. nodes exist for
// formula cells and for every cell a formula references, stored or not.
type DependencyNode struct {
	// address of *THIS* node
	ID  string
	Row uint32
	Col uint32

	// cell-to-cell dependencies
	CellPrecedents map[string]*DependencyNode // cells this cell depends on
	CellDependents map[string]*DependencyNode // cells that depend on this cell

	Formula string // formula text if it's a formula cell
}

// DependencyGraph is the reverse-dependency index: it maps every referenced
// cell to the formula cells that read it, maintained at write time
type DependencyGraph struct {
	nodes map[string]*DependencyNode // all nodes in the graph
}

// NewDependencyGraph creates a new dependency graph
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes: make(map[string]*DependencyNode),
	}
}

// GetOrCreateNode gets an existing node or creates a new one. id must be
// canonical.
func (dg *DependencyGraph) GetOrCreateNode(id string) *DependencyNode {
	if node, exists := dg.nodes[id]; exists {
		return node
	}

	row, col, _ := Decode(id)
	node := &DependencyNode{
		ID:             id,
		Row:            row,
		Col:            col,
		CellPrecedents: make(map[string]*DependencyNode),
		CellDependents: make(map[string]*DependencyNode),
	}
	dg.nodes[id] = node
	return node
}

// GetNode retrieves a node if it exists
func (dg *DependencyGraph) GetNode(id string) (*DependencyNode, bool) {
	node, exists := dg.nodes[id]
	return node, exists
}

// cleanupNodeIfEmpty removes a node if it has no dependencies or formula
func (dg *DependencyGraph) cleanupNodeIfEmpty(id string) {
	node, exists := dg.nodes[id]
	if !exists {
		return
	}

	// keep node if it has a formula or any dependencies
	if node.Formula != "" ||
		len(node.CellPrecedents) > 0 ||
		len(node.CellDependents) > 0 {
		return
	}

	delete(dg.nodes, id)
}

// AddCellDependency adds a cell-to-cell dependency (from depends on to)
func (dg *DependencyGraph) AddCellDependency(from, to string) {
	fromNode := dg.GetOrCreateNode(from)
	toNode := dg.GetOrCreateNode(to)

	// mark dep
	fromNode.CellPrecedents[to] = toNode
	toNode.CellDependents[from] = fromNode
}

// RemoveCellDependency removes a cell-to-cell dependency
func (dg *DependencyGraph) RemoveCellDependency(from, to string) bool {
	fromNode, fromExists := dg.nodes[from]
	toNode, toExists := dg.nodes[to]

	if !fromExists || !toExists {
		return false
	}

	if _, linked := fromNode.CellPrecedents[to]; !linked {
		return false
	}

	delete(fromNode.CellPrecedents, to)
	delete(toNode.CellDependents, from)

	// clean up empty nodes
	dg.cleanupNodeIfEmpty(from)
	dg.cleanupNodeIfEmpty(to)

	return true
}

// ClearDependencies drops everything a cell depends on and its formula. its
// dependents are kept, they still read the cell.
func (dg *DependencyGraph) ClearDependencies(id string) {
	node, exists := dg.nodes[id]
	if !exists {
		return
	}

	for precedentID, precedentNode := range node.CellPrecedents {
		delete(precedentNode.CellDependents, id)
		delete(node.CellPrecedents, precedentID)
		if precedentID != id {
			dg.cleanupNodeIfEmpty(precedentID)
		}
	}

	node.Formula = ""
	dg.cleanupNodeIfEmpty(id)
}

// SetFormula sets the formula for a node (creates node if needed)
func (dg *DependencyGraph) SetFormula(id string, formula string) {
	node := dg.GetOrCreateNode(id)
	node.Formula = formula
}

// GetFormula returns the formula recorded for a node
func (dg *DependencyGraph) GetFormula(id string) (string, bool) {
	node, exists := dg.nodes[id]
	if !exists || node.Formula == "" {
		return "", false
	}
	return node.Formula, true
}

// GetDirectDependents returns cells directly depending on this cell, sorted
// by position
func (dg *DependencyGraph) GetDirectDependents(id string) []string {
	node, exists := dg.nodes[id]
	if !exists {
		return nil
	}
	return sortedNodeIDs(node.CellDependents)
}

// GetDirectPrecedents returns cells this cell directly depends on, sorted
// by position
func (dg *DependencyGraph) GetDirectPrecedents(id string) []string {
	node, exists := dg.nodes[id]
	if !exists {
		return nil
	}
	return sortedNodeIDs(node.CellPrecedents)
}

// GetAllDependents returns every cell transitively depending on id, never id
// itself. follow decides whether a dependent is included and walked
// through, nil follows everything. the walk is an explicit worklist with a
// visited set so it terminates on any graph.
func (dg *DependencyGraph) GetAllDependents(id string, follow func(string) bool) []string {
	visited := map[string]struct{}{id: {}}
	worklist := []string{id}
	var result []string

	for len(worklist) > 0 {
		current := worklist[0]
		worklist = worklist[1:]

		node, exists := dg.nodes[current]
		if !exists {
			continue
		}

		for _, dependentID := range sortedNodeIDs(node.CellDependents) {
			if _, alreadyVisited := visited[dependentID]; alreadyVisited {
				continue
			}
			visited[dependentID] = struct{}{}
			if follow != nil && !follow(dependentID) {
				continue
			}
			result = append(result, dependentID)
			worklist = append(worklist, dependentID)
		}
	}

	return result
}

// CalculationOrder orders cells so every cell comes after the cells it
// depends on. only precedents inside cells are considered, and ties are
// broken by position. hasCycle reports a back edge, whose cells are still
// emitted once.
func (dg *DependencyGraph) CalculationOrder(cells []string) (order []string, hasCycle bool) {
	inSet := make(map[string]struct{}, len(cells))
	for _, id := range cells {
		inSet[id] = struct{}{}
	}

	// three states: unvisited (not in map), visiting (false), visited (true)
	state := make(map[string]bool, len(cells))
	order = make([]string, 0, len(cells))

	var visit func(id string)
	visit = func(id string) {
		if completed, exists := state[id]; exists {
			if !completed {
				// currently visiting - cycle detected
				hasCycle = true
			}
			return
		}

		// mark as visiting
		state[id] = false

		if node, exists := dg.nodes[id]; exists {
			// visit all precedents first
			for _, precedentID := range sortedNodeIDs(node.CellPrecedents) {
				if _, ok := inSet[precedentID]; ok {
					visit(precedentID)
				}
			}
		}

		// mark as visited
		state[id] = true
		order = append(order, id)
	}

	roots := make([]string, 0, len(inSet))
	for id := range inSet {
		roots = append(roots, id)
	}
	SortIdentifiers(roots)
	for _, id := range roots {
		visit(id)
	}

	return order, hasCycle
}

// HasCycle checks the whole graph for circular dependencies
func (dg *DependencyGraph) HasCycle() bool {
	all := make([]string, 0, len(dg.nodes))
	for id := range dg.nodes {
		all = append(all, id)
	}
	_, hasCycle := dg.CalculationOrder(all)
	return hasCycle
}

// NodeCount returns the number of nodes in the graph
func (dg *DependencyGraph) NodeCount() int {
	return len(dg.nodes)
}

// Clear removes all nodes
func (dg *DependencyGraph) Clear() {
	dg.nodes = make(map[string]*DependencyNode)
}

func sortedNodeIDs(nodes map[string]*DependencyNode) []string {
	refs := make([]*DependencyNode, 0, len(nodes))
	for _, node := range nodes {
		refs = append(refs, node)
	}
	slices.SortFunc(refs, func(a, b *DependencyNode) int {
		if c := cmp.Compare(a.Row, b.Row); c != 0 {
			return c
		}
		return cmp.Compare(a.Col, b.Col)
	})

	ids := make([]string, len(refs))
	for i, node := range refs {
		ids[i] = node.ID
	}
	return ids
}
