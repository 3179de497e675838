// Package hierarchy rebuilds self-referencing content trees (category trees
// and lesson chains) from one flat partition of rows. The closure is computed
// in-process: starting from the parentless rows, any row whose parent has
// already been admitted is admitted too, until nothing new is added.
package hierarchy

import "github.com/google/uuid"

// Linked is a row of a self-referencing table.
type Linked interface {
	NodeID() uuid.UUID
	ParentNodeID() *uuid.UUID
}

// Expand computes the fixed-point closure of items from their roots (rows
// with a nil parent). reached lists admitted rows breadth-first, siblings in
// input order. Each id is admitted at most once. skipped holds the rest:
// orphans whose parent is absent, members of parent cycles, and duplicate ids.
func Expand[T Linked](items []T) (reached, skipped []T) {
	children := make(map[uuid.UUID][]int, len(items))
	var frontier []int
	for i, item := range items {
		if p := item.ParentNodeID(); p != nil {
			children[*p] = append(children[*p], i)
		} else {
			frontier = append(frontier, i)
		}
	}

	visited := make(map[uuid.UUID]struct{}, len(items))
	admitted := make([]bool, len(items))
	reached = make([]T, 0, len(items))

	admit := func(i int) bool {
		id := items[i].NodeID()
		if _, seen := visited[id]; seen {
			return false
		}
		visited[id] = struct{}{}
		admitted[i] = true
		reached = append(reached, items[i])
		return true
	}

	queue := make([]int, 0, len(items))
	for _, i := range frontier {
		if admit(i) {
			queue = append(queue, i)
		}
	}
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		for _, c := range children[items[i].NodeID()] {
			if admit(c) {
				queue = append(queue, c)
			}
		}
	}

	for i, item := range items {
		if !admitted[i] {
			skipped = append(skipped, item)
		}
	}
	return reached, skipped
}
