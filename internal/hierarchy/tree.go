package hierarchy

import "github.com/google/uuid"

// Branch is a TreeNode placed in a nested tree.
type Branch struct {
	TreeNode
	Depth    int      `json:"depth"`
	Children []Branch `json:"children,omitempty"`
}

// Nest builds a nested tree from resolved nodes. Nodes must come from
// CategoryTree: acyclic and rooted. Sibling order follows input order.
func Nest(nodes []TreeNode) []Branch {
	byParent := make(map[uuid.UUID][]TreeNode, len(nodes))
	var roots []TreeNode
	for _, n := range nodes {
		if n.ParentID == nil {
			roots = append(roots, n)
			continue
		}
		byParent[*n.ParentID] = append(byParent[*n.ParentID], n)
	}
	return nest(roots, byParent, 0)
}

func nest(level []TreeNode, byParent map[uuid.UUID][]TreeNode, depth int) []Branch {
	var result []Branch
	for _, n := range level {
		result = append(result, Branch{
			TreeNode: n,
			Depth:    depth,
			Children: nest(byParent[n.ID], byParent, depth+1),
		})
	}
	return result
}

// Flatten walks a tree depth-first, returning every branch with its Depth
// kept for indentation. Children are dropped from the returned copies.
func Flatten(tree []Branch) []Branch {
	var result []Branch
	flatten(tree, &result)
	return result
}

func flatten(tree []Branch, result *[]Branch) {
	for _, b := range tree {
		children := b.Children
		b.Children = nil
		*result = append(*result, b)
		if len(children) > 0 {
			flatten(children, result)
		}
	}
}
