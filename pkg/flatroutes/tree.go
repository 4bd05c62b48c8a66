package flatroutes

import (
	"fmt"
	"sort"
	"strings"
)

// TreeNode is one route in the reconstructed hierarchy. The manifest
// itself is flat; the tree is a derived view for display and tooling.
type TreeNode struct {
	Route    ConfigRoute
	Children []*TreeNode
}

// BuildTree reconstructs the route hierarchy from the parent links in a
// manifest. It returns the top-level routes (those whose parent is the
// sentinel root), children sorted by route ID at every level.
func BuildTree(manifest RouteManifest) []*TreeNode {
	nodes := make(map[string]*TreeNode, len(manifest))
	for id, route := range manifest {
		nodes[id] = &TreeNode{Route: route}
	}

	var roots []*TreeNode
	for id, node := range nodes {
		parent, ok := nodes[manifest[id].ParentID]
		if !ok {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	sortNodes(roots)
	for _, node := range nodes {
		sortNodes(node.Children)
	}
	return roots
}

func sortNodes(nodes []*TreeNode) {
	sort.Slice(nodes, func(i, j int) bool {
		return nodes[i].Route.ID < nodes[j].Route.ID
	})
}

// FormatTree renders the manifest as an indented listing, one route per
// line, for terminal output.
func FormatTree(manifest RouteManifest) string {
	var b strings.Builder
	for _, root := range BuildTree(manifest) {
		writeNode(&b, root, 0)
	}
	return b.String()
}

func writeNode(b *strings.Builder, node *TreeNode, depth int) {
	b.WriteString(strings.Repeat("  ", depth))

	label := node.Route.Path
	switch {
	case node.Route.Index && label == "":
		label = "(index)"
	case node.Route.Index:
		label = fmt.Sprintf("%s (index)", label)
	case label == "":
		label = "(layout)"
	}
	fmt.Fprintf(b, "%s  [%s]\n", label, node.Route.ID)

	for _, child := range node.Children {
		writeNode(b, child, depth+1)
	}
}
