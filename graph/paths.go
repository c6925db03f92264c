package graph

// FindPaths enumerates every distinct simple path from one file to
// another over the dependency adjacency lists. The visited set is local
// to the call, so cyclic graphs terminate. There is no bound on the
// number of paths returned; callers needing one must impose it.
func (g *Graph) FindPaths(from, to string) [][]string {
	var paths [][]string
	current := []string{from}
	visited := make(map[string]bool)

	g.findPathsRecursive(from, to, current, visited, &paths)

	return paths
}

func (g *Graph) findPathsRecursive(current, target string, path []string, visited map[string]bool, paths *[][]string) {
	if current == target {
		found := make([]string, len(path))
		copy(found, path)
		*paths = append(*paths, found)
		return
	}

	if visited[current] {
		return
	}
	visited[current] = true

	if node, ok := g.Nodes[current]; ok {
		for _, dep := range node.Dependencies {
			g.findPathsRecursive(dep, target, append(path, dep), visited, paths)
		}
	}

	delete(visited, current)
}
