package ast

// FormatTree renders node and its descendants as a box-drawing tree, one
// line per node, in the style of a directory listing.
func FormatTree(node Node) []string {
	if node == nil {
		return nil
	}
	return append([]string{node.Label()}, formatChildren(node.Children())...)
}

func formatChildren(children []Node) []string {
	var lines []string
	for i, child := range children {
		last := i == len(children)-1
		head, cont := "├", "│"
		if last {
			head, cont = "└", " "
		}
		childLines := FormatTree(child)
		for j, line := range childLines {
			prefix := cont
			if j == 0 {
				prefix = head
			}
			lines = append(lines, prefix+" "+line)
		}
	}
	return lines
}
