package sexy

import (
	"fmt"
	"strconv"
)

// Match checks actual against pattern. In a pattern, the symbol `_` matches
// any single datum and `...` matches any remaining list items (it must be the
// last item of its list). The error names the path of the first mismatch.
func Match(pattern, actual *Node) error {
	return match(pattern, actual, "root")
}

func match(pattern, actual *Node, path string) error {
	if pattern.Type == NodeSymbol && pattern.Text == "_" {
		return nil
	}
	if pattern.Type != actual.Type {
		return fmt.Errorf("at %s: expected %s, got %s", path, pattern, actual)
	}
	if pattern.IsAtom() {
		if pattern.Text != actual.Text {
			return fmt.Errorf("at %s: expected %s, got %s", path, pattern, actual)
		}
		return nil
	}

	for i, item := range pattern.Items {
		if item.Type == NodeEllipsis {
			if i != len(pattern.Items)-1 {
				return fmt.Errorf("at %s: '...' must be the last item of a list", path)
			}
			return nil
		}
		if i >= len(actual.Items) {
			return fmt.Errorf("at %s: expected %s, got %s (missing item %d)", path, pattern, actual, i)
		}
		if err := match(item, actual.Items[i], path+"."+strconv.Itoa(i)); err != nil {
			return err
		}
	}
	if len(actual.Items) > len(pattern.Items) {
		return fmt.Errorf("at %s: expected %s, got %s (extra items)", path, pattern, actual)
	}
	return nil
}
