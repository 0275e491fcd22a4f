package keylayout

import (
	"fmt"
	"io"
	"strings"

	"github.com/trackerlab/keylogic/pkg/ids"
)

// Render returns an indented text form of the tree rooted at n.
func Render(n Node) string {
	var sb strings.Builder
	_ = Write(&sb, n)
	return sb.String()
}

// Write renders the tree rooted at n to w.
func Write(w io.Writer, n Node) error {
	return write(w, n, 0)
}

func write(w io.Writer, n Node, depth int) error {
	indent := strings.Repeat("  ", depth)
	var line string
	switch v := n.(type) {
	case *End:
		line = "end"
		if s, ok := v.req.(fmt.Stringer); ok && s.String() != "" {
			line += " requires " + s.String()
		}
	case *BigKey:
		line = "big key in " + joinLocations(v.locations)
	case *SmallKey:
		line = fmt.Sprintf("small keys %d/%d in %s", v.spec.Keys, v.spec.TotalKeys, joinLocations(v.spec.Locations))
		if v.spec.BigKeyInList {
			line += " (+big key)"
		}
	default:
		line = fmt.Sprintf("%T", n)
	}
	if _, err := fmt.Fprintf(w, "%s- %s\n", indent, line); err != nil {
		return err
	}
	for _, c := range n.Children() {
		if err := write(w, c, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func joinLocations(locs []ids.LocationID) string {
	if len(locs) == 0 {
		return "[]"
	}
	names := make([]string, len(locs))
	for i, l := range locs {
		names[i] = l.String()
	}
	return "[" + strings.Join(names, ", ") + "]"
}
