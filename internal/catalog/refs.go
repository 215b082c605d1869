package catalog

// Ref is a named catalog dimension entry: a brand, a category, or a style.
// The remote API enumerates all three as id/name pairs.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// RefNames returns just the display names of a slice of refs, preserving
// order. Used by list-style CLI output.
func RefNames(refs []Ref) []string {
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = r.Name
	}
	return names
}
