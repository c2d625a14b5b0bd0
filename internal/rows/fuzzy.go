package rows

import "github.com/sahilm/fuzzy"

// Filter returns the positions whose display name or filename fuzzy-matches
// query, in row order. Matching ignores case and only needs the characters
// of query to appear in order.
func (s *Store) Filter(query string) []int {
	out := make([]int, 0, len(s.rows))
	if query == "" {
		for i := range s.rows {
			out = append(out, i)
		}
		return out
	}
	// candidates alternate display name and filename per row
	names := make([]string, 0, 2*len(s.rows))
	for _, r := range s.rows {
		names = append(names, r.DisplayName, r.Filename)
	}
	hit := make(map[int]bool)
	for _, m := range fuzzy.Find(query, names) {
		hit[m.Index/2] = true
	}
	for i := range s.rows {
		if hit[i] {
			out = append(out, i)
		}
	}
	return out
}
