package scriptdir

import "sort"

// Reconcile merges the persisted order with the scripts found on disk.
// Persisted names that still exist keep their recorded order; the first
// occurrence wins when the order file repeats a name. Scripts missing from
// the order are appended alphabetically. Without an order file the result is
// simply the alphabetical discovery.
func Reconcile(discovered, persisted []string) []string {
	onDisk := make(map[string]bool, len(discovered))
	for _, f := range discovered {
		onDisk[f] = true
	}
	out := make([]string, 0, len(discovered))
	seen := make(map[string]bool, len(discovered))
	for _, f := range persisted {
		if !onDisk[f] || seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	var rest []string
	for _, f := range discovered {
		if seen[f] {
			continue
		}
		seen[f] = true
		rest = append(rest, f)
	}
	sort.Strings(rest)
	return append(out, rest...)
}
