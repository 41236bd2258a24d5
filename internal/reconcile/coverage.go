package reconcile

// Unindexed returns the catalog keys not present in linked, excluding auxKey.
// The auxiliary note must never list itself, even when something links to it.
// Pure set arithmetic, no I/O.
func Unindexed(catalog map[string]string, linked map[string]struct{}, auxKey string) map[string]struct{} {
	out := make(map[string]struct{}, len(catalog))
	for key := range catalog {
		if key == auxKey {
			continue
		}
		if _, ok := linked[key]; ok {
			continue
		}
		out[key] = struct{}{}
	}
	return out
}
