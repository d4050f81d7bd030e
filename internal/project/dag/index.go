package dag

import "sort"

// Index assigns dense IDs to names.
type Index struct {
	NameToID map[string]NodeID
	IDToName []string
}

// собрать уникальные имена, sort.Strings, раздать ID по порядку
func BuildIndex(names []string) Index {
	uniq := make(map[string]struct{}, len(names))
	for _, name := range names {
		if name != "" {
			uniq[name] = struct{}{}
		}
	}
	sorted := make([]string, 0, len(uniq))
	for name := range uniq {
		sorted = append(sorted, name)
	}
	sort.Strings(sorted)

	nameToID := make(map[string]NodeID, len(sorted))
	for i, name := range sorted {
		nameToID[name] = nodeID(i)
	}
	return Index{NameToID: nameToID, IDToName: sorted}
}

// Names maps IDs back to names.
func (idx Index) Names(ids []NodeID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = idx.IDToName[int(id)]
	}
	return out
}
