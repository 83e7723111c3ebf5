package gallery

// Resolve returns the filename in cache whose source URL equals target.
//
// Matching is exact string equality. When several filenames map to the same
// URL the lexicographically smallest one wins, so the result does not depend
// on map iteration order. An empty target never matches.
func Resolve(cache ImageCache, target string) (string, bool) {
	if target == "" {
		return "", false
	}
	var best string
	found := false
	for name, src := range cache {
		if src != target {
			continue
		}
		if !found || name < best {
			best = name
			found = true
		}
	}
	return best, found
}

// Index is a reverse view of an ImageCache, from source URL to filename.
// It gives the same answers as Resolve in constant time per lookup.
type Index struct {
	byURL map[string]string
}

// NewIndex builds the reverse index of cache.
func NewIndex(cache ImageCache) *Index {
	idx := &Index{byURL: make(map[string]string, len(cache))}
	for name, src := range cache {
		if src == "" {
			continue
		}
		if cur, ok := idx.byURL[src]; ok && cur <= name {
			continue
		}
		idx.byURL[src] = name
	}
	return idx
}

// Lookup returns the local filename mirrored from target.
func (idx *Index) Lookup(target string) (string, bool) {
	if idx == nil || target == "" {
		return "", false
	}
	name, ok := idx.byURL[target]
	return name, ok
}

// Len returns the number of distinct source URLs in the index.
func (idx *Index) Len() int {
	if idx == nil {
		return 0
	}
	return len(idx.byURL)
}
