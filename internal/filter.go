package gallery

// Predicate reports whether a poster should be kept.
type Predicate func(post *Poster) bool

// InCategory keeps posters whose normalised category equals name.
func InCategory(name string) Predicate {
	want := NormalizeCategory(name)
	return func(post *Poster) bool {
		return post.CategoryName() == want
	}
}

// HasImages keeps posters with at least one image.
func HasImages(post *Poster) bool {
	return len(post.Images) != 0
}

// Indexed is a poster together with its index in the metadata document.
type Indexed struct {
	ID     int
	Poster Poster
}

// Select returns the posters that pass every predicate, in document order,
// tagged with their index.
func Select(posters []Poster, preds ...Predicate) []Indexed {
	var out []Indexed
	for i := range posters {
		keep := true
		for _, pred := range preds {
			if !pred(&posters[i]) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, Indexed{ID: i, Poster: posters[i]})
		}
	}
	return out
}
