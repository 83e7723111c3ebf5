package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	cache := ImageCache{
		"a.jpg": "https://img.example/a.jpg",
		"b.jpg": "https://img.example/b.jpg",
	}

	t.Run("exact match returns key", func(t *testing.T) {
		name, ok := Resolve(cache, "https://img.example/b.jpg")
		assert.True(t, ok)
		assert.Equal(t, "b.jpg", name)
	})

	t.Run("no normalisation", func(t *testing.T) {
		_, ok := Resolve(cache, "https://img.example/b.jpg?x=1")
		assert.False(t, ok)
		_, ok = Resolve(cache, "HTTPS://img.example/b.jpg")
		assert.False(t, ok)
	})

	t.Run("empty target never matches", func(t *testing.T) {
		_, ok := Resolve(ImageCache{"blank.jpg": ""}, "")
		assert.False(t, ok)
	})

	t.Run("nil cache", func(t *testing.T) {
		_, ok := Resolve(nil, "https://img.example/a.jpg")
		assert.False(t, ok)
	})
}

func TestResolve_DuplicateValuesPickSmallestKey(t *testing.T) {
	cache := ImageCache{
		"poster_3.jpg": "https://img.example/same.jpg",
		"poster_1.jpg": "https://img.example/same.jpg",
		"poster_2.jpg": "https://img.example/same.jpg",
	}
	for i := 0; i < 20; i++ {
		name, ok := Resolve(cache, "https://img.example/same.jpg")
		assert.True(t, ok)
		assert.Equal(t, "poster_1.jpg", name)
	}
}

func TestIndex_AgreesWithResolve(t *testing.T) {
	cache := ImageCache{
		"z.jpg":   "u1",
		"a.jpg":   "u1",
		"m.jpg":   "u2",
		"e.jpg":   "",
		"x y.png": "u3",
	}
	idx := NewIndex(cache)
	assert.Equal(t, 3, idx.Len())

	for _, target := range []string{"u1", "u2", "u3", "u4", ""} {
		wantName, wantOK := Resolve(cache, target)
		gotName, gotOK := idx.Lookup(target)
		assert.Equal(t, wantOK, gotOK, target)
		assert.Equal(t, wantName, gotName, target)
	}
}

func TestIndex_NilSafe(t *testing.T) {
	var idx *Index
	_, ok := idx.Lookup("u1")
	assert.False(t, ok)
	assert.Zero(t, idx.Len())
}
