package gallery

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLink(t *testing.T) {
	cases := []struct {
		link string
		want Request
	}{
		{"", ListRequest()},
		{"index.html", ListRequest()},
		{"https://site.example/wall/", ListRequest()},
		{"category.html?category=%E6%B4%BB%E5%8A%A8", CategoryRequest("活动")},
		{"https://site.example/wall/category.html?category=A+B", CategoryRequest("A B")},
		{"category.html", CategoryRequest("")},
		{"detail.html?id=12", Request{Kind: PageDetail, ID: "12"}},
		{"/wall/detail.html?id=-1", Request{Kind: PageDetail, ID: "-1"}},
	}
	for _, tc := range cases {
		got, err := ParseLink(tc.link)
		require.NoError(t, err, tc.link)
		assert.Equal(t, tc.want, got, tc.link)
	}

	_, err := ParseLink("about.html")
	assert.Error(t, err)
}

func TestRequestLink_RoundTrip(t *testing.T) {
	for _, req := range []Request{ListRequest(), CategoryRequest("春节 & 周年"), DetailRequest(7)} {
		got, err := ParseLink(req.Link())
		require.NoError(t, err)
		assert.Equal(t, req, got)
	}
}

func TestParseID(t *testing.T) {
	id, err := ParseID(" 5 ")
	require.NoError(t, err)
	assert.Equal(t, 5, id)

	for _, raw := range []string{"", "-1", "1.5", "abc", "+3", "99999999999999999999999"} {
		_, err := ParseID(raw)
		assert.ErrorIs(t, err, ErrInvalidParam, raw)
	}
}

func TestParseID_Overflow(t *testing.T) {
	_, err := ParseID("99999999999999999999999")
	assert.ErrorIs(t, err, ErrInvalidParam)
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = ParseID("12a")
	assert.NotErrorIs(t, err, ErrOutOfRange)
}

func TestPageKind(t *testing.T) {
	for _, k := range []PageKind{PageList, PageCategory, PageDetail} {
		got, err := ParsePageKind(k.String())
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}
	_, err := ParsePageKind("gallery")
	assert.Error(t, err)
}
