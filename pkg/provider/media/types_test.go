package media

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveURL(t *testing.T) {
	testCases := []struct {
		desc string
		base string
		ref  string
		want string
	}{
		{"empty ref", "http://cdn/", "", ""},
		{"absolute ref kept", "http://cdn/", "https://res.cloudinary.com/x/y.png", "https://res.cloudinary.com/x/y.png"},
		{"relative ref joined", "http://localhost:3000/uploads/", "cinema-online/transfer/a.png", "http://localhost:3000/uploads/cinema-online/transfer/a.png"},
		{"leading slash", "http://localhost:3000/uploads", "/a.png", "http://localhost:3000/uploads/a.png"},
		{"no base", "", "a.png", "a.png"},
	}
	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolveURL(tc.base, tc.ref))
		})
	}
}

func TestJoinFolder(t *testing.T) {
	assert.Equal(t, "cinema-online/film", JoinFolder("cinema-online", FolderFilm))
	assert.Equal(t, "transfer", JoinFolder("", FolderTransfer))
}
