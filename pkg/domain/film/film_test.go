package film_test

import (
	"testing"

	"github.com/amirasaad/cinema/pkg/domain"
	"github.com/amirasaad/cinema/pkg/domain/film"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func details() film.Details {
	return film.Details{
		Title:       " Dune ",
		Category:    "Sci-Fi",
		Price:       45000,
		Link:        "https://example.com/dune",
		Description: "Spice and sand",
	}
}

func TestNew(t *testing.T) {
	f, err := film.New(details(), "film/thumb.png", "thumb-id")
	require.NoError(t, err)
	assert.Equal(t, "Dune", f.Title)
	assert.Equal(t, int64(45000), f.Price)
	assert.Equal(t, "thumb-id", f.ThumbnailID)

	_, err = film.New(details(), "", "")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDetails_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*film.Details)
	}{
		{"title", func(d *film.Details) { d.Title = "  " }},
		{"category", func(d *film.Details) { d.Category = "" }},
		{"price", func(d *film.Details) { d.Price = -1 }},
		{"link", func(d *film.Details) { d.Link = "" }},
		{"desc", func(d *film.Details) { d.Description = "" }},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			d := details()
			tc.mutate(&d)
			err := d.Validate()
			require.ErrorIs(t, err, domain.ErrValidation)
			assert.Contains(t, err.Error(), tc.name)
		})
	}

	free := details()
	free.Price = 0
	assert.NoError(t, free.Validate())
}
