package film

import "github.com/amirasaad/cinema/pkg/domain/film"

// FilmInput represents the non-media fields of a film. It is sent as
// multipart form data together with the thumbnail and poster files.
type FilmInput struct {
	Title       string `json:"title" form:"title" validate:"required,max=255"`
	Category    string `json:"category" form:"category" validate:"required,max=100"`
	Price       *int64 `json:"price" form:"price" validate:"required,gte=0"`
	Link        string `json:"link" form:"link" validate:"required,url"`
	Description string `json:"desc" form:"desc" validate:"required"`
}

func (in *FilmInput) details() film.Details {
	return film.Details{
		Title:       in.Title,
		Category:    in.Category,
		Price:       *in.Price,
		Link:        in.Link,
		Description: in.Description,
	}
}

// FilmData wraps one film or a list of films for the envelope.
type FilmData struct {
	Film any `json:"film"`
}

// DetailData is a film together with the caller's purchase status.
type DetailData struct {
	Status string `json:"status"`
	Film   any    `json:"film"`
}

// MyListData wraps the caller's approved purchases.
type MyListData struct {
	MyList any `json:"mylist"`
}
