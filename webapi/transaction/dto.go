package transaction

// SubmitInput represents the form fields of a purchase. The proof of
// payment is sent in the multipart "image" field.
type SubmitInput struct {
	FilmID        string `json:"idFilm" form:"idFilm" validate:"required"`
	AccountNumber string `json:"accountNum" form:"accountNum" validate:"required,min=4,max=50"`
}

// TransactionData wraps one transaction or a list for the envelope.
type TransactionData struct {
	Transaction any `json:"transac"`
}
