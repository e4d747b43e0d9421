package web

// Toast is a one-shot notice rendered at the top of the page.
type Toast struct {
	Kind    string
	Message string
}

// HeaderData is rendered by the shared header partial on every page.
type HeaderData struct {
	LoggedIn bool
	Username string
	LoginURL string
	Toast    *Toast
}

// Page wraps shared Header + page-specific Content.
type Page[T any] struct {
	Header  HeaderData
	Content T
}
