package main

type PasteRequest struct {
	Text string `json:"text"`
}

type AuthURLResponse struct {
	URL string `json:"url"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
