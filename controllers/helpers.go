package controllers

// Created is the standard response for new items
type Created struct {
	ID string `json:"id"`
}

// CreatedPoll is the response for new polls (the slug is a display aid,
// clients embed it in shareable URLs)
type CreatedPoll struct {
	ID      string `json:"pollId"`
	URLSlug string `json:"urlSlug"`
}
