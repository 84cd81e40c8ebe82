package models

// BlogPost represents one write-up loaded from the blog directory
type BlogPost struct {
	Slug    string   `json:"slug"`
	Title   string   `json:"title"`
	Date    string   `json:"date"`
	Summary string   `json:"summary"`
	Tags    []string `json:"tags"`
}

// PostResponse is what we send to the client for a single post
type PostResponse struct {
	BlogPost
	HTML string `json:"html"`
}
