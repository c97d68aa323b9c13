package models

// Sentence is one sentence of the recognized transcript together with its
// detected language and English rendering.
type Sentence struct {
	Text        string `json:"text"`
	Language    string `json:"language"`
	Translation string `json:"translation"`
}

// UnknownLanguage is reported when language detection fails.
const UnknownLanguage = "unknown"
