package model

// Movie describes a title that is screened in every theatre of the catalog.
//
// Fields:
//
//	ID        – catalog identifier (e.g. "201").
//	Name      – movie title.
//	Genres    – slash separated genre tags, e.g. "Action/Thriller".
//	Rating    – free form rating text as displayed to users.
//	PosterURL – path of the poster relative to the static directory.
type Movie struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name" yaml:"name"`
	Genres    string `json:"genres" yaml:"genres"`
	Rating    string `json:"rating" yaml:"rating"`
	PosterURL string `json:"poster_url" yaml:"poster_url"`
}
