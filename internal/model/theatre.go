package model

// Theatre is a cinema venue in one of the catalog's locations.
// Theatres are static and never change after the catalog is loaded.
//
// Fields:
//
//	ID       – catalog identifier (numeric string, e.g. "1").
//	Name     – display name, e.g. "INOX: South City".
//	Location – city the theatre belongs to.
type Theatre struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Location string `json:"location" yaml:"location"`
}
