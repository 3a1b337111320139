package model

// Showtime is a daily screening slot of a movie in a theatre.  Showtimes
// are derived from theatres × movies × time slots when the catalog is
// built; the same showtime repeats every calendar date.
//
// Fields:
//
//	ID          – sequential identifier assigned during generation.
//	TheatreID   – theatre hosting the screening.
//	MovieID     – movie being screened.
//	Time        – time of day in "hh:mm AM" form.
//	Technology  – projection/sound tag (ATMOS, LASER, ...).
//	Cancellable – whether tickets for the slot are advertised as cancellable.
type Showtime struct {
	ID          string `json:"id"`
	TheatreID   string `json:"theatre_id"`
	MovieID     string `json:"movie_id"`
	Time        string `json:"time"`
	Technology  string `json:"technology"`
	Cancellable bool   `json:"cancellable"`
}

// ShowtimeSummary is the public listing row for a showtime, joined with
// its movie and carrying the derived ticket price.
type ShowtimeSummary struct {
	ShowtimeID  string `json:"showtime_id"`
	MovieID     string `json:"movie_id"`
	MovieName   string `json:"movie_name"`
	Genres      string `json:"genres"`
	Rating      string `json:"rating"`
	Time        string `json:"time"`
	Technology  string `json:"technology"`
	Cancellable bool   `json:"cancellable"`
	Price       int    `json:"price"`
}
