// Package catalog holds the static cinema catalog: locations, theatres,
// movies and the showtimes derived from them.  The catalog is built once
// at startup and is read-only afterwards, so it is safe for concurrent use
// without locking.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/iliyamo/cinebook/internal/model"
)

//go:embed catalog.yaml
var defaultTables []byte

// Tables is the raw, declarative form of the catalog as stored in YAML.
type Tables struct {
	Locations    []string        `yaml:"locations"`
	Theatres     []model.Theatre `yaml:"theatres"`
	Movies       []model.Movie   `yaml:"movies"`
	Technologies []string        `yaml:"technologies"`
	Slots        []string        `yaml:"slots"`
}

// Catalog is the expanded, indexed catalog.
type Catalog struct {
	locations []string
	theatres  []model.Theatre
	movies    []model.Movie
	showtimes []model.Showtime

	theatreByID  map[string]model.Theatre
	movieByID    map[string]model.Movie
	showtimeByID map[string]model.Showtime
}

// Default builds the catalog from the tables embedded in the binary.
func Default() (*Catalog, error) {
	return Parse(defaultTables)
}

// Load builds the catalog from a YAML file.  An empty path selects the
// embedded tables.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(raw)
}

// Parse decodes YAML tables and builds a catalog from them.
func Parse(raw []byte) (*Catalog, error) {
	var t Tables
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return New(t)
}

// New validates the tables and generates showtimes.  Showtime IDs are
// assigned sequentially from 1 walking theatres, then movies, then slots
// in table order.  The technology tag cycles through Technologies by slot
// index and the first three of every four slots are cancellable.
func New(t Tables) (*Catalog, error) {
	if len(t.Technologies) == 0 {
		return nil, errors.New("catalog: at least one technology is required")
	}
	c := &Catalog{
		locations:    append([]string(nil), t.Locations...),
		theatres:     append([]model.Theatre(nil), t.Theatres...),
		movies:       append([]model.Movie(nil), t.Movies...),
		theatreByID:  make(map[string]model.Theatre, len(t.Theatres)),
		movieByID:    make(map[string]model.Movie, len(t.Movies)),
		showtimeByID: make(map[string]model.Showtime, len(t.Theatres)*len(t.Movies)*len(t.Slots)),
	}
	for _, th := range t.Theatres {
		if th.ID == "" {
			return nil, fmt.Errorf("catalog: theatre %q has no id", th.Name)
		}
		if _, dup := c.theatreByID[th.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate theatre id %s", th.ID)
		}
		c.theatreByID[th.ID] = th
	}
	for _, m := range t.Movies {
		if m.ID == "" {
			return nil, fmt.Errorf("catalog: movie %q has no id", m.Name)
		}
		if _, dup := c.movieByID[m.ID]; dup {
			return nil, fmt.Errorf("catalog: duplicate movie id %s", m.ID)
		}
		c.movieByID[m.ID] = m
	}

	next := 1
	for _, th := range t.Theatres {
		for _, m := range t.Movies {
			for idx, slot := range t.Slots {
				st := model.Showtime{
					ID:          strconv.Itoa(next),
					TheatreID:   th.ID,
					MovieID:     m.ID,
					Time:        slot,
					Technology:  t.Technologies[idx%len(t.Technologies)],
					Cancellable: idx%4 < 3,
				}
				c.showtimes = append(c.showtimes, st)
				c.showtimeByID[st.ID] = st
				next++
			}
		}
	}
	return c, nil
}

// Locations returns the configured locations in table order.
func (c *Catalog) Locations() []string {
	return append([]string(nil), c.locations...)
}

// Movies returns all movies keyed by ID.
func (c *Catalog) Movies() map[string]model.Movie {
	out := make(map[string]model.Movie, len(c.movies))
	for _, m := range c.movies {
		out[m.ID] = m
	}
	return out
}

// TheatresIn maps theatre ID to name for every theatre in the given
// location.  Matching ignores case.  An unknown location yields an empty,
// non-nil map.
func (c *Catalog) TheatresIn(location string) map[string]string {
	out := map[string]string{}
	for _, th := range c.theatres {
		if strings.EqualFold(th.Location, location) {
			out[th.ID] = th.Name
		}
	}
	return out
}

// Theatre looks up a theatre by ID.
func (c *Catalog) Theatre(id string) (model.Theatre, bool) {
	th, ok := c.theatreByID[id]
	return th, ok
}

// Movie looks up a movie by ID.
func (c *Catalog) Movie(id string) (model.Movie, bool) {
	m, ok := c.movieByID[id]
	return m, ok
}

// Showtime looks up a showtime by ID.
func (c *Catalog) Showtime(id string) (model.Showtime, bool) {
	st, ok := c.showtimeByID[id]
	return st, ok
}

// ShowtimesFor lists the showtimes of a theatre, optionally narrowed to a
// single movie, in generation order.  Unknown theatres or movies produce an
// empty, non-nil slice.
func (c *Catalog) ShowtimesFor(theatreID, movieID string) []model.ShowtimeSummary {
	out := make([]model.ShowtimeSummary, 0)
	for _, st := range c.showtimes {
		if st.TheatreID != theatreID {
			continue
		}
		if movieID != "" && st.MovieID != movieID {
			continue
		}
		m := c.movieByID[st.MovieID]
		out = append(out, model.ShowtimeSummary{
			ShowtimeID:  st.ID,
			MovieID:     st.MovieID,
			MovieName:   m.Name,
			Genres:      m.Genres,
			Rating:      m.Rating,
			Time:        st.Time,
			Technology:  st.Technology,
			Cancellable: st.Cancellable,
			Price:       Price(st.Time),
		})
	}
	return out
}

// Len reports the number of generated showtimes.
func (c *Catalog) Len() int { return len(c.showtimes) }
