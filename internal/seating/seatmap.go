package seating

// Seat is one cell of a rendered seat map.
type Seat struct {
	Label  string `json:"label"`
	Booked bool   `json:"booked"`
}

// Row is a rendered row: its letter and the seats of each block.
type Row struct {
	Row    string   `json:"row"`
	Blocks [][]Seat `json:"blocks"`
}

// Render projects a set of booked labels onto the layout.  It does not
// touch any store; identical input yields identical output.  Booked labels
// that are not part of the layout are ignored.
func Render(booked map[string]struct{}) []Row {
	out := make([]Row, 0, len(Rows))
	for i := 0; i < len(Rows); i++ {
		r := Row{Row: string(Rows[i]), Blocks: make([][]Seat, 0, len(Blocks))}
		for _, block := range Blocks {
			seats := make([]Seat, 0, len(block))
			for _, col := range block {
				label := Label(Rows[i], col)
				_, isBooked := booked[label]
				seats = append(seats, Seat{Label: label, Booked: isBooked})
			}
			r.Blocks = append(r.Blocks, seats)
		}
		out = append(out, r)
	}
	return out
}

// CountBooked returns how many seats of a rendered map are booked.
func CountBooked(rows []Row) int {
	n := 0
	for _, r := range rows {
		for _, b := range r.Blocks {
			for _, s := range b {
				if s.Booked {
					n++
				}
			}
		}
	}
	return n
}
