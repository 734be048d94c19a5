package catalog

// RawTable is an untyped table as read from a delimited file.
// A nil cell means the source held no value there.
type RawTable struct {
	Name   string
	Header []string
	Rows   [][]*string
}

// Len returns the number of rows.
func (t *RawTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Cell returns the cell at row i, column position col.
// Short rows and negative positions read as missing.
func (t *RawTable) Cell(i, col int) *string {
	row := t.Rows[i]
	if col < 0 || col >= len(row) {
		return nil
	}
	return row[col]
}

// IDSet is a set of external catalog ids.
type IDSet map[int64]struct{}

// NewIDSet returns a set holding ids.
func NewIDSet(ids ...int64) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Add inserts id into the set.
func (s IDSet) Add(id int64) {
	s[id] = struct{}{}
}

// Has reports whether id is in the set.
func (s IDSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}
