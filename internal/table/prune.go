package table

// Prune drops every column in which no row carries a value. A column survives
// when at least one row holds a scalar, a point, or a nested table with rows
// and columns. Surviving columns keep their relative order and the row count
// never changes, so a table may end up with zero columns.
//
// Prune only inspects top-level cells; nested tables are expected to have been
// pruned before they were embedded (see Nest). When nothing is dropped the
// input table itself is returned.
func Prune(t *Table) *Table {
	out, _ := PruneReport(t)
	return out
}

// PruneReport is Prune that also returns the names of the dropped columns.
func PruneReport(t *Table) (*Table, []string) {
	kept := make([]*Column, 0, len(t.columns))
	var dropped []string
	for _, c := range t.columns {
		if c.hasValue() {
			kept = append(kept, c)
		} else {
			dropped = append(dropped, c.name)
		}
	}
	if len(dropped) == 0 {
		return t, nil
	}

	spatial := t.spatial
	if spatial != nil {
		if _, ok := columnIn(kept, spatial.Column); !ok {
			spatial = nil
		}
	}
	return &Table{rows: t.rows, columns: kept, spatial: spatial}, dropped
}

func columnIn(cols []*Column, name string) (*Column, bool) {
	for _, c := range cols {
		if c.name == name {
			return c, true
		}
	}
	return nil, false
}
