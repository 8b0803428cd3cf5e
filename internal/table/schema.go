package table

// Field declares one output column of a record type R: its name, its kind and
// how to read the cell out of a record. Missing values read as nil.
type Field[R any] struct {
	Name  string
	Kind  Kind
	value func(R) any
}

// Schema is the ordered field descriptor of a record type. Column order in a
// built table is exactly the declaration order.
type Schema[R any] []Field[R]

// Names returns the declared column names in order.
func (s Schema[R]) Names() []string {
	names := make([]string, len(s))
	for i, f := range s {
		names[i] = f.Name
	}
	return names
}

func String[R any](name string, get func(R) string) Field[R] {
	return Field[R]{Name: name, Kind: KindString, value: func(r R) any { return get(r) }}
}

func OptString[R any](name string, get func(R) *string) Field[R] {
	return Field[R]{Name: name, Kind: KindString, value: deref(get)}
}

func Int[R any](name string, get func(R) int) Field[R] {
	return Field[R]{Name: name, Kind: KindInt, value: func(r R) any { return get(r) }}
}

func OptInt[R any](name string, get func(R) *int) Field[R] {
	return Field[R]{Name: name, Kind: KindInt, value: deref(get)}
}

func Float[R any](name string, get func(R) float64) Field[R] {
	return Field[R]{Name: name, Kind: KindFloat, value: func(r R) any { return get(r) }}
}

func OptFloat[R any](name string, get func(R) *float64) Field[R] {
	return Field[R]{Name: name, Kind: KindFloat, value: deref(get)}
}

func Bool[R any](name string, get func(R) bool) Field[R] {
	return Field[R]{Name: name, Kind: KindBool, value: func(r R) any { return get(r) }}
}

func OptBool[R any](name string, get func(R) *bool) Field[R] {
	return Field[R]{Name: name, Kind: KindBool, value: deref(get)}
}

// Nested declares a list-column. A nil table renders as an absent cell.
func Nested[R any](name string, get func(R) *Table) Field[R] {
	return Field[R]{Name: name, Kind: KindTable, value: func(r R) any {
		if t := get(r); t != nil {
			return t
		}
		return nil
	}}
}

// Lift re-targets a schema declared for S onto a record type R from which an S
// can be read, so that parent rows can broadcast a child descriptor's fields
// without redeclaring them.
func Lift[R, S any](s Schema[S], get func(R) S) Schema[R] {
	out := make(Schema[R], len(s))
	for i, f := range s {
		value := f.value
		out[i] = Field[R]{Name: f.Name, Kind: f.Kind, value: func(r R) any { return value(get(r)) }}
	}
	return out
}

func deref[R, T any](get func(R) *T) func(R) any {
	return func(r R) any {
		if v := get(r); v != nil {
			return *v
		}
		return nil
	}
}

// Build lays records out column by column, one row per record, with exactly
// the schema's fields as columns in declared order. No pruning is applied.
func Build[R any](s Schema[R], records []R) *Table {
	cols := make([]*Column, len(s))
	for i, f := range s {
		cells := make([]any, len(records))
		for r, rec := range records {
			cells[r] = f.value(rec)
		}
		cols[i] = &Column{name: f.Name, kind: f.Kind, cells: cells}
	}
	return &Table{rows: len(records), columns: cols}
}

// Nest builds the child table embedded in one list-column cell. Children are
// pruned here, before embedding, because parents treat them as opaque values.
// An empty record slice yields a zero-row table, never an absent cell.
func Nest[R any](s Schema[R], records []R) *Table {
	return Prune(Build(s, records))
}

// NestOptional is Nest for a parent field that is itself optional: a nil slice
// means the field was unset and yields an absent (nil) cell, while a non-nil
// empty slice still yields a zero-row table.
func NestOptional[R any](s Schema[R], records []R) *Table {
	if records == nil {
		return nil
	}
	return Nest(s, records)
}
