package model

// Row is one table record keyed by column name. All cells are text.
type Row map[string]string

// Normalize returns a copy of r holding exactly the given columns, with
// missing cells set to the empty string.
func (r Row) Normalize(columns []string) Row {
	out := make(Row, len(columns))
	for _, column := range columns {
		out[column] = r[column]
	}
	return out
}

// Clone returns a shallow copy of r.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
