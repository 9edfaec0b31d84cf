package resource

// Columnar is implemented by optional.Value.
type Columnar interface {
	Column() (any, bool)
}

// Columns collects the columns an update writes. Absent values are
// skipped; null values write NULL.
type Columns map[string]any

func (c Columns) Put(column string, v Columnar) Columns {
	if val, ok := v.Column(); ok {
		c[column] = val
	}
	return c
}

// Data copies the written columns for a change payload.
func (c Columns) Data() map[string]any {
	out := make(map[string]any, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
