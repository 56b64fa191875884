package marzipan

// MarshalResult is the envelope returned by Dump: best-effort ordered data
// plus the collected per-field errors. In many mode Many is populated
// instead of Data and errors carry their element index.
type MarshalResult struct {
	Data   *Dict
	Many   []*Dict
	Errors ErrorBag
}

// HasErrors reports whether any field failed.
func (r MarshalResult) HasErrors() bool { return !r.Errors.Empty() }

// UnmarshalResult is the envelope returned by Load. Data holds the mapping
// of successfully converted fields, or the typed object produced by the
// Maker hook. In many mode Many is populated instead.
type UnmarshalResult struct {
	Data   any
	Many   []any
	Errors ErrorBag
}

// HasErrors reports whether any field or schema validator failed.
func (r UnmarshalResult) HasErrors() bool { return !r.Errors.Empty() }

// Iterator supplies the elements of a lazy, single-pass sequence to a
// many-mode Dump.
type Iterator interface {
	// Next returns the next element, or ok=false when exhausted.
	Next() (v any, ok bool)
}

type sliceIter struct {
	items []any
	pos   int
}

func (it *sliceIter) Next() (any, bool) {
	if it.pos >= len(it.items) {
		return nil, false
	}
	v := it.items[it.pos]
	it.pos++
	return v, true
}

// IterSlice adapts a materialized slice into an Iterator.
func IterSlice(items []any) Iterator { return &sliceIter{items: items} }
