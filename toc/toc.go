package toc

// Toc is table of contents - ordered list of top level entries.
type Toc struct {
	Elements []*Entry
}

// New creates empty table of contents.
func New() *Toc {
	return &Toc{}
}

// IsEmpty reports if toc has zero or one element. Single entry toc is not
// worth displaying.
func (t *Toc) IsEmpty() bool {
	return len(t.Elements) <= 1
}

// Add inserts entry into toc. It looks at the entry level and puts it under
// the last element (recursively) if entry is deeper, otherwise entry
// becomes new top level element. Levels out of order are accepted, so
// level 2 entry without preceding level 1 simply stays at the top.
func (t *Toc) Add(entry *Entry) *Toc {
	t.Elements = insert(t.Elements, entry)
	return t
}

// Walk visits all entries in document (pre-order) order. Depth of top level
// entries is 1. When fn returns false entry children are skipped.
func (t *Toc) Walk(fn func(e *Entry, depth int) bool) {
	walk(t.Elements, 1, fn)
}

func walk(entries []*Entry, depth int, fn func(e *Entry, depth int) bool) {
	for _, e := range entries {
		if fn(e, depth) {
			walk(e.Children, depth+1, fn)
		}
	}
}

// Len returns total number of entries in the tree.
func (t *Toc) Len() (n int) {
	t.Walk(func(*Entry, int) bool {
		n++
		return true
	})
	return
}

// Depth returns maximum nesting depth, 0 for toc without entries.
func (t *Toc) Depth() (depth int) {
	t.Walk(func(_ *Entry, d int) bool {
		depth = max(depth, d)
		return true
	})
	return
}
