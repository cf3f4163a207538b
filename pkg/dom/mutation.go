package dom

import "golang.org/x/net/html"

// Op is the type of a document mutation.
type Op uint8

const (
	OpCreate     Op = iota + 1 // Node created (not yet attached)
	OpInsert                   // Node inserted or appended
	OpRemove                   // Node removed from its parent
	OpReplace                  // Node replaced by another
	OpSetText                  // Text node data changed
	OpSetAttr                  // Attribute set
	OpRemoveAttr               // Attribute removed
	OpSetField                 // Field set
	OpListen                   // Event listener added
	OpUnlisten                 // Event listener removed
	opCount
)

// String returns the string representation of the Op.
func (op Op) String() string {
	switch op {
	case OpCreate:
		return "Create"
	case OpInsert:
		return "Insert"
	case OpRemove:
		return "Remove"
	case OpReplace:
		return "Replace"
	case OpSetText:
		return "SetText"
	case OpSetAttr:
		return "SetAttr"
	case OpRemoveAttr:
		return "RemoveAttr"
	case OpSetField:
		return "SetField"
	case OpListen:
		return "Listen"
	case OpUnlisten:
		return "Unlisten"
	default:
		return "Unknown"
	}
}

// Ops lists every mutation op.
func Ops() []Op {
	ops := make([]Op, 0, int(opCount)-1)
	for op := OpCreate; op < opCount; op++ {
		ops = append(ops, op)
	}
	return ops
}

// Mutation is a single recorded document change.
type Mutation struct {
	Op     Op
	Target *html.Node // node mutated (child for Insert/Remove/Replace)
	Parent *html.Node // parent for Insert/Remove/Replace
	Key    string     // attribute, field or event type
	Value  string     // new text or attribute value
}

// Observer receives mutations as they happen.
type Observer func(Mutation)

// Stats counts mutations by op.
type Stats struct {
	counts [opCount]int
}

// Count returns the number of mutations of op.
func (s Stats) Count(op Op) int {
	if op >= opCount {
		return 0
	}
	return s.counts[op]
}

// Total returns the number of mutations of every op.
func (s Stats) Total() int {
	n := 0
	for _, c := range s.counts {
		n += c
	}
	return n
}

// Sub returns the per-op difference s - prev.
func (s Stats) Sub(prev Stats) Stats {
	var out Stats
	for i := range s.counts {
		out.counts[i] = s.counts[i] - prev.counts[i]
	}
	return out
}

func (d *Document) record(m Mutation) {
	d.stats.counts[m.Op]++
	for _, o := range d.observers {
		if o != nil {
			o(m)
		}
	}
}

// Observe registers an observer and returns a function removing it.
func (d *Document) Observe(o Observer) (cancel func()) {
	d.observers = append(d.observers, o)
	idx := len(d.observers) - 1
	return func() {
		if idx < len(d.observers) {
			d.observers[idx] = nil
		}
	}
}

// Stats returns the mutation counts since creation or the last ResetStats.
func (d *Document) Stats() Stats {
	return d.stats
}

// ResetStats zeroes the mutation counts.
func (d *Document) ResetStats() {
	d.stats = Stats{}
}
