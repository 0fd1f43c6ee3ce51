package diag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

// Bag holds a bounded collection of diagnostics. cmd/fygc's
// reportError puts a diagnostic error into one to render it with
// diagfmt (spec §7 fixes the *driver's* behavior to first-error-wins;
// the Bag is a rendering/tooling convenience, not part of that
// contract).
type Bag struct {
	items   []Diagnostic
	maximum uint16
}

func NewBag(maximum int) *Bag {
	m, err := safecast.Conv[uint16](maximum)
	if err != nil {
		panic(fmt.Errorf("diag: bag maximum overflow: %w", err))
	}
	return &Bag{items: make([]Diagnostic, 0, m), maximum: m}
}

func (b *Bag) Add(d Diagnostic) bool {
	if len(b.items) >= int(b.maximum) {
		return false
	}
	b.items = append(b.items, d)
	return true
}

func (b *Bag) Len() int { return len(b.items) }

func (b *Bag) Items() []Diagnostic { return b.items }

func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity >= SevError {
			return true
		}
	}
	return false
}

// Sort orders diagnostics by file, start, end, then severity
// descending, matching the teacher's Bag.Sort ordering so diagnostic
// output is deterministic across runs.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		di, dj := b.items[i], b.items[j]
		if di.Primary.File != dj.Primary.File {
			return di.Primary.File < dj.Primary.File
		}
		if di.Primary.Start != dj.Primary.Start {
			return di.Primary.Start < dj.Primary.Start
		}
		if di.Primary.End != dj.Primary.End {
			return di.Primary.End < dj.Primary.End
		}
		return di.Severity > dj.Severity
	})
}
