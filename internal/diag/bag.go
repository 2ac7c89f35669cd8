package diag

import "slices"

// Bag stores diagnostics up to a limit. Reports past the limit are counted
// but not kept.
type Bag struct {
	items    []Diagnostic
	max      int // 0 - без ограничения
	overflow int
}

func NewBag(max int) *Bag {
	return &Bag{items: make([]Diagnostic, 0, 8), max: max}
}

// Add returns false when the bag is full.
func (b *Bag) Add(d Diagnostic) bool {
	if b.max > 0 && len(b.items) >= b.max {
		b.overflow++
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Overflow is the number of diagnostics rejected by the limit.
func (b *Bag) Overflow() int { return b.overflow }

func (b *Bag) Len() int { return len(b.items) }

// Items отдаёт внутренний срез, менять его нельзя.
func (b *Bag) Items() []Diagnostic { return b.items }

func (b *Bag) HasErrors() bool {
	return slices.ContainsFunc(b.items, isError)
}

func (b *Bag) HasWarnings() bool {
	return slices.ContainsFunc(b.items, isWarning)
}

// Errors returns a sorted copy of the error diagnostics.
func (b *Bag) Errors() []Diagnostic { return b.sorted(isError) }

// Warnings returns a sorted copy of the warnings.
func (b *Bag) Warnings() []Diagnostic { return b.sorted(isWarning) }

func (b *Bag) sorted(keep func(Diagnostic) bool) []Diagnostic {
	out := make([]Diagnostic, 0, len(b.items))
	for _, d := range b.items {
		if keep(d) {
			out = append(out, d)
		}
	}
	slices.SortStableFunc(out, Diagnostic.Compare)
	return out
}

func isError(d Diagnostic) bool   { return d.Severity >= SevError }
func isWarning(d Diagnostic) bool { return d.Severity == SevWarning }
