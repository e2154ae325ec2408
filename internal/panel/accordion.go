// Package panel tracks which creation panels of the policy accordion are
// active and which accordion slots are expanded.
package panel

// Accordion holds the expansion state of an accordion's slots. The last
// slot is the creation panel that follows the existing entries.
type Accordion struct {
	open []bool
}

// NewAccordion creates an accordion with n collapsed slots.
func NewAccordion(n int) *Accordion {
	a := &Accordion{}
	a.Resize(n)
	return a
}

// Resize grows or shrinks the accordion to n slots, keeping the state of
// slots that survive.
func (a *Accordion) Resize(n int) {
	if n < 0 {
		n = 0
	}
	if n <= len(a.open) {
		a.open = a.open[:n]
		return
	}
	a.open = append(a.open, make([]bool, n-len(a.open))...)
}

// Len returns the number of slots.
func (a *Accordion) Len() int {
	return len(a.open)
}

// ExpandLast opens the last slot. An empty accordion is left alone.
func (a *Accordion) ExpandLast() {
	if len(a.open) == 0 {
		return
	}
	a.Open(len(a.open) - 1)
}

// Open expands slot i and collapses every other slot.
func (a *Accordion) Open(i int) {
	if i < 0 || i >= len(a.open) {
		return
	}
	for j := range a.open {
		a.open[j] = j == i
	}
}

// Toggle flips slot i, collapsing the others when it opens.
func (a *Accordion) Toggle(i int) {
	if i < 0 || i >= len(a.open) {
		return
	}
	if a.open[i] {
		a.open[i] = false
		return
	}
	a.Open(i)
}

// IsOpen reports whether slot i is expanded.
func (a *Accordion) IsOpen(i int) bool {
	return i >= 0 && i < len(a.open) && a.open[i]
}

// OpenIndex returns the expanded slot, or -1.
func (a *Accordion) OpenIndex() int {
	for i, o := range a.open {
		if o {
			return i
		}
	}
	return -1
}
