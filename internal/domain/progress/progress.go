// Package progress tracks per-module completion percentages.
package progress

import (
	"github.com/grimes-money/money-adventure/internal/domain/shared"
)

// Max is the ceiling of every module's percentage.
const Max = 100

// Tracker maps each of the five modules to a percentage in [0,100].
// Values only ever increase.
type Tracker struct {
	Modules map[shared.ModuleKey]int `json:"modules"`
}

// New returns a tracker with every module at zero.
func New() Tracker {
	t := Tracker{Modules: make(map[shared.ModuleKey]int, len(shared.AllModules))}
	for _, m := range shared.AllModules {
		t.Modules[m] = 0
	}
	return t
}

// Update adds delta to module and clamps at 100. Negative deltas are ignored.
// It returns the previous and new values.
//
// Callers must only call Update right after the ledger accepted a new
// completion, otherwise repeated requests over-count.
func (t *Tracker) Update(module shared.ModuleKey, delta int) (prev, cur int, err error) {
	if !module.IsValid() {
		return 0, 0, shared.ErrInvalidModule
	}
	if t.Modules == nil {
		*t = New()
	}

	prev = t.Modules[module]
	cur = prev
	if delta > 0 {
		cur = min(Max, prev+delta)
	}
	t.Modules[module] = cur
	return prev, cur, nil
}

// Complete sets module to 100.
func (t *Tracker) Complete(module shared.ModuleKey) (prev, cur int, err error) {
	return t.Update(module, Max)
}

// Get returns the percentage for module.
func (t Tracker) Get(module shared.ModuleKey) int {
	return t.Modules[module]
}

// Overall returns the mean percentage across all five modules.
func (t Tracker) Overall() int {
	sum := 0
	for _, m := range shared.AllModules {
		sum += t.Modules[m]
	}
	return sum / len(shared.AllModules)
}
