// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package argstates

import (
	"fmt"
	"sort"
)

// ParamSlot accumulates the distinct values observed for one parameter
// position of one symbol across every analyzed call site.
type ParamSlot struct {
	values map[string]bool
	nondet bool
}

func newParamSlot() *ParamSlot {
	return &ParamSlot{values: make(map[string]bool)}
}

// Values returns the observed values in sorted order
func (s *ParamSlot) Values() []string {
	values := make([]string, 0, len(s.values))
	for value := range s.values {
		values = append(values, value)
	}
	sort.Strings(values)
	return values
}

// Exhaustive reports whether the value set is known to be complete: it is
// false as soon as a single call site contributed a value that could not
// be determined statically. Harness generation may only restrict a
// parameter when its slot is exhaustive.
func (s *ParamSlot) Exhaustive() bool {
	return !s.nondet
}

// Catalogue is the accumulated mapping from symbol name to per-parameter
// value sets. It is the only state that outlives a translation unit and is
// mutated through Fold and Merge only. The single-threaded driver needs no
// locking; a parallel driver must either serialize Fold calls or give each
// worker its own catalogue and Merge them afterwards, which is safe
// because the merge is a plain set union.
type Catalogue struct {
	slots map[string][]*ParamSlot
}

// NewCatalogue creates an empty catalogue
func NewCatalogue() *Catalogue {
	return &Catalogue{slots: make(map[string][]*ParamSlot)}
}

// Fold merges one resolved call record into the catalogue. The slot count
// for a symbol grows to the maximum arity observed across its call sites;
// calls with fewer arguments simply do not contribute to higher slots.
// A record with an argument state outside its declared arity indicates a
// collector bug and aborts the fold of that record.
func (c *Catalogue) Fold(record *CallRecord) error {
	// Validate the whole record before touching any slot so a rejected
	// record leaves the catalogue untouched.
	for i := range record.Args {
		arg := &record.Args[i]
		if arg.ParamIndex < 0 || arg.ParamIndex >= record.Arity {
			return fmt.Errorf("call to %s at %s: argument index %d outside arity %d",
				record.Symbol, record.Location, arg.ParamIndex, record.Arity)
		}
		if arg.Kind == VarReference {
			return fmt.Errorf("call to %s at %s: unresolved variable reference %q",
				record.Symbol, record.Location, arg.Ident)
		}
	}

	slots := c.slots[record.Symbol]
	for len(slots) < record.Arity {
		slots = append(slots, newParamSlot())
	}
	c.slots[record.Symbol] = slots

	for i := range record.Args {
		arg := &record.Args[i]
		slot := slots[arg.ParamIndex]
		switch arg.Kind {
		case IntLiteral, CharLiteral, StringLiteral:
			slot.values[arg.Value] = true
		default:
			slot.nondet = true
		}
	}
	return nil
}

// Merge folds another catalogue into this one. The operation is
// commutative and associative, so per-worker catalogues can be combined
// in any order.
func (c *Catalogue) Merge(other *Catalogue) {
	for symbol, theirs := range other.slots {
		slots := c.slots[symbol]
		for len(slots) < len(theirs) {
			slots = append(slots, newParamSlot())
		}
		c.slots[symbol] = slots
		for i, slot := range theirs {
			for value := range slot.values {
				slots[i].values[value] = true
			}
			if slot.nondet {
				slots[i].nondet = true
			}
		}
	}
}

// Symbols returns the catalogued symbol names in sorted order
func (c *Catalogue) Symbols() []string {
	symbols := make([]string, 0, len(c.slots))
	for symbol := range c.slots {
		symbols = append(symbols, symbol)
	}
	sort.Strings(symbols)
	return symbols
}

// Slots returns the parameter slots recorded for a symbol, or nil when
// the symbol has no catalogued call sites.
func (c *Catalogue) Slots(symbol string) []*ParamSlot {
	return c.slots[symbol]
}

// Len returns the number of catalogued symbols
func (c *Catalogue) Len() int {
	return len(c.slots)
}

// ParamState is the serializable form of one parameter slot
type ParamState struct {
	Values     []string `json:"values" yaml:"values"`
	Exhaustive bool     `json:"exhaustive" yaml:"exhaustive"`
}

// SymbolStates is the serializable form of one catalogued symbol
type SymbolStates struct {
	Symbol string       `json:"symbol" yaml:"symbol"`
	Params []ParamState `json:"params" yaml:"params"`
}

// Entries renders the catalogue into its persisted shape: symbols sorted
// by name, parameters in call order, values sorted lexicographically.
// Re-running an unchanged analysis yields an identical result.
func (c *Catalogue) Entries() []SymbolStates {
	entries := make([]SymbolStates, 0, len(c.slots))
	for _, symbol := range c.Symbols() {
		states := SymbolStates{Symbol: symbol}
		for _, slot := range c.slots[symbol] {
			states.Params = append(states.Params, ParamState{
				Values:     slot.Values(),
				Exhaustive: slot.Exhaustive(),
			})
		}
		entries = append(entries, states)
	}
	return entries
}
