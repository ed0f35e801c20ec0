// Package perscenario implements PerScenario[T] (spec Section 4.2): a value
// whose keys are scenarios, whose union of keys always covers the
// universal scenario, and whose single mutating primitive, Update, keeps
// that coverage invariant no matter how many times it is called.
package perscenario

import (
	"sort"

	"github.com/briot/gprdeps/internal/scenario"
)

// Map is a PerScenario<T>: possibly-overlapping scenario keys, covering the
// universal scenario, mapped to values of T.
type Map[T any] struct {
	entries map[scenario.Bits]T
}

// New returns a Map with a single entry, valid under every scenario.
func New[T any](defaultVal T) *Map[T] {
	return &Map[T]{entries: map[scenario.Bits]T{scenario.Universal: defaultVal}}
}

// NewFromPairs builds a Map directly from a set of (scenario, value) pairs,
// as happens when a scenario variable is born: one pair per valid value,
// each produced by Variable.Mask.
func NewFromPairs[T any](pairs map[scenario.Bits]T) *Map[T] {
	out := make(map[scenario.Bits]T, len(pairs))
	for s, v := range pairs {
		out[s] = v
	}
	return &Map[T]{entries: out}
}

// Entries exposes the raw scenario->value map. Callers must not mutate it.
func (m *Map[T]) Entries() map[scenario.Bits]T {
	return m.entries
}

// Len returns the number of distinct scenario keys.
func (m *Map[T]) Len() int {
	return len(m.entries)
}

// Map transforms every value, keeping the same scenario keys.
func Map1[T, U any](m *Map[T], f func(T) U) *Map[U] {
	out := make(map[scenario.Bits]U, len(m.entries))
	for s, v := range m.entries {
		out[s] = f(v)
	}
	return &Map[U]{entries: out}
}

// Update is the only mutating primitive (spec 4.2): for every delta entry
// restricted to context, it splits self's entries to the intersection and
// carries over anything outside that restriction untouched.
func (m *Map[T]) Update(delta *Map[T], context scenario.Bits, vars *scenario.Set, f func(self, other T) T) {
	out := make(map[scenario.Bits]T)
	carried := make(map[scenario.Bits]T)
	touched := make(map[scenario.Bits]bool, len(m.entries))
	original := m.entries
	empty := func(b scenario.Bits) bool { return b.IsZero() || vars.NeverMatches(b) }

	for sd, vd := range delta.entries {
		sPrime := sd.And(context)
		if empty(sPrime) {
			continue
		}
		for st, vt := range original {
			si := st.And(sPrime)
			if empty(si) {
				continue
			}
			touched[st] = true
			out[si] = f(vt, vd)
			for _, n := range vars.Negate(sPrime) {
				stn := st.And(n)
				if !empty(stn) {
					carried[stn] = vt
				}
			}
		}
	}
	for stn, vt := range carried {
		if _, ok := out[stn]; !ok {
			out[stn] = vt
		}
	}
	for st, vt := range original {
		if !touched[st] {
			out[st] = vt
		}
	}
	m.entries = out
}

// Describer renders a scenario for display; scenario.Set satisfies it.
type Describer interface {
	Describe(scenario.Bits) string
}

// TwoColumns renders one "scenario value" line per entry, scenario
// descriptions left-padded to a common width, sorted for determinism.
func (m *Map[T]) TwoColumns(vars Describer, indent, eol string, format func(T) string) string {
	type row struct{ scenarioText, value string }
	rows := make([]row, 0, len(m.entries))
	width := 0
	for s, v := range m.entries {
		txt := vars.Describe(s)
		if len(txt) > width {
			width = len(txt)
		}
		rows = append(rows, row{txt, format(v)})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].scenarioText != rows[j].scenarioText {
			return rows[i].scenarioText < rows[j].scenarioText
		}
		return rows[i].value < rows[j].value
	})
	out := ""
	for i, r := range rows {
		if i > 0 {
			out += eol
		}
		out += indent + pad(r.scenarioText, width) + " " + r.value
	}
	return out
}

func pad(s string, width int) string {
	for len(s) < width {
		s += " "
	}
	return s
}
