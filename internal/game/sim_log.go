package game

import (
	"fmt"
	"sort"
	"strings"
)

// SimLogEntry is one recorded simulation event.
type SimLogEntry struct {
	Tick     int
	Agent    string  // label e.g. "A0", or "--" for level-wide events
	Category string  // spawn, state, action, dig, fall, portal, outcome, level, move
	Key      string  // specific event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[T=042] A0   state    change           walking → digging
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[T=%03d] %-4s %-8s %-16s %s",
		e.Tick, e.Agent, e.Category, e.Key, e.Value)
}

// SimLog collects structured events. It is unbounded and machine-readable.
type SimLog struct {
	entries []SimLogEntry
	verbose bool
}

// NewSimLog creates a SimLog. If verbose is true, per-tick position entries
// are also recorded.
func NewSimLog(verbose bool) *SimLog {
	return &SimLog{verbose: verbose}
}

// Add records a new entry.
func (sl *SimLog) Add(tick int, agent, category, key, value string, numVal float64) {
	sl.entries = append(sl.entries, SimLogEntry{
		Tick:     tick,
		Agent:    agent,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	})
}

// AddVerbose records an entry only when verbose mode is on.
func (sl *SimLog) AddVerbose(tick int, agent, category, key, value string, numVal float64) {
	if !sl.verbose {
		return
	}
	sl.Add(tick, agent, category, key, value, numVal)
}

// Verbose reports whether per-tick entries are recorded.
func (sl *SimLog) Verbose() bool {
	return sl.verbose
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Reset drops all entries.
func (sl *SimLog) Reset() {
	sl.entries = sl.entries[:0]
}

// match reports whether e has the category and key (empty matches any) and a
// value containing substr.
func (e SimLogEntry) match(category, key, substr string) bool {
	if category != "" && e.Category != category {
		return false
	}
	if key != "" && e.Key != key {
		return false
	}
	return substr == "" || strings.Contains(e.Value, substr)
}

// Filter returns entries matching the given category and/or key.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if e.match(category, key, "") {
			out = append(out, e)
		}
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	n := 0
	for _, e := range sl.entries {
		if e.match(category, key, "") {
			n++
		}
	}
	return n
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	for i := len(sl.entries) - 1; i >= 0; i-- {
		if sl.entries[i].match(category, key, "") {
			return sl.entries[i], true
		}
	}
	return SimLogEntry{}, false
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	return sl.FirstTick(category, key, valueSubstr) >= 0
}

// FirstTick is the tick of the earliest matching entry, or -1.
func (sl *SimLog) FirstTick(category, key, valueSubstr string) int {
	for _, e := range sl.entries {
		if e.match(category, key, valueSubstr) {
			return e.Tick
		}
	}
	return -1
}

// Labels returns the sorted, distinct agent labels with a matching entry.
// Level-wide entries ("--") are skipped.
func (sl *SimLog) Labels(category, key, valueSubstr string) []string {
	seen := map[string]bool{}
	var out []string
	for _, e := range sl.entries {
		if e.Agent == "--" || seen[e.Agent] || !e.match(category, key, valueSubstr) {
			continue
		}
		seen[e.Agent] = true
		out = append(out, e.Agent)
	}
	sort.Strings(out)
	return out
}

// StatePath rebuilds the sequence of states an agent went through from its
// state change entries. The first element is the state it spawned in.
func (sl *SimLog) StatePath(label string) []AgentState {
	var path []AgentState
	for _, e := range sl.entries {
		if e.Agent != label || !e.match("state", "change", "") {
			continue
		}
		from, to, ok := strings.Cut(e.Value, " → ")
		if !ok {
			continue
		}
		if len(path) == 0 {
			if st, ok := ParseAgentState(from); ok {
				path = append(path, st)
			}
		}
		if st, ok := ParseAgentState(to); ok {
			path = append(path, st)
		}
	}
	return path
}

// Format returns the full log as a single string for t.Log output.
func (sl *SimLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Summary returns a short human-readable summary of the agent population.
func (sl *SimLog) Summary(tick int, agents []*Agent) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "--- Summary at T=%03d ---\n", tick)
	c := CountPopulation(agents)
	fmt.Fprintf(&sb, "Population: %s\n", c.Describe())
	fmt.Fprintf(&sb, "Outcome: %s\n", c.Outcome())
	for _, a := range agents {
		fmt.Fprintf(&sb, "%-4s %-10s (%.1f,%.1f) hp=%.0f survived=%t\n",
			a.label, a.state, a.x, a.y, a.health, a.survived)
	}
	return sb.String()
}
