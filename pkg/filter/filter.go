// Package filter holds the explorer's view state: which domains are enabled
// and which cluster, if any, is focused.
//
// State is an immutable value; every operation returns a new State. Store is
// the thin holder the UI and the watcher share.
package filter

import (
	"sort"
	"strings"

	"github.com/vanderheijden86/trendradar/pkg/model"
)

// State is one coherent filter/selection snapshot. The zero value is not
// valid; start from New.
type State struct {
	enabled      map[model.Domain]bool
	focusID      string
	focusDomain  model.Domain
	focusPresent bool
}

// New returns the initial state: every domain enabled, nothing focused.
func New() State {
	enabled := make(map[model.Domain]bool, len(model.Domains))
	for _, d := range model.Domains {
		enabled[d] = true
	}
	return State{enabled: enabled}
}

// Enabled reports whether d is currently shown.
func (s State) Enabled(d model.Domain) bool {
	return s.enabled[d]
}

// EnabledDomains returns the enabled domains in priority order.
func (s State) EnabledDomains() []model.Domain {
	out := make([]model.Domain, 0, len(s.enabled))
	for _, d := range model.Domains {
		if s.enabled[d] {
			out = append(out, d)
		}
	}
	return out
}

// FocusedCluster returns the focused cluster id.
func (s State) FocusedCluster() (string, bool) {
	return s.focusID, s.focusPresent
}

// ToggleDomain flips d. Turning off the last enabled domain is a no-op.
// Turning off the domain of the focused cluster also clears focus. Unknown
// domains are ignored.
func (s State) ToggleDomain(d model.Domain) State {
	if !d.IsValid() {
		return s
	}
	next := s.clone()
	if next.enabled[d] {
		if len(s.EnabledDomains()) == 1 {
			return s
		}
		delete(next.enabled, d)
		if next.focusPresent && next.focusDomain == d {
			next = next.ClearFocus()
		}
		return next
	}
	next.enabled[d] = true
	return next
}

// SetDomains replaces the enabled set. An empty or all-unknown list leaves
// the state unchanged.
func (s State) SetDomains(domains ...model.Domain) State {
	enabled := make(map[model.Domain]bool, len(domains))
	for _, d := range domains {
		if d.IsValid() {
			enabled[d] = true
		}
	}
	if len(enabled) == 0 {
		return s
	}
	next := s.clone()
	next.enabled = enabled
	if next.focusPresent && !enabled[next.focusDomain] {
		next = next.ClearFocus()
	}
	return next
}

// Focus narrows the view to cluster c. Clusters in a disabled domain cannot
// be focused.
func (s State) Focus(c model.Cluster) State {
	if !s.enabled[c.Domain] {
		return s
	}
	next := s.clone()
	next.focusID = c.ID
	next.focusDomain = c.Domain
	next.focusPresent = true
	return next
}

// ClearFocus drops the focused cluster.
func (s State) ClearFocus() State {
	next := s.clone()
	next.focusID = ""
	next.focusDomain = model.DomainUnknown
	next.focusPresent = false
	return next
}

// Reset restores the initial state.
func (s State) Reset() State {
	return New()
}

// Equal reports whether two states select the same subset.
func (s State) Equal(o State) bool {
	if s.focusPresent != o.focusPresent || s.focusID != o.focusID {
		return false
	}
	for _, d := range model.Domains {
		if s.enabled[d] != o.enabled[d] {
			return false
		}
	}
	return true
}

// String is a compact summary for status lines and logs.
func (s State) String() string {
	names := make([]string, 0, len(s.enabled))
	for _, d := range s.EnabledDomains() {
		names = append(names, string(d))
	}
	sort.Strings(names)
	out := "domains=" + strings.Join(names, ",")
	if s.focusPresent {
		out += " focus=" + s.focusID
	}
	return out
}

func (s State) clone() State {
	enabled := make(map[model.Domain]bool, len(s.enabled))
	for d, on := range s.enabled {
		if on {
			enabled[d] = true
		}
	}
	s.enabled = enabled
	return s
}

// ActiveSet is the subset of a snapshot that survives the current state.
type ActiveSet struct {
	Clusters     []model.Cluster
	Technologies []model.Technology
}

// Empty reports whether nothing is left to lay out.
func (a ActiveSet) Empty() bool {
	return len(a.Technologies) == 0 && len(a.Clusters) == 0
}

// Apply derives the active clusters and technologies. Technologies must be in
// an enabled domain and, when a cluster is focused, resolve to it under mode.
// Clusters must be in an enabled domain and, when focused, be that cluster.
// In domain mode the focused "cluster" is a domain.
func Apply(s State, clusters []model.Cluster, technologies []model.Technology, mode model.ClusteringMode) ActiveSet {
	mode = model.ParseClusteringMode(string(mode))
	var out ActiveSet
	for _, c := range clusters {
		if !s.enabled[c.Domain] {
			continue
		}
		if s.focusPresent && c.ID != s.focusID {
			continue
		}
		out.Clusters = append(out.Clusters, c)
	}
	for _, t := range technologies {
		if !s.enabled[t.Domain] {
			continue
		}
		if s.focusPresent && t.ClusterID(mode) != s.focusID {
			continue
		}
		out.Technologies = append(out.Technologies, t)
	}
	return out
}
