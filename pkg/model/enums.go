package model

import "strings"

// Domain is the top-level category every trend and cluster belongs to.
type Domain string

const (
	DomainTechnology Domain = "Technology"
	DomainIndustry   Domain = "Industry"
	DomainSociety    Domain = "Society"

	// DomainUnknown marks a record whose domain string did not parse. It is
	// never enabled by a filter, so such records never reach the layout.
	DomainUnknown Domain = ""
)

// Domains lists the known domains in their fixed priority order.
var Domains = []Domain{DomainTechnology, DomainIndustry, DomainSociety}

// ParseDomain validates a raw domain string. Matching is case-insensitive.
func ParseDomain(s string) Domain {
	s = strings.TrimSpace(s)
	for _, d := range Domains {
		if strings.EqualFold(s, string(d)) {
			return d
		}
	}
	return DomainUnknown
}

// Order returns the sort priority of d (0 first). Unknown sorts last.
func (d Domain) Order() int {
	for i, known := range Domains {
		if d == known {
			return i
		}
	}
	return len(Domains)
}

// IsValid reports whether d is one of the known domains.
func (d Domain) IsValid() bool {
	return d.Order() < len(Domains)
}

// Horizon is the time-to-impact bucket of a trend, nearest first.
type Horizon string

const (
	HorizonNow     Horizon = "now"
	HorizonShort   Horizon = "short"
	HorizonMedium  Horizon = "medium"
	HorizonLong    Horizon = "long"
	HorizonDistant Horizon = "distant"

	HorizonUnknown Horizon = ""
)

// Horizons lists the buckets ordered nearest → farthest.
var Horizons = []Horizon{HorizonNow, HorizonShort, HorizonMedium, HorizonLong, HorizonDistant}

var horizonLabels = map[Horizon]string{
	HorizonNow:     "0-2 years",
	HorizonShort:   "2-5 years",
	HorizonMedium:  "5-10 years",
	HorizonLong:    "10-15 years",
	HorizonDistant: "15+ years",
}

// ParseHorizon accepts either the bucket key ("short") or its display label
// ("2-5 years").
func ParseHorizon(s string) Horizon {
	s = strings.TrimSpace(s)
	for _, h := range Horizons {
		if strings.EqualFold(s, string(h)) || strings.EqualFold(s, horizonLabels[h]) {
			return h
		}
	}
	return HorizonUnknown
}

// Label returns the human-readable bucket name.
func (h Horizon) Label() string {
	if l, ok := horizonLabels[h]; ok {
		return l
	}
	return "unknown"
}

// Axis selects which maturity measure drives position.
type Axis string

const (
	AxisTRL     Axis = "trl"
	AxisBRL     Axis = "brl"
	AxisHorizon Axis = "horizon"
)

// Axes lists the selectable axes in UI cycling order.
var Axes = []Axis{AxisTRL, AxisBRL, AxisHorizon}

// ParseAxis validates a raw axis string; anything unknown is TRL.
func ParseAxis(s string) Axis {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "brl":
		return AxisBRL
	case "horizon", "time", "time_horizon":
		return AxisHorizon
	default:
		return AxisTRL
	}
}

// Next returns the axis after a in cycling order.
func (a Axis) Next() Axis {
	for i, x := range Axes {
		if x == a {
			return Axes[(i+1)%len(Axes)]
		}
	}
	return AxisTRL
}

// Title is the short uppercase name used in ring labels.
func (a Axis) Title() string {
	switch a {
	case AxisBRL:
		return "BRL"
	case AxisHorizon:
		return "Horizon"
	default:
		return "TRL"
	}
}

// ClusteringMode selects how a technology resolves to its cluster.
type ClusteringMode string

const (
	ModeParent   ClusteringMode = "parent"
	ModeTaxonomy ClusteringMode = "taxonomy"
	ModeDomain   ClusteringMode = "domain"
)

// Modes lists the clustering modes in UI cycling order.
var Modes = []ClusteringMode{ModeParent, ModeTaxonomy, ModeDomain}

// ParseClusteringMode validates a raw mode string; anything unknown is parent.
func ParseClusteringMode(s string) ClusteringMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "taxonomy":
		return ModeTaxonomy
	case "domain":
		return ModeDomain
	default:
		return ModeParent
	}
}

// Next returns the mode after m in cycling order.
func (m ClusteringMode) Next() ClusteringMode {
	for i, x := range Modes {
		if x == m {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return ModeParent
}

// UnmarshalText validates domains at decode time (JSON, YAML).
func (d *Domain) UnmarshalText(b []byte) error {
	*d = ParseDomain(string(b))
	return nil
}

// UnmarshalText validates horizons at decode time.
func (h *Horizon) UnmarshalText(b []byte) error {
	*h = ParseHorizon(string(b))
	return nil
}

// UnmarshalText validates axes at decode time.
func (a *Axis) UnmarshalText(b []byte) error {
	*a = ParseAxis(string(b))
	return nil
}

// UnmarshalText validates clustering modes at decode time.
func (m *ClusteringMode) UnmarshalText(b []byte) error {
	*m = ParseClusteringMode(string(b))
	return nil
}
