// Package model defines the read-only records the radar is built from:
// technologies (trends), clusters, and the closed enums that classify them.
//
// Records are immutable snapshots. Nothing in the layout packages mutates
// them; derived views always allocate new slices.
package model

import (
	"fmt"
	"strings"
)

// Technology is a leaf trend plotted as a point on the radar.
type Technology struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Domain      Domain  `json:"domain"`
	ParentID    string  `json:"parent_id,omitempty"`
	TaxonomyID  string  `json:"taxonomy_id,omitempty"`
	TRL         int     `json:"trl"`
	BRL         int     `json:"brl"`
	Horizon     Horizon `json:"horizon,omitempty"`
	Description string  `json:"description,omitempty"`
}

// ClusterID resolves the technology's cluster edge under mode. An empty
// result means the technology has no cluster under that mode.
func (t Technology) ClusterID(mode ClusteringMode) string {
	switch mode {
	case ModeTaxonomy:
		return t.TaxonomyID
	case ModeDomain:
		if !t.Domain.IsValid() {
			return ""
		}
		return string(t.Domain)
	default:
		return t.ParentID
	}
}

// Validate checks the fields the layout relies on.
func (t Technology) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return fmt.Errorf("technology id cannot be empty")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("technology %s: name cannot be empty", t.ID)
	}
	if !t.Domain.IsValid() {
		return fmt.Errorf("technology %s: unknown domain %q", t.ID, t.Domain)
	}
	return nil
}

// Cluster is a named, colored grouping of technologies.
type Cluster struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Domain Domain `json:"domain"`
	Color  string `json:"color,omitempty"`
}

// Validate checks the fields the layout relies on.
func (c Cluster) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return fmt.Errorf("cluster id cannot be empty")
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("cluster %s: name cannot be empty", c.ID)
	}
	return nil
}

// DefaultDomainColors is used for synthetic clusters in domain mode.
var DefaultDomainColors = map[Domain]string{
	DomainTechnology: "#4C9AFF",
	DomainIndustry:   "#FFB86C",
	DomainSociety:    "#50FA7B",
}

// DomainCluster synthesizes the cluster that stands for a whole domain in
// domain clustering mode. Its color comes from colors (falling back to
// DefaultDomainColors), never from a stored cluster.
func DomainCluster(d Domain, colors map[Domain]string) Cluster {
	color := colors[d]
	if color == "" {
		color = DefaultDomainColors[d]
	}
	return Cluster{ID: string(d), Name: string(d), Domain: d, Color: color}
}

// Snapshot is one consistent read of the store.
type Snapshot struct {
	Clusters     []Cluster
	Technologies []Technology
}

// ClusterByID returns a lookup map of the snapshot's clusters.
func (s Snapshot) ClusterByID() map[string]Cluster {
	m := make(map[string]Cluster, len(s.Clusters))
	for _, c := range s.Clusters {
		m[c.ID] = c
	}
	return m
}

// TechnologyByID returns the technology with id, if present.
func (s Snapshot) TechnologyByID(id string) (Technology, bool) {
	for _, t := range s.Technologies {
		if t.ID == id {
			return t, true
		}
	}
	return Technology{}, false
}

// Validate returns the first invalid record, if any.
func (s Snapshot) Validate() error {
	for _, c := range s.Clusters {
		if err := c.Validate(); err != nil {
			return err
		}
	}
	for _, t := range s.Technologies {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	return nil
}
