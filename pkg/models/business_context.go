package models

import "time"

// Business types for inferred entities.
const (
	BusinessTypeEntity       = "entity"
	BusinessTypeAttribute    = "attribute"
	BusinessTypeRelationship = "relationship"
)

// BusinessEntity is an inferred semantic grouping of technical columns
// representing one real-world concept. Entities are keyed by the lower-cased
// inferred name; re-observation merges columns/views and keeps the max
// confidence.
type BusinessEntity struct {
	Name         string   `json:"name"`
	Columns      []string `json:"columns"`
	Views        []string `json:"views"`
	DataType     string   `json:"data_type"`
	BusinessType string   `json:"business_type"`
	Confidence   float64  `json:"confidence"`
}

// VocabularyEntry maps a natural-language business term to the technical
// column name(s) it refers to.
type VocabularyEntry struct {
	BusinessTerm   string   `json:"business_term"`
	TechnicalTerms []string `json:"technical_terms"`
	Confidence     float64  `json:"confidence"`
	Synonyms       []string `json:"synonyms"`
}

// Relationship links two views. JoinColumn is a best-effort hint, not a
// validated join predicate.
type Relationship struct {
	FromView   string `json:"from_view"`
	ToView     string `json:"to_view"`
	JoinColumn string `json:"join_column,omitempty"`
}

// AlternativeDomain is a lower-ranked domain classification candidate.
type AlternativeDomain struct {
	Domain     string  `json:"domain"`
	Confidence float64 `json:"confidence"`
}

// DomainInference is the coarse business-category classification inferred
// from column-name keywords.
type DomainInference struct {
	Domain             string              `json:"domain"`
	Confidence         float64             `json:"confidence"`
	Keywords           []string            `json:"keywords"`
	AlternativeDomains []AlternativeDomain `json:"alternative_domains"`
}

// ViewSummary records the last analysis of a single view.
type ViewSummary struct {
	ViewName     string    `json:"view_name"`
	Schema       Schema    `json:"schema"`
	Entities     []string  `json:"entities"`
	LastAnalyzed time.Time `json:"last_analyzed"`
}

// BusinessContext aggregates everything inferred about a conversation's
// data. Mutable only during construction, then treated as an immutable
// snapshot; persisted by overwrite.
type BusinessContext struct {
	Entities      map[string]*BusinessEntity  `json:"entities"`
	Vocabulary    map[string]*VocabularyEntry `json:"vocabulary"`
	Relationships []Relationship              `json:"relationships"`
	EntityGraph   map[string][]string         `json:"entity_graph"`
	Domain        DomainInference             `json:"domain"`
	Views         map[string]*ViewSummary     `json:"views"`
	UpdatedAt     time.Time                   `json:"updated_at"`
}
