package specgraph

import "time"

// SchemaVersion is the current persisted record shape version. Every consumer
// parsing the same records must check it before trusting the field layout.
const SchemaVersion = 1

// Node type discriminator values carried in the persisted nodeType field.
const (
	NodeTypeFeature   = "feature"
	NodeTypeCondition = "condition"
)

// Evidence is an attachment proving a status claim. The engine carries it
// through unmodified.
type Evidence struct {
	Type       string     `json:"type"`
	Path       string     `json:"path"`
	CapturedAt *time.Time `json:"capturedAt,omitempty"`
	Platform   string     `json:"platform,omitempty"`
	Summary    string     `json:"summary,omitempty"`
}

// Condition is a leaf acceptance-criterion record. It is owned by exactly one
// Feature and never has dependencies or children of its own.
type Condition struct {
	ID          string     `json:"id"`
	NodeType    string     `json:"nodeType"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	CodeRefs    []string   `json:"codeRefs,omitempty"`
	Evidence    []Evidence `json:"evidence,omitempty"`
}

// Feature is the primary spec record: a node that may have Condition
// children, a parent Feature, and dependencies on other Features.
type Feature struct {
	ID            string         `json:"id"`
	NodeType      string         `json:"nodeType"`
	Title         string         `json:"title"`
	Description   string         `json:"description,omitempty"`
	Status        Status         `json:"status"`
	Parent        string         `json:"parent,omitempty"`
	Dependencies  []string       `json:"dependencies,omitempty"`
	Conditions    []Condition    `json:"conditions,omitempty"`
	CodeRefs      []string       `json:"codeRefs,omitempty"`
	Evidence      []Evidence     `json:"evidence,omitempty"`
	Tags          []string       `json:"tags,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
	SchemaVersion int            `json:"schemaVersion"`
}

// Node is the common view graph algorithms take of Features and Conditions.
// Feature-only fields (parent, dependencies) stay behind the concrete type.
type Node interface {
	NodeID() string
	NodeStatus() Status
	NodeTitle() string
	NodeCodeRefs() []string
}

func (f *Feature) NodeID() string         { return f.ID }
func (f *Feature) NodeStatus() Status     { return f.Status }
func (f *Feature) NodeTitle() string      { return f.Title }
func (f *Feature) NodeCodeRefs() []string { return f.CodeRefs }

func (c *Condition) NodeID() string         { return c.ID }
func (c *Condition) NodeStatus() Status     { return c.Status }
func (c *Condition) NodeTitle() string      { return c.Description }
func (c *Condition) NodeCodeRefs() []string { return c.CodeRefs }
