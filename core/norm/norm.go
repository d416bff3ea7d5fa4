// Package norm normalizes status documents from any known schema generation
// into the canonical in-memory representation.
//
// Three generations are recognized: the legacy flat shape (v1), the
// asset-graph shape (v2) and the node/edge shape with reliability (v3).
// One sniff function dispatches to one of three pure mapping functions so
// that no version checks leak into downstream logic.
package norm

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/memorymusicllc/pow3r/schema"
)

// SchemaUnrecognizedError reports a document that matches none of the three
// known shapes, naming the offending top-level keys.
type SchemaUnrecognizedError struct {
	Keys []string
}

func (e *SchemaUnrecognizedError) Error() string {
	return fmt.Sprintf("unrecognized status document schema; top-level keys: [%s]", strings.Join(e.Keys, ", "))
}

// Sniff determines the schema generation of a raw document without requiring
// an explicit version tag. Order: assets array means v2; nodes+edges with a
// status.state object shape means v3; flat nodes/edges otherwise mean v1.
func Sniff(raw []byte) (schema.SchemaVersion, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(raw, &top); err != nil {
		return "", fmt.Errorf("malformed document: %w", err)
	}

	if _, ok := top["assets"]; ok {
		return schema.SchemaV2, nil
	}

	nodesRaw, hasNodes := top["nodes"]
	if hasNodes {
		if nodesHaveStateObject(nodesRaw) {
			return schema.SchemaV3, nil
		}
		return schema.SchemaV1, nil
	}

	keys := make([]string, 0, len(top))
	for k := range top {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "", &SchemaUnrecognizedError{Keys: keys}
}

// nodesHaveStateObject reports whether the first node carries a status
// object with a "state" key, the v3 marker.
func nodesHaveStateObject(nodesRaw json.RawMessage) bool {
	var nodes []map[string]json.RawMessage
	if err := json.Unmarshal(nodesRaw, &nodes); err != nil || len(nodes) == 0 {
		return false
	}
	statusRaw, ok := nodes[0]["status"]
	if !ok {
		return false
	}
	var statusObj map[string]json.RawMessage
	if err := json.Unmarshal(statusRaw, &statusObj); err != nil {
		return false
	}
	_, hasState := statusObj["state"]
	return hasState
}

// Normalize sniffs the schema generation of a raw document and converts it
// into the canonical representation. Missing optional fields get documented
// defaults; an unrecognizable shape surfaces a SchemaUnrecognizedError.
func Normalize(raw []byte) (*schema.StatusDocument, error) {
	version, err := Sniff(raw)
	if err != nil {
		return nil, err
	}
	return NormalizeAs(raw, version)
}

// NormalizeAs converts a raw document of a declared generation into the
// canonical representation.
func NormalizeAs(raw []byte, version schema.SchemaVersion) (*schema.StatusDocument, error) {
	switch version {
	case schema.SchemaV1:
		return normalizeV1(raw)
	case schema.SchemaV2:
		return normalizeV2(raw)
	case schema.SchemaV3:
		return normalizeV3(raw)
	default:
		return nil, fmt.Errorf("unsupported schema version: %s", version)
	}
}

// --- Loose status variant -------------------------------------------------

// statusInput is the closed variant type for the loosely-typed status shapes
// found in the wild: sometimes a bare string, sometimes a nested object.
// The variant is collapsed into a canonical StatusValue at this parse
// boundary and never leaks further.
type statusInput struct {
	shorthand string
	full      *statusObject
}

// statusObject is the full-object form accepted from both the legacy
// ({phase, completeness}) and new ({state, progress}) vocabularies.
type statusObject struct {
	State        schema.NodeState   `json:"state"`
	Progress     *int               `json:"progress"`
	Phase        schema.LegacyPhase `json:"phase"`
	Completeness *float64           `json:"completeness"`
	QualityScore *float64           `json:"qualityScore"`
	Notes        string             `json:"notes"`
	Quality      *schema.Quality    `json:"quality"`
	Legacy       *schema.Legacy     `json:"legacy"`
}

// UnmarshalJSON accepts either a JSON string or a JSON object.
func (s *statusInput) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &s.shorthand)
	}
	s.full = &statusObject{}
	return json.Unmarshal(data, s.full)
}

// canonical collapses the variant into one canonical StatusValue.
func (s *statusInput) canonical() schema.StatusValue {
	switch {
	case s.full != nil && s.full.State != "":
		return s.full.canonicalFromState()
	case s.full != nil && s.full.Phase != "":
		return s.full.canonicalFromPhase()
	case s.shorthand != "":
		return canonicalFromShorthand(s.shorthand)
	default:
		// Absent or empty status falls back to dormant
		return schema.NewStatusWithProgress(schema.StateBacklogged, 0)
	}
}

// canonicalFromState maps the new-vocabulary object form.
func (o *statusObject) canonicalFromState() schema.StatusValue {
	progress := schema.DefaultProgress(o.State)
	if o.Progress != nil {
		progress = *o.Progress
	}
	status := schema.NewStatusWithProgress(o.State, progress)
	if o.Quality != nil {
		q := *o.Quality
		status.Quality = &q
	}
	if o.Legacy != nil {
		status.Legacy = *o.Legacy
	}
	return status
}

// canonicalFromPhase maps the legacy-vocabulary object form. The original
// phase is preserved exactly in the legacy shadow so that a round trip back
// to v1 is lossless.
func (o *statusObject) canonicalFromPhase() schema.StatusValue {
	completeness := 0.5
	if o.Completeness != nil {
		completeness = *o.Completeness
	}
	status := schema.NewStatusWithProgress(
		schema.ConvertLegacyToNew(o.Phase),
		schema.ProgressFromCompleteness(completeness),
	)
	status.Legacy = schema.Legacy{Phase: o.Phase, Completeness: completeness}

	qualityScore := 0.7
	if o.QualityScore != nil {
		qualityScore = *o.QualityScore
	}
	status.Quality = &schema.Quality{QualityScore: qualityScore, Notes: o.Notes}
	return status
}

// canonicalFromShorthand maps a bare string of either vocabulary.
func canonicalFromShorthand(s string) schema.StatusValue {
	if _, ok := schema.ValidNodeStates[schema.NodeState(s)]; ok {
		return schema.NewStatus(schema.NodeState(s))
	}

	phase := schema.LegacyPhase(s)
	var progress int
	switch phase {
	case schema.PhaseGreen:
		progress = 100
	case schema.PhaseOrange:
		progress = 50
	default:
		progress = 0
	}
	status := schema.NewStatusWithProgress(schema.ConvertLegacyToNew(phase), progress)
	status.Legacy.Phase = phase
	return status
}

// --- v1: legacy flat shape ------------------------------------------------

type v1Document struct {
	GraphID     string       `json:"graphId"`
	ProjectName string       `json:"projectName"`
	Source      string       `json:"source"`
	LastScan    flexTime     `json:"lastScan"`
	Status      *statusInput `json:"status"`
	Nodes       []v1Node     `json:"nodes"`
	Edges       []v1Edge     `json:"edges"`
}

type v1Node struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Title       string       `json:"title"`
	Type        string       `json:"type"`
	Description string       `json:"description"`
	Path        string       `json:"path"`
	Tags        []string     `json:"tags"`
	Status      *statusInput `json:"status"`
}

// v1Edge accepts both the from/to and the source/target endpoint spellings.
type v1Edge struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Type     string   `json:"type"`
	Strength *float64 `json:"strength"`
	Label    string   `json:"label"`
}

func normalizeV1(raw []byte) (*schema.StatusDocument, error) {
	var doc v1Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("malformed v1 document: %w", err)
	}

	out := &schema.StatusDocument{
		GraphID:       doc.GraphID,
		ProjectName:   doc.ProjectName,
		Source:        doc.Source,
		LastScan:      doc.LastScan.Time,
		SchemaVersion: schema.SchemaV1,
		Status:        canonicalOrDefault(doc.Status),
	}

	for _, n := range doc.Nodes {
		title := n.Title
		if title == "" {
			title = n.Name
		}
		out.Nodes = append(out.Nodes, schema.Node{
			ID:     n.ID,
			Type:   n.Type,
			Status: canonicalOrDefault(n.Status),
			Metadata: schema.Metadata{
				Title:       title,
				Description: n.Description,
				Tags:        n.Tags,
				Location:    n.Path,
			},
		})
	}

	for _, e := range doc.Edges {
		from, to := e.From, e.To
		if from == "" {
			from = e.Source
		}
		if to == "" {
			to = e.Target
		}
		out.Edges = append(out.Edges, schema.Edge{
			From:     from,
			To:       to,
			Type:     MapRelation(e.Type),
			Strength: strengthOrDefault(e.Strength),
			Label:    e.Label,
		})
	}

	return out, nil
}

// --- v2: asset-graph shape ------------------------------------------------

type v2Document struct {
	GraphID     string    `json:"graphId"`
	ProjectName string    `json:"projectName"`
	Source      string    `json:"source"`
	LastScan    flexTime  `json:"lastScan"`
	Assets      []v2Asset `json:"assets"`
	Edges       []v1Edge  `json:"edges"`
}

type v2Asset struct {
	ID           string           `json:"id"`
	Type         string           `json:"type"`
	Source       string           `json:"source"`
	Location     string           `json:"location"`
	Metadata     v2Metadata       `json:"metadata"`
	Status       *statusInput     `json:"status"`
	Analytics    schema.Analytics `json:"analytics"`
	Dependencies []string         `json:"dependencies"`
}

type v2Metadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Version     string   `json:"version"`
	Authors     []string `json:"authors"`
}

func normalizeV2(raw []byte) (*schema.StatusDocument, error) {
	var doc v2Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("malformed v2 document: %w", err)
	}

	out := &schema.StatusDocument{
		GraphID:       doc.GraphID,
		ProjectName:   doc.ProjectName,
		Source:        doc.Source,
		LastScan:      doc.LastScan.Time,
		SchemaVersion: schema.SchemaV2,
	}

	assetIDs := make(map[string]struct{}, len(doc.Assets))
	for _, a := range doc.Assets {
		assetIDs[a.ID] = struct{}{}
		out.Nodes = append(out.Nodes, schema.Node{
			ID:        a.ID,
			Type:      a.Type,
			Status:    canonicalOrDefault(a.Status),
			Analytics: a.Analytics,
			Metadata: schema.Metadata{
				Title:       a.Metadata.Title,
				Description: a.Metadata.Description,
				Tags:        a.Metadata.Tags,
				Location:    a.Location,
				Version:     a.Metadata.Version,
				Authors:     a.Metadata.Authors,
			},
		})
	}
	if len(out.Nodes) > 0 {
		// Document status follows the first asset; v2 has no top-level status
		out.Status = out.Nodes[0].Status
	} else {
		out.Status = schema.NewStatusWithProgress(schema.StateBacklogged, 0)
	}

	for _, e := range doc.Edges {
		from, to := e.From, e.To
		if from == "" {
			from = e.Source
		}
		if to == "" {
			to = e.Target
		}
		out.Edges = append(out.Edges, schema.Edge{
			From:     from,
			To:       to,
			Type:     MapRelation(e.Type),
			Strength: strengthOrDefault(e.Strength),
			Label:    e.Label,
		})
	}

	// Asset dependencies are informational, except where they reference a
	// sibling asset; those encode an edge and one is synthesized.
	for _, a := range doc.Assets {
		for _, dep := range a.Dependencies {
			if _, ok := assetIDs[dep]; ok && dep != a.ID {
				out.Edges = append(out.Edges, schema.Edge{
					From:     a.ID,
					To:       dep,
					Type:     schema.EdgeDependsOn,
					Strength: 0.5,
				})
			}
		}
	}

	return out, nil
}

// --- v3: node/edge shape with reliability ---------------------------------

type v3Document struct {
	GraphID     string   `json:"graphId"`
	ProjectName string   `json:"projectName"`
	Source      string   `json:"source"`
	LastScan    flexTime `json:"lastScan"`
	Status      *statusInput
	Nodes       []v3Node `json:"nodes"`
	Edges       []v1Edge `json:"edges"`
}

type v3Node struct {
	ID          string              `json:"id"`
	Type        string              `json:"type"`
	Status      *statusInput        `json:"status"`
	Analytics   schema.Analytics    `json:"analytics"`
	Metadata    schema.Metadata     `json:"metadata"`
	Reliability *schema.Reliability `json:"reliability"`
}

func normalizeV3(raw []byte) (*schema.StatusDocument, error) {
	var doc v3Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("malformed v3 document: %w", err)
	}

	out := &schema.StatusDocument{
		GraphID:       doc.GraphID,
		ProjectName:   doc.ProjectName,
		Source:        doc.Source,
		LastScan:      doc.LastScan.Time,
		SchemaVersion: schema.SchemaV3,
		Status:        canonicalOrDefault(doc.Status),
	}

	for _, n := range doc.Nodes {
		node := schema.Node{
			ID:        n.ID,
			Type:      n.Type,
			Status:    canonicalOrDefault(n.Status),
			Analytics: n.Analytics,
			Metadata:  n.Metadata,
		}
		if n.Reliability != nil {
			r := *n.Reliability
			node.Reliability = &r
		}
		out.Nodes = append(out.Nodes, node)
	}
	if doc.Status == nil && len(out.Nodes) > 0 {
		out.Status = out.Nodes[0].Status
	}

	for _, e := range doc.Edges {
		from, to := e.From, e.To
		if from == "" {
			from = e.Source
		}
		if to == "" {
			to = e.Target
		}
		out.Edges = append(out.Edges, schema.Edge{
			From:     from,
			To:       to,
			Type:     MapRelation(e.Type),
			Strength: strengthOrDefault(e.Strength),
			Label:    e.Label,
		})
	}

	return out, nil
}

// --- Shared helpers -------------------------------------------------------

// MapRelation folds a free-form relation label into the closed edge type
// vocabulary. Historical documents carry labels like "delegates to",
// "routes to" or "accesses"; unknown labels fall back to references.
func MapRelation(relation string) schema.EdgeType {
	if _, ok := schema.ValidEdgeTypes[schema.EdgeType(relation)]; ok {
		return schema.EdgeType(relation)
	}
	lower := strings.ToLower(relation)
	switch {
	case strings.Contains(lower, "quer"):
		return schema.EdgeQueries
	case strings.Contains(lower, "depend"):
		return schema.EdgeDependsOn
	case strings.Contains(lower, "implement"):
		return schema.EdgeImplements
	case strings.Contains(lower, "contain"):
		return schema.EdgeContains
	case strings.Contains(lower, "part"):
		return schema.EdgePartOf
	case strings.Contains(lower, "use"), strings.Contains(lower, "call"), strings.Contains(lower, "access"), strings.Contains(lower, "delegate"), strings.Contains(lower, "update"):
		return schema.EdgeUses
	default:
		return schema.EdgeReferences
	}
}

// canonicalOrDefault collapses an optional status variant, substituting the
// documented dormant default when absent.
func canonicalOrDefault(s *statusInput) schema.StatusValue {
	if s == nil {
		return schema.NewStatusWithProgress(schema.StateBacklogged, 0)
	}
	return s.canonical()
}

// strengthOrDefault substitutes the documented default edge strength.
func strengthOrDefault(s *float64) float64 {
	if s == nil {
		return 0.5
	}
	return *s
}

// flexTime parses timestamps with or without a zone designator, since older
// documents carried bare ISO timestamps.
type flexTime struct {
	time.Time
}

func (ft *flexTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.999999", "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			ft.Time = t
			return nil
		}
	}
	// Unparseable timestamps degrade to zero rather than failing the document
	return nil
}
