// Package agg merges many normalized status documents into one unified
// graph. Node identity is namespaced per source document so that equal ids
// from different repositories never collide, and summary statistics are
// computed over the merged result.
package agg

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/memorymusicllc/pow3r/schema"
)

// Aggregate merges the given documents into one graph. A malformed or
// duplicated entry never aborts the whole run; it is dropped and recorded
// as a skip. The result is deterministic for a fixed input set: merged
// nodes and edges keep insertion order, by source document first and by
// within-document position second.
func Aggregate(documents []*schema.StatusDocument, now time.Time) *schema.AggregateGraph {
	graph := &schema.AggregateGraph{Timestamp: now}
	seen := make(map[string]struct{})

	for _, doc := range documents {
		if doc == nil {
			graph.Stats.DocumentsSkipped++
			graph.Stats.Skips = append(graph.Stats.Skips, schema.SkipRecord{
				Kind:   schema.SkipMalformedDocument,
				Detail: "nil document",
			})
			continue
		}

		sourceID := SourceID(doc)
		nodeIDs := make(map[string]struct{}, len(doc.Nodes))
		var nodes []schema.Node

		dup := false
		for _, n := range doc.Nodes {
			qualified := sourceID + ":" + n.ID
			if _, exists := seen[qualified]; exists {
				// Same qualified id twice means a duplicated document
				graph.Stats.Skips = append(graph.Stats.Skips, schema.SkipRecord{
					Kind:   schema.SkipDuplicateNode,
					Source: doc.Source,
					Detail: fmt.Sprintf("node id already present: %s", qualified),
				})
				dup = true
				break
			}
			if _, exists := nodeIDs[qualified]; exists {
				// Repeated id within one document indicates a synthesis bug;
				// drop the repeated node and keep the rest of the document.
				graph.Stats.Skips = append(graph.Stats.Skips, schema.SkipRecord{
					Kind:   schema.SkipDuplicateNode,
					Source: doc.Source,
					Detail: fmt.Sprintf("node id repeated within document: %s", qualified),
				})
				continue
			}
			node := n
			node.ID = qualified
			nodes = append(nodes, node)
			nodeIDs[qualified] = struct{}{}
		}
		if dup {
			graph.Stats.DocumentsSkipped++
			continue
		}

		for id := range nodeIDs {
			seen[id] = struct{}{}
		}
		graph.Nodes = append(graph.Nodes, nodes...)

		for _, e := range doc.Edges {
			edge := e
			edge.From = sourceID + ":" + e.From
			edge.To = sourceID + ":" + e.To
			if _, ok := nodeIDs[edge.From]; !ok {
				graph.Stats.Skips = append(graph.Stats.Skips, danglingSkip(doc.Source, edge.From))
				continue
			}
			if _, ok := nodeIDs[edge.To]; !ok {
				graph.Stats.Skips = append(graph.Stats.Skips, danglingSkip(doc.Source, edge.To))
				continue
			}
			graph.Edges = append(graph.Edges, edge)
		}

		graph.Stats.DocumentsProcessed++
	}

	recomputeConnectivity(graph)
	fillStats(graph)
	return graph
}

// SourceID derives a short collision-resistant identifier for one document,
// preferring its declared source path and falling back to its graph id.
func SourceID(doc *schema.StatusDocument) string {
	basis := doc.Source
	if basis == "" {
		basis = doc.GraphID
	}
	if basis == "" {
		basis = doc.ProjectName
	}
	sum := sha256.Sum256([]byte(basis))
	return hex.EncodeToString(sum[:6])
}

func danglingSkip(source, endpoint string) schema.SkipRecord {
	return schema.SkipRecord{
		Kind:   schema.SkipDanglingEdge,
		Source: source,
		Detail: fmt.Sprintf("edge endpoint not found: %s", endpoint),
	}
}

// recomputeConnectivity refreshes the degree-based analytics over the
// merged graph, since namespacing may have dropped edges a source counted.
func recomputeConnectivity(graph *schema.AggregateGraph) {
	degree := make(map[string]int)
	for _, e := range graph.Edges {
		degree[e.From]++
		degree[e.To]++
	}
	for i := range graph.Nodes {
		graph.Nodes[i].Analytics.Connectivity = degree[graph.Nodes[i].ID]
	}
}

// fillStats computes the summary statistics over the merged lists. Node and
// edge order is left as appended: source document order, then within-document
// order, which is already deterministic for a fixed input set.
func fillStats(graph *schema.AggregateGraph) {
	graph.Stats.TotalNodes = len(graph.Nodes)
	graph.Stats.TotalEdges = len(graph.Edges)
	graph.Stats.StateCounts = schema.CountStates(graph.Nodes)
	graph.Stats.AvgQuality = schema.MeanQuality(graph.Nodes)
	graph.Stats.AvgProgress = schema.MeanProgress(graph.Nodes)
}
