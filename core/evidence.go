package core

import (
	"math"
	"strings"

	"github.com/memorymusicllc/pow3r/schema"
)

// Reliability signal weights and saturation points. Fifty commits, twenty
// edges or five authors are treated as full-strength signals.
const (
	activityWeight     = 0.40
	centralityWeight   = 0.25
	connectivityWeight = 0.20
	authorsWeight      = 0.15

	activitySaturation     = 50.0
	connectivitySaturation = 20.0
	authorsSaturation      = 5.0
)

// Annotate computes a reliability score in [0,1] for a node from its
// analytics and authorship evidence. Every contributing signal is recorded
// as one evidence entry so the final score stays fully auditable. The
// annotation is additive: callers working with v1/v2 data simply skip it.
func Annotate(node *schema.Node) schema.Reliability {
	var evidence []schema.Evidence
	var score float64

	activity := saturate(float64(node.Analytics.ActivityLast30Days), activitySaturation)
	score += activity * activityWeight
	if node.Analytics.ActivityLast30Days > 0 {
		evidence = append(evidence, schema.Evidence{
			Claim:  "activityLast30Days",
			Source: node.Metadata.Location,
			Weight: round3(activity),
			Note:   "Commit activity over last 30 days",
		})
	}

	centrality := clamp01(node.Analytics.CentralityScore)
	score += centrality * centralityWeight
	if centrality > 0 {
		evidence = append(evidence, schema.Evidence{
			Claim:  "centralityScore",
			Source: node.Metadata.Location,
			Weight: round3(centrality),
			Note:   "Graph centrality within repository network",
		})
	}

	connectivity := saturate(float64(node.Analytics.Connectivity), connectivitySaturation)
	score += connectivity * connectivityWeight
	if node.Analytics.Connectivity > 0 {
		evidence = append(evidence, schema.Evidence{
			Claim:  "connectivity",
			Source: node.Metadata.Location,
			Weight: round3(connectivity),
			Note:   "Number of directly connected edges",
		})
	}

	authors := saturate(float64(len(node.Metadata.Authors)), authorsSaturation)
	score += authors * authorsWeight
	if len(node.Metadata.Authors) > 0 {
		evidence = append(evidence, schema.Evidence{
			Claim:  "authors",
			Source: strings.Join(node.Metadata.Authors, ","),
			Weight: round3(authors),
			Note:   "Active contributors",
		})
	}

	return schema.Reliability{
		Score:    round3(clamp01(score)),
		Evidence: evidence,
	}
}

// AnnotateAll attaches a reliability annotation to every node in place.
func AnnotateAll(nodes []schema.Node) {
	for i := range nodes {
		r := Annotate(&nodes[i])
		nodes[i].Reliability = &r
	}
}

// saturate normalizes a non-negative value against its saturation point.
func saturate(value, saturation float64) float64 {
	if value <= 0 {
		return 0
	}
	return math.Min(value/saturation, 1.0)
}

// clamp01 bounds a value to the [0,1] range.
func clamp01(v float64) float64 {
	return math.Max(0, math.Min(v, 1))
}

// round3 rounds to three decimal places.
func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
