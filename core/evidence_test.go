package core

import (
	"testing"

	"github.com/memorymusicllc/pow3r/schema"
	"github.com/stretchr/testify/assert"
)

func TestAnnotateCombinesWeightedSignals(t *testing.T) {
	node := schema.Node{
		ID: "node-1",
		Analytics: schema.Analytics{
			ActivityLast30Days: 25, // half saturation
			CentralityScore:    0.5,
			Connectivity:       10, // half saturation
		},
		Metadata: schema.Metadata{
			Location: "api",
			Authors:  []string{"alice", "bob"}, // 2/5 saturation
		},
	}
	r := Annotate(&node)

	// 0.5*0.40 + 0.5*0.25 + 0.5*0.20 + 0.4*0.15
	assert.InDelta(t, 0.485, r.Score, 0.0005)
	assert.Len(t, r.Evidence, 4)
}

func TestAnnotateSaturatesAtFullStrength(t *testing.T) {
	node := schema.Node{
		Analytics: schema.Analytics{
			ActivityLast30Days: 500,
			CentralityScore:    1.0,
			Connectivity:       100,
		},
		Metadata: schema.Metadata{Authors: []string{"a", "b", "c", "d", "e", "f"}},
	}
	r := Annotate(&node)
	assert.Equal(t, 1.0, r.Score)
	for _, ev := range r.Evidence {
		assert.Equal(t, 1.0, ev.Weight)
	}
}

func TestAnnotateDormantNodeHasNoEvidence(t *testing.T) {
	node := schema.Node{ID: "node-1"}
	r := Annotate(&node)
	assert.Equal(t, 0.0, r.Score)
	assert.Empty(t, r.Evidence)
}

func TestAnnotateEvidenceClaims(t *testing.T) {
	node := schema.Node{
		Analytics: schema.Analytics{ActivityLast30Days: 5, Connectivity: 2, CentralityScore: 0.3},
		Metadata:  schema.Metadata{Location: "src", Authors: []string{"carol"}},
	}
	r := Annotate(&node)

	claims := make(map[string]schema.Evidence)
	for _, ev := range r.Evidence {
		claims[ev.Claim] = ev
	}
	assert.Contains(t, claims, "activityLast30Days")
	assert.Contains(t, claims, "centralityScore")
	assert.Contains(t, claims, "connectivity")
	assert.Contains(t, claims, "authors")
	assert.Equal(t, "src", claims["activityLast30Days"].Source)
	assert.Equal(t, "carol", claims["authors"].Source)
}

func TestAnnotateAllAttachesReliability(t *testing.T) {
	nodes := []schema.Node{
		{ID: "node-1", Analytics: schema.Analytics{ActivityLast30Days: 10}},
		{ID: "node-2"},
	}
	AnnotateAll(nodes)
	assert.NotNil(t, nodes[0].Reliability)
	assert.NotNil(t, nodes[1].Reliability)
	assert.Greater(t, nodes[0].Reliability.Score, nodes[1].Reliability.Score)
}
