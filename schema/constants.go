package schema

// Custom string types for type safety.
type (
	// NodeState represents the six-value development lifecycle state.
	NodeState string

	// LegacyPhase represents the four-value legacy status phase.
	LegacyPhase string

	// EdgeType represents the relation vocabulary between nodes.
	EdgeType string

	// SchemaVersion marks which generation a raw status document belongs to.
	SchemaVersion string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for caching.
	DatabaseBackend string
)

// All lifecycle states supported.
const (
	StateBuilt      NodeState = "built"
	StateBuilding   NodeState = "building"
	StateBlocked    NodeState = "blocked"
	StateBurned     NodeState = "burned"
	StateBacklogged NodeState = "backlogged"
	StateBroken     NodeState = "broken"
)

// All legacy phases supported.
const (
	PhaseGreen  LegacyPhase = "green"
	PhaseOrange LegacyPhase = "orange"
	PhaseRed    LegacyPhase = "red"
	PhaseGray   LegacyPhase = "gray"
)

// Relation vocabulary for edges. The set is closed; synthesis and
// normalization must not invent types outside of it.
const (
	EdgeDependsOn  EdgeType = "dependsOn"
	EdgeUses       EdgeType = "uses"
	EdgeContains   EdgeType = "contains"
	EdgePartOf     EdgeType = "partOf"
	EdgeImplements EdgeType = "implements"
	EdgeQueries    EdgeType = "queries"
	EdgeReferences EdgeType = "references"
)

// All schema generations recognized by the normalizer.
const (
	SchemaV1 SchemaVersion = "v1" // flat nodes/edges with string or phase statuses
	SchemaV2 SchemaVersion = "v2" // asset-graph shape
	SchemaV3 SchemaVersion = "v3" // node/edge shape with reliability
)

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	CSVOut     OutputMode = "csv"
	ParquetOut OutputMode = "parquet"
)

// All cache backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// LegacyToState maps a legacy phase to its lifecycle state equivalent.
var LegacyToState = map[LegacyPhase]NodeState{
	PhaseGreen:  StateBuilt,
	PhaseOrange: StateBuilding,
	PhaseRed:    StateBroken,
	PhaseGray:   StateBacklogged,
}

// StateToLegacy maps a lifecycle state to its legacy phase shadow.
// The four states reachable from LegacyToState round-trip exactly.
var StateToLegacy = map[NodeState]LegacyPhase{
	StateBuilt:      PhaseGreen,
	StateBuilding:   PhaseOrange,
	StateBroken:     PhaseRed,
	StateBacklogged: PhaseGray,
	StateBlocked:    PhaseRed,
	StateBurned:     PhaseGray,
}

// StateProgress holds the default progress band anchor for each state.
var StateProgress = map[NodeState]int{
	StateBuilt:      100,
	StateBuilding:   50,
	StateBroken:     75,
	StateBacklogged: 0,
	StateBlocked:    40,
	StateBurned:     0,
}

// AllNodeStates returns a list of all supported lifecycle states.
var AllNodeStates = []NodeState{
	StateBuilt, StateBuilding, StateBlocked, StateBurned, StateBacklogged, StateBroken,
}

// AllLegacyPhases returns a list of all supported legacy phases.
var AllLegacyPhases = []LegacyPhase{
	PhaseGreen, PhaseOrange, PhaseRed, PhaseGray,
}

// AllEdgeTypes returns a list of all supported edge types.
var AllEdgeTypes = []EdgeType{
	EdgeDependsOn, EdgeUses, EdgeContains, EdgePartOf, EdgeImplements, EdgeQueries, EdgeReferences,
}

// ValidNodeStates lists all valid lifecycle states.
var ValidNodeStates = map[NodeState]struct{}{
	StateBuilt:      {},
	StateBuilding:   {},
	StateBlocked:    {},
	StateBurned:     {},
	StateBacklogged: {},
	StateBroken:     {},
}

// ValidLegacyPhases lists all valid legacy phases.
var ValidLegacyPhases = map[LegacyPhase]struct{}{
	PhaseGreen:  {},
	PhaseOrange: {},
	PhaseRed:    {},
	PhaseGray:   {},
}

// ValidEdgeTypes lists all valid edge types.
var ValidEdgeTypes = map[EdgeType]struct{}{
	EdgeDependsOn:  {},
	EdgeUses:       {},
	EdgeContains:   {},
	EdgePartOf:     {},
	EdgeImplements: {},
	EdgeQueries:    {},
	EdgeReferences: {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut:    {},
	JSONOut:    {},
	CSVOut:     {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid cache backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}
