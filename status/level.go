package status

import "fmt"

// Level represents the severity of a component or report.
type Level int

const (
	// LevelHealthy indicates the component is functioning normally.
	LevelHealthy Level = iota
	// LevelWarning indicates the component is functioning but with issues.
	LevelWarning
	// LevelCritical indicates the component is not functioning properly.
	LevelCritical
	// LevelConnectionFailed indicates the component could not be reached.
	LevelConnectionFailed
)

// String returns the string representation of the level.
func (l Level) String() string {
	switch l {
	case LevelHealthy:
		return "healthy"
	case LevelWarning:
		return "warning"
	case LevelCritical:
		return "critical"
	case LevelConnectionFailed:
		return "connection_failed"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes the level as its string form.
func (l Level) MarshalJSON() ([]byte, error) {
	return []byte(`"` + l.String() + `"`), nil
}

// UnmarshalJSON decodes the string form of a level.
func (l *Level) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case `"healthy"`:
		*l = LevelHealthy
	case `"warning"`:
		*l = LevelWarning
	case `"critical"`:
		*l = LevelCritical
	case `"connection_failed"`:
		*l = LevelConnectionFailed
	default:
		return fmt.Errorf("status: unknown level %s", data)
	}
	return nil
}

// MaxLevel returns the worst level among the given levels. An empty call
// returns LevelHealthy.
func MaxLevel(levels ...Level) Level {
	worst := LevelHealthy
	for _, l := range levels {
		if l > worst {
			worst = l
		}
	}
	return worst
}

// CheckName identifies a registered checker. The set is closed; consumers
// can switch over it exhaustively.
type CheckName string

const (
	// CheckHealth is the connectivity and availability checker.
	CheckHealth CheckName = "health"
	// CheckProvisioning is the permission-set provisioning checker.
	CheckProvisioning CheckName = "provisioning"
	// CheckOrphaned is the orphaned account-assignment detector.
	CheckOrphaned CheckName = "orphaned"
	// CheckSync is the external synchronization monitor.
	CheckSync CheckName = "sync"
	// CheckSummary is the summary statistics collector.
	CheckSummary CheckName = "summary"
	// CheckResource is the on-demand resource inspector. It is reachable
	// through the inspect path only, never through the comprehensive sweep.
	CheckResource CheckName = "resource"
)

// checkOrder is the fixed execution order in sequential mode, and the fixed
// slot order of every Report.
var checkOrder = []CheckName{
	CheckHealth,
	CheckProvisioning,
	CheckOrphaned,
	CheckSync,
	CheckSummary,
}
