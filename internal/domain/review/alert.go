package review

type AlertSeverity string

const (
	AlertSeverityLow    AlertSeverity = "low"
	AlertSeverityMedium AlertSeverity = "medium"
	AlertSeverityHigh   AlertSeverity = "high"
)

const AlertTypeLowQuality = "low_quality"

// Quality thresholds for alerting. The boundary at 60 decides whether an
// alert fires at all; the boundary at 40 only decides its severity.
const (
	alertFireBelow    = 60
	alertHighSevBelow = 40
)

// AlertDecision is the outcome of evaluating a quality score against the
// alerting policy. Fire=false means no alert record is created.
type AlertDecision struct {
	Fire     bool
	Type     string
	Severity AlertSeverity
}

// EvaluateQuality maps a quality score to an alert decision. This table is
// the single source of truth for alerting.
func EvaluateQuality(score int) AlertDecision {
	switch {
	case score < alertHighSevBelow:
		return AlertDecision{Fire: true, Type: AlertTypeLowQuality, Severity: AlertSeverityHigh}
	case score < alertFireBelow:
		return AlertDecision{Fire: true, Type: AlertTypeLowQuality, Severity: AlertSeverityMedium}
	default:
		return AlertDecision{}
	}
}
