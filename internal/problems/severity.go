package problems

import "strconv"

// Severity is the Zabbix problem severity, 0 (not classified) to 5 (disaster).
type Severity int

const (
	NotClassified Severity = iota
	Information
	Warning
	Average
	High
	Disaster
)

// SeverityUnknown marks a severity the API sent that isn't 0..5.
const SeverityUnknown Severity = -1

var severityLabels = [...]string{
	NotClassified: "Not classified",
	Information:   "Information",
	Warning:       "Warning",
	Average:       "Average",
	High:          "High",
	Disaster:      "Disaster",
}

// ParseSeverity maps the API's string severity to a Severity.
// Anything that isn't a numeric string in 0..5 is SeverityUnknown.
func ParseSeverity(s string) Severity {
	n, err := strconv.Atoi(s)
	if err != nil {
		return SeverityUnknown
	}
	sev := Severity(n)
	if !sev.Valid() {
		return SeverityUnknown
	}
	return sev
}

// Valid reports whether s is one of the six Zabbix severities.
func (s Severity) Valid() bool {
	return s >= NotClassified && s <= Disaster
}

// String returns the Zabbix frontend label.
func (s Severity) String() string {
	if !s.Valid() {
		return "Unknown"
	}
	return severityLabels[s]
}

// AllSeverities lists every valid severity in ascending order.
func AllSeverities() []Severity {
	return []Severity{NotClassified, Information, Warning, Average, High, Disaster}
}
