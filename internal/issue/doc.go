// Package issue defines the structured findings Sentinel emits.
//
// Issues are immutable value types produced fresh on every validation pass;
// there is no persisted issue identity across passes. Consumers that need
// to track an issue over time diff successive reports themselves.
//
// Issue codes are stable strings grouped by category range:
//
//	E1xx  rule-table (config) validation
//	E2xx  entity findings
//	E3xx  relationship findings
//	E4xx  world-state findings
//	E5xx  narrative findings
//	E9xx  meta and auto-fix findings
//
// Codes never change meaning once released; new findings get new codes.
package issue
