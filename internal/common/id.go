package common

import (
	"github.com/google/uuid"
)

// NewSignalID generates a unique signal ID with the "sig_" prefix
func NewSignalID() string {
	return "sig_" + uuid.New().String()
}

// NewAnnotationID generates a unique ID for derived signal annotations
// (topics, territory assignments)
func NewAnnotationID() string {
	return "ann_" + uuid.New().String()
}

// NewSnapshotID generates a unique risk snapshot ID with the "snap_" prefix
func NewSnapshotID() string {
	return "snap_" + uuid.New().String()
}

// NewAlertID generates a unique alert event ID with the "alert_" prefix
func NewAlertID() string {
	return "alert_" + uuid.New().String()
}

// NewTerritoryID generates a unique territory ID with the "terr_" prefix
func NewTerritoryID() string {
	return "terr_" + uuid.New().String()
}

// NewSourceID generates a unique source ID with the "src_" prefix
func NewSourceID() string {
	return "src_" + uuid.New().String()
}

// NewRuleID generates a unique alert rule ID with the "rule_" prefix
func NewRuleID() string {
	return "rule_" + uuid.New().String()
}
