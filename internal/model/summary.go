package model

import "time"

// AuditSummary captures metrics from a single document audit run.
type AuditSummary struct {
	SessionID        string
	TextBytes        int
	LineItems        int
	CPTCodes         int
	ICDCodes         int
	Flags            int
	DurationAssemble time.Duration
	DurationRules    time.Duration
	DurationTotal    time.Duration
}
