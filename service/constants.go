package service

import "time"

const (
	MaxPrincipal   = 1_000_000_000.0 // upper bound on loan amounts
	MaxAnnualRate  = 100.0           // 100% annual
	MaxTenureYears = 50.0

	CibilFloor   = 300
	CibilCeiling = 900

	DnaSequenceLength = 12
	MaxHistoryTurns   = 20 // turns forwarded to the language model

	replyCacheTTL = 15 * time.Minute
)
