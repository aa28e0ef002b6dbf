package domain

import "time"

const (
	// Source date layouts
	DAY_LAYOUT   = "20060102"
	MONTH_LAYOUT = "200601"

	// Key of the last run report in the key-value table
	LAST_RUN_KEY = "ingest:last_run"
)

// SeoulLocation is the zone every source timestamp is expressed in.
// A fixed zone keeps parsing independent of the host tzdata.
var SeoulLocation = time.FixedZone("KST", 9*60*60)
