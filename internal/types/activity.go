package types

import "time"

// ActivityLogCap bounds the per-user activity log. Oldest entries are
// evicted first when an append would exceed it.
const ActivityLogCap = 50

// ActivityEntry is one recorded account action.
type ActivityEntry struct {
	Action        string    `json:"action"`
	Timestamp     time.Time `json:"timestamp"`
	SourceAddress string    `json:"source_address"`
	ClientInfo    string    `json:"client_info"`
}

// ActivityFilter narrows an activity log query. A zero Action matches all
// actions; when only one time bound is given the other defaults to the
// epoch / now respectively. Bounds are inclusive.
type ActivityFilter struct {
	Action string
	Start  *time.Time
	End    *time.Time
}
