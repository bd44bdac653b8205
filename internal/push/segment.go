package push

// Segment selects which end-users a notification targets.
type Segment string

const (
	SegmentAllCustomers Segment = "all_customers"
	SegmentActive       Segment = "active"
	SegmentInactive     Segment = "inactive"
	SegmentNearReward   Segment = "near_reward"

	// SegmentTestAllSubscribers bypasses all tenant filtering and
	// targets every subscriber of the provider application. Diagnostic
	// escape hatch only; callers must require an explicit confirmation
	// before sending with it.
	SegmentTestAllSubscribers Segment = "test_all_subscribers"
)

func (s Segment) Valid() bool {
	switch s {
	case SegmentAllCustomers, SegmentActive, SegmentInactive, SegmentNearReward, SegmentTestAllSubscribers, "":
		return true
	}
	return false
}

// Diagnostic reports whether the segment is the unfiltered
// all-subscribers debug target.
func (s Segment) Diagnostic() bool {
	return s == SegmentTestAllSubscribers
}

// Filter is one entry of the provider's user-tag filter language.
type Filter struct {
	Field    string `json:"field"`
	Key      string `json:"key"`
	Relation string `json:"relation"`
	Value    string `json:"value"`
}
