package order

// Status is an order lifecycle label. The engine-side aggregations treat
// statuses as opaque strings; this package owns the canonical set and the
// kitchen state machine.
type Status string

const (
	StatusPlaced    Status = "placed"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusPreparing Status = "preparing"
	StatusFinished  Status = "finished"
)

// Payment status values.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
)

// AllStatuses returns the canonical status set in lifecycle order. Dashboard
// consumers use it to pre-seed breakdown maps.
func AllStatuses() []string {
	return []string{
		string(StatusPlaced),
		string(StatusAccepted),
		string(StatusRejected),
		string(StatusPreparing),
		string(StatusFinished),
	}
}

// PaymentStatuses returns the canonical payment status set.
func PaymentStatuses() []string {
	return []string{PaymentPending, PaymentPaid}
}

type statusInfo struct {
	label    string
	color    string
	progress int
}

var statusTable = map[Status]statusInfo{
	StatusPlaced:    {label: "Placed", color: "gray", progress: 20},
	StatusAccepted:  {label: "Accepted", color: "blue", progress: 40},
	StatusRejected:  {label: "Rejected", color: "red", progress: 0},
	StatusPreparing: {label: "Preparing", color: "yellow", progress: 60},
	StatusFinished:  {label: "Finished", color: "green", progress: 100},
}

// Label returns the display text for a status. Unknown values fall back to
// the raw string so a bad record never breaks a listing.
func (s Status) Label() string {
	if info, ok := statusTable[s]; ok {
		return info.label
	}
	return string(s)
}

// Color returns the display color for a status, gray for unknown values.
func (s Status) Color() string {
	if info, ok := statusTable[s]; ok {
		return info.color
	}
	return "gray"
}

// Progress returns the tracking progress percentage for a status.
func (s Status) Progress() int {
	if info, ok := statusTable[s]; ok {
		return info.progress
	}
	return 0
}

// Known reports whether the status belongs to the canonical set.
func (s Status) Known() bool {
	_, ok := statusTable[s]
	return ok
}

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusFinished
}

var transitions = map[Status][]Status{
	StatusPlaced:    {StatusAccepted, StatusRejected},
	StatusAccepted:  {StatusPreparing},
	StatusPreparing: {StatusFinished},
}

// CanTransition reports whether the kitchen state machine allows moving from
// the current status to target.
func CanTransition(current, target Status) bool {
	for _, allowed := range transitions[current] {
		if allowed == target {
			return true
		}
	}
	return false
}

// ValidPayment reports whether the value is a recognised payment status.
func ValidPayment(value string) bool {
	return value == PaymentPending || value == PaymentPaid
}
