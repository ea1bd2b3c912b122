package Models

// RepairRequest is one customer repair request plus the administrative
// state the operator attaches to it. Photo, Quote and Status are pointers
// so an unset field is omitted from the ledger entirely rather than
// serialized as null or a zero value.
type RepairRequest struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Contact     string   `json:"contact"`
	Device      string   `json:"device"`
	Issue       string   `json:"issue"`
	Method      string   `json:"method"`
	Photo       *string  `json:"photo,omitempty"`
	Quote       *float64 `json:"quote,omitempty"`
	Status      *string  `json:"status,omitempty"`
	SubmittedAt string   `json:"submittedAt"`
}

// StatusCompleted is the only status value the dashboard assigns.
const StatusCompleted = "Completed"

// Completed reports whether the operator has marked the request done.
func (r *RepairRequest) Completed() bool {
	return r.Status != nil && *r.Status == StatusCompleted
}
