package transfer

// Severity is the display severity derived from a progress percentage
type Severity string

const (
	SeverityAlert   Severity = "alert"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeveritySuccess Severity = "success"
)

// Progress is the projection of a unit's status onto a completion
// percentage and a human-readable message. It is a pure function of
// (status, pickup type) and is never derived from elapsed time.
type Progress struct {
	Percentage int
	Message    string
}

// Severity maps the percentage onto a display severity band
func (p Progress) Severity() Severity {
	switch {
	case p.Percentage < 30:
		return SeverityAlert
	case p.Percentage < 60:
		return SeverityWarning
	case p.Percentage < 90:
		return SeverityInfo
	default:
		return SeveritySuccess
	}
}

// corredorPath and vendedorPath enumerate each pickup type's statuses in
// order. They double as the completeness reference for the lookup tables.
var corredorPath = []Status{
	StatusPending, StatusAccepted, StatusCourierAssigned,
	StatusInTransit, StatusDelivered, StatusCompleted,
}

var vendedorPath = []Status{
	StatusPending, StatusAccepted, StatusDelivered, StatusCompleted,
}

var corredorProgress = map[Status]Progress{
	StatusPending:         {Percentage: 16, Message: "Waiting for the source location to accept the request"},
	StatusAccepted:        {Percentage: 33, Message: "Accepted, waiting for carrier assignment"},
	StatusCourierAssigned: {Percentage: 50, Message: "Carrier assigned, heading to the source location"},
	StatusInTransit:       {Percentage: 67, Message: "In transit to your location"},
	StatusDelivered:       {Percentage: 83, Message: "Delivered, confirm reception"},
	StatusCompleted:       {Percentage: 100, Message: "Transfer completed"},
}

var vendedorProgress = map[Status]Progress{
	StatusPending:   {Percentage: 25, Message: "Waiting for the source location to accept the request"},
	StatusAccepted:  {Percentage: 50, Message: "Must personally collect from the source location"},
	StatusDelivered: {Percentage: 75, Message: "Delivered, confirm reception"},
	StatusCompleted: {Percentage: 100, Message: "Transfer completed"},
}

func init() {
	// Both tables must cover exactly their path
	for _, s := range corredorPath {
		if _, ok := corredorProgress[s]; !ok {
			panic("progress table for corredor is missing status " + s.String())
		}
	}
	for _, s := range vendedorPath {
		if _, ok := vendedorProgress[s]; !ok {
			panic("progress table for vendedor is missing status " + s.String())
		}
	}
	if len(corredorProgress) != len(corredorPath) || len(vendedorProgress) != len(vendedorPath) {
		panic("progress table carries a status outside its path")
	}
}

// ProjectProgress returns the progress projection for a unit's status
// under its pickup type. Any (status, pickup type) pair outside that
// pickup type's path yields zero percentage and an empty message.
func ProjectProgress(status Status, pickup PickupType) Progress {
	var table map[Status]Progress
	switch pickup {
	case PickupTypeCorredor:
		table = corredorProgress
	case PickupTypeVendedor:
		table = vendedorProgress
	default:
		return Progress{}
	}
	if p, ok := table[status]; ok {
		return p
	}
	return Progress{}
}

// UnitProgress projects a unit onto its progress
func UnitProgress(u *TransferUnit) Progress {
	return ProjectProgress(u.Status, u.PickupType)
}
