package models

// EntityType identifies which family record collection an event or record
// belongs to. The server resolves repositories by entity type; unknown types
// are rejected per event rather than failing the whole batch.
type EntityType string

const (
	// EntityFeeding covers bottle, breast and solid feeding entries.
	EntityFeeding EntityType = "feeding"

	// EntitySleepSession covers sleep start/stop intervals.
	EntitySleepSession EntityType = "sleep_session"

	// EntityMedicationDose covers administered medication doses.
	EntityMedicationDose EntityType = "medication_dose"
)

// Operation is the kind of mutation a sync event carries.
type Operation string

const (
	OperationCreate Operation = "create"
	OperationUpdate Operation = "update"
	OperationDelete Operation = "delete"
)

// Valid reports whether the operation is one of the three supported kinds.
func (o Operation) Valid() bool {
	switch o {
	case OperationCreate, OperationUpdate, OperationDelete:
		return true
	}
	return false
}
