package errors

// Code represents an error code
type Code string

// Error codes. The dice and encounter codes are the domain taxonomy
// surfaced to tool callers; the remaining codes cover plumbing failures.
const (
	CodeOK              Code = "OK"
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeAlreadyExists   Code = "ALREADY_EXISTS"
	CodeInternal        Code = "INTERNAL"
	CodeUnavailable     Code = "UNAVAILABLE"

	// Dice engine codes
	CodeInvalidDie        Code = "INVALID_DIE"
	CodeInvalidCount      Code = "INVALID_COUNT"
	CodeMalformedNotation Code = "MALFORMED_NOTATION"

	// Encounter codes
	CodeInvalidAmount      Code = "INVALID_AMOUNT"
	CodeUnknownParticipant Code = "UNKNOWN_PARTICIPANT"
	CodeEncounterConcluded Code = "ENCOUNTER_CONCLUDED"
)

// String returns the string representation of the code
func (c Code) String() string {
	return string(c)
}
