package storage

type ReferenceKind string

const (
	KindParts       ReferenceKind = "parts"
	KindMachines    ReferenceKind = "machines"
	KindOperators   ReferenceKind = "operators"
	KindSupervisors ReferenceKind = "supervisors"
	KindShifts      ReferenceKind = "shifts"
)

func ReferenceKinds() []ReferenceKind {
	return []ReferenceKind{KindParts, KindMachines, KindOperators, KindSupervisors, KindShifts}
}

func (k ReferenceKind) Valid() bool {
	for _, known := range ReferenceKinds() {
		if k == known {
			return true
		}
	}
	return false
}

type ReferenceEntry struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type ReferenceLists struct {
	Parts       []ReferenceEntry `json:"parts"`
	Machines    []ReferenceEntry `json:"machines"`
	Operators   []ReferenceEntry `json:"operators"`
	Supervisors []ReferenceEntry `json:"supervisors"`
	Shifts      []ReferenceEntry `json:"shifts"`
}
