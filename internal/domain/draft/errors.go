package draft

import "fmt"

// ErrIllegalTransition reports a draft lifecycle edge that does not exist
type ErrIllegalTransition struct {
	DraftID     int
	From        Status
	To          Status
	Description string
}

func (e *ErrIllegalTransition) Error() string {
	msg := fmt.Sprintf("draft %d: illegal transition %s -> %s", e.DraftID, e.From, e.To)
	if e.Description != "" {
		msg += ": " + e.Description
	}
	return msg
}

// ErrDuplicateDraft reports a second draft for the same (boat, factory)
type ErrDuplicateDraft struct {
	BoatID    string
	FactoryID int
}

func (e *ErrDuplicateDraft) Error() string {
	return fmt.Sprintf("a draft already exists for boat %s and factory %d", e.BoatID, e.FactoryID)
}
