package database

// ResetSequence sets the transaction id sequence back to zero.
func ResetSequence() {
	sequence.Store(0)
}

// Sequence returns the last number handed out by the transaction id sequence.
func Sequence() uint64 {
	return sequence.Load()
}
