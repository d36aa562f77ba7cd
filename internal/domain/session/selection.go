package session

// ChoosePreferred returns the first bookable slot matching the preference
// order. Eligibility is StatusAvailable with a not-full quota (when quota is
// known). The result is deterministic regardless of slot iteration order, and
// never an id outside preferred: a slot the operator did not rank is not a
// candidate even when it is the only one open.
func ChoosePreferred(preferred []int, slots []Slot) (Slot, bool) {
	if len(slots) == 0 {
		return Slot{}, false
	}

	eligible := make(map[int]Slot, len(slots))
	for _, s := range slots {
		if s.Status != StatusAvailable {
			continue
		}
		if s.Quota != nil && s.Quota.IsFull() {
			continue
		}
		// Keep the first occurrence if an id somehow appears twice.
		if _, ok := eligible[s.ID]; ok {
			continue
		}
		eligible[s.ID] = s
	}

	for _, id := range preferred {
		if s, ok := eligible[id]; ok {
			return s, true
		}
	}
	return Slot{}, false
}
