package ajo

import "fmt"

// NewRegistry creates the protocol registry with all counters at zero.
// Init-once semantics are enforced by the store layer, which rejects a
// second initialization.
func NewRegistry(admin Address) *GlobalRegistry {
	return &GlobalRegistry{Admin: admin}
}

// RecordGroupCreated counts a newly created group.
func (r *GlobalRegistry) RecordGroupCreated() {
	r.TotalGroups++
}

// RecordGroupActivated counts a group reaching full membership.
func (r *GlobalRegistry) RecordGroupActivated() {
	r.ActiveGroups++
}

// RecordGroupDeactivated counts a started group closing. Saturates at
// zero rather than erroring, to tolerate double-closure races.
func (r *GlobalRegistry) RecordGroupDeactivated() {
	if r.ActiveGroups > 0 {
		r.ActiveGroups--
	}
}

// RecordGroupCompleted counts a closure that followed a full rotation.
func (r *GlobalRegistry) RecordGroupCompleted() {
	r.CompletedGroups++
}

// RecordRevenue accumulates protocol fee bookkeeping. Fees are recorded,
// never deducted from custody transfers.
func (r *GlobalRegistry) RecordRevenue(amount uint64) {
	r.TotalRevenue += amount
}

// UpdateFee sets the protocol fee rate. Only the admin identity recorded
// at initialization may change it.
func (r *GlobalRegistry) UpdateFee(caller Address, feePermille uint8) error {
	if caller != r.Admin {
		return ErrOnlyAdmin
	}
	if feePermille > MaxFeePermille {
		return fmt.Errorf("%w: fee must be in [0, %d] permille, got %d",
			ErrInvalidParameter, MaxFeePermille, feePermille)
	}
	r.FeePermille = feePermille
	return nil
}
