package ajo

import "fmt"

// GroupParams are the creation-time parameters of a group.
type GroupParams struct {
	Name                 string
	SecurityDeposit      uint64
	ContributionAmount   uint64
	ContributionInterval uint16 // days
	PayoutInterval       uint16 // days, as requested; aligned on creation
	NumParticipants      uint8
}

// ValidateGroupParams checks every creation-time bound and returns the
// first violation wrapped in ErrInvalidParameter.
func ValidateGroupParams(p GroupParams) error {
	if p.Name == "" || len(p.Name) > MaxNameLen {
		return fmt.Errorf("%w: name must be 1-%d characters, got %d", ErrInvalidParameter, MaxNameLen, len(p.Name))
	}
	if p.SecurityDeposit == 0 {
		return fmt.Errorf("%w: security deposit must be greater than zero", ErrInvalidParameter)
	}
	if p.ContributionAmount == 0 {
		return fmt.Errorf("%w: contribution amount must be greater than zero", ErrInvalidParameter)
	}
	if p.ContributionInterval == 0 || p.ContributionInterval > MaxIntervalDays {
		return fmt.Errorf("%w: contribution interval must be in (0, %d] days, got %d",
			ErrInvalidParameter, MaxIntervalDays, p.ContributionInterval)
	}
	if p.PayoutInterval < MinPayoutDays || p.PayoutInterval > MaxIntervalDays {
		return fmt.Errorf("%w: payout interval must be in [%d, %d] days, got %d",
			ErrInvalidParameter, MinPayoutDays, MaxIntervalDays, p.PayoutInterval)
	}
	if p.PayoutInterval < p.ContributionInterval {
		return fmt.Errorf("%w: payout interval %d shorter than contribution interval %d",
			ErrInvalidParameter, p.PayoutInterval, p.ContributionInterval)
	}
	if p.NumParticipants < MinParticipants || p.NumParticipants > MaxParticipants {
		return fmt.Errorf("%w: participants must be in [%d, %d], got %d",
			ErrInvalidParameter, MinParticipants, MaxParticipants, p.NumParticipants)
	}
	return nil
}

// AlignPayoutInterval returns the smallest multiple of contributionInterval
// that is >= payoutInterval. The aligned cadence guarantees every payout
// lands exactly on a contribution-round boundary, so the contributions
// required per payout is an exact integer.
func AlignPayoutInterval(payoutInterval, contributionInterval uint16) uint16 {
	n := (payoutInterval + contributionInterval - 1) / contributionInterval
	return n * contributionInterval
}

// CalculateFee returns the protocol fee for an amount at the given
// permille rate (1 = 0.1%).
func CalculateFee(amount uint64, feePermille uint8) uint64 {
	return amount * uint64(feePermille) / 1000
}
