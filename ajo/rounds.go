package ajo

// Round arithmetic. All functions here are pure: rounds are derived from
// elapsed wall-clock time at each call, never stored or ticked by a timer.

// ContributionRound returns the contribution round at time now for a group
// started at start. Round 0 begins at start itself; times before start
// clamp to round 0.
func ContributionRound(now, start int64, contributionIntervalDays uint16) uint16 {
	return elapsedRounds(now, start, contributionIntervalDays)
}

// PayoutRound returns the payout round due at time now for a group started
// at start.
func PayoutRound(now, start int64, payoutIntervalDays uint16) uint16 {
	return elapsedRounds(now, start, payoutIntervalDays)
}

func elapsedRounds(now, start int64, intervalDays uint16) uint16 {
	elapsed := now - start
	if elapsed <= 0 {
		return 0
	}
	return uint16(elapsed / (int64(intervalDays) * SecondsPerDay))
}

// RequiredContributionsPerPayout returns how many contribution rounds one
// payout interval spans. Exact by construction: AlignPayoutInterval makes
// the payout interval a multiple of the contribution interval.
func RequiredContributionsPerPayout(payoutIntervalDays, contributionIntervalDays uint16) uint16 {
	return payoutIntervalDays / contributionIntervalDays
}
