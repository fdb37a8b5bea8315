package ajo

import "fmt"

// NewGroup validates params, aligns the payout interval, and returns a
// recruiting group with the creator as participant 0. The creator's
// security deposit must be moved to custody by the caller before the
// group is persisted.
func NewGroup(p GroupParams, creator Address) (*Group, error) {
	if err := ValidateGroupParams(p); err != nil {
		return nil, err
	}
	aligned := AlignPayoutInterval(p.PayoutInterval, p.ContributionInterval)
	if aligned > MaxIntervalDays {
		return nil, fmt.Errorf("%w: payout interval %d aligns to %d days, above the %d-day maximum",
			ErrInvalidParameter, p.PayoutInterval, aligned, MaxIntervalDays)
	}

	return &Group{
		Name:                 p.Name,
		SecurityDeposit:      p.SecurityDeposit,
		ContributionAmount:   p.ContributionAmount,
		ContributionInterval: p.ContributionInterval,
		PayoutInterval:       aligned,
		NumParticipants:      p.NumParticipants,
		Participants: []Participant{
			{Identity: creator, ContributionRound: 0},
		},
	}, nil
}

// Join appends a new participant and reports whether this join filled
// membership and started the group. The caller moves the security deposit
// to custody before persisting.
func (g *Group) Join(participant Address, now int64) (started bool, err error) {
	if g.IsClosed {
		return false, ErrAlreadyClosed
	}
	if g.Started {
		return false, ErrAlreadyStarted
	}
	if _, p := g.FindParticipant(participant); p != nil {
		return false, ErrAlreadyJoined
	}
	if g.IsFull() {
		// Full but not started cannot normally happen; joins flip Started
		// the instant the Nth member lands.
		return false, ErrGroupFull
	}

	g.Participants = append(g.Participants, Participant{Identity: participant, ContributionRound: 0})

	if g.IsFull() {
		g.Started = true
		g.StartTimestamp = now
		return true, nil
	}
	return false, nil
}

// Contribute advances the contributor's paid-through round to the round
// current at now and returns the catch-up amount owed: one contribution
// per round missed since their last payment, in a single transfer.
func (g *Group) Contribute(contributor Address, now int64) (amount uint64, round uint16, err error) {
	if g.IsClosed {
		return 0, 0, ErrAlreadyClosed
	}
	if !g.Started {
		return 0, 0, ErrNotStarted
	}
	_, p := g.FindParticipant(contributor)
	if p == nil {
		return 0, 0, ErrNotParticipant
	}

	round = ContributionRound(now, g.StartTimestamp, g.ContributionInterval)
	if p.ContributionRound >= round {
		return 0, 0, fmt.Errorf("%w: paid through round %d, current round %d",
			ErrAlreadyContributed, p.ContributionRound, round)
	}

	roundsMissed := round - p.ContributionRound
	amount = g.ContributionAmount * uint64(roundsMissed)
	p.ContributionRound = round
	return amount, round, nil
}

// Payout validates eligibility for the next round-robin payout, advances
// PayoutRound, and returns the amount owed to recipient. The caller moves
// the funds out of custody under the group's own authority.
//
// A payout covers RequiredContributionsPerPayout contribution rounds and
// can only fire once every member has paid through that span and the
// payout interval has elapsed on the clock.
func (g *Group) Payout(recipient Address, now int64) (amount uint64, newRound uint16, err error) {
	if g.IsClosed {
		return 0, 0, ErrAlreadyClosed
	}
	if !g.Started {
		return 0, 0, ErrNotStarted
	}

	required := RequiredContributionsPerPayout(g.PayoutInterval, g.ContributionInterval)
	threshold := (g.PayoutRound + 1) * required
	for i := range g.Participants {
		if g.Participants[i].ContributionRound < threshold {
			return 0, 0, fmt.Errorf("%w: %s paid through round %d, need %d",
				ErrNotAllContributed, g.Participants[i].Identity, g.Participants[i].ContributionRound, threshold)
		}
	}

	expected := PayoutRound(now, g.StartTimestamp, g.PayoutInterval)
	if g.PayoutRound >= expected {
		return 0, 0, fmt.Errorf("%w: completed %d payouts, interval %d not yet elapsed",
			ErrPayoutNotDue, g.PayoutRound, g.PayoutRound+1)
	}

	idx := int(g.PayoutRound) % len(g.Participants)
	if g.Participants[idx].Identity != recipient {
		return 0, 0, fmt.Errorf("%w: round %d pays %s", ErrWrongRecipient, g.PayoutRound, g.Participants[idx].Identity)
	}

	amount = g.ContributionAmount * uint64(g.NumParticipants) * uint64(required)
	g.PayoutRound++
	return amount, g.PayoutRound, nil
}
