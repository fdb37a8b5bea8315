package ajo

import "fmt"

// VoteClose records a termination vote. Once votes form a strict majority
// of current membership, the group settles: every participant's refund is
// computed and the group flips to Closed. A vote below the threshold is a
// valid steady state, not an error.
func (g *Group) VoteClose(voter Address) (closed bool, err error) {
	if g.IsClosed {
		return false, ErrAlreadyClosed
	}
	if _, p := g.FindParticipant(voter); p == nil {
		return false, ErrNotParticipant
	}
	if g.HasVotedClose(voter) {
		return false, ErrAlreadyVoted
	}

	g.CloseVotes = append(g.CloseVotes, voter)

	if 2*len(g.CloseVotes) <= len(g.Participants) {
		return false, nil
	}

	g.settle()
	return true, nil
}

// settle computes each member's refund and marks the group closed.
//
// The fairness anchor is the minimum contribution round jointly reached:
// rounds paid beyond it were never pooled into a payout, so they are
// returned as surplus on top of the security deposit.
func (g *Group) settle() {
	minCommon := g.minCommonRound()
	for i := range g.Participants {
		p := &g.Participants[i]
		refund := g.SecurityDeposit
		if g.Started {
			surplus := uint16(0)
			if p.ContributionRound > minCommon {
				surplus = p.ContributionRound - minCommon
			}
			refund += g.ContributionAmount * uint64(surplus)
		}
		p.RefundAmount = refund
	}
	g.IsClosed = true
}

func (g *Group) minCommonRound() uint16 {
	min := g.Participants[0].ContributionRound
	for _, p := range g.Participants[1:] {
		if p.ContributionRound < min {
			min = p.ContributionRound
		}
	}
	return min
}

// ClaimRefund returns the claimable amount for a participant of a closed
// group and zeroes it, making the claim one-shot. The caller moves the
// funds out of custody under the group's authority.
func (g *Group) ClaimRefund(participant Address) (amount uint64, err error) {
	if !g.IsClosed {
		return 0, ErrNotClosed
	}
	_, p := g.FindParticipant(participant)
	if p == nil {
		return 0, ErrNotParticipant
	}
	if p.RefundAmount == 0 {
		return 0, fmt.Errorf("%w: %s", ErrNothingToClaim, participant)
	}

	amount = p.RefundAmount
	p.RefundAmount = 0
	return amount, nil
}

// Completed reports whether every participant received a payout before
// closure, i.e. the rotation ran at least one full cycle.
func (g *Group) Completed() bool {
	return g.PayoutRound >= uint16(g.NumParticipants)
}
