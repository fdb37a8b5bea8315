// Package ajo implements the core state machine of a rotating-savings
// group (an Ajo/ROSCA): membership, contribution rounds, round-robin
// payouts, and vote-triggered closure with proportional refunds.
//
// The package is pure protocol logic. Fund movement is delegated to the
// custody package and persistence to the store package; both are driven
// by the protocol package, which executes one operation at a time.
package ajo

import "encoding/hex"

// Protocol bounds. These are invariants of the wire format, not tunables.
const (
	MaxNameLen      = 50
	MinParticipants = 3
	MaxParticipants = 20
	MaxIntervalDays = 90
	MinPayoutDays   = 7
	SecondsPerDay   = 86400
	MaxFeePermille  = 100
)

// Address identifies an account on the hosting ledger.
type Address [32]byte

// String returns the hex encoding of the address.
func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

// IsZero reports whether the address is all zero bytes.
func (a Address) IsZero() bool {
	return a == Address{}
}

// GroupState is the lifecycle phase of a group.
type GroupState uint8

const (
	// Recruiting means the group is accepting joins and has not started.
	Recruiting GroupState = iota
	// Active means membership is full and rounds are running.
	Active
	// Closed means a majority voted to terminate; only refund claims remain.
	Closed
)

// String returns the lowercase name of the state.
func (s GroupState) String() string {
	switch s {
	case Recruiting:
		return "recruiting"
	case Active:
		return "active"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// Participant is one member's record inside a group, in join order.
type Participant struct {
	Identity          Address // joining account
	ContributionRound uint16  // highest round fully paid, starts at 0
	RefundAmount      uint64  // set at closure, zeroed once claimed
}

// Group is the persisted state of one savings circle.
type Group struct {
	Name                 string // unique lookup key, <= MaxNameLen
	SecurityDeposit      uint64
	ContributionAmount   uint64
	ContributionInterval uint16 // days
	PayoutInterval       uint16 // days, aligned to a contribution-round boundary

	NumParticipants uint8         // fixed at creation
	Participants    []Participant // join order == payout order

	Started        bool
	StartTimestamp int64 // valid only when Started

	PayoutRound uint16    // payouts completed; also the round-robin index
	CloseVotes  []Address // participants who voted to terminate
	IsClosed    bool
}

// State derives the lifecycle phase from the group's fields.
func (g *Group) State() GroupState {
	switch {
	case g.IsClosed:
		return Closed
	case g.Started:
		return Active
	default:
		return Recruiting
	}
}

// IsFull reports whether membership has reached NumParticipants.
func (g *Group) IsFull() bool {
	return len(g.Participants) >= int(g.NumParticipants)
}

// FindParticipant returns the index and record for the given identity,
// or -1 if the identity is not a member.
func (g *Group) FindParticipant(addr Address) (int, *Participant) {
	for i := range g.Participants {
		if g.Participants[i].Identity == addr {
			return i, &g.Participants[i]
		}
	}
	return -1, nil
}

// HasVotedClose reports whether the identity already voted to close.
func (g *Group) HasVotedClose(addr Address) bool {
	for _, v := range g.CloseVotes {
		if v == addr {
			return true
		}
	}
	return false
}

// GlobalRegistry is the process-wide protocol registry: group counters,
// revenue bookkeeping, and the admin identity gating fee updates.
type GlobalRegistry struct {
	TotalGroups     uint64 // monotonic, never decremented
	ActiveGroups    uint64 // started and not yet closed
	CompletedGroups uint64 // closed after every member received a payout
	TotalRevenue    uint64 // fees recorded, bookkeeping only
	Admin           Address
	FeePermille     uint8 // 1 = 0.1%
}
