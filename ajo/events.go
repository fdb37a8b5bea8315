package ajo

// Events are emitted once per successful state-changing operation, for
// observability. Field sets follow the operation that produced them.

// GroupCreatedEvent announces a new recruiting group.
type GroupCreatedEvent struct {
	GroupName            string
	SecurityDeposit      uint64
	ContributionAmount   uint64
	NumParticipants      uint8
	ContributionInterval uint16
	PayoutInterval       uint16 // aligned value
}

// ParticipantJoinedEvent announces a join, including the creator's
// implicit join at creation.
type ParticipantJoinedEvent struct {
	GroupName     string
	Participant   Address
	JoinTimestamp int64
}

// GroupStartedEvent announces the Nth join activating the group.
type GroupStartedEvent struct {
	GroupName      string
	StartTimestamp int64
}

// ContributionMadeEvent carries the amount actually transferred, which
// covers every round missed since the contributor's last payment.
type ContributionMadeEvent struct {
	GroupName    string
	Contributor  Address
	Amount       uint64
	CurrentRound uint16
}

// PayoutMadeEvent announces a completed round-robin payout.
type PayoutMadeEvent struct {
	GroupName   string
	Recipient   Address
	Amount      uint64
	PayoutRound uint16 // value after the increment
}

// GroupClosedEvent announces majority-vote termination.
type GroupClosedEvent struct {
	GroupName  string
	TotalVotes uint8
	GroupSize  uint8
}

// RefundClaimedEvent announces a one-shot refund claim.
type RefundClaimedEvent struct {
	GroupName   string
	Participant Address
	Amount      uint64
}

// FeeUpdatedEvent announces an admin fee change.
type FeeUpdatedEvent struct {
	OldPermille uint8
	NewPermille uint8
}
