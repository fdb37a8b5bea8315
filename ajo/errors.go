package ajo

import "errors"

var (
	// ErrInvalidParameter indicates a creation-time bound violation.
	ErrInvalidParameter = errors.New("ajo: invalid group parameter")

	// ErrAlreadyStarted indicates the group is no longer recruiting.
	ErrAlreadyStarted = errors.New("ajo: group already started")

	// ErrNotStarted indicates the group has not reached full membership.
	ErrNotStarted = errors.New("ajo: group not started")

	// ErrAlreadyJoined indicates the identity is already a member.
	ErrAlreadyJoined = errors.New("ajo: already joined")

	// ErrGroupFull indicates membership has reached its fixed size.
	ErrGroupFull = errors.New("ajo: group is full")

	// ErrNotParticipant indicates the caller is not a member of the group.
	ErrNotParticipant = errors.New("ajo: not a participant")

	// ErrAlreadyContributed indicates the round is already covered.
	ErrAlreadyContributed = errors.New("ajo: already contributed for this round")

	// ErrPayoutNotDue indicates the payout interval has not yet elapsed.
	ErrPayoutNotDue = errors.New("ajo: payout not yet due")

	// ErrNotAllContributed indicates a member is in arrears for the span.
	ErrNotAllContributed = errors.New("ajo: not all participants have contributed")

	// ErrWrongRecipient indicates the supplied recipient is not next in rotation.
	ErrWrongRecipient = errors.New("ajo: not the current payout recipient")

	// ErrAlreadyVoted indicates the identity already voted to close.
	ErrAlreadyVoted = errors.New("ajo: already voted to close")

	// ErrAlreadyClosed indicates the group has been terminated.
	ErrAlreadyClosed = errors.New("ajo: group already closed")

	// ErrNotClosed indicates refunds are not claimable while the group runs.
	ErrNotClosed = errors.New("ajo: group not closed")

	// ErrNothingToClaim indicates a zero refund (never set, or already claimed).
	ErrNothingToClaim = errors.New("ajo: nothing to claim")

	// ErrOnlyAdmin indicates a registry update by a non-admin identity.
	ErrOnlyAdmin = errors.New("ajo: only admin may update the registry")

	// ErrInvalidGroupData indicates persisted group bytes are malformed.
	ErrInvalidGroupData = errors.New("ajo: invalid group data")

	// ErrInvalidRegistryData indicates persisted registry bytes are malformed.
	ErrInvalidRegistryData = errors.New("ajo: invalid registry data")
)
