package protocol

import (
	"go.uber.org/zap"

	"github.com/ajoprotocol/libajo-go/ajo"
)

// Notifier receives one event per successful state-changing operation.
// Implementations must not block; the service calls them after commit.
type Notifier interface {
	Notify(event any)
}

// NopNotifier discards all events.
type NopNotifier struct{}

// Notify implements Notifier.
func (NopNotifier) Notify(any) {}

// LogNotifier emits each event as a structured log record.
type LogNotifier struct {
	log *zap.Logger
}

// Compile-time interface check.
var _ Notifier = (*LogNotifier)(nil)

// NewLogNotifier creates a notifier writing to the given logger.
func NewLogNotifier(log *zap.Logger) *LogNotifier {
	return &LogNotifier{log: log}
}

// Notify implements Notifier.
func (n *LogNotifier) Notify(event any) {
	switch e := event.(type) {
	case ajo.GroupCreatedEvent:
		n.log.Info("group created",
			zap.String("group", e.GroupName),
			zap.Uint64("security_deposit", e.SecurityDeposit),
			zap.Uint64("contribution_amount", e.ContributionAmount),
			zap.Uint8("num_participants", e.NumParticipants),
			zap.Uint16("contribution_interval_days", e.ContributionInterval),
			zap.Uint16("payout_interval_days", e.PayoutInterval))
	case ajo.ParticipantJoinedEvent:
		n.log.Info("participant joined",
			zap.String("group", e.GroupName),
			zap.Stringer("participant", e.Participant),
			zap.Int64("join_timestamp", e.JoinTimestamp))
	case ajo.GroupStartedEvent:
		n.log.Info("group started",
			zap.String("group", e.GroupName),
			zap.Int64("start_timestamp", e.StartTimestamp))
	case ajo.ContributionMadeEvent:
		n.log.Info("contribution made",
			zap.String("group", e.GroupName),
			zap.Stringer("contributor", e.Contributor),
			zap.Uint64("amount", e.Amount),
			zap.Uint16("round", e.CurrentRound))
	case ajo.PayoutMadeEvent:
		n.log.Info("payout made",
			zap.String("group", e.GroupName),
			zap.Stringer("recipient", e.Recipient),
			zap.Uint64("amount", e.Amount),
			zap.Uint16("payout_round", e.PayoutRound))
	case ajo.GroupClosedEvent:
		n.log.Info("group closed",
			zap.String("group", e.GroupName),
			zap.Uint8("total_votes", e.TotalVotes),
			zap.Uint8("group_size", e.GroupSize))
	case ajo.RefundClaimedEvent:
		n.log.Info("refund claimed",
			zap.String("group", e.GroupName),
			zap.Stringer("participant", e.Participant),
			zap.Uint64("amount", e.Amount))
	case ajo.FeeUpdatedEvent:
		n.log.Info("fee updated",
			zap.Uint8("old_permille", e.OldPermille),
			zap.Uint8("new_permille", e.NewPermille))
	default:
		n.log.Info("event", zap.Any("event", event))
	}
}
