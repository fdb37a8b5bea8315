// Package protocol executes Ajo operations against persisted state: each
// operation loads the accounts it touches, re-validates every
// precondition, moves funds through custody, and commits — atomically,
// one operation at a time.
package protocol

import (
	"sync"

	"github.com/jonboulle/clockwork"

	"github.com/ajoprotocol/libajo-go/ajo"
	"github.com/ajoprotocol/libajo-go/custody"
	"github.com/ajoprotocol/libajo-go/store"
)

// Service is the operation layer of the protocol. All methods are safe
// for concurrent use; operations are serialized the way a hosting ledger
// serializes transactions against shared accounts.
type Service struct {
	mu     sync.Mutex
	store  store.Store
	vault  custody.Vault
	clock  clockwork.Clock
	notify Notifier
}

// Option configures a Service.
type Option func(*Service)

// WithClock substitutes the wall-clock source. Tests use a fake clock.
func WithClock(c clockwork.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithNotifier sets the event sink for successful operations.
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notify = n }
}

// New creates a Service on the given store and custody vault. By default
// it reads the real clock and discards events.
func New(st store.Store, vault custody.Vault, opts ...Option) *Service {
	s := &Service{
		store:  st,
		vault:  vault,
		clock:  clockwork.NewRealClock(),
		notify: NopNotifier{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize creates the protocol registry with all counters at zero and
// the given admin identity. Fails if already initialized.
func (s *Service) Initialize(admin ajo.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.InitRegistry(ajo.NewRegistry(admin))
}

// UpdateFee sets the protocol fee rate. Admin only.
func (s *Service) UpdateFee(caller ajo.Address, feePermille uint8) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.store.Registry()
	if err != nil {
		return err
	}
	old := reg.FeePermille
	if err := reg.UpdateFee(caller, feePermille); err != nil {
		return err
	}
	if err := s.store.PutRegistry(reg); err != nil {
		return err
	}

	s.notify.Notify(ajo.FeeUpdatedEvent{OldPermille: old, NewPermille: feePermille})
	return nil
}

// CreateGroup creates a recruiting group with the creator as participant
// 0. The creator's security deposit moves to the group vault before any
// state is committed; if the transfer fails, no group is created.
func (s *Service) CreateGroup(p ajo.GroupParams, creator ajo.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg, err := s.store.Registry()
	if err != nil {
		return err
	}

	g, err := ajo.NewGroup(p, creator)
	if err != nil {
		return err
	}
	if _, err := s.store.Group(g.Name); err == nil {
		return store.ErrGroupExists
	}

	vaultAcct := custody.GroupVaultAccount(g.Name)
	if err := s.vault.Transfer(creator, vaultAcct, g.SecurityDeposit); err != nil {
		return err
	}

	if err := s.store.CreateGroup(g); err != nil {
		s.reverse(vaultAcct, creator, g.SecurityDeposit, g.Name)
		return err
	}

	reg.RecordGroupCreated()
	if err := s.store.PutRegistry(reg); err != nil {
		return err
	}

	now := s.clock.Now().Unix()
	s.notify.Notify(ajo.GroupCreatedEvent{
		GroupName:            g.Name,
		SecurityDeposit:      g.SecurityDeposit,
		ContributionAmount:   g.ContributionAmount,
		NumParticipants:      g.NumParticipants,
		ContributionInterval: g.ContributionInterval,
		PayoutInterval:       g.PayoutInterval,
	})
	s.notify.Notify(ajo.ParticipantJoinedEvent{GroupName: g.Name, Participant: creator, JoinTimestamp: now})
	return nil
}

// JoinGroup adds a participant to a recruiting group. The join that fills
// membership starts the group and activates it in the registry.
func (s *Service) JoinGroup(name string, participant ajo.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.store.Group(name)
	if err != nil {
		return err
	}
	now := s.clock.Now().Unix()

	started, err := g.Join(participant, now)
	if err != nil {
		return err
	}

	vaultAcct := custody.GroupVaultAccount(name)
	if err := s.vault.Transfer(participant, vaultAcct, g.SecurityDeposit); err != nil {
		return err
	}

	if err := s.store.PutGroup(g); err != nil {
		s.reverse(vaultAcct, participant, g.SecurityDeposit, name)
		return err
	}

	if started {
		reg, err := s.store.Registry()
		if err != nil {
			return err
		}
		reg.RecordGroupActivated()
		if err := s.store.PutRegistry(reg); err != nil {
			return err
		}
		s.notify.Notify(ajo.GroupStartedEvent{GroupName: name, StartTimestamp: now})
	}

	s.notify.Notify(ajo.ParticipantJoinedEvent{GroupName: name, Participant: participant, JoinTimestamp: now})
	return nil
}

// Contribute records a catch-up contribution: one transfer covering every
// round the contributor has missed up to the round current now.
func (s *Service) Contribute(name string, contributor ajo.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.store.Group(name)
	if err != nil {
		return err
	}
	now := s.clock.Now().Unix()

	amount, round, err := g.Contribute(contributor, now)
	if err != nil {
		return err
	}

	vaultAcct := custody.GroupVaultAccount(name)
	if err := s.vault.Transfer(contributor, vaultAcct, amount); err != nil {
		return err
	}

	if err := s.store.PutGroup(g); err != nil {
		s.reverse(vaultAcct, contributor, amount, name)
		return err
	}

	if reg, err := s.store.Registry(); err == nil && reg.FeePermille > 0 {
		reg.RecordRevenue(ajo.CalculateFee(amount, reg.FeePermille))
		if err := s.store.PutRegistry(reg); err != nil {
			return err
		}
	}

	s.notify.Notify(ajo.ContributionMadeEvent{
		GroupName: name, Contributor: contributor, Amount: amount, CurrentRound: round,
	})
	return nil
}

// Payout pays the pooled amount for the elapsed payout interval to the
// next participant in rotation, authorized by the group's own custody
// authority rather than any individual signer.
func (s *Service) Payout(name string, recipient ajo.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.store.Group(name)
	if err != nil {
		return err
	}
	now := s.clock.Now().Unix()

	amount, newRound, err := g.Payout(recipient, now)
	if err != nil {
		return err
	}

	auth := s.vault.AuthorizeAsGroup(name)
	if err := s.vault.TransferFromGroup(auth, recipient, amount); err != nil {
		return err
	}

	if err := s.store.PutGroup(g); err != nil {
		s.reverse(recipient, auth.VaultAccount(), amount, name)
		return err
	}

	s.notify.Notify(ajo.PayoutMadeEvent{
		GroupName: name, Recipient: recipient, Amount: amount, PayoutRound: newRound,
	})
	return nil
}

// VoteClose records a termination vote. The vote that forms a strict
// majority settles the group: refunds are computed, the group closes,
// and the registry deactivates it.
func (s *Service) VoteClose(name string, participant ajo.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.store.Group(name)
	if err != nil {
		return err
	}

	closed, err := g.VoteClose(participant)
	if err != nil {
		return err
	}

	if err := s.store.PutGroup(g); err != nil {
		return err
	}

	if closed {
		reg, err := s.store.Registry()
		if err != nil {
			return err
		}
		if g.Started {
			reg.RecordGroupDeactivated()
		}
		if g.Completed() {
			reg.RecordGroupCompleted()
		}
		if err := s.store.PutRegistry(reg); err != nil {
			return err
		}
		s.notify.Notify(ajo.GroupClosedEvent{
			GroupName:  name,
			TotalVotes: uint8(len(g.CloseVotes)),
			GroupSize:  uint8(len(g.Participants)),
		})
	}
	return nil
}

// ClaimRefund pays out a participant's refund from a closed group.
// Claims are one-shot: the refund is zeroed in the same commit.
func (s *Service) ClaimRefund(name string, participant ajo.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	g, err := s.store.Group(name)
	if err != nil {
		return err
	}

	amount, err := g.ClaimRefund(participant)
	if err != nil {
		return err
	}

	auth := s.vault.AuthorizeAsGroup(name)
	if err := s.vault.TransferFromGroup(auth, participant, amount); err != nil {
		return err
	}

	if err := s.store.PutGroup(g); err != nil {
		s.reverse(participant, auth.VaultAccount(), amount, name)
		return err
	}

	s.notify.Notify(ajo.RefundClaimedEvent{GroupName: name, Participant: participant, Amount: amount})
	return nil
}

// Group returns a copy of the persisted group state.
func (s *Service) Group(name string) (*ajo.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Group(name)
}

// Registry returns a copy of the persisted registry state.
func (s *Service) Registry() (*ajo.GlobalRegistry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.Registry()
}

// reverse undoes a transfer after a failed commit so an aborted operation
// leaves custody balances untouched.
func (s *Service) reverse(from, to ajo.Address, amount uint64, group string) {
	if from == custody.GroupVaultAccount(group) {
		_ = s.vault.TransferFromGroup(s.vault.AuthorizeAsGroup(group), to, amount)
		return
	}
	_ = s.vault.Transfer(from, to, amount)
}
