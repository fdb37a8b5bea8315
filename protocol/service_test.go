package protocol

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajoprotocol/libajo-go/ajo"
	"github.com/ajoprotocol/libajo-go/custody"
	"github.com/ajoprotocol/libajo-go/store"
)

func makeAddr(seed byte) ajo.Address {
	var addr ajo.Address
	for i := range addr {
		addr[i] = seed
	}
	return addr
}

// captureNotifier records every emitted event for assertions.
type captureNotifier struct {
	events []any
}

func (n *captureNotifier) Notify(event any) {
	n.events = append(n.events, event)
}

func (n *captureNotifier) last() any {
	if len(n.events) == 0 {
		return nil
	}
	return n.events[len(n.events)-1]
}

type fixture struct {
	svc    *Service
	vault  *custody.MemVault
	clock  *clockwork.FakeClock
	events *captureNotifier

	admin   ajo.Address
	members []ajo.Address
}

const (
	deposit      = uint64(50)
	contribution = uint64(100)
)

func testParams() ajo.GroupParams {
	return ajo.GroupParams{
		Name:                 "test",
		SecurityDeposit:      deposit,
		ContributionAmount:   contribution,
		ContributionInterval: 7,
		PayoutInterval:       14,
		NumParticipants:      3,
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		vault:  custody.NewMemVault(),
		clock:  clockwork.NewFakeClockAt(time.Unix(1_700_000_000, 0)),
		events: &captureNotifier{},
		admin:  makeAddr(0xAD),
		members: []ajo.Address{
			makeAddr(0xA1), makeAddr(0xA2), makeAddr(0xA3),
		},
	}
	f.svc = New(store.NewMemStore(), f.vault, WithClock(f.clock), WithNotifier(f.events))
	require.NoError(t, f.svc.Initialize(f.admin))

	for _, m := range f.members {
		f.vault.Credit(m, 10_000)
	}
	return f
}

// startGroup creates the canonical group and fills membership.
func (f *fixture) startGroup(t *testing.T) {
	t.Helper()
	require.NoError(t, f.svc.CreateGroup(testParams(), f.members[0]))
	for _, m := range f.members[1:] {
		require.NoError(t, f.svc.JoinGroup("test", m))
	}
}

// advanceDays moves the fake clock forward whole days.
func (f *fixture) advanceDays(days int) {
	f.clock.Advance(time.Duration(days) * 24 * time.Hour)
}

// assertConservation checks the custody invariant: the group vault holds
// exactly deposits plus contributions minus payouts minus claimed refunds.
func (f *fixture) assertConservation(t *testing.T, deposits, contributions, payouts, refunds uint64) {
	t.Helper()
	vaultAcct := custody.GroupVaultAccount("test")
	assert.Equal(t, deposits+contributions-payouts-refunds, f.vault.Balance(vaultAcct))
}

func TestInitialize_Once(t *testing.T) {
	f := newFixture(t)
	assert.ErrorIs(t, f.svc.Initialize(f.admin), store.ErrAlreadyInitialized)
}

func TestCreateGroup(t *testing.T) {
	f := newFixture(t)

	require.NoError(t, f.svc.CreateGroup(testParams(), f.members[0]))

	// Deposit moved to the group vault before the group was committed.
	f.assertConservation(t, deposit, 0, 0, 0)
	assert.Equal(t, uint64(10_000-deposit), f.vault.Balance(f.members[0]))

	g, err := f.svc.Group("test")
	require.NoError(t, err)
	assert.Equal(t, ajo.Recruiting, g.State())
	require.Len(t, g.Participants, 1)

	reg, err := f.svc.Registry()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), reg.TotalGroups)
	assert.Equal(t, uint64(0), reg.ActiveGroups)

	// Creation emits a created event followed by the creator's join.
	require.Len(t, f.events.events, 2)
	created, ok := f.events.events[0].(ajo.GroupCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, uint16(14), created.PayoutInterval)
	_, ok = f.events.events[1].(ajo.ParticipantJoinedEvent)
	require.True(t, ok)
}

func TestCreateGroup_DuplicateName(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.svc.CreateGroup(testParams(), f.members[0]))

	err := f.svc.CreateGroup(testParams(), f.members[1])
	assert.ErrorIs(t, err, store.ErrGroupExists)

	// The duplicate attempt moved nothing.
	assert.Equal(t, uint64(10_000), f.vault.Balance(f.members[1]))
}

func TestCreateGroup_InsufficientDeposit(t *testing.T) {
	f := newFixture(t)
	poor := makeAddr(0xEE)

	err := f.svc.CreateGroup(testParams(), poor)
	require.ErrorIs(t, err, custody.ErrInsufficientFunds)

	_, err = f.svc.Group("test")
	assert.ErrorIs(t, err, store.ErrGroupNotFound)

	reg, err := f.svc.Registry()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), reg.TotalGroups)
}

func TestJoinGroup_ActivatesWhenFull(t *testing.T) {
	f := newFixture(t)
	f.startGroup(t)

	g, err := f.svc.Group("test")
	require.NoError(t, err)
	assert.Equal(t, ajo.Active, g.State())
	assert.Equal(t, f.clock.Now().Unix(), g.StartTimestamp)

	reg, err := f.svc.Registry()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), reg.ActiveGroups)

	f.assertConservation(t, 3*deposit, 0, 0, 0)

	// The filling join emits started then joined.
	var startedSeen bool
	for _, e := range f.events.events {
		if _, ok := e.(ajo.GroupStartedEvent); ok {
			startedSeen = true
		}
	}
	assert.True(t, startedSeen)
}

func TestJoinGroup_FailuresLeaveNoTrace(t *testing.T) {
	f := newFixture(t)
	f.startGroup(t)

	err := f.svc.JoinGroup("test", makeAddr(0xF0))
	assert.ErrorIs(t, err, ajo.ErrAlreadyStarted)

	err = f.svc.JoinGroup("missing", f.members[0])
	assert.ErrorIs(t, err, store.ErrGroupNotFound)

	f.assertConservation(t, 3*deposit, 0, 0, 0)
}

func TestContribute_ScenarioEightDays(t *testing.T) {
	f := newFixture(t)
	f.startGroup(t)

	// Eight days in, participant B owes exactly round 1.
	f.advanceDays(8)
	require.NoError(t, f.svc.Contribute("test", f.members[1]))

	e, ok := f.events.last().(ajo.ContributionMadeEvent)
	require.True(t, ok)
	assert.Equal(t, contribution, e.Amount)
	assert.Equal(t, uint16(1), e.CurrentRound)

	f.assertConservation(t, 3*deposit, contribution, 0, 0)
}

func TestContribute_SameRoundTwiceFails(t *testing.T) {
	f := newFixture(t)
	f.startGroup(t)
	f.advanceDays(8)

	require.NoError(t, f.svc.Contribute("test", f.members[1]))
	err := f.svc.Contribute("test", f.members[1])
	assert.ErrorIs(t, err, ajo.ErrAlreadyContributed)

	// Only the first transfer landed.
	f.assertConservation(t, 3*deposit, contribution, 0, 0)
}

func TestPayout_Scenario(t *testing.T) {
	f := newFixture(t)
	f.startGroup(t)

	// B contributes for round 1 on day 8.
	f.advanceDays(8)
	require.NoError(t, f.svc.Contribute("test", f.members[1]))

	// Day 15: payout round 1 is due, but A and C are in arrears.
	f.advanceDays(7)
	err := f.svc.Payout("test", f.members[0])
	require.ErrorIs(t, err, ajo.ErrNotAllContributed)

	// Everyone catches up to round 2: B pays one round, A and C two.
	for _, m := range f.members {
		require.NoError(t, f.svc.Contribute("test", m))
	}
	totalContributed := uint64(100 + 100 + 200 + 200)

	// Wrong recipient: the first slot belongs to the creator.
	err = f.svc.Payout("test", f.members[1])
	require.ErrorIs(t, err, ajo.ErrWrongRecipient)

	balBefore := f.vault.Balance(f.members[0])
	require.NoError(t, f.svc.Payout("test", f.members[0]))

	// payout = contribution * members * rounds covered = 100*3*2.
	assert.Equal(t, balBefore+600, f.vault.Balance(f.members[0]))
	f.assertConservation(t, 3*deposit, totalContributed, 600, 0)

	e, ok := f.events.last().(ajo.PayoutMadeEvent)
	require.True(t, ok)
	assert.Equal(t, uint64(600), e.Amount)
	assert.Equal(t, uint16(1), e.PayoutRound)

	// A second payout inside the same interval is not due.
	err = f.svc.Payout("test", f.members[1])
	assert.ErrorIs(t, err, ajo.ErrPayoutNotDue)
}

func TestFullRotation_RoundRobin(t *testing.T) {
	f := newFixture(t)
	f.startGroup(t)

	var contributed, paidOut uint64
	for cycle, recipient := range f.members {
		f.advanceDays(14)
		for _, m := range f.members {
			require.NoError(t, f.svc.Contribute("test", m))
			contributed += 200
		}
		require.NoError(t, f.svc.Payout("test", recipient), "cycle %d", cycle)
		paidOut += 600
	}

	f.assertConservation(t, 3*deposit, contributed, paidOut, 0)

	// Each full cycle returns exactly what its members pooled.
	g, err := f.svc.Group("test")
	require.NoError(t, err)
	assert.Equal(t, uint16(3), g.PayoutRound)
	assert.True(t, g.Completed())
}

func TestVoteClose_MajorityAndRefunds(t *testing.T) {
	f := newFixture(t)
	f.startGroup(t)

	// B and C pay round 1 on day 8; A runs ahead to round 3 on day 22.
	f.advanceDays(8)
	require.NoError(t, f.svc.Contribute("test", f.members[1]))
	require.NoError(t, f.svc.Contribute("test", f.members[2]))
	f.advanceDays(14)
	require.NoError(t, f.svc.Contribute("test", f.members[0]))

	g, err := f.svc.Group("test")
	require.NoError(t, err)
	require.Equal(t, uint16(3), g.Participants[0].ContributionRound)
	require.Equal(t, uint16(1), g.Participants[1].ContributionRound)

	// First vote leaves the group open.
	require.NoError(t, f.svc.VoteClose("test", f.members[1]))
	g, err = f.svc.Group("test")
	require.NoError(t, err)
	assert.False(t, g.IsClosed)
	assert.Len(t, g.CloseVotes, 1)

	// Second vote is the strict majority for three members.
	require.NoError(t, f.svc.VoteClose("test", f.members[0]))
	g, err = f.svc.Group("test")
	require.NoError(t, err)
	require.True(t, g.IsClosed)

	// min common round is 1: A recovers the two surplus rounds on top of
	// the deposit, B and C get their deposits back.
	assert.Equal(t, deposit+2*contribution, g.Participants[0].RefundAmount)
	assert.Equal(t, deposit, g.Participants[1].RefundAmount)
	assert.Equal(t, deposit, g.Participants[2].RefundAmount)

	reg, err := f.svc.Registry()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), reg.ActiveGroups)

	e, ok := f.events.last().(ajo.GroupClosedEvent)
	require.True(t, ok)
	assert.Equal(t, uint8(2), e.TotalVotes)
	assert.Equal(t, uint8(3), e.GroupSize)
}

func TestClaimRefund_OneShot(t *testing.T) {
	f := newFixture(t)
	f.startGroup(t)

	require.NoError(t, f.svc.VoteClose("test", f.members[0]))
	require.NoError(t, f.svc.VoteClose("test", f.members[1]))

	balBefore := f.vault.Balance(f.members[1])
	require.NoError(t, f.svc.ClaimRefund("test", f.members[1]))
	assert.Equal(t, balBefore+deposit, f.vault.Balance(f.members[1]))

	err := f.svc.ClaimRefund("test", f.members[1])
	assert.ErrorIs(t, err, ajo.ErrNothingToClaim)

	f.assertConservation(t, 3*deposit, 0, 0, deposit)

	// Operations on a closed group are rejected.
	assert.ErrorIs(t, f.svc.Contribute("test", f.members[0]), ajo.ErrAlreadyClosed)
	assert.ErrorIs(t, f.svc.Payout("test", f.members[0]), ajo.ErrAlreadyClosed)
}

func TestClaimRefund_BeforeClose(t *testing.T) {
	f := newFixture(t)
	f.startGroup(t)

	err := f.svc.ClaimRefund("test", f.members[0])
	assert.ErrorIs(t, err, ajo.ErrNotClosed)
}

func TestUpdateFee(t *testing.T) {
	f := newFixture(t)

	assert.ErrorIs(t, f.svc.UpdateFee(f.members[0], 10), ajo.ErrOnlyAdmin)
	require.NoError(t, f.svc.UpdateFee(f.admin, 10))

	reg, err := f.svc.Registry()
	require.NoError(t, err)
	assert.Equal(t, uint8(10), reg.FeePermille)

	e, ok := f.events.last().(ajo.FeeUpdatedEvent)
	require.True(t, ok)
	assert.Equal(t, uint8(10), e.NewPermille)
}

func TestContribute_RecordsFeeRevenue(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.svc.UpdateFee(f.admin, 10))
	f.startGroup(t)

	f.advanceDays(8)
	require.NoError(t, f.svc.Contribute("test", f.members[1]))

	reg, err := f.svc.Registry()
	require.NoError(t, err)
	// Bookkeeping only: 1% of the 100 contributed, nothing skimmed from
	// the transfer itself.
	assert.Equal(t, uint64(1), reg.TotalRevenue)
	f.assertConservation(t, 3*deposit, contribution, 0, 0)
}
