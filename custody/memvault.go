package custody

import (
	"fmt"
	"sync"

	"github.com/ajoprotocol/libajo-go/ajo"
)

// MemVault is an in-memory Vault keeping per-account balances. It is the
// reference implementation used by tests and single-process deployments;
// a hosting ledger substitutes its own.
type MemVault struct {
	mu       sync.Mutex
	balances map[ajo.Address]uint64
}

// Compile-time interface check.
var _ Vault = (*MemVault)(nil)

// NewMemVault creates an empty vault.
func NewMemVault() *MemVault {
	return &MemVault{balances: make(map[ajo.Address]uint64)}
}

// Credit adds funds to an account, outside any protocol rule. Tests use
// it to fund participants.
func (v *MemVault) Credit(account ajo.Address, amount uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.balances[account] += amount
}

// Transfer moves amount between accounts, all or nothing.
func (v *MemVault) Transfer(from, to ajo.Address, amount uint64) error {
	if amount == 0 {
		return ErrZeroAmount
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.balances[from] < amount {
		return fmt.Errorf("%w: %s has %d, needs %d", ErrInsufficientFunds, from, v.balances[from], amount)
	}
	v.balances[from] -= amount
	v.balances[to] += amount
	return nil
}

// TransferFromGroup moves amount out of the authority's vault account.
func (v *MemVault) TransferFromGroup(auth Authority, to ajo.Address, amount uint64) error {
	if auth.vault.IsZero() {
		return ErrInvalidAuthority
	}
	return v.Transfer(auth.vault, to, amount)
}

// AuthorizeAsGroup returns the spending capability for a group's vault.
func (v *MemVault) AuthorizeAsGroup(groupName string) Authority {
	return Authority{vault: GroupVaultAccount(groupName)}
}

// Balance returns the current balance of an account.
func (v *MemVault) Balance(account ajo.Address) uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.balances[account]
}
