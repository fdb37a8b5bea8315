// Package custody provides the value-transfer collaborator of the Ajo
// protocol: atomic balance moves between ledger accounts, plus the
// group-authority capability used for payouts and refunds that no
// individual signer authorizes.
package custody

import (
	"golang.org/x/crypto/blake2b"

	"github.com/ajoprotocol/libajo-go/ajo"
)

// Vault moves funds between accounts. Implementations must make each
// Transfer atomic: it either fully applies or leaves both balances
// untouched.
type Vault interface {
	// Transfer moves amount from one account to another, failing with
	// ErrInsufficientFunds if the source balance cannot cover it.
	Transfer(from, to ajo.Address, amount uint64) error

	// TransferFromGroup moves amount out of a group's vault account under
	// the group's own authority.
	TransferFromGroup(auth Authority, to ajo.Address, amount uint64) error

	// AuthorizeAsGroup returns the capability for group-originated
	// transfers. Only the protocol layer may obtain it; it is never
	// handed to callers.
	AuthorizeAsGroup(groupName string) Authority

	// Balance returns the current balance of an account.
	Balance(account ajo.Address) uint64
}

// Authority is the capability to spend from a group's vault account.
// The zero value is invalid; obtain one through Vault.AuthorizeAsGroup.
type Authority struct {
	vault ajo.Address
}

// VaultAccount returns the custody account the authority controls.
func (a Authority) VaultAccount() ajo.Address {
	return a.vault
}

// GroupVaultAccount derives the custody account that holds a group's
// pooled funds. The derivation is deterministic in the group name and
// domain-separated from ordinary accounts.
func GroupVaultAccount(groupName string) ajo.Address {
	h, _ := blake2b.New256(nil)
	h.Write([]byte("ajo/group-vault/"))
	h.Write([]byte(groupName))
	var addr ajo.Address
	h.Sum(addr[:0])
	return addr
}
