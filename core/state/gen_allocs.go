package state

import (
	"github.com/dominant-strategies/quai-evm/core/genallocs"
	"github.com/dominant-strategies/quai-evm/log"
)

// ApplyGenesisAllocs writes the prestate accounts into the state. Accounts
// listed more than once have their balances added up. The changes still have
// to be committed.
func (s *StateDB) ApplyGenesisAllocs(accounts []genallocs.GenesisAccount) {
	slots := 0
	for _, account := range accounts {
		s.AddBalance(account.Address, account.Balance)
		if account.Nonce != 0 {
			s.SetNonce(account.Address, account.Nonce)
		}
		if len(account.Code) != 0 {
			s.SetCode(account.Address, account.Code)
		}
		if account.Storage == nil {
			continue
		}
		for pair := account.Storage.Oldest(); pair != nil; pair = pair.Next() {
			s.SetState(account.Address, pair.Key, pair.Value)
			slots++
		}
	}
	s.logger.WithFields(log.Fields{
		"accounts": len(accounts),
		"slots":    slots,
	}).Debug("Allocated genesis accounts")
}
