package domain

import (
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Session is an authenticated binding between this client and one
// externally-controlled account on one chain. It is only ever constructed
// after the challenge signature has been verified against the account.
type Session struct {
	Account  common.Address
	ChainID  uint64
	IssuedAt time.Time
}

// ChainDefinition describes a network the wallet provider may be asked to
// add before switching to it.
type ChainDefinition struct {
	ChainID     uint64
	Name        string
	RPCURL      string
	Currency    string
	ExplorerURL string
}

// Challenge is the text a candidate account must sign before a Session is
// issued. Account and Nonce bind the signature to one connect attempt.
type Challenge struct {
	Account  common.Address
	Nonce    string
	IssuedAt time.Time
}

func (c Challenge) Message() []byte {
	return []byte("notewire wants you to sign in\n" +
		"address: " + c.Account.Hex() + "\n" +
		"nonce: " + c.Nonce + "\n" +
		"issued: " + c.IssuedAt.UTC().Format(time.RFC3339))
}
