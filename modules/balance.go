package modules

import (
	"crypto/sha256"
	"encoding/hex"
	"github.com/tendermint/tendermint/types"
	"greeter-node/crypto"
	"strconv"
)

const (
	CoinName   = "GRTC"
	MinUnit    = "SATS"
	GrtcSats   = 100000000
	SatsSupply = types.MaxTotalVotingPower
	GrtcSupply = SatsSupply / GrtcSats
	TxFee      = 7700000
)

func ToSats(grtc int64) int64 { return grtc * GrtcSats }

type Balance struct {
	Users      map[string]int64
	Validators map[string]int64
	Escrow     int64
	Transfers  []*Transfer
	Fees       []*Fee
}

func NewBalance(oldBalance *Balance) *Balance {
	balance := &Balance{
		Users:      make(map[string]int64),
		Validators: make(map[string]int64),
		Escrow:     oldBalance.Escrow,
	}
	for user, value := range oldBalance.Users {
		balance.Users[user] = value
	}
	for validator, value := range oldBalance.Validators {
		balance.Validators[validator] = value
	}
	for _, transfer := range oldBalance.Transfers {
		balance.Transfers = append(balance.Transfers, transfer)
	}
	for _, fee := range oldBalance.Fees {
		balance.Fees = append(balance.Fees, fee)
	}
	return balance
}

func (balance *Balance) Hash() []byte {
	var sum []byte
	if balance == nil {
		return sum
	}
	for _, transfer := range balance.Transfers {
		sum = append(sum, transfer.Hash()...)
	}
	for _, fee := range balance.Fees {
		sum = append(sum, fee.Hash()...)
	}
	hash := sha256.Sum256(sum)
	return hash[:]
}

func (balance *Balance) AddTransfer(transfer *Transfer) {
	id := append(transfer.Sender, transfer.Receiver...)
	id = append(id, []byte(strconv.FormatInt(transfer.Amount, 10))...)
	id = append(id, []byte(strconv.FormatInt(transfer.Time, 10))...)
	isSigned := crypto.Verify(transfer.Sender, id, transfer.Signature)
	sender := hex.EncodeToString(transfer.Sender)
	hasBalance := balance.Users[sender] >= transfer.Amount && transfer.Amount > 0
	if isSigned && hasBalance {
		balance.Transfers = append(balance.Transfers, transfer)
		receiver := hex.EncodeToString(transfer.Receiver)
		balance.Users[sender] -= transfer.Amount
		balance.Users[receiver] += transfer.Amount
	}
}

func (balance *Balance) AddFee(fee *Fee) {
	id := append(fee.User, fee.Validator...)
	id = append(id, fee.TxHash...)
	isSigned := crypto.VerifyED(fee.Validator, id, fee.Signature)
	user := hex.EncodeToString(fee.User)
	hasBalance := balance.Users[user] >= TxFee
	if isSigned && hasBalance {
		balance.Fees = append(balance.Fees, fee)
		validator := hex.EncodeToString(fee.Validator)
		balance.Users[user] -= TxFee
		balance.Validators[validator] += TxFee
	}
}

// Pay moves funds between accounts without a transfer record; used by the
// greeter contract to collect greet payments it already validated.
func (balance *Balance) Pay(from, to string, amount int64) bool {
	if amount < 0 || balance.Users[from] < amount {
		return false
	}
	balance.Users[from] -= amount
	balance.Users[to] += amount
	return true
}

// Hold escrows funds for an outstanding oracle query.
func (balance *Balance) Hold(from string, amount int64) bool {
	if amount < 0 || balance.Users[from] < amount {
		return false
	}
	balance.Users[from] -= amount
	balance.Escrow += amount
	return true
}

// Release pays escrowed funds out, to the oracle operator on a response or
// back to the query sender on expiry.
func (balance *Balance) Release(to string, amount int64) bool {
	if amount < 0 || balance.Escrow < amount {
		return false
	}
	balance.Escrow -= amount
	balance.Users[to] += amount
	return true
}

type Transfer struct {
	Sender    []byte
	Receiver  []byte
	Amount    int64
	Time      int64
	Signature []byte
}

func (transfer *Transfer) Hash() []byte {
	sum := append(transfer.Sender, transfer.Receiver...)
	sum = append(sum, []byte(strconv.FormatInt(transfer.Amount, 10))...)
	sum = append(sum, []byte(strconv.FormatInt(transfer.Time, 10))...)
	sum = append(sum, transfer.Signature...)
	hash := sha256.Sum256(sum)
	return hash[:]
}

/*	Charges the flat node fee from User to the claiming Validator.
	The Signature must be a valid ed25519 Signature of
	(User + Validator + TxHash) for the Validator key. */
type Fee struct {
	User      []byte
	Validator []byte
	TxHash    []byte
	Signature []byte
}

func (fee *Fee) Hash() []byte {
	sum := append(fee.User, fee.Validator...)
	sum = append(sum, fee.TxHash...)
	sum = append(sum, fee.Signature...)
	hash := sha256.Sum256(sum)
	return hash[:]
}
