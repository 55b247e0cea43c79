package modules

import (
	"encoding/hex"
	"github.com/tendermint/tendermint/crypto/ed25519"
	"greeter-node/crypto"
)

var (
	// Keys
	callerPrivKey   []byte
	callerPubKey    []byte
	operatorPrivKey []byte
	operatorPubKey  []byte
	senderPrivKey   []byte
	senderPubKey    []byte
	stakePrivKey    []byte
	stakePubKey     []byte
	// Balance
	tokenDistribution map[string]int64
	initialUsers      map[string]int64
	initialValidators map[string]int64
)

func init() {
	// Keys
	callerPrivKey, callerPubKey = crypto.NewKeyPair()
	operatorPrivKey, operatorPubKey = crypto.NewKeyPair()
	senderPrivKey, senderPubKey = crypto.NewKeyPair()
	tmPrivKey := ed25519.GenPrivKey()
	stakePrivKey, stakePubKey = crypto.LoadTmKeys(tmPrivKey, tmPrivKey.PubKey())
	// Balance
	tokenDistribution = map[string]int64{
		"Caller":   ToSats(25),
		"Operator": ToSats(5),
		"Sender":   ToSats(10),
	}
	initialUsers = make(map[string]int64, 3)
	initialUsers[hex.EncodeToString(callerPubKey)] = tokenDistribution["Caller"]
	initialUsers[hex.EncodeToString(operatorPubKey)] = tokenDistribution["Operator"]
	initialUsers[hex.EncodeToString(senderPubKey)] = tokenDistribution["Sender"]
	initialValidators = make(map[string]int64, 1)
	initialValidators[hex.EncodeToString(stakePubKey)] = ToSats(30)
}

func initBalance() *Balance {
	return NewBalance(&Balance{
		Users:      initialUsers,
		Validators: initialValidators,
	})
}

func initState() (*Registry, *Greeter, *Balance) {
	balance := initBalance()
	registry := NewRegistry(&Registry{}, balance)
	greeter := NewGreeter(&Greeter{}, registry, balance)
	return registry, greeter, balance
}

func totalFunds(balance *Balance) int64 {
	total := balance.Escrow
	for _, value := range balance.Users {
		total += value
	}
	for _, value := range balance.Validators {
		total += value
	}
	return total
}
