package modules

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"greeter-node/crypto"
	"strconv"
	"testing"
	"time"
)

func TestEmptyBalance(t *testing.T) {
	balance := initBalance()
	if balance.Users[hex.EncodeToString(callerPubKey)] != tokenDistribution["Caller"] ||
		balance.Users[hex.EncodeToString(operatorPubKey)] != tokenDistribution["Operator"] ||
		balance.Users[hex.EncodeToString(senderPubKey)] != tokenDistribution["Sender"] {
		t.Errorf("Failed initializing balance users token distribution")
	}
	if balance.Transfers != nil || balance.Fees != nil {
		t.Errorf("Failed initializing balance transactions list")
	}
	validHash := sha256.Sum256(nil)
	if bytes.Compare(balance.Hash(), validHash[:]) != 0 {
		t.Errorf("Failed initializing balance hash")
	}
}

func TestAddTransfer(t *testing.T) {
	balance := initBalance()
	sender := callerPubKey
	senderKey := callerPrivKey
	receiver := senderPubKey
	amount := ToSats(2)
	transfer := mockTransfer(sender, senderKey, receiver, amount)
	balance.AddTransfer(transfer)
	if len(balance.Transfers) != 1 {
		t.Errorf("Failed to register transfer")
	}
	if balance.Users[hex.EncodeToString(sender)] != (initialUsers[hex.EncodeToString(sender)] - amount) {
		t.Errorf("Failed to subtract transfer amount")
	}
	if balance.Users[hex.EncodeToString(receiver)] != (initialUsers[hex.EncodeToString(receiver)] + amount) {
		t.Errorf("Failed to add transfer amount")
	}
	validHash := sha256.Sum256(transfer.Hash())
	if bytes.Compare(balance.Hash(), validHash[:]) != 0 {
		t.Errorf("Incorrect hash after transfer")
	}
}

func TestAddTransferUnderfunded(t *testing.T) {
	balance := initBalance()
	amount := tokenDistribution["Caller"] + ToSats(1)
	transfer := mockTransfer(callerPubKey, callerPrivKey, senderPubKey, amount)
	balance.AddTransfer(transfer)
	if len(balance.Transfers) != 0 {
		t.Errorf("Underfunded transfer registered")
	}
	if balance.Users[hex.EncodeToString(callerPubKey)] != initialUsers[hex.EncodeToString(callerPubKey)] {
		t.Errorf("Underfunded transfer moved funds")
	}
}

func TestAddTransferUnsigned(t *testing.T) {
	balance := initBalance()
	transfer := mockTransfer(callerPubKey, callerPrivKey, senderPubKey, ToSats(2))
	transfer.Signature = crypto.Sign(senderPrivKey, []byte("something else"))
	balance.AddTransfer(transfer)
	if len(balance.Transfers) != 0 {
		t.Errorf("Unsigned transfer registered")
	}
}

func mockTransfer(sender, senderKey, receiver []byte, amount int64) *Transfer {
	time := time.Now().Unix()
	id := append(sender, receiver...)
	id = append(id, strconv.FormatInt(amount, 10)...)
	id = append(id, strconv.FormatInt(time, 10)...)
	return &Transfer{
		Sender:    sender,
		Receiver:  receiver,
		Amount:    amount,
		Time:      time,
		Signature: crypto.Sign(senderKey, id),
	}
}

func TestAddFee(t *testing.T) {
	balance := initBalance()
	fee := mockFee()
	balance.AddFee(fee)
	if len(balance.Fees) != 1 {
		t.Errorf("Failed to register fee")
	}
	if balance.Users[hex.EncodeToString(callerPubKey)] != (initialUsers[hex.EncodeToString(callerPubKey)] - TxFee) {
		t.Errorf("Failed to subtract fee amount")
	}
	if balance.Validators[hex.EncodeToString(stakePubKey)] != (initialValidators[hex.EncodeToString(stakePubKey)] + TxFee) {
		t.Errorf("Failed to add fee amount")
	}
	validHash := sha256.Sum256(fee.Hash())
	if bytes.Compare(balance.Hash(), validHash[:]) != 0 {
		t.Errorf("Incorrect hash after fee")
	}
}

func TestAddFeeUnsigned(t *testing.T) {
	balance := initBalance()
	fee := mockFee()
	fee.Signature = crypto.SignED(stakePrivKey, []byte("something else"))
	balance.AddFee(fee)
	if len(balance.Fees) != 0 {
		t.Errorf("Unsigned fee registered")
	}
	if balance.Users[hex.EncodeToString(callerPubKey)] != initialUsers[hex.EncodeToString(callerPubKey)] {
		t.Errorf("Unsigned fee moved funds")
	}
}

func mockFee() *Fee {
	hash := sha256.Sum256([]byte("Some transaction bytes"))
	id := append(callerPubKey, stakePubKey...)
	id = append(id, hash[:]...)
	return &Fee{
		User:      callerPubKey,
		Validator: stakePubKey,
		TxHash:    hash[:],
		Signature: crypto.SignED(stakePrivKey, id),
	}
}

func TestHoldRelease(t *testing.T) {
	balance := initBalance()
	total := totalFunds(balance)
	sender := hex.EncodeToString(senderPubKey)
	operator := hex.EncodeToString(operatorPubKey)
	amount := ToSats(3)
	if !balance.Hold(sender, amount) {
		t.Errorf("Failed to hold funds")
	}
	if balance.Users[sender] != initialUsers[sender]-amount {
		t.Errorf("Failed to subtract held amount")
	}
	if balance.Escrow != amount {
		t.Errorf("Failed to escrow held amount")
	}
	if totalFunds(balance) != total {
		t.Errorf("Hold changed total funds")
	}
	if !balance.Release(operator, amount) {
		t.Errorf("Failed to release funds")
	}
	if balance.Users[operator] != initialUsers[operator]+amount {
		t.Errorf("Failed to add released amount")
	}
	if balance.Escrow != 0 {
		t.Errorf("Failed to clear escrow")
	}
	if totalFunds(balance) != total {
		t.Errorf("Release changed total funds")
	}
}

func TestHoldUnderfunded(t *testing.T) {
	balance := initBalance()
	sender := hex.EncodeToString(senderPubKey)
	if balance.Hold(sender, tokenDistribution["Sender"]+1) {
		t.Errorf("Held more than the account balance")
	}
	if balance.Escrow != 0 || balance.Users[sender] != initialUsers[sender] {
		t.Errorf("Failed hold changed the state")
	}
	if balance.Release(sender, 1) {
		t.Errorf("Released more than the escrow")
	}
}

func TestPay(t *testing.T) {
	balance := initBalance()
	total := totalFunds(balance)
	caller := hex.EncodeToString(callerPubKey)
	if !balance.Pay(caller, GreeterAccount, GreetFee) {
		t.Errorf("Failed to pay")
	}
	if balance.Users[GreeterAccount] != GreetFee {
		t.Errorf("Failed to credit payment")
	}
	if totalFunds(balance) != total {
		t.Errorf("Pay changed total funds")
	}
}
