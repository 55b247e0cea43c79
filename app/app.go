package app

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	tendermint "github.com/tendermint/tendermint/abci/types"
	"greeter-node/messages"
	"greeter-node/modules"
)

type GreeterChain struct {
	Height    int64
	Confirmed []state // written at 2nd commit
	Committed state   // written at 1st commit
	New       state   // written at deliverTx
}

type state struct {
	Oracle  *modules.Registry
	Greeter *modules.Greeter
	Balance *modules.Balance
}

func (state state) hash() []byte {
	sum := append(state.Oracle.Hash(), state.Greeter.Hash()...)
	return append(sum, state.Balance.Hash()...)
}

func newState(old state) state {
	balance := modules.NewBalance(old.Balance)
	oracle := modules.NewRegistry(old.Oracle, balance)
	greeter := modules.NewGreeter(old.Greeter, oracle, balance)
	return state{
		Oracle:  oracle,
		Greeter: greeter,
		Balance: balance,
	}
}

var _ tendermint.Application = (*GreeterChain)(nil)

func NewGreeterChain(genUsers, genValidators map[string]int64) *GreeterChain {
	genesis := state{
		Balance: modules.NewBalance(&modules.Balance{
			Users:      genUsers,
			Validators: genValidators,
		}),
	}
	genesis.Oracle = modules.NewRegistry(&modules.Registry{}, genesis.Balance)
	genesis.Greeter = modules.NewGreeter(&modules.Greeter{}, genesis.Oracle, genesis.Balance)
	return &GreeterChain{
		Height: 0,
		New:    genesis,
	}
}

func (gc *GreeterChain) stateAtHeight(height int) state {
	// confirmed states start at height 2; anything outside the confirmed
	// range resolves to the zero state instead of panicking on a bad height
	if gc.Confirmed == nil || height < 0 || height == 1 || height-2 >= len(gc.Confirmed) {
		return state{}
	}
	if height == 0 { // return state at current height: last confirmed state
		return gc.Confirmed[len(gc.Confirmed)-1]
	}
	return gc.Confirmed[height-2]
}

func (gc *GreeterChain) Info(requestInfo tendermint.RequestInfo) tendermint.ResponseInfo {
	responseInfo := tendermint.ResponseInfo{
		Data:             "Greeter chain: an oracle-backed greeting contract",
		Version:          "V1",
		AppVersion:       1,
		LastBlockHeight:  gc.Height,
		LastBlockAppHash: gc.Committed.hash(),
	}
	return responseInfo
}

func (gc *GreeterChain) SetOption(requestSetOption tendermint.RequestSetOption) tendermint.ResponseSetOption {
	responseSetOption := tendermint.ResponseSetOption{
		Code: 0,
		Log:  "",
		Info: "",
	}
	return responseSetOption
}

func (gc *GreeterChain) Query(requestQuery tendermint.RequestQuery) tendermint.ResponseQuery {
	data := make([]byte, base64.StdEncoding.DecodedLen(len(requestQuery.Data)))
	_, _ = base64.StdEncoding.Decode(data, requestQuery.Data)
	data = bytes.Trim(data, "\x00")
	var query messages.Query
	_ = json.Unmarshal(data, &query)
	var value []byte
	state := gc.stateAtHeight(int(requestQuery.Height))
	if state.Balance == nil { // no confirmed state at that height
		return tendermint.ResponseQuery{
			Code:  uint32(0),
			Index: -1,
			Key:   requestQuery.Data,
		}
	}
	switch query.QrType {
	case messages.QueryState:
		value, _ = json.Marshal(state)
	case messages.QueryGreeter:
		value, _ = json.Marshal(state.Greeter)
	case messages.QueryGreets:
		value, _ = json.Marshal(state.Greeter.Greets)
	case messages.QueryOracle:
		value, _ = json.Marshal(state.Oracle.GetOracle(query.OracleAddress))
	case messages.QueryOracleQueries:
		value, _ = json.Marshal(state.Oracle.QueriesOf(query.OracleAddress))
	case messages.QueryOracleQuery:
		value, _ = json.Marshal(state.Oracle.GetQuery(query.QueryID))
	case messages.QueryBalance:
		value, _ = json.Marshal(state.Balance.Users[query.Account])
	case messages.QueryContractBalance:
		value, _ = json.Marshal(state.Greeter.GetBalance())
	}
	responseQuery := tendermint.ResponseQuery{
		Code:      uint32(0),
		Log:       "",
		Info:      "",
		Index:     -1,
		Key:       requestQuery.Data,
		Value:     value,
		Proof:     nil,
		Height:    0,
		Codespace: "",
	}
	return responseQuery
}

func (gc *GreeterChain) CheckTx(requestCheckTx tendermint.RequestCheckTx) tendermint.ResponseCheckTx {
	responseCheckTx := tendermint.ResponseCheckTx{
		Code:      uint32(0),
		Data:      nil,
		Log:       "",
		Info:      "",
		GasWanted: 0,
		GasUsed:   0,
		Events:    nil,
		Codespace: "",
	}
	return responseCheckTx
}

func (gc *GreeterChain) InitChain(requestInitChain tendermint.RequestInitChain) tendermint.ResponseInitChain {
	responseInitChain := tendermint.ResponseInitChain{
		ConsensusParams: nil,
		Validators:      nil,
	}
	return responseInitChain
}

func (gc *GreeterChain) BeginBlock(requestBeginBlock tendermint.RequestBeginBlock) tendermint.ResponseBeginBlock {
	gc.New.Oracle.Expire(gc.Height + 1)
	responseBeginBlock := tendermint.ResponseBeginBlock{
		Events: nil,
	}
	return responseBeginBlock
}

func (gc *GreeterChain) DeliverTx(requestDeliverTx tendermint.RequestDeliverTx) tendermint.ResponseDeliverTx {
	tx := make([]byte, base64.StdEncoding.DecodedLen(len(requestDeliverTx.Tx)))
	_, _ = base64.StdEncoding.Decode(tx, requestDeliverTx.Tx)
	tx = bytes.Trim(tx, "\x00")
	var transaction messages.Transaction
	_ = json.Unmarshal(tx, &transaction)
	height := gc.Height + 1
	switch transaction.TxType {
	case messages.TxInitGreeter:
		_ = gc.New.Greeter.Init(height)
	case messages.TxGreet:
		greeting := transaction.Greeting
		gc.New.Greeter.Greet(greeting, height)
	case messages.TxRespondGreets:
		gc.New.Greeter.RespondToGreets()
	case messages.TxRegisterOracle:
		registration := transaction.Registration
		_ = gc.New.Oracle.AddOracle(registration, height)
	case messages.TxSubmitQuery:
		submission := transaction.Submission
		_, _ = gc.New.Oracle.AddQuery(submission, height)
	case messages.TxRespondQuery:
		response := transaction.Response
		_ = gc.New.Oracle.AddResponse(response)
	case messages.TxTransfer:
		transfer := transaction.Transfer
		gc.New.Balance.AddTransfer(transfer)
	}
	if transaction.Fee != nil {
		gc.New.Balance.AddFee(transaction.Fee)
	}
	responseDeliverTx := tendermint.ResponseDeliverTx{
		Code:      uint32(0),
		Data:      nil,
		Log:       "",
		Info:      "",
		GasWanted: 0,
		GasUsed:   0,
		Events:    nil,
		Codespace: "",
	}
	return responseDeliverTx
}

func (gc *GreeterChain) EndBlock(requestEndBlock tendermint.RequestEndBlock) tendermint.ResponseEndBlock {
	responseEndBlock := tendermint.ResponseEndBlock{
		ValidatorUpdates:      nil,
		ConsensusParamUpdates: nil,
		Events:                nil,
	}
	return responseEndBlock
}

func (gc *GreeterChain) Commit() tendermint.ResponseCommit {
	if gc.Height > 0 { // we don't append to confirmed in the first commit, since there's no committed state yet
		gc.Confirmed = append(gc.Confirmed, gc.Committed)
	}
	gc.Committed = gc.New
	gc.New = newState(gc.Committed)
	gc.Height++
	responseCommit := tendermint.ResponseCommit{
		Data:         gc.Committed.hash(),
		RetainHeight: 0,
	}
	return responseCommit
}
