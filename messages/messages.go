package messages

import (
	"greeter-node/modules"
)

type TransactionType string

const (
	TxInitGreeter    TransactionType = "TxInitGreeter"
	TxGreet          TransactionType = "TxGreet"
	TxRespondGreets  TransactionType = "TxRespondGreets"
	TxRegisterOracle TransactionType = "TxRegisterOracle"
	TxSubmitQuery    TransactionType = "TxSubmitQuery"
	TxRespondQuery   TransactionType = "TxRespondQuery"
	TxTransfer       TransactionType = "TxTransfer"
)

type Transaction struct {
	TxType TransactionType

	Greeting     *modules.Greeting
	Registration *modules.Registration
	Submission   *modules.Submission
	Response     *modules.Response
	Transfer     *modules.Transfer

	Fee *modules.Fee
}

type QueryType string

const (
	QueryState           QueryType = "QueryState"
	QueryGreeter         QueryType = "QueryGreeter"
	QueryGreets          QueryType = "QueryGreets"
	QueryOracle          QueryType = "QueryOracle"
	QueryOracleQueries   QueryType = "QueryOracleQueries"
	QueryOracleQuery     QueryType = "QueryOracleQuery"
	QueryBalance         QueryType = "QueryBalance"
	QueryContractBalance QueryType = "QueryContractBalance"
)

type Query struct {
	QrType QueryType

	OracleAddress string
	QueryID       string
	Account       string
}
