package modules

/*
Registry is the host side of the oracle service.
Oracles are registered with a query fee and a relative TTL in block generations.
Queries escrow their fee on submission; the fee is paid to the oracle on
response and refunded to the sender when the query expires unanswered.
A question may be sealed (encrypted to the operator key), in which case only
the ciphertext is stored on chain.

Each new block a new registry gets generated
*/

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"greeter-node/crypto"
	"strconv"
)

const (
	OracleTTL = 200 // relative oracle expiry, block generations
	QueryTTL  = 20  // relative query expiry, block generations
)

// ------------------------------------------------------------------------------------------------------------------- //
// REGISTRY

type Registry struct {
	Oracles []*Oracle
	Queries []*Query
	balance *Balance
}

func NewRegistry(old *Registry, balance *Balance) *Registry { // called every new block
	registry := &Registry{balance: balance}
	for _, oldOracle := range old.Oracles {
		oracle := *oldOracle
		registry.Oracles = append(registry.Oracles, &oracle)
	}
	for _, oldQuery := range old.Queries {
		query := *oldQuery
		registry.Queries = append(registry.Queries, &query)
	}
	return registry
}

func (registry *Registry) Hash() []byte {
	var sum []byte
	if registry == nil {
		return sum
	}
	for _, oracle := range registry.Oracles {
		sum = append(sum, oracle.Hash()...)
	}
	for _, query := range registry.Queries {
		sum = append(sum, query.Hash()...)
	}
	hash := sha256.Sum256(sum)
	return hash[:]
}

func (registry *Registry) AddOracle(registration *Registration, height int64) error { // called at registerTx
	if err := crypto.CheckPubKey(registration.Operator); err != nil {
		return err
	}
	id := append(registration.Operator, []byte(strconv.FormatInt(registration.QueryFee, 10))...)
	id = append(id, []byte(strconv.FormatInt(registration.TTL, 10))...)
	id = append(id, []byte(strconv.FormatInt(registration.Time, 10))...)
	if !crypto.Verify(registration.Operator, id, registration.Signature) {
		return errors.New("registration not signed by operator")
	}
	if registration.QueryFee < 0 || registration.TTL <= 0 {
		return errors.New("invalid registration parameters")
	}
	registry.register(hex.EncodeToString(registration.Operator), registration.QueryFee, registration.TTL, height)
	return nil
}

// register creates an oracle under address, or extends it if already registered.
func (registry *Registry) register(address string, queryFee, ttl, height int64) *Oracle {
	if oracle := registry.GetOracle(address); oracle != nil {
		oracle.ExpiresAt = height + ttl
		oracle.Expired = false
		return oracle
	}
	oracle := &Oracle{
		Address:   address,
		QueryFee:  queryFee,
		TTL:       ttl,
		ExpiresAt: height + ttl,
	}
	registry.Oracles = append(registry.Oracles, oracle)
	return oracle
}

func (registry *Registry) AddQuery(submission *Submission, height int64) (string, error) { // called at queryTx
	if err := crypto.CheckPubKey(submission.Sender); err != nil {
		return "", err
	}
	id := append(submission.Sender, []byte(submission.OracleAddress)...)
	id = append(id, []byte(submission.Question)...)
	id = append(id, submission.SealedQuestion...)
	id = append(id, []byte(strconv.FormatInt(submission.Fee, 10))...)
	id = append(id, []byte(strconv.FormatInt(submission.TTL, 10))...)
	id = append(id, []byte(strconv.FormatInt(submission.Time, 10))...)
	if !crypto.Verify(submission.Sender, id, submission.Signature) {
		return "", errors.New("submission not signed by sender")
	}
	sender := hex.EncodeToString(submission.Sender)
	return registry.Submit(submission.OracleAddress, sender, submission.Question, submission.SealedQuestion, submission.Fee, submission.TTL, height)
}

// Submit records a query against a live oracle and escrows its fee from sender.
func (registry *Registry) Submit(oracleAddress, sender, question string, sealed []byte, fee, ttl, height int64) (string, error) {
	oracle := registry.GetOracle(oracleAddress)
	if oracle == nil {
		return "", errors.New("unknown oracle: " + oracleAddress)
	}
	if oracle.Expired || oracle.ExpiresAt <= height {
		return "", errors.New("oracle expired: " + oracleAddress)
	}
	if fee != oracle.QueryFee {
		return "", errors.New("query fee mismatch")
	}
	if ttl <= 0 {
		return "", errors.New("invalid query ttl")
	}
	if !registry.balance.Hold(sender, fee) {
		return "", errors.New("insufficient funds for query fee")
	}
	query := &Query{
		ID:             queryID(oracleAddress, sender, question, sealed, height, len(registry.Queries)),
		OracleAddress:  oracleAddress,
		Sender:         sender,
		Question:       question,
		SealedQuestion: sealed,
		Fee:            fee,
		ExpiresAt:      height + ttl,
	}
	registry.Queries = append(registry.Queries, query)
	return query.ID, nil
}

func (registry *Registry) AddResponse(response *Response) error { // called at respondTx
	if err := crypto.CheckPubKey(response.Operator); err != nil {
		return err
	}
	id := append(response.Operator, []byte(response.QueryID)...)
	id = append(id, []byte(response.Response)...)
	id = append(id, []byte(strconv.FormatInt(response.Time, 10))...)
	if !crypto.Verify(response.Operator, id, response.Signature) {
		return errors.New("response not signed by operator")
	}
	return registry.Respond(hex.EncodeToString(response.Operator), response.QueryID, response.Response)
}

// Respond publishes the answer to a query and pays the escrowed fee to the oracle.
func (registry *Registry) Respond(oracleAddress, queryID, response string) error {
	query := registry.GetQuery(queryID)
	if query == nil {
		return errors.New("unknown query: " + queryID)
	}
	if query.OracleAddress != oracleAddress {
		return errors.New("query belongs to another oracle")
	}
	if query.Answered {
		return errors.New("query already answered")
	}
	if query.Expired {
		return errors.New("query expired")
	}
	query.Response = response
	query.Answered = true
	registry.balance.Release(oracleAddress, query.Fee)
	return nil
}

// Expire sweeps due queries and oracles; called once per block.
func (registry *Registry) Expire(height int64) {
	for _, query := range registry.Queries {
		if !query.Answered && !query.Expired && query.ExpiresAt <= height {
			query.Expired = true
			registry.balance.Release(query.Sender, query.Fee)
		}
	}
	for _, oracle := range registry.Oracles {
		if !oracle.Expired && oracle.ExpiresAt <= height {
			oracle.Expired = true
		}
	}
}

func (registry *Registry) GetOracle(address string) *Oracle {
	for _, oracle := range registry.Oracles {
		if oracle.Address == address {
			return oracle
		}
	}
	return nil
}

func (registry *Registry) GetQuery(id string) *Query {
	for _, query := range registry.Queries {
		if query.ID == id {
			return query
		}
	}
	return nil
}

func (registry *Registry) QueriesOf(address string) []*Query {
	var queries []*Query
	for _, query := range registry.Queries {
		if query.OracleAddress == address {
			queries = append(queries, query)
		}
	}
	return queries
}

func queryID(oracleAddress, sender, question string, sealed []byte, height int64, index int) string {
	sum := append([]byte(oracleAddress), []byte(sender)...)
	sum = append(sum, []byte(question)...)
	sum = append(sum, sealed...)
	sum = append(sum, []byte(strconv.FormatInt(height, 10))...)
	sum = append(sum, []byte(strconv.Itoa(index))...)
	hash := sha256.Sum256(sum)
	return hex.EncodeToString(hash[:])
}

// ------------------------------------------------------------------------------------------------------------------- //
// REGISTRATION

/*	Registers (or extends) an oracle under the operator key with a fixed
	query fee and a relative TTL in block generations.
	The Signature must be a valid Signature of
	(Operator + QueryFee + TTL + Time) for the Operator key. */
type Registration struct {
	Operator  []byte
	QueryFee  int64
	TTL       int64
	Time      int64
	Signature []byte
}

// ------------------------------------------------------------------------------------------------------------------- //
// SUBMISSION

/*	Puts a question to an oracle. Fee must equal the oracle query fee and is
	escrowed from the Sender. Either Question or SealedQuestion is set; a
	sealed question is the plaintext encrypted to the operator key with
	crypto.Encrypt.
	The Signature must be a valid Signature of
	(Sender + OracleAddress + Question + SealedQuestion + Fee + TTL + Time)
	for the Sender key. */
type Submission struct {
	Sender         []byte
	OracleAddress  string
	Question       string
	SealedQuestion []byte
	Fee            int64
	TTL            int64
	Time           int64
	Signature      []byte
}

// ------------------------------------------------------------------------------------------------------------------- //
// RESPONSE

/*	Publishes the answer to a query of an oracle owned by the Operator key.
	The Signature must be a valid Signature of
	(Operator + QueryID + Response + Time) for the Operator key. */
type Response struct {
	Operator  []byte
	QueryID   string
	Response  string
	Time      int64
	Signature []byte
}

// ------------------------------------------------------------------------------------------------------------------- //
// ORACLE

type Oracle struct {
	Address   string
	QueryFee  int64
	TTL       int64
	ExpiresAt int64
	Expired   bool
}

func (oracle *Oracle) Hash() []byte {
	sum := append([]byte(oracle.Address), []byte(strconv.FormatInt(oracle.QueryFee, 10))...)
	sum = append(sum, []byte(strconv.FormatInt(oracle.TTL, 10))...)
	sum = append(sum, []byte(strconv.FormatInt(oracle.ExpiresAt, 10))...)
	if oracle.Expired {
		sum = append(sum, '\xFF')
	} else {
		sum = append(sum, '\x00')
	}
	hash := sha256.Sum256(sum)
	return hash[:]
}

// ------------------------------------------------------------------------------------------------------------------- //
// QUERY

/*	An oracle query pairs a question with an eventual response.
	Created on submission, resolved by the owning oracle or expired by the
	per-block sweep, never removed. A sealed question carries only ciphertext;
	the operator decrypts it off chain with crypto.Decrypt. */
type Query struct {
	ID             string
	OracleAddress  string
	Sender         string
	Question       string
	SealedQuestion []byte
	Response       string
	Answered       bool
	Fee            int64
	ExpiresAt      int64
	Expired        bool
}

func (query *Query) Hash() []byte {
	sum := append([]byte(query.ID), []byte(query.OracleAddress)...)
	sum = append(sum, []byte(query.Sender)...)
	sum = append(sum, []byte(query.Question)...)
	sum = append(sum, query.SealedQuestion...)
	sum = append(sum, []byte(query.Response)...)
	if query.Answered {
		sum = append(sum, '\xFF')
	} else {
		sum = append(sum, '\x00')
	}
	if query.Expired {
		sum = append(sum, '\xFF')
	} else {
		sum = append(sum, '\x00')
	}
	sum = append(sum, []byte(strconv.FormatInt(query.Fee, 10))...)
	sum = append(sum, []byte(strconv.FormatInt(query.ExpiresAt, 10))...)
	hash := sha256.Sum256(sum)
	return hash[:]
}
