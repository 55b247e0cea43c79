package modules

/*
Greeter is the greeting contract: it registers its own oracle at init and logs
every paid greeting as (caller, query) at the head of the log. Responding
walks the whole log and answers questions that are exactly one of the known
greetings with "greeting, caller". The log is never pruned.
*/

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"greeter-node/crypto"
	"strconv"
)

const (
	GreeterAccount = "greeter"
	GreetFee       = 10000000
)

// Greetings a logged question must exactly match to get answered.
var Greetings = []string{"Hi", "Hello", "Hey"}

// ------------------------------------------------------------------------------------------------------------------- //
// GREETER

type Greeter struct {
	OracleAddress string
	Greets        []Greet
	Account       string
	Active        bool
	oracle        *Registry
	balance       *Balance
}

func NewGreeter(old *Greeter, oracle *Registry, balance *Balance) *Greeter { // called every new block
	greeter := &Greeter{
		OracleAddress: old.OracleAddress,
		Account:       old.Account,
		Active:        old.Active,
		oracle:        oracle,
		balance:       balance,
	}
	for _, oldGreet := range old.Greets {
		greeter.Greets = append(greeter.Greets, oldGreet)
	}
	return greeter
}

func (greeter *Greeter) Hash() []byte {
	var sum []byte
	if greeter == nil {
		return sum
	}
	if greeter.Active {
		sum = append(sum, '\xFF')
	} else {
		sum = append(sum, '\x00')
	}
	sum = append(sum, []byte(greeter.OracleAddress)...)
	for _, greet := range greeter.Greets {
		sum = append(sum, greet.Hash()...)
	}
	hash := sha256.Sum256(sum)
	return hash[:]
}

// Init registers the contract oracle and starts with an empty greet log.
func (greeter *Greeter) Init(height int64) error { // called at initTx
	if greeter.Active {
		return errors.New("greeter already initialized")
	}
	greeter.Account = GreeterAccount
	oracle := greeter.oracle.register(GreeterAccount, GreetFee, OracleTTL, height)
	greeter.OracleAddress = oracle.Address
	greeter.Active = true
	return nil
}

// Greet submits the message as an oracle query paid by the caller.
// The attached payment must equal GreetFee exactly; anything else is
// rejected without touching the state.
func (greeter *Greeter) Greet(greeting *Greeting, height int64) bool { // called at greetTx
	if !greeter.Active {
		return false
	}
	if err := crypto.CheckPubKey(greeting.Caller); err != nil {
		return false
	}
	id := append(greeting.Caller, []byte(greeting.Message)...)
	id = append(id, []byte(strconv.FormatInt(greeting.Payment, 10))...)
	id = append(id, []byte(strconv.FormatInt(greeting.Time, 10))...)
	if !crypto.Verify(greeting.Caller, id, greeting.Signature) {
		return false
	}
	if greeting.Payment != GreetFee {
		return false
	}
	caller := hex.EncodeToString(greeting.Caller)
	if !greeter.balance.Pay(caller, greeter.Account, greeting.Payment) {
		return false
	}
	queryID, err := greeter.oracle.Submit(greeter.OracleAddress, greeter.Account, greeting.Message, nil, greeting.Payment, QueryTTL, height)
	if err != nil {
		greeter.balance.Pay(greeter.Account, caller, greeting.Payment)
		return false
	}
	greeter.Greets = append([]Greet{{Caller: caller, QueryID: queryID}}, greeter.Greets...)
	return true
}

// RespondToGreets walks the entire greet log and answers what it can.
func (greeter *Greeter) RespondToGreets() { // called at respondTx
	for _, greet := range greeter.Greets {
		greeter.respondToGreet(greet)
	}
}

func (greeter *Greeter) respondToGreet(greet Greet) {
	query := greeter.oracle.GetQuery(greet.QueryID)
	if query == nil || query.Answered || query.Expired {
		return
	}
	if !isGreeting(query.Question) {
		return
	}
	_ = greeter.oracle.Respond(greeter.OracleAddress, greet.QueryID, query.Question+", "+greet.Caller)
}

func isGreeting(question string) bool {
	for _, greeting := range Greetings {
		if question == greeting {
			return true
		}
	}
	return false
}

func (greeter *Greeter) GetOracle() string {
	return greeter.OracleAddress
}

func (greeter *Greeter) GetBalance() int64 {
	return greeter.balance.Users[greeter.Account]
}

// ------------------------------------------------------------------------------------------------------------------- //
// GREET

// Greet is a log entry: who greeted and the query their message went into.
// Answered and outstanding entries look the same here; the query itself
// keeps the answer state.
type Greet struct {
	Caller  string
	QueryID string
}

func (greet Greet) Hash() []byte {
	sum := append([]byte(greet.Caller), []byte(greet.QueryID)...)
	hash := sha256.Sum256(sum)
	return hash[:]
}

// ------------------------------------------------------------------------------------------------------------------- //
// GREETING

/*	The greet call payload: Message is the question put to the oracle,
	Payment is the attached amount and must equal GreetFee.
	The Signature must be a valid Signature of
	(Caller + Message + Payment + Time) for the Caller key. */
type Greeting struct {
	Caller    []byte
	Message   string
	Payment   int64
	Time      int64
	Signature []byte
}

func (greeting *Greeting) Hash() []byte {
	sum := append(greeting.Caller, []byte(greeting.Message)...)
	sum = append(sum, []byte(strconv.FormatInt(greeting.Payment, 10))...)
	sum = append(sum, []byte(strconv.FormatInt(greeting.Time, 10))...)
	sum = append(sum, greeting.Signature...)
	hash := sha256.Sum256(sum)
	return hash[:]
}
