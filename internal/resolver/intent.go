package resolver

import "github.com/fastprodman/moneyd/internal/money"

type Verb string

const (
	VerbView Verb = "view"
	VerbSend Verb = "send"
	VerbSet  Verb = "set"
	VerbGive Verb = "give"
	VerbTake Verb = "take"
	VerbHelp Verb = "help"
)

// SubCommands are the verbs that may be named as the first argument.
var SubCommands = []Verb{VerbSend, VerbSet, VerbGive, VerbTake, VerbHelp}

// Intent is the resolved meaning of a command.
type Intent interface {
	Verb() Verb
	intent()
}

type ViewBalance struct {
	Subject         Player
	Scope           string
	ViewerIsSubject bool
}

// Transfer moves Amount from From to To. A Minted transfer comes from a
// non-interactive caller: From is empty and To is credited without a debit.
type Transfer struct {
	From   Player
	To     Player
	Amount money.Money
	Scope  string
	Minted bool
}

type SetBalance struct {
	Subject           Player
	Amount            money.Money
	Scope             string
	CallerTargetsSelf bool
}

// Adjust changes a balance by Delta: positive for give, negative for take.
type Adjust struct {
	Subject           Player
	Delta             money.Money
	Scope             string
	CallerTargetsSelf bool
}

type Help struct{}

type Reject struct {
	For    Verb
	Reason *Rejection
}

func (ViewBalance) Verb() Verb { return VerbView }
func (Transfer) Verb() Verb { return VerbSend }
func (SetBalance) Verb() Verb { return VerbSet }
func (Help) Verb() Verb { return VerbHelp }
func (r Reject) Verb() Verb { return r.For }

func (a Adjust) Verb() Verb {
	if a.Delta.IsNegative() {
		return VerbTake
	}

	return VerbGive
}

func (ViewBalance) intent() {}
func (Transfer) intent() {}
func (SetBalance) intent() {}
func (Adjust) intent() {}
func (Help) intent() {}
func (Reject) intent() {}
