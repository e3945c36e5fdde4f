package core

// Effect is the part of a transaction that moves money between accounts.
type Effect struct {
	Type   TransactionType
	Amount Money
	From   string
	To     string
}

// Delta is a signed amount to add to the named account's balance.
type Delta struct {
	Account string `json:"account"`
	Amount  Money  `json:"amount"`
}

type deltaSigns struct {
	from int64
	to   int64
}

var ledgerSigns = map[TransactionType]deltaSigns{
	Expense:  {from: -1, to: 0},
	Income:   {from: 0, to: +1},
	Transfer: {from: -1, to: +1},
}

// EffectOf extracts the ledger effect of t.
func EffectOf(t Transaction) Effect {
	return Effect{Type: t.Type, Amount: t.Amount, From: t.FromAccount, To: t.ToAccount}
}

// Deltas returns the balance changes e causes. A side contributes only when
// its sign is nonzero and an account is named. Unknown types yield nothing.
func Deltas(e Effect) []Delta {
	signs, ok := ledgerSigns[e.Type]
	if !ok {
		return nil
	}

	var out []Delta
	if signs.from != 0 && e.From != "" {
		out = append(out, Delta{Account: e.From, Amount: Money{Cents: signs.from * e.Amount.Cents}})
	}
	if signs.to != 0 && e.To != "" {
		out = append(out, Delta{Account: e.To, Amount: Money{Cents: signs.to * e.Amount.Cents}})
	}
	return out
}

// Reverse returns deltas with every sign flipped.
func Reverse(deltas []Delta) []Delta {
	out := make([]Delta, len(deltas))
	for i, d := range deltas {
		out[i] = Delta{Account: d.Account, Amount: d.Amount.Neg()}
	}
	return out
}

// NetByAccount sums deltas per account.
func NetByAccount(deltas []Delta) map[string]Money {
	net := make(map[string]Money, len(deltas))
	for _, d := range deltas {
		net[d.Account] = net[d.Account].Add(d.Amount)
	}
	return net
}
