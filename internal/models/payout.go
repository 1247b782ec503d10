package models

// PayoutTable maps the number of ticket slots matching the winning number to
// a fixed prize amount. Duplicates on a ticket each count as a match, so the
// table is defined over slot counts 0..5.
type PayoutTable map[int]float64

// DefaultPayoutTable is the pinned payout rule: zero matches pays nothing,
// and each additional matching slot pays a larger fixed prize.
var DefaultPayoutTable = PayoutTable{
	1: 50,
	2: 100,
	3: 250,
	4: 1000,
	5: 5000,
}

// PrizeFor returns the prize for the given match count. Counts outside the
// table pay nothing.
func (p PayoutTable) PrizeFor(matches int) float64 {
	return p[matches]
}
