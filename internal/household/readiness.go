package household

// ReadinessItem is one line of the plan checklist.
type ReadinessItem struct {
	Label  string `json:"label"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// Readiness reports which inputs a projection still lacks. Items that are
// satisfied carry no detail.
func Readiness(s Snapshot) []ReadinessItem {
	hasRecurring := false
	for _, e := range s.Expenses {
		if e.IsRecurring {
			hasRecurring = true
			break
		}
	}
	_, strategyOK := ParseStrategy(string(s.Strategy))
	strategyOK = strategyOK && s.Strategy != ""

	items := []ReadinessItem{
		{Label: "Debts captured", OK: len(s.Debts) > 0, Detail: "Add at least one liability"},
		{Label: "Income streams", OK: len(s.Income) > 0, Detail: "Log salaries or benefits"},
		{Label: "Recurring bills", OK: hasRecurring, Detail: "Track rent, utilities, subs"},
		{Label: "Special events", OK: len(s.SpecialEvents) > 0, Detail: "Budget events by month"},
		{Label: "Luxury buffer set", OK: s.LuxuryBudget > 0, Detail: "Set monthly lifestyle spend"},
		{Label: "Savings buffer set", OK: s.SavingsBuffer > 0, Detail: "Reserve % of leftover"},
		{Label: "Strategy chosen", OK: strategyOK, Detail: "Avalanche vs Snowball"},
	}
	for i := range items {
		if items[i].OK {
			items[i].Detail = ""
		}
	}
	return items
}

// Gaps returns only the unsatisfied readiness items.
func Gaps(items []ReadinessItem) []ReadinessItem {
	var gaps []ReadinessItem
	for _, item := range items {
		if !item.OK {
			gaps = append(gaps, item)
		}
	}
	return gaps
}
