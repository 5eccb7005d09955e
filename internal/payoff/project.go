package payoff

import (
	"sort"
	"time"

	"github.com/iwvelando/debt-roadmap/internal/household"
	"github.com/iwvelando/debt-roadmap/pkg/datetime"
	"github.com/iwvelando/debt-roadmap/pkg/mathutil"
)

// Project simulates the snapshot starting from the current calendar month.
func Project(snapshot household.Snapshot, opts Options) Schedule {
	return ProjectWithFixedTime(snapshot, opts, time.Now())
}

// ProjectWithFixedTime simulates the snapshot with month 0 anchored at the
// month containing anchor. The snapshot is never modified.
func ProjectWithFixedTime(snapshot household.Snapshot, opts Options, anchor time.Time) Schedule {
	if snapshot.Empty() {
		return Schedule{}
	}

	debts := make([]household.Debt, len(snapshot.Debts))
	copy(debts, snapshot.Debts)
	lent := make([]household.LentMoney, len(snapshot.LentMoney))
	copy(lent, snapshot.LentMoney)

	income := snapshot.MonthlyIncome()
	subscriptions := snapshot.Subscriptions()
	recurring := snapshot.RecurringExpenses() - subscriptions
	strategy := snapshot.Strategy.Canonical()
	injection := mathutil.NonNegative(opts.MonthlyOverpayment)
	limit := opts.maxMonths()

	clearedDebts := make(map[int]bool, len(debts))
	clearedLent := make(map[int]bool, len(lent))
	schedule := Schedule{}

	for monthIndex := 0; monthIndex < limit && outstanding(debts, lent); monthIndex++ {
		cal := datetime.MonthAt(anchor, monthIndex)
		month := PayoffMonth{
			MonthIndex:       monthIndex,
			Label:            cal.Label,
			Year:             cal.Year,
			CalendarMonth:    cal.Index,
			StartingBalance:  totalBalance(debts),
			EventsBudgetUsed: snapshot.EventBudget(cal.Index),
			Debts:            []DebtMonth{},
			Lent:             []LentMonth{},
		}
		if opts.RespectLuxuryBudget {
			month.LuxuryBudgetUsed = snapshot.LuxuryBudget
		}
		if opts.RespectSubscriptions {
			month.SubscriptionsReserved = subscriptions
		}

		for i := range lent {
			l := &lent[i]
			if l.RemainingBalance <= 0 {
				continue
			}
			received := min(l.RemainingBalance, l.DefaultRepayment)
			l.RemainingBalance -= received
			month.RepaymentIncome += received

			cleared := l.RemainingBalance == 0 && !clearedLent[i]
			if cleared {
				clearedLent[i] = true
			}
			month.Lent = append(month.Lent, LentMonth{
				LentID:       l.ID,
				Recipient:    l.Recipient,
				Received:     received,
				Remaining:    l.RemainingBalance,
				NewlyCleared: cleared,
			})
		}

		pool := income + month.RepaymentIncome - recurring - month.SubscriptionsReserved -
			month.LuxuryBudgetUsed - month.EventsBudgetUsed + injection
		pool = mathutil.NonNegative(pool)

		// Minimums in input order.
		entries := make(map[int]int, len(debts))
		for i := range debts {
			d := &debts[i]
			if d.Balance <= 0 {
				continue
			}
			interest := d.Balance * mathutil.MonthlyRate(d.InterestRate)
			owed := min(d.Balance+interest, d.MinimumPayment)
			payment := min(owed, pool)
			principal := payment - interest
			d.Balance = max(0, d.Balance+interest-payment)
			pool -= payment

			month.InterestPaid += interest
			month.PrincipalPaid += max(0, principal)
			month.TotalPayment += payment

			cleared := d.Balance == 0 && !clearedDebts[i]
			if cleared {
				clearedDebts[i] = true
			}
			entries[i] = len(month.Debts)
			month.Debts = append(month.Debts, DebtMonth{
				DebtID:       d.ID,
				DebtName:     d.Name,
				Payment:      payment,
				Interest:     interest,
				Principal:    principal,
				Remaining:    d.Balance,
				NewlyCleared: cleared,
			})
		}

		if pool > 0 {
			for _, i := range overpayOrder(debts, strategy) {
				if pool <= 0 {
					break
				}
				d := &debts[i]
				penalty := d.OverpaymentPenalty
				if opts.AvoidPenaltyOverpay && penalty > 0 {
					continue
				}
				if pool <= penalty {
					continue
				}
				extra := min(d.Balance, pool-penalty)
				d.Balance -= extra
				pool -= extra + penalty

				month.PrincipalPaid += extra
				month.PenaltiesPaid += penalty
				month.TotalPayment += extra + penalty

				entry := &month.Debts[entries[i]]
				entry.Payment += extra + penalty
				entry.Principal += extra
				entry.Penalty += penalty
				entry.Remaining = d.Balance
				if d.Balance == 0 && !clearedDebts[i] {
					clearedDebts[i] = true
					entry.NewlyCleared = true
				}
			}
		}

		month.Unallocated = pool
		if opts.RespectSavingsBuffer {
			month.SavingsGoal = mathutil.NonNegative(pool * snapshot.SavingsBuffer / 100)
		}
		month.RemainingBalance = totalBalance(debts)
		schedule = append(schedule, month)
	}

	return schedule
}

// overpayOrder returns the indices of debts eligible for extra payments in the
// order the strategy attacks them. Ties keep input order.
func overpayOrder(debts []household.Debt, strategy household.Strategy) []int {
	var order []int
	for i, d := range debts {
		if d.Balance > 0 && d.CanOverpay {
			order = append(order, i)
		}
	}
	sort.SliceStable(order, func(a, b int) bool {
		da, db := debts[order[a]], debts[order[b]]
		if strategy == household.Snowball {
			return da.Balance < db.Balance
		}
		return da.InterestRate > db.InterestRate
	})
	return order
}

func outstanding(debts []household.Debt, lent []household.LentMoney) bool {
	for _, d := range debts {
		if d.Balance > 0 {
			return true
		}
	}
	for _, l := range lent {
		if l.RemainingBalance > 0 {
			return true
		}
	}
	return false
}

func totalBalance(debts []household.Debt) float64 {
	total := 0.0
	for _, d := range debts {
		total += d.Balance
	}
	return total
}
