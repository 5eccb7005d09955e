package payoff

import (
	"github.com/iwvelando/debt-roadmap/internal/household"
)

// Summary condenses a schedule into the headline figures of the plan.
type Summary struct {
	Months         int     `json:"months"`
	FreedomDate    string  `json:"freedomDate"`
	DebtFreeMonths int     `json:"debtFreeMonths"`
	TotalPayment   float64 `json:"totalPayment"`
	TotalInterest  float64 `json:"totalInterest"`
	TotalPrincipal float64 `json:"totalPrincipal"`
	TotalPenalties float64 `json:"totalPenalties"`
	LentReceived   float64 `json:"lentReceived"`
	SavingsGoal    float64 `json:"savingsGoal"`
	Truncated      bool    `json:"truncated"`
}

// Summarize totals a schedule. Truncated is set when the final month still
// carries a debt or lent balance, meaning the projection hit its month cap.
func Summarize(schedule Schedule) Summary {
	summary := Summary{
		Months:         len(schedule),
		FreedomDate:    FreedomDate(schedule),
		DebtFreeMonths: schedule.DebtFreeMonths(),
	}
	for _, month := range schedule {
		summary.TotalPayment += month.TotalPayment
		summary.TotalInterest += month.InterestPaid
		summary.TotalPrincipal += month.PrincipalPaid
		summary.TotalPenalties += month.PenaltiesPaid
		summary.LentReceived += month.RepaymentIncome
		summary.SavingsGoal += month.SavingsGoal
	}
	if last, ok := schedule.Last(); ok {
		if last.RemainingBalance > 0 {
			summary.Truncated = true
		}
		for _, l := range last.Lent {
			if l.Remaining > 0 {
				summary.Truncated = true
			}
		}
	}
	return summary
}

// FreedomDate is the label of the final month, or "" for an empty schedule.
func FreedomDate(schedule Schedule) string {
	last, ok := schedule.Last()
	if !ok {
		return ""
	}
	return last.Label
}

// MinimumOnly returns a copy of the snapshot in which no debt accepts extra
// payments, the baseline a plan is compared against.
func MinimumOnly(snapshot household.Snapshot) household.Snapshot {
	baseline := snapshot.Clone()
	for i := range baseline.Debts {
		baseline.Debts[i].CanOverpay = false
	}
	return baseline
}

// Comparison measures a plan against a baseline schedule.
type Comparison struct {
	InterestSaved  float64 `json:"interestSaved"`
	MonthsSaved    int     `json:"monthsSaved"`
	PlanMonths     int     `json:"planMonths"`
	BaselineMonths int     `json:"baselineMonths"`
}

// Compare reports how much interest and time the plan saves over the baseline.
// Both figures may be negative when the plan is worse.
func Compare(plan, baseline Schedule) Comparison {
	p, b := Summarize(plan), Summarize(baseline)
	return Comparison{
		InterestSaved:  b.TotalInterest - p.TotalInterest,
		MonthsSaved:    b.Months - p.Months,
		PlanMonths:     p.Months,
		BaselineMonths: b.Months,
	}
}
