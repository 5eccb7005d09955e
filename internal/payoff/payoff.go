// Package payoff projects a household's debts forward month by month until
// every balance is cleared, producing the schedule the roadmap is drawn from.
package payoff

import (
	"github.com/iwvelando/debt-roadmap/pkg/constants"
)

// Options tune a single projection.
type Options struct {
	// MonthlyOverpayment is added to the pool every month before allocation.
	MonthlyOverpayment   float64 `json:"monthlyOverpayment" yaml:"monthlyOverpayment" mapstructure:"monthlyOverpayment"`
	MaxMonths            int     `json:"maxMonths" yaml:"maxMonths" mapstructure:"maxMonths"`
	RespectLuxuryBudget  bool    `json:"respectLuxuryBudget" yaml:"respectLuxuryBudget" mapstructure:"respectLuxuryBudget"`
	RespectSubscriptions bool    `json:"respectSubscriptions" yaml:"respectSubscriptions" mapstructure:"respectSubscriptions"`
	AvoidPenaltyOverpay  bool    `json:"avoidPenaltyOverpay" yaml:"avoidPenaltyOverpay" mapstructure:"avoidPenaltyOverpay"`
	RespectSavingsBuffer bool    `json:"respectSavingsBuffer" yaml:"respectSavingsBuffer" mapstructure:"respectSavingsBuffer"`
}

// DefaultOptions returns the options a household starts with.
func DefaultOptions() Options {
	return Options{
		MaxMonths:            constants.DefaultMaxMonths,
		RespectLuxuryBudget:  true,
		RespectSubscriptions: true,
		AvoidPenaltyOverpay:  false,
		RespectSavingsBuffer: true,
	}
}

func (o Options) maxMonths() int {
	if o.MaxMonths <= 0 {
		return constants.DefaultMaxMonths
	}
	return o.MaxMonths
}

// DebtMonth is one debt's activity within a month.
type DebtMonth struct {
	DebtID       string  `json:"debtId"`
	DebtName     string  `json:"debtName"`
	Payment      float64 `json:"payment"`
	Interest     float64 `json:"interest"`
	Principal    float64 `json:"principal"` // negative when the payment did not cover interest
	Penalty      float64 `json:"penalty"`
	Remaining    float64 `json:"remaining"`
	NewlyCleared bool    `json:"isNewlyCleared"`
}

// LentMonth is one repayment received within a month.
type LentMonth struct {
	LentID       string  `json:"lentId"`
	Recipient    string  `json:"recipient"`
	Received     float64 `json:"received"`
	Remaining    float64 `json:"remaining"`
	NewlyCleared bool    `json:"isNewlyCleared"`
}

// PayoffMonth summarizes a single simulated month.
type PayoffMonth struct {
	MonthIndex            int         `json:"monthIndex"`
	Label                 string      `json:"monthName"`
	Year                  int         `json:"year"`
	CalendarMonth         int         `json:"calendarMonth"`
	StartingBalance       float64     `json:"startingBalance"`
	TotalPayment          float64     `json:"totalPayment"`
	InterestPaid          float64     `json:"interestPaid"`
	PrincipalPaid         float64     `json:"principalPaid"`
	PenaltiesPaid         float64     `json:"penaltiesPaid"`
	RemainingBalance      float64     `json:"remainingBalance"`
	RepaymentIncome       float64     `json:"repaymentIncome"`
	EventsBudgetUsed      float64     `json:"eventsBudgetUsed"`
	LuxuryBudgetUsed      float64     `json:"luxuryBudgetUsed"`
	SubscriptionsReserved float64     `json:"subscriptionsReserved"`
	Unallocated           float64     `json:"unallocated"`
	SavingsGoal           float64     `json:"savingsGoal"`
	Debts                 []DebtMonth `json:"debtBreakdown"`
	Lent                  []LentMonth `json:"lentBreakdown"`
}

// Schedule is the chronological list of simulated months.
type Schedule []PayoffMonth

// Last returns the final month and whether the schedule has one.
func (s Schedule) Last() (PayoffMonth, bool) {
	if len(s) == 0 {
		return PayoffMonth{}, false
	}
	return s[len(s)-1], true
}

// DebtFreeMonths returns the number of months until total debt first reaches
// zero, or -1 if it never does within the schedule. Lent money still being
// repaid after that point does not count.
func (s Schedule) DebtFreeMonths() int {
	for i, month := range s {
		if month.RemainingBalance <= 0 {
			return i + 1
		}
	}
	return -1
}
