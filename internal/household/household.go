// Package household defines the financial snapshot a payoff projection is run
// against: debts, money lent out, income, expenses, yearly events and the
// household's budgeting preferences.
package household

import (
	"strings"
)

// DebtKind classifies a debt for grouping. It has no effect on the projection.
type DebtKind string

const (
	KindCreditCard DebtKind = "Credit Card"
	KindFinance    DebtKind = "Finance"
	KindBankLoan   DebtKind = "Bank Loan"
	KindMortgage   DebtKind = "Mortgage"
	KindOther      DebtKind = "Other"
)

// Strategy orders debts for discretionary overpayment.
type Strategy string

const (
	// Avalanche attacks the highest interest rate first.
	Avalanche Strategy = "avalanche"
	// Snowball attacks the smallest balance first.
	Snowball Strategy = "snowball"
)

// ParseStrategy accepts the canonical names as well as the display labels
// stored by earlier versions of the planner ("Avalanche (Save Interest)").
// An empty value is avalanche.
func ParseStrategy(value string) (Strategy, bool) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch {
	case normalized == "":
		return Avalanche, true
	case strings.HasPrefix(normalized, string(Avalanche)):
		return Avalanche, true
	case strings.HasPrefix(normalized, string(Snowball)):
		return Snowball, true
	default:
		return Strategy(value), false
	}
}

// Canonical returns the strategy the projection will actually use. Anything
// that does not parse falls back to avalanche.
func (s Strategy) Canonical() Strategy {
	parsed, _ := ParseStrategy(string(s))
	if parsed == Snowball {
		return Snowball
	}
	return Avalanche
}

// Debt is a liability being paid down.
type Debt struct {
	ID                 string   `json:"id" yaml:"id" toml:"id"`
	Name               string   `json:"name" yaml:"name" toml:"name"`
	Kind               DebtKind `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty" mapstructure:"type"`
	Balance            float64  `json:"balance" yaml:"balance" toml:"balance"`
	InterestRate       float64  `json:"interestRate" yaml:"interestRate" toml:"interestRate"` // annual percent
	MinimumPayment     float64  `json:"minimumPayment" yaml:"minimumPayment" toml:"minimumPayment"`
	CanOverpay         bool     `json:"canOverpay" yaml:"canOverpay" toml:"canOverpay"`
	OverpaymentPenalty float64  `json:"overpaymentPenalty,omitempty" yaml:"overpaymentPenalty,omitempty" toml:"overpaymentPenalty,omitempty"`
}

// LentMoney is money owed back to the household.
type LentMoney struct {
	ID               string  `json:"id" yaml:"id" toml:"id"`
	Recipient        string  `json:"recipient" yaml:"recipient" toml:"recipient"`
	Purpose          string  `json:"purpose,omitempty" yaml:"purpose,omitempty" toml:"purpose,omitempty"`
	TotalAmount      float64 `json:"totalAmount,omitempty" yaml:"totalAmount,omitempty" toml:"totalAmount,omitempty"`
	RemainingBalance float64 `json:"remainingBalance" yaml:"remainingBalance" toml:"remainingBalance"`
	DefaultRepayment float64 `json:"defaultRepayment" yaml:"defaultRepayment" toml:"defaultRepayment"`
}

// Income is a recurring monthly inflow.
type Income struct {
	ID     string  `json:"id" yaml:"id" toml:"id"`
	Source string  `json:"source" yaml:"source" toml:"source"`
	Amount float64 `json:"amount" yaml:"amount" toml:"amount"`
	UserID string  `json:"userId,omitempty" yaml:"userId,omitempty" toml:"userId,omitempty"`
}

// Expense is money going out. Only recurring expenses are projected forward;
// one-off spend is history.
type Expense struct {
	ID              string  `json:"id" yaml:"id" toml:"id"`
	Category        string  `json:"category,omitempty" yaml:"category,omitempty" toml:"category,omitempty"`
	Description     string  `json:"description,omitempty" yaml:"description,omitempty" toml:"description,omitempty"`
	Amount          float64 `json:"amount" yaml:"amount" toml:"amount"`
	IsRecurring     bool    `json:"isRecurring" yaml:"isRecurring" toml:"isRecurring"`
	IsSubscription  bool    `json:"isSubscription,omitempty" yaml:"isSubscription,omitempty" toml:"isSubscription,omitempty"`
	Date            string  `json:"date,omitempty" yaml:"date,omitempty" toml:"date,omitempty"`
	Merchant        string  `json:"merchant,omitempty" yaml:"merchant,omitempty" toml:"merchant,omitempty"`
	ContractEndDate string  `json:"contractEndDate,omitempty" yaml:"contractEndDate,omitempty" toml:"contractEndDate,omitempty"`
	UserID          string  `json:"userId,omitempty" yaml:"userId,omitempty" toml:"userId,omitempty"`
}

// SpecialEvent is a budgeted outflow that recurs every year in the same
// calendar month (0 = January).
type SpecialEvent struct {
	ID     string  `json:"id" yaml:"id" toml:"id"`
	Name   string  `json:"name" yaml:"name" toml:"name"`
	Month  int     `json:"month" yaml:"month" toml:"month"`
	Budget float64 `json:"budget" yaml:"budget" toml:"budget"`
}

// User is a member of the household. Carried through storage and sync only.
type User struct {
	ID   string `json:"id" yaml:"id" toml:"id"`
	Name string `json:"name" yaml:"name" toml:"name"`
	Role string `json:"role,omitempty" yaml:"role,omitempty" toml:"role,omitempty"`
}

// Goal is a savings target. Carried through storage and sync only.
type Goal struct {
	ID                  string  `json:"id" yaml:"id" toml:"id"`
	Name                string  `json:"name" yaml:"name" toml:"name"`
	Type                string  `json:"type,omitempty" yaml:"type,omitempty" toml:"type,omitempty"`
	TargetAmount        float64 `json:"targetAmount" yaml:"targetAmount" toml:"targetAmount"`
	CurrentAmount       float64 `json:"currentAmount" yaml:"currentAmount" toml:"currentAmount"`
	TargetDate          string  `json:"targetDate,omitempty" yaml:"targetDate,omitempty" toml:"targetDate,omitempty"`
	MonthlyContribution float64 `json:"monthlyContribution,omitempty" yaml:"monthlyContribution,omitempty" toml:"monthlyContribution,omitempty"`
}

// Snapshot is everything the payoff projection needs to know about a household.
type Snapshot struct {
	Users         []User         `json:"users,omitempty" yaml:"users,omitempty" toml:"users,omitempty"`
	Debts         []Debt         `json:"debts" yaml:"debts" toml:"debts"`
	LentMoney     []LentMoney    `json:"lentMoney" yaml:"lentMoney" toml:"lentMoney"`
	Income        []Income       `json:"income" yaml:"income" toml:"income"`
	Expenses      []Expense      `json:"expenses" yaml:"expenses" toml:"expenses"`
	SpecialEvents []SpecialEvent `json:"specialEvents" yaml:"specialEvents" toml:"specialEvents"`
	Goals         []Goal         `json:"goals,omitempty" yaml:"goals,omitempty" toml:"goals,omitempty"`
	LuxuryBudget  float64        `json:"luxuryBudget" yaml:"luxuryBudget" toml:"luxuryBudget"`
	SavingsBuffer float64        `json:"savingsBuffer" yaml:"savingsBuffer" toml:"savingsBuffer"` // percent of leftover
	Strategy      Strategy       `json:"strategy" yaml:"strategy" toml:"strategy"`
}

// Clone returns a deep copy; the copy shares no slices with s.
func (s Snapshot) Clone() Snapshot {
	c := s
	c.Users = cloneSlice(s.Users)
	c.Debts = cloneSlice(s.Debts)
	c.LentMoney = cloneSlice(s.LentMoney)
	c.Income = cloneSlice(s.Income)
	c.Expenses = cloneSlice(s.Expenses)
	c.SpecialEvents = cloneSlice(s.SpecialEvents)
	c.Goals = cloneSlice(s.Goals)
	return c
}

// Empty reports whether there is nothing to project.
func (s Snapshot) Empty() bool {
	return len(s.Debts) == 0 && len(s.LentMoney) == 0
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
