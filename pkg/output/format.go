// Package output provides utilities for formatting and displaying payoff schedules.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/debt-roadmap/internal/household"
	"github.com/iwvelando/debt-roadmap/internal/payoff"
	"github.com/iwvelando/debt-roadmap/pkg/constants"
	"github.com/iwvelando/debt-roadmap/pkg/optimization"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const symbol = constants.DefaultCurrencySymbol

// PrettyFormat writes a human-readable rather than machine-readable schedule.
func PrettyFormat(w io.Writer, schedule payoff.Schedule) {
	p := message.NewPrinter(language.English)
	if len(schedule) == 0 {
		fmt.Fprintf(w, "No debts or lent money to project.\n")
		return
	}

	fmt.Fprintf(w, "--- Payoff roadmap ---\n")
	fmt.Fprintf(w, "Month          | Payment       | Interest   | Remaining     | Notes\n")
	fmt.Fprintf(w, "_____          | _______       | ________   | _________     | _____\n")
	for _, month := range schedule {
		_, _ = p.Fprintf(w, "%-14s | %s%.2f | %s%.2f | %s%.2f | %s\n",
			month.Label,
			symbol, month.TotalPayment,
			symbol, month.InterestPaid,
			symbol, month.RemainingBalance,
			strings.Join(monthNotes(month), ","),
		)
	}

	summary := payoff.Summarize(schedule)
	fmt.Fprintf(w, "\n")
	_, _ = p.Fprintf(w, "Debt free: %s (%d months)\n", summary.FreedomDate, summary.Months)
	_, _ = p.Fprintf(w, "Total interest: %s%.2f\n", symbol, summary.TotalInterest)
	if summary.TotalPenalties > 0 {
		_, _ = p.Fprintf(w, "Total penalties: %s%.2f\n", symbol, summary.TotalPenalties)
	}
	if summary.Truncated {
		fmt.Fprintf(w, "Warning: projection stopped at its month cap with balances outstanding\n")
	}
}

// CsvFormat writes the schedule in comma-separated value format, one row per month.
func CsvFormat(w io.Writer, schedule payoff.Schedule) {
	fmt.Fprintf(w, `"month","starting balance","payment","interest","principal","penalties","remaining","repayments","events","savings goal","notes"`)
	fmt.Fprintf(w, "\n")
	for _, month := range schedule {
		fmt.Fprintf(w, `"%s","%.2f","%.2f","%.2f","%.2f","%.2f","%.2f","%.2f","%.2f","%.2f","%s"`,
			month.Label,
			month.StartingBalance,
			month.TotalPayment,
			month.InterestPaid,
			month.PrincipalPaid,
			month.PenaltiesPaid,
			month.RemainingBalance,
			month.RepaymentIncome,
			month.EventsBudgetUsed,
			month.SavingsGoal,
			strings.ReplaceAll(strings.Join(monthNotes(month), ","), `"`, `""`),
		)
		fmt.Fprintf(w, "\n")
	}
}

// SolverFormat writes a target-date solver result.
func SolverFormat(w io.Writer, summary optimization.Summary) {
	p := message.NewPrinter(language.English)
	fmt.Fprintf(w, "--- Target-date solver ---\n")
	fmt.Fprintf(w, "Target:    %d months\n", summary.TargetMonths)
	if summary.BaselineMonths >= 0 {
		fmt.Fprintf(w, "Baseline:  %d months\n", summary.BaselineMonths)
	} else {
		fmt.Fprintf(w, "Baseline:  never clears\n")
	}
	if summary.Feasible {
		_, _ = p.Fprintf(w, "Required:  %s%.2f extra per month\n", symbol, summary.RequiredMonthly)
		fmt.Fprintf(w, "Achieved:  %d months (%s)\n", summary.AchievedMonths, summary.FreedomDate)
	} else {
		fmt.Fprintf(w, "Required:  not achievable\n")
	}
	for _, note := range summary.Notes {
		fmt.Fprintf(w, "Note: %s\n", note)
	}
}

// ComparisonFormat writes how a plan compares with paying only the minimums.
func ComparisonFormat(w io.Writer, comparison payoff.Comparison) {
	p := message.NewPrinter(language.English)
	fmt.Fprintf(w, "\n--- Against minimum payments ---\n")
	fmt.Fprintf(w, "Plan:      %d months\n", comparison.PlanMonths)
	fmt.Fprintf(w, "Minimums:  %d months\n", comparison.BaselineMonths)
	_, _ = p.Fprintf(w, "Saves:     %d months and %s%.2f interest\n", comparison.MonthsSaved, symbol, comparison.InterestSaved)
}

// ReadinessFormat writes the household totals and plan checklist.
func ReadinessFormat(w io.Writer, totals household.Totals, items []household.ReadinessItem) {
	p := message.NewPrinter(language.English)
	fmt.Fprintf(w, "--- Household ---\n")
	_, _ = p.Fprintf(w, "Total debt:         %s%.2f\n", symbol, totals.Debt)
	_, _ = p.Fprintf(w, "Monthly income:     %s%.2f\n", symbol, totals.MonthlyIncome)
	_, _ = p.Fprintf(w, "Recurring spend:    %s%.2f\n", symbol, totals.MonthlyRecurring)
	_, _ = p.Fprintf(w, "Minimum payments:   %s%.2f\n", symbol, totals.MinimumPayments)
	_, _ = p.Fprintf(w, "Lent outstanding:   %s%.2f\n", symbol, totals.LentOutstanding)
	fmt.Fprintf(w, "\n--- Plan readiness ---\n")
	for _, item := range items {
		mark := "[x]"
		if !item.OK {
			mark = "[ ]"
		}
		if item.Detail != "" {
			fmt.Fprintf(w, "%s %s - %s\n", mark, item.Label, item.Detail)
		} else {
			fmt.Fprintf(w, "%s %s\n", mark, item.Label)
		}
	}
}

func monthNotes(month payoff.PayoffMonth) []string {
	var notes []string
	for _, d := range month.Debts {
		if d.NewlyCleared {
			notes = append(notes, fmt.Sprintf("%s cleared", d.DebtName))
		}
	}
	for _, l := range month.Lent {
		if l.NewlyCleared {
			notes = append(notes, fmt.Sprintf("%s repaid", l.Recipient))
		}
	}
	return notes
}
