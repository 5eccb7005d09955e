package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iwvelando/debt-roadmap/internal/household"

	_ "modernc.org/sqlite" // register sqlite driver
)

// SQLite stores the household in a local SQLite database, one table per
// collection, mirroring the hosted sync server's schema.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens or creates the database at the given path.
func OpenSQLite(dbPath string) (*SQLite, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating store dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening store db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Ping checks the database is reachable.
func (s *SQLite) Ping(ctx context.Context) error {
	var one int
	if err := s.db.QueryRowContext(ctx, "SELECT 1").Scan(&one); err != nil {
		return fmt.Errorf("pinging store db: %w", err)
	}
	return nil
}

// Save replaces the stored household in a single transaction.
func (s *SQLite) Save(ctx context.Context, snapshot household.Snapshot) error {
	p := prepare(snapshot)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"users", "debts", "expenses", "income", "goals", "lent_money", "special_events", "profile_config"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	for i, u := range p.Users {
		if _, err := tx.ExecContext(ctx, `INSERT INTO users (id, position, name, role) VALUES (?, ?, ?, ?)`,
			u.ID, i, u.Name, u.Role); err != nil {
			return fmt.Errorf("saving user %s: %w", u.Name, err)
		}
	}
	for i, d := range p.Debts {
		if _, err := tx.ExecContext(ctx, `INSERT INTO debts
			(id, position, name, type, balance, interest_rate, minimum_payment, can_overpay, overpayment_penalty)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			d.ID, i, d.Name, string(d.Kind), d.Balance, d.InterestRate, d.MinimumPayment, boolToInt(d.CanOverpay), d.OverpaymentPenalty,
		); err != nil {
			return fmt.Errorf("saving debt %s: %w", d.Name, err)
		}
	}
	for i, e := range p.Expenses {
		if _, err := tx.ExecContext(ctx, `INSERT INTO expenses
			(id, position, category, description, amount, is_recurring, is_subscription, date, merchant, contract_end_date, user_id)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, i, e.Category, e.Description, e.Amount, boolToInt(e.IsRecurring), boolToInt(e.IsSubscription),
			e.Date, e.Merchant, e.ContractEndDate, e.UserID,
		); err != nil {
			return fmt.Errorf("saving expense %s: %w", e.Description, err)
		}
	}
	for i, in := range p.Income {
		if _, err := tx.ExecContext(ctx, `INSERT INTO income (id, position, source, amount, user_id) VALUES (?, ?, ?, ?, ?)`,
			in.ID, i, in.Source, in.Amount, in.UserID); err != nil {
			return fmt.Errorf("saving income %s: %w", in.Source, err)
		}
	}
	for i, g := range p.Goals {
		if _, err := tx.ExecContext(ctx, `INSERT INTO goals
			(id, position, name, type, target_amount, current_amount, target_date, monthly_contribution)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			g.ID, i, g.Name, g.Type, g.TargetAmount, g.CurrentAmount, g.TargetDate, g.MonthlyContribution,
		); err != nil {
			return fmt.Errorf("saving goal %s: %w", g.Name, err)
		}
	}
	for i, l := range p.LentMoney {
		if _, err := tx.ExecContext(ctx, `INSERT INTO lent_money
			(id, position, recipient, purpose, total_amount, remaining_balance, default_repayment)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			l.ID, i, l.Recipient, l.Purpose, l.TotalAmount, l.RemainingBalance, l.DefaultRepayment,
		); err != nil {
			return fmt.Errorf("saving lent money %s: %w", l.Recipient, err)
		}
	}
	for i, e := range p.SpecialEvents {
		if _, err := tx.ExecContext(ctx, `INSERT INTO special_events (id, position, name, month, budget) VALUES (?, ?, ?, ?, ?)`,
			e.ID, i, e.Name, e.Month, e.Budget); err != nil {
			return fmt.Errorf("saving special event %s: %w", e.Name, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO profile_config (id, luxury_budget, savings_buffer, strategy) VALUES (1, ?, ?, ?)`,
		p.LuxuryBudget, p.SavingsBuffer, string(p.Strategy)); err != nil {
		return fmt.Errorf("saving profile config: %w", err)
	}

	return tx.Commit()
}

// Load reads the stored household. An empty database yields an empty
// snapshot with the default strategy.
func (s *SQLite) Load(ctx context.Context) (household.Snapshot, error) {
	var snapshot household.Snapshot

	err := s.query(ctx, "SELECT id, name, COALESCE(role, '') FROM users ORDER BY position", func(rows *sql.Rows) error {
		var u household.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Role); err != nil {
			return err
		}
		snapshot.Users = append(snapshot.Users, u)
		return nil
	})
	if err != nil {
		return snapshot, fmt.Errorf("loading users: %w", err)
	}

	err = s.query(ctx, `SELECT id, name, COALESCE(type, ''), balance, interest_rate, minimum_payment, can_overpay, overpayment_penalty
		FROM debts ORDER BY position`, func(rows *sql.Rows) error {
		var d household.Debt
		var kind string
		var canOverpay int
		if err := rows.Scan(&d.ID, &d.Name, &kind, &d.Balance, &d.InterestRate, &d.MinimumPayment, &canOverpay, &d.OverpaymentPenalty); err != nil {
			return err
		}
		d.Kind = household.DebtKind(kind)
		d.CanOverpay = canOverpay != 0
		snapshot.Debts = append(snapshot.Debts, d)
		return nil
	})
	if err != nil {
		return snapshot, fmt.Errorf("loading debts: %w", err)
	}

	err = s.query(ctx, `SELECT id, COALESCE(category, ''), COALESCE(description, ''), amount, is_recurring, is_subscription,
		COALESCE(date, ''), COALESCE(merchant, ''), COALESCE(contract_end_date, ''), COALESCE(user_id, '')
		FROM expenses ORDER BY position`, func(rows *sql.Rows) error {
		var e household.Expense
		var recurring, subscription int
		if err := rows.Scan(&e.ID, &e.Category, &e.Description, &e.Amount, &recurring, &subscription,
			&e.Date, &e.Merchant, &e.ContractEndDate, &e.UserID); err != nil {
			return err
		}
		e.IsRecurring = recurring != 0
		e.IsSubscription = subscription != 0
		snapshot.Expenses = append(snapshot.Expenses, e)
		return nil
	})
	if err != nil {
		return snapshot, fmt.Errorf("loading expenses: %w", err)
	}

	err = s.query(ctx, "SELECT id, source, amount, COALESCE(user_id, '') FROM income ORDER BY position", func(rows *sql.Rows) error {
		var in household.Income
		if err := rows.Scan(&in.ID, &in.Source, &in.Amount, &in.UserID); err != nil {
			return err
		}
		snapshot.Income = append(snapshot.Income, in)
		return nil
	})
	if err != nil {
		return snapshot, fmt.Errorf("loading income: %w", err)
	}

	err = s.query(ctx, `SELECT id, name, COALESCE(type, ''), target_amount, current_amount, COALESCE(target_date, ''), monthly_contribution
		FROM goals ORDER BY position`, func(rows *sql.Rows) error {
		var g household.Goal
		if err := rows.Scan(&g.ID, &g.Name, &g.Type, &g.TargetAmount, &g.CurrentAmount, &g.TargetDate, &g.MonthlyContribution); err != nil {
			return err
		}
		snapshot.Goals = append(snapshot.Goals, g)
		return nil
	})
	if err != nil {
		return snapshot, fmt.Errorf("loading goals: %w", err)
	}

	err = s.query(ctx, `SELECT id, recipient, COALESCE(purpose, ''), total_amount, remaining_balance, default_repayment
		FROM lent_money ORDER BY position`, func(rows *sql.Rows) error {
		var l household.LentMoney
		if err := rows.Scan(&l.ID, &l.Recipient, &l.Purpose, &l.TotalAmount, &l.RemainingBalance, &l.DefaultRepayment); err != nil {
			return err
		}
		snapshot.LentMoney = append(snapshot.LentMoney, l)
		return nil
	})
	if err != nil {
		return snapshot, fmt.Errorf("loading lent money: %w", err)
	}

	err = s.query(ctx, "SELECT id, name, month, budget FROM special_events ORDER BY position", func(rows *sql.Rows) error {
		var e household.SpecialEvent
		if err := rows.Scan(&e.ID, &e.Name, &e.Month, &e.Budget); err != nil {
			return err
		}
		snapshot.SpecialEvents = append(snapshot.SpecialEvents, e)
		return nil
	})
	if err != nil {
		return snapshot, fmt.Errorf("loading special events: %w", err)
	}

	var strategy string
	err = s.db.QueryRowContext(ctx, "SELECT luxury_budget, savings_buffer, strategy FROM profile_config WHERE id = 1").
		Scan(&snapshot.LuxuryBudget, &snapshot.SavingsBuffer, &strategy)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		snapshot.Strategy = household.Avalanche
	case err != nil:
		return snapshot, fmt.Errorf("loading profile config: %w", err)
	default:
		snapshot.Strategy = household.Strategy(strategy)
	}

	return snapshot, nil
}

func (s *SQLite) query(ctx context.Context, query string, scan func(*sql.Rows) error) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		if err := scan(rows); err != nil {
			return err
		}
	}
	return rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
