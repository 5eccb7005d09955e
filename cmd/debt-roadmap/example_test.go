package main

import (
	"math"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/debt-roadmap/internal/config"
	"github.com/iwvelando/debt-roadmap/internal/optimizer"
	"github.com/iwvelando/debt-roadmap/internal/payoff"
	"github.com/iwvelando/debt-roadmap/pkg/constants"
	"go.uber.org/zap"
)

var exampleConfig = filepath.Join("..", "..", constants.ExampleConfigFile)

func loadExample(t *testing.T) *config.Configuration {
	t.Helper()
	conf, err := config.LoadConfiguration(exampleConfig)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if err := conf.Validate(); err != nil {
		t.Fatalf("example configuration is invalid: %v", err)
	}
	return conf
}

// TestExampleConfigurationProjects checks the shipped example end to end the
// way the project command runs it.
func TestExampleConfigurationProjects(t *testing.T) {
	conf := loadExample(t)

	if len(conf.Household.Debts) != 4 {
		t.Fatalf("expected 4 debts in the example, got %d", len(conf.Household.Debts))
	}
	for _, warning := range conf.ValidateConfiguration() {
		t.Logf("example warning: %s", warning)
	}

	anchor, err := conf.AnchorTime()
	if err != nil {
		t.Fatalf("AnchorTime() error = %v", err)
	}
	schedule := payoff.ProjectWithFixedTime(conf.Household, conf.Simulation, anchor)

	summary := payoff.Summarize(schedule)
	if summary.Truncated {
		t.Fatalf("example household should clear within %d months", conf.Simulation.MaxMonths)
	}
	if schedule[0].Label != "January 2026" {
		t.Errorf("expected projection to start January 2026, got %s", schedule[0].Label)
	}

	previous := math.Inf(1)
	for _, month := range schedule {
		if month.RemainingBalance < -0.005 {
			t.Fatalf("%s: negative remaining balance %.2f", month.Label, month.RemainingBalance)
		}
		if month.StartingBalance > previous+0.005 {
			t.Errorf("%s: starting balance rose from %.2f to %.2f", month.Label, previous, month.StartingBalance)
		}
		previous = month.StartingBalance
	}

	baseline := payoff.ProjectWithFixedTime(payoff.MinimumOnly(conf.Household), conf.Simulation, anchor)
	comparison := payoff.Compare(schedule, baseline)
	if comparison.MonthsSaved < 0 || comparison.InterestSaved < 0 {
		t.Errorf("overpaying should not be worse than minimums: %+v", comparison)
	}
}

func TestExampleConfigurationSolves(t *testing.T) {
	conf := loadExample(t)

	anchor, err := conf.AnchorTime()
	if err != nil {
		t.Fatalf("AnchorTime() error = %v", err)
	}
	result, err := optimizer.NewRunner(zap.NewNop(), conf.Household, conf.Simulation, conf.Target).
		WithFixedTime(anchor).
		Run()
	if err != nil {
		t.Fatalf("solver returned error: %v", err)
	}
	if result.Summary.TargetMonths != conf.Target.Months {
		t.Errorf("expected target of %d months, got %d", conf.Target.Months, result.Summary.TargetMonths)
	}
	if result.Summary.Feasible && result.Summary.AchievedMonths > conf.Target.Months {
		t.Errorf("feasible result overshoots target: %+v", result.Summary)
	}
}

func TestExampleCommands(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "roadmap.db")
	t.Setenv("DEBT_ROADMAP_STORE_PATH", db)
	t.Setenv("DEBT_ROADMAP_LOGGING_LEVEL", "error")

	for _, format := range []string{constants.OutputFormatPretty, constants.OutputFormatCSV, constants.OutputFormatTable} {
		out, err := runCLI(t, "project", "--config", exampleConfig, "--output-format", format)
		if err != nil {
			t.Fatalf("project --output-format %s returned error: %v", format, err)
		}
		if !strings.Contains(out, "January 2026") {
			t.Errorf("%s output missing the first month:\n%s", format, out)
		}
	}

	if _, err := runCLI(t, "solve", "--config", exampleConfig); err != nil {
		t.Fatalf("solve returned error: %v", err)
	}
}

// TestProjectionPerformance keeps a full projection plus solve well inside
// interactive latency.
func TestProjectionPerformance(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping performance check in short mode")
	}
	conf := loadExample(t)
	anchor, _ := conf.AnchorTime()

	start := time.Now()
	schedule := payoff.ProjectWithFixedTime(conf.Household, conf.Simulation, anchor)
	projectTime := time.Since(start)

	start = time.Now()
	if _, err := optimizer.NewRunner(zap.NewNop(), conf.Household, conf.Simulation, conf.Target).WithFixedTime(anchor).Run(); err != nil {
		t.Fatalf("solver returned error: %v", err)
	}
	solveTime := time.Since(start)

	t.Logf("Performance metrics:")
	t.Logf("  Project %d months: %v", len(schedule), projectTime)
	t.Logf("  Solve: %v", solveTime)

	if total := projectTime + solveTime; total > 5*time.Second {
		t.Errorf("projection and solve took %v, exceeding the 5 second threshold", total)
	}
}

func TestProjectionConsistency(t *testing.T) {
	conf := loadExample(t)
	anchor, _ := conf.AnchorTime()

	first := payoff.ProjectWithFixedTime(conf.Household, conf.Simulation, anchor)
	for i := 0; i < 5; i++ {
		again := payoff.ProjectWithFixedTime(conf.Household, conf.Simulation, anchor)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("projection %d differs from the first", i+1)
		}
	}
}
