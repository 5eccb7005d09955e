package config

import (
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/debt-roadmap/internal/household"
	"github.com/iwvelando/debt-roadmap/pkg/constants"
)

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Full configuration",
			configPath: "testdata/config.yaml",
		},
		{
			name:       "Household in separate file",
			configPath: "testdata/household-only.yaml",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfiguration() error = %v", err)
			}
			if config == nil {
				t.Fatalf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationStructure(t *testing.T) {
	config, err := LoadConfiguration("testdata/config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	h := config.Household
	if len(h.Debts) != 2 || len(h.LentMoney) != 1 || len(h.Expenses) != 2 || len(h.SpecialEvents) != 1 {
		t.Fatalf("unexpected household shape %+v", h)
	}
	visa := h.Debts[0]
	if visa.Kind != household.KindCreditCard || visa.InterestRate != 22.9 || visa.MinimumPayment != 75 || !visa.CanOverpay {
		t.Errorf("unexpected visa debt %+v", visa)
	}
	if h.Debts[1].OverpaymentPenalty != 15 {
		t.Errorf("expected car penalty 15, got %v", h.Debts[1].OverpaymentPenalty)
	}
	if h.LentMoney[0].RemainingBalance != 600 || h.LentMoney[0].DefaultRepayment != 100 {
		t.Errorf("unexpected lent money %+v", h.LentMoney[0])
	}
	if !h.Expenses[1].IsSubscription || h.SpecialEvents[0].Month != 11 {
		t.Errorf("unexpected expenses/events %+v %+v", h.Expenses, h.SpecialEvents)
	}
	if h.Strategy.Canonical() != household.Avalanche || h.LuxuryBudget != 200 || h.SavingsBuffer != 10 {
		t.Errorf("unexpected preferences %q %v %v", h.Strategy, h.LuxuryBudget, h.SavingsBuffer)
	}

	sim := config.Simulation
	if sim.MonthlyOverpayment != 50 || !sim.AvoidPenaltyOverpay {
		t.Errorf("explicit simulation options not loaded: %+v", sim)
	}
	if !sim.RespectLuxuryBudget || !sim.RespectSubscriptions || !sim.RespectSavingsBuffer || sim.MaxMonths != constants.DefaultMaxMonths {
		t.Errorf("omitted simulation options should keep defaults: %+v", sim)
	}

	if config.Target.Months != 12 || config.Target.MaxIterations != constants.SolverMaxIterations {
		t.Errorf("unexpected target %+v", config.Target)
	}
	if config.Logging.Level != "debug" || config.Logging.Format != "console" {
		t.Errorf("unexpected logging %+v", config.Logging)
	}
	if config.Output.Format != constants.OutputFormatTable {
		t.Errorf("expected table output, got %q", config.Output.Format)
	}
	if config.Cache.Driver != "memory" || config.Cache.TTL != 10*time.Minute {
		t.Errorf("unexpected cache config %+v", config.Cache)
	}
	if config.Store.Driver != "sqlite" || config.Store.Path != constants.DefaultStorePath {
		t.Errorf("expected default store config, got %+v", config.Store)
	}
	if config.Sync.RetryMax != 3 || config.Sync.Timeout != 30*time.Second {
		t.Errorf("expected default sync config, got %+v", config.Sync)
	}

	if err := config.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestLoadConfigurationHouseholdFile(t *testing.T) {
	config, err := LoadConfiguration("testdata/household-only.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if len(config.Household.Debts) != 1 || config.Household.Debts[0].Name != "Store Card" {
		t.Errorf("household file not loaded: %+v", config.Household)
	}
	if config.Household.Strategy.Canonical() != household.Snowball {
		t.Errorf("expected snowball, got %q", config.Household.Strategy)
	}
	if config.Simulation.RespectLuxuryBudget {
		t.Errorf("expected respectLuxuryBudget override to false")
	}
	if config.Output.Format != constants.OutputFormatPretty {
		t.Errorf("expected default output format, got %q", config.Output.Format)
	}
}

func TestLoadConfigurationFromReader(t *testing.T) {
	input := `
household:
  debts:
    - name: Loan
      balance: 1000
      minimumPayment: 100
  income:
    - amount: 500
simulation:
  maxMonths: 24
`
	config, err := LoadConfigurationFromReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader() error = %v", err)
	}
	if config.Simulation.MaxMonths != 24 || !config.Simulation.RespectSavingsBuffer {
		t.Errorf("unexpected simulation options %+v", config.Simulation)
	}
	if config.Household.TotalDebt() != 1000 {
		t.Errorf("unexpected household %+v", config.Household)
	}

	if _, err := LoadConfigurationFromReader(strings.NewReader("household: [unterminated")); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestParseConfigurationLeavesHouseholdFileUnresolved(t *testing.T) {
	for _, key := range []string{"householdFile", "HouseholdFile"} {
		input := key + ": /does/not/exist.yaml\n"

		config, err := ParseConfiguration(strings.NewReader(input))
		if err != nil {
			t.Fatalf("ParseConfiguration(%s) error = %v", key, err)
		}
		if config.HouseholdFile != "/does/not/exist.yaml" {
			t.Errorf("expected %s to be decoded, got %q", key, config.HouseholdFile)
		}
		if !config.Household.Empty() {
			t.Errorf("expected no household to be loaded, got %+v", config.Household)
		}

		if _, err := LoadConfigurationFromReader(strings.NewReader(input)); err == nil {
			t.Errorf("expected LoadConfigurationFromReader to resolve %s and fail", key)
		}
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("DEBT_ROADMAP_OUTPUT_FORMAT", "csv")
	t.Setenv("DEBT_ROADMAP_LOGGING_LEVEL", "warn")

	config, err := LoadConfiguration("testdata/config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if config.Output.Format != constants.OutputFormatCSV {
		t.Errorf("expected env override of output format, got %q", config.Output.Format)
	}
	if config.Logging.Level != "warn" {
		t.Errorf("expected env override of logging level, got %q", config.Logging.Level)
	}
}

func TestValidateRejectsInvalidHousehold(t *testing.T) {
	config, err := LoadConfiguration("testdata/invalid.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	err = config.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	for _, fragment := range []string{"Debt 'Broken' balance", "Savings buffer"} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("validation error %q does not mention %q", err.Error(), fragment)
		}
	}
}

func TestAnchorTime(t *testing.T) {
	config := &Configuration{Anchor: "2026-03"}
	anchor, err := config.AnchorTime()
	if err != nil {
		t.Fatalf("AnchorTime() error = %v", err)
	}
	if anchor.Format(DateTimeLayout) != "2026-03" {
		t.Errorf("unexpected anchor %v", anchor)
	}

	blank := &Configuration{}
	now, err := blank.AnchorTime()
	if err != nil || now.IsZero() {
		t.Errorf("expected current time for blank anchor, got %v (%v)", now, err)
	}

	bad := &Configuration{Anchor: "March"}
	if _, err := bad.AnchorTime(); err == nil {
		t.Error("expected error for malformed anchor")
	}
	if err := bad.Validate(); err == nil {
		t.Error("expected Validate to reject malformed anchor")
	}
}

func TestValidateConfigurationWarnings(t *testing.T) {
	config, err := LoadConfiguration("testdata/config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if warnings := config.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}

	config.Household.Income[0].Amount = 100
	if warnings := config.ValidateConfiguration(); len(warnings) == 0 {
		t.Error("expected a warning when income cannot cover minimums")
	}
}
