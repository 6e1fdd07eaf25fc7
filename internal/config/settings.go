package config

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/tally/internal/common"
	"github.com/Veraticus/tally/internal/model"
	"github.com/Veraticus/tally/internal/tax"
)

// Defaults used when the corresponding key is unset.
const (
	DefaultDatabasePath = "$HOME/.local/share/tally/tally.db"
	DefaultUserID       = "default"
)

// DatabasePath returns the expanded database location from database.path.
func DatabasePath() string {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = DefaultDatabasePath
	}
	return ExpandPath(dbPath)
}

// UserID returns the user whose receipts are tracked, from user.id.
func UserID() string {
	if id := strings.TrimSpace(viper.GetString("user.id")); id != "" {
		return id
	}
	return DefaultUserID
}

// StreakLocation returns the time zone streak days are counted in, from
// streak.timezone. An unset key means the local zone.
func StreakLocation() (*time.Location, error) {
	name := viper.GetString("streak.timezone")
	if name == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("%w: streak.timezone %q: %w", common.ErrInvalidConfig, name, err)
	}
	return loc, nil
}

// LoadTaxConfiguration returns the built-in rate table with any overrides
// from the tax section applied. Amounts in the config file are dollars.
//
//	tax:
//	  brackets:
//	    medium: {min: 50001, max: 100000, rate: 0.24}
//	  standard_deduction:
//	    single: 14600
func LoadTaxConfiguration(now time.Time) (model.TaxConfiguration, error) {
	cfg := tax.DefaultConfiguration(now)

	for _, bracket := range []model.IncomeBracket{model.BracketLow, model.BracketMedium, model.BracketHigh} {
		prefix := "tax.brackets." + string(bracket) + "."
		r := cfg.IncomeBrackets[bracket]
		if viper.IsSet(prefix + "min") {
			r.Min = dollarsToCents(viper.GetFloat64(prefix + "min"))
		}
		if viper.IsSet(prefix + "max") {
			r.Max = dollarsToCents(viper.GetFloat64(prefix + "max"))
		}
		if viper.IsSet(prefix + "rate") {
			r.Rate = viper.GetFloat64(prefix + "rate")
		}
		cfg.IncomeBrackets[bracket] = r
	}

	for _, status := range []model.FilingStatus{model.FilingSingle, model.FilingMarried} {
		key := "tax.standard_deduction." + string(status)
		if viper.IsSet(key) {
			cfg.StandardDeductions[status] = dollarsToCents(viper.GetFloat64(key))
		}
	}

	if err := cfg.Validate(); err != nil {
		return model.TaxConfiguration{}, fmt.Errorf("%w: %w", common.ErrInvalidConfig, err)
	}
	return cfg, nil
}

func dollarsToCents(dollars float64) int64 {
	return int64(math.Round(dollars * 100))
}
