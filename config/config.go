// Package config resolves the run configuration from environment variables,
// command-line fallbacks and the YAML calendar settings file.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"triage-scheduler/errors"
)

// Default subject patterns; they match what this tool itself writes.
const (
	DefaultDutyPattern    = "^Triage: "
	DefaultHandoffPattern = "^Triage Hand-Off"
)

// Options carries command-line fallbacks for settings that can also come
// from the environment. The environment wins when both are set.
type Options struct {
	CSVFile        string
	HolidayFile    string
	CalendarConfig string
}

// CalendarSettings is the YAML calendar configuration file.
type CalendarSettings struct {
	FeedURL        string   `yaml:"feed_url"`
	CollectionURL  string   `yaml:"collection_url"`
	Username       string   `yaml:"username"`
	Password       string   `yaml:"password"`
	DutyPattern    string   `yaml:"duty_pattern"`
	HandoffPattern string   `yaml:"handoff_pattern"`
	Location       string   `yaml:"location"`
	Categories     []string `yaml:"categories"`
	Timezone       string   `yaml:"timezone"`
}

// Config captures every externally provided value for one run, resolved and
// validated once at startup and passed to each component from there.
type Config struct {
	CSVFile     string
	HolidayFile string

	Calendar       CalendarSettings
	DutyPattern    *regexp.Regexp
	HandoffPattern *regexp.Regexp
	Location       string
	Categories     []string
	Timezone       *time.Location
}

// Load resolves the configuration. Missing and invalid values are collected
// and reported together so an operator can fix them in one pass.
//
// Environment variables: TRIAGE_CSVFILE, TRIAGE_HOLIDAYS_FILE,
// TRIAGE_CALENDAR_CONFIG, TRIAGE_LOCATION.
func Load(opts Options) (Config, error) {
	cfg := Config{
		CSVFile:     fromEnv("TRIAGE_CSVFILE", opts.CSVFile),
		HolidayFile: fromEnv("TRIAGE_HOLIDAYS_FILE", opts.HolidayFile),
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	calendarFile := fromEnv("TRIAGE_CALENDAR_CONFIG", opts.CalendarConfig)
	if calendarFile == "" {
		return Config{}, &errors.ConfigError{
			Setting: "missing calendar settings; use -calendar-config or TRIAGE_CALENDAR_CONFIG",
		}
	}

	data, err := os.ReadFile(calendarFile)
	if err != nil {
		return Config{}, &errors.ConfigError{Setting: "calendar settings", Err: err}
	}
	if err := yaml.Unmarshal(data, &cfg.Calendar); err != nil {
		return Config{}, &errors.ConfigError{
			Setting: "calendar settings",
			Err:     fmt.Errorf("decoding %s: %w", calendarFile, err),
		}
	}

	if cfg.Calendar.FeedURL == "" {
		missing = append(missing, "feed_url")
	}
	if cfg.Calendar.CollectionURL == "" {
		missing = append(missing, "collection_url")
	}

	cfg.Location = fromEnv("TRIAGE_LOCATION", cfg.Calendar.Location)
	if cfg.Location == "" {
		missing = append(missing, "location")
	}

	cfg.Categories = cfg.Calendar.Categories
	if len(cfg.Categories) == 0 {
		cfg.Categories = []string{"TicketMaster"}
	}

	cfg.DutyPattern, err = compilePattern(cfg.Calendar.DutyPattern, DefaultDutyPattern)
	if err != nil {
		invalid = append(invalid, "duty_pattern")
	}
	cfg.HandoffPattern, err = compilePattern(cfg.Calendar.HandoffPattern, DefaultHandoffPattern)
	if err != nil {
		invalid = append(invalid, "handoff_pattern")
	}

	cfg.Timezone = time.Local
	if cfg.Calendar.Timezone != "" {
		loc, err := time.LoadLocation(cfg.Calendar.Timezone)
		if err != nil {
			invalid = append(invalid, "timezone")
		} else {
			cfg.Timezone = loc
		}
	}

	if len(missing) > 0 {
		return Config{}, &errors.ConfigError{
			Setting: fmt.Sprintf("missing required settings in %s: %s", calendarFile, strings.Join(missing, ", ")),
		}
	}
	if len(invalid) > 0 {
		return Config{}, &errors.ConfigError{
			Setting: fmt.Sprintf("invalid settings in %s: %s", calendarFile, strings.Join(invalid, ", ")),
		}
	}

	return cfg, nil
}

func fromEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return strings.TrimSpace(fallback)
}

func compilePattern(pattern, fallback string) (*regexp.Regexp, error) {
	if strings.TrimSpace(pattern) == "" {
		pattern = fallback
	}
	return regexp.Compile(pattern)
}
