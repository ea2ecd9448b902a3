// Package config loads all settings from environment variables with
// defaults and validation. Credentials never appear on the CLI.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Auth mode selects which login variant runs.
const (
	ModeDirect = "direct" // intranet: portal login + SSO bridge
	ModeMail   = "mail"   // external network: email-verified login
)

type Config struct {
	// Portal identity.
	Username string
	Password string
	AuthMode string

	// Mail verification (ModeMail only).
	IMAPHost         string
	IMAPPort         string
	MailboxAddress   string
	MailboxPassword  string
	CodeSender       string
	CodeSubject      string
	CodeTimeout      time.Duration
	CodePollInterval time.Duration
	MailDomain       string

	// Booking.
	DaysAhead  int
	StartTime  string
	EndTime    string
	Cel1       string
	Cel2       string
	Cel3       string
	SeatPolicy string   // "parity" or "priority"
	Seats      []string // optional override for the priority list

	ExtraHolidays []time.Time

	HTTPTimeout time.Duration

	// Daemon + history (optional).
	DatabaseURL string
	RunAt       string // local wall-clock HH:MM
	Timezone    string

	LogLevel  string
	LogPretty bool
}

func FromEnv() (Config, error) {
	cfg := Config{
		Username: strings.TrimSpace(os.Getenv("CJ_USERNAME")),
		Password: os.Getenv("CJ_PASSWORD"),
		AuthMode: getenv("AUTH_MODE", ModeDirect),

		IMAPHost:        getenv("IMAP_HOST", "imap.gmail.com"),
		IMAPPort:        getenv("IMAP_PORT", "993"),
		MailboxAddress:  strings.TrimSpace(os.Getenv("GMAIL_ADDRESS")),
		MailboxPassword: os.Getenv("GMAIL_APP_PASSWORD"),
		CodeSender:      getenv("CODE_SENDER", "jeongjhs@cj.net"),
		CodeSubject:     getenv("CODE_SUBJECT", "Certification Number"),
		MailDomain:      getenv("MAIL_DOMAIN", "mnetplus.world"),

		StartTime:  getenv("START_TIME", "08:00"),
		EndTime:    getenv("END_TIME", "17:00"),
		SeatPolicy: getenv("SEAT_POLICY", "priority"),
		Seats:      splitCSV(os.Getenv("SEATS")),

		DatabaseURL: strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RunAt:       getenv("RUN_AT", "07:00"),
		Timezone:    getenv("TZ_NAME", "Asia/Seoul"),

		LogLevel:  getenv("LOG_LEVEL", "info"),
		LogPretty: getenv("LOG_PRETTY", "1") == "1",
	}

	if cfg.Username == "" || cfg.Password == "" {
		return Config{}, fmt.Errorf("CJ_USERNAME and CJ_PASSWORD are required")
	}
	if cfg.AuthMode != ModeDirect && cfg.AuthMode != ModeMail {
		return Config{}, fmt.Errorf("AUTH_MODE must be %q or %q", ModeDirect, ModeMail)
	}
	if cfg.AuthMode == ModeMail && (cfg.MailboxAddress == "" || cfg.MailboxPassword == "") {
		return Config{}, fmt.Errorf("GMAIL_ADDRESS and GMAIL_APP_PASSWORD are required for AUTH_MODE=%s", ModeMail)
	}
	if cfg.SeatPolicy != "parity" && cfg.SeatPolicy != "priority" {
		return Config{}, fmt.Errorf("SEAT_POLICY must be \"parity\" or \"priority\"")
	}

	var err error
	if cfg.DaysAhead, err = getint("DAYS_AHEAD", 14); err != nil {
		return Config{}, err
	}
	if cfg.CodeTimeout, err = getseconds("CODE_TIMEOUT_SECONDS", 60); err != nil {
		return Config{}, err
	}
	if cfg.CodePollInterval, err = getseconds("CODE_POLL_SECONDS", 5); err != nil {
		return Config{}, err
	}
	if cfg.HTTPTimeout, err = getseconds("HTTP_TIMEOUT_SECONDS", 20); err != nil {
		return Config{}, err
	}

	for _, v := range []string{cfg.StartTime, cfg.EndTime, cfg.RunAt} {
		if _, err := time.Parse("15:04", v); err != nil {
			return Config{}, fmt.Errorf("invalid time %q (want HH:MM)", v)
		}
	}

	phone := getenv("PHONE", "010-2777-0962")
	parts := strings.Split(phone, "-")
	if len(parts) != 3 {
		return Config{}, fmt.Errorf("PHONE must look like 010-1234-5678")
	}
	cfg.Cel1, cfg.Cel2, cfg.Cel3 = parts[0], parts[1], parts[2]

	for _, raw := range splitCSV(os.Getenv("EXTRA_HOLIDAYS")) {
		d, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid EXTRA_HOLIDAYS entry %q (want YYYY-MM-DD)", raw)
		}
		cfg.ExtraHolidays = append(cfg.ExtraHolidays, d)
	}

	return cfg, nil
}

// MailAlias is the external address codes are delivered to.
func (c Config) MailAlias() string {
	return c.Username + "@" + c.MailDomain
}

// PhoneHint renders the registered number the certification form expects,
// in international form.
func (c Config) PhoneHint() string {
	return "+82-" + strings.TrimPrefix(c.Cel1, "0") + "-" + c.Cel2 + "-" + c.Cel3
}

// Location resolves the configured timezone; booking date math runs in it.
func (c Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Timezone)
}

func getenv(k, def string) string {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	return v
}

func getint(k string, def int) (int, error) {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", k, err)
	}
	return n, nil
}

func getseconds(k string, def int) (time.Duration, error) {
	n, err := getint(k, def)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, fmt.Errorf("%s must be >= 1", k)
	}
	return time.Duration(n) * time.Second, nil
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
