package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setRequired installs the minimum environment FromEnv accepts. t.Setenv
// also snapshots any caller overrides, so tests stay isolated.
func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("CJ_USERNAME", "jeongjhs")
	t.Setenv("CJ_PASSWORD", "hunter2")
}

func TestFromEnvDefaults(t *testing.T) {
	setRequired(t)

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "jeongjhs", cfg.Username)
	assert.Equal(t, ModeDirect, cfg.AuthMode)
	assert.Equal(t, "imap.gmail.com", cfg.IMAPHost)
	assert.Equal(t, "993", cfg.IMAPPort)
	assert.Equal(t, "jeongjhs@cj.net", cfg.CodeSender)
	assert.Equal(t, "Certification Number", cfg.CodeSubject)
	assert.Equal(t, "08:00", cfg.StartTime)
	assert.Equal(t, "17:00", cfg.EndTime)
	assert.Equal(t, "priority", cfg.SeatPolicy)
	assert.Equal(t, 14, cfg.DaysAhead)
	assert.Equal(t, 60*time.Second, cfg.CodeTimeout)
	assert.Equal(t, 5*time.Second, cfg.CodePollInterval)
	assert.Equal(t, 20*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, "07:00", cfg.RunAt)
	assert.Equal(t, "Asia/Seoul", cfg.Timezone)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.LogPretty)
	assert.Empty(t, cfg.Seats)
	assert.Empty(t, cfg.ExtraHolidays)
}

func TestFromEnvMissingCredentials(t *testing.T) {
	t.Setenv("CJ_USERNAME", "")
	t.Setenv("CJ_PASSWORD", "")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "CJ_USERNAME")
}

func TestFromEnvMailModeRequiresMailbox(t *testing.T) {
	setRequired(t)
	t.Setenv("AUTH_MODE", "mail")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GMAIL_ADDRESS")

	t.Setenv("GMAIL_ADDRESS", "jeongjhs@gmail.com")
	t.Setenv("GMAIL_APP_PASSWORD", "app-password")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ModeMail, cfg.AuthMode)
	assert.Equal(t, "jeongjhs@gmail.com", cfg.MailboxAddress)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown auth mode", "AUTH_MODE", "sso"},
		{"unknown seat policy", "SEAT_POLICY", "random"},
		{"non-numeric days ahead", "DAYS_AHEAD", "soon"},
		{"zero code timeout", "CODE_TIMEOUT_SECONDS", "0"},
		{"malformed start time", "START_TIME", "8am"},
		{"malformed run at", "RUN_AT", "25:99"},
		{"malformed phone", "PHONE", "01027770962"},
		{"malformed holiday", "EXTRA_HOLIDAYS", "2026/05/05"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			t.Setenv(tc.key, tc.value)

			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestFromEnvPhoneSplit(t *testing.T) {
	setRequired(t)
	t.Setenv("PHONE", "010-1234-5678")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "010", cfg.Cel1)
	assert.Equal(t, "1234", cfg.Cel2)
	assert.Equal(t, "5678", cfg.Cel3)
	assert.Equal(t, "+82-10-1234-5678", cfg.PhoneHint())
}

func TestFromEnvSeatsAndHolidays(t *testing.T) {
	setRequired(t)
	t.Setenv("SEAT_POLICY", "parity")
	t.Setenv("SEATS", " 004-003 ,004-007,, ")
	t.Setenv("EXTRA_HOLIDAYS", "2026-05-01, 2026-12-31")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, []string{"004-003", "004-007"}, cfg.Seats)
	require.Len(t, cfg.ExtraHolidays, 2)
	assert.Equal(t, "2026-05-01", cfg.ExtraHolidays[0].Format("2006-01-02"))
}

func TestMailAlias(t *testing.T) {
	cfg := Config{Username: "jeongjhs", MailDomain: "mnetplus.world"}
	assert.Equal(t, "jeongjhs@mnetplus.world", cfg.MailAlias())
}

func TestLocation(t *testing.T) {
	cfg := Config{Timezone: "Asia/Seoul"}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Seoul", loc.String())

	cfg.Timezone = "Mars/Olympus"
	_, err = cfg.Location()
	assert.Error(t, err)
}
