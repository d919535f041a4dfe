package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/attendance"
	"github.com/dayflow-hr/dayflow-backend/internal/domain/payroll"
	"github.com/dayflow-hr/dayflow-backend/internal/pkg/validator"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	SMTP       SMTPConfig
	Payroll    PayrollConfig
	Attendance AttendanceConfig
	Leave      LeaveConfig
	Seed       SeedConfig
	Cron       CronConfig
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	Name        string
	SSLMode     string
	AutoMigrate bool
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
	SecureCookie     bool
}

// AppConfig holds application configuration
type AppConfig struct {
	Port        int
	Env         string
	LogLevel    string
	FrontendURL string
	LoginURL    string
	Timezone    string
	Location    *time.Location
}

type SMTPConfig struct {
	Enabled  bool
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// PayrollConfig holds the payroll policy knobs
type PayrollConfig struct {
	MissingStructurePolicy payroll.MissingStructurePolicy
	FallbackGrossWage      decimal.Decimal
	PayableStatuses        []attendance.Status
	Workers                int
}

type AttendanceConfig struct {
	// Check-ins strictly after LateAfterHour:LateAfterMinute local time count as late
	LateAfterHour   int
	LateAfterMinute int
}

type LeaveConfig struct {
	AnnualAllowance int
}

// SeedConfig describes the bootstrap admin account
type SeedConfig struct {
	AdminEmail    string
	AdminCode     string
	AdminPassword string
}

type CronConfig struct {
	PayrollEnabled bool
	// PayrollDay is the day of month on which the previous month is processed
	PayrollDay int
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:        getEnv("DB_HOST", "localhost"),
		Port:        dbPort,
		User:        getEnv("DB_USER", "postgres"),
		Password:    getEnv("DB_PASSWORD", ""),
		Name:        getEnv("DB_NAME", "dayflow"),
		SSLMode:     getEnv("DB_SSL_MODE", "disable"),
		AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", true),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:        appPort,
		Env:         getEnv("APP_ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		FrontendURL: getEnv("FRONTEND_URL", "http://localhost:3000"),
		LoginURL:    getEnv("APP_LOGIN_URL", "http://localhost:3000/login"),
		Timezone:    getEnv("APP_TIMEZONE", "Asia/Kolkata"),
	}
	config.App.Location, err = time.LoadLocation(config.App.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "24h"),
		SecureCookie:     config.App.Env == "production",
	}

	// SMTP configuration
	smtpPort, err := strconv.Atoi(getEnv("SMTP_PORT", "587"))
	if err != nil {
		return nil, fmt.Errorf("invalid SMTP_PORT: %w", err)
	}
	config.SMTP = SMTPConfig{
		Enabled:  getEnvBool("SMTP_ENABLED", false),
		Host:     getEnv("SMTP_HOST", "smtp.example.com"),
		Port:     smtpPort,
		Username: getEnv("SMTP_USER", ""),
		Password: getEnv("SMTP_PASS", ""),
		From:     getEnv("SMTP_FROM", "Dayflow HR <admin@dayflow.app>"),
	}

	// Payroll configuration
	fallbackWage, err := decimal.NewFromString(getEnv("PAYROLL_FALLBACK_GROSS_WAGE", "50000"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_FALLBACK_GROSS_WAGE: %w", err)
	}
	workers, err := strconv.Atoi(getEnv("PAYROLL_WORKERS", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAYROLL_WORKERS: %w", err)
	}
	var payableStatuses []attendance.Status
	for _, s := range getEnvSlice("PAYROLL_PAYABLE_STATUSES", "PRESENT,HALF_DAY,LATE") {
		payableStatuses = append(payableStatuses, attendance.Status(strings.ToUpper(strings.TrimSpace(s))))
	}
	config.Payroll = PayrollConfig{
		MissingStructurePolicy: payroll.MissingStructurePolicy(strings.ToLower(getEnv("PAYROLL_MISSING_STRUCTURE_POLICY", "strict"))),
		FallbackGrossWage:      fallbackWage,
		PayableStatuses:        payableStatuses,
		Workers:                workers,
	}

	// Attendance configuration
	lateHour, lateMinute, ok := validator.ParseClock(getEnv("ATTENDANCE_LATE_AFTER", "10:00"))
	if !ok {
		return nil, fmt.Errorf("invalid ATTENDANCE_LATE_AFTER: expected HH:MM")
	}
	config.Attendance = AttendanceConfig{
		LateAfterHour:   lateHour,
		LateAfterMinute: lateMinute,
	}

	annualAllowance, err := strconv.Atoi(getEnv("LEAVE_ANNUAL_ALLOWANCE", "12"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_ANNUAL_ALLOWANCE: %w", err)
	}
	config.Leave = LeaveConfig{AnnualAllowance: annualAllowance}

	config.Seed = SeedConfig{
		AdminEmail:    getEnv("SEED_ADMIN_EMAIL", "admin@dayflow.com"),
		AdminCode:     getEnv("SEED_ADMIN_CODE", "ADMIN001"),
		AdminPassword: getEnv("SEED_ADMIN_PASSWORD", ""),
	}

	payrollDay, err := strconv.Atoi(getEnv("CRON_PAYROLL_DAY", "1"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_PAYROLL_DAY: %w", err)
	}
	config.Cron = CronConfig{
		PayrollEnabled: getEnvBool("CRON_PAYROLL_ENABLED", false),
		PayrollDay:     payrollDay,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.ParseDuration(c.JWT.AccessExpiration); err != nil {
		return fmt.Errorf("JWT_ACCESS_EXPIRATION_TIME is not a duration: %w", err)
	}
	if !c.Payroll.MissingStructurePolicy.IsValid() {
		return fmt.Errorf("PAYROLL_MISSING_STRUCTURE_POLICY must be strict or lenient, got %q", c.Payroll.MissingStructurePolicy)
	}
	if c.Payroll.MissingStructurePolicy == payroll.PolicyLenient && !c.Payroll.FallbackGrossWage.IsPositive() {
		return fmt.Errorf("PAYROLL_FALLBACK_GROSS_WAGE must be positive with the lenient policy")
	}
	if len(c.Payroll.PayableStatuses) == 0 {
		return fmt.Errorf("PAYROLL_PAYABLE_STATUSES is required")
	}
	for _, s := range c.Payroll.PayableStatuses {
		if !s.IsValid() {
			return fmt.Errorf("PAYROLL_PAYABLE_STATUSES contains unknown status %q", s)
		}
	}
	if c.Payroll.Workers < 1 {
		return fmt.Errorf("PAYROLL_WORKERS must be at least 1")
	}
	if c.Leave.AnnualAllowance < 0 {
		return fmt.Errorf("LEAVE_ANNUAL_ALLOWANCE cannot be negative")
	}
	if c.Cron.PayrollDay < 1 || c.Cron.PayrollDay > 28 {
		return fmt.Errorf("CRON_PAYROLL_DAY must be between 1 and 28")
	}
	if c.SMTP.Enabled && c.SMTP.Host == "" {
		return fmt.Errorf("SMTP_HOST is required when SMTP_ENABLED is true")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value, err := strconv.ParseBool(getEnv(key, strconv.FormatBool(fallback)))
	if err != nil {
		return fallback
	}
	return value
}

func getEnvSlice(env, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
