package config

import (
	"strings"
	"time"

	ierr "github.com/vidinfra/ledgersync/internal/errors"
	"github.com/vidinfra/ledgersync/internal/types"

	"github.com/go-playground/validator/v10"
	"github.com/samber/lo"
	"github.com/spf13/viper"
)

// finalizationLookback widens the fetch window to the left of the acceptance
// window so invoices created before the window but finalised inside it are
// still enumerated. 31 days (2,678,400 seconds).
const finalizationLookback = 2678400 * time.Second

// dateLayout is the calendar-day format of START_DATE / END_DATE
const dateLayout = "2006-01-02"

// Timezone is the fixed timezone in which the acceptance window and all
// ledger-facing dates are interpreted
const Timezone = "Europe/London"

type Configuration struct {
	Stripe  StripeConfig  `mapstructure:"stripe" validate:"required"`
	Xero    XeroConfig    `mapstructure:"xero" validate:"required"`
	Window  WindowConfig  `mapstructure:"window" validate:"required"`
	Logging LoggingConfig `mapstructure:"logging"`
}

type StripeConfig struct {
	SecretKey string `mapstructure:"secret_key" validate:"required"`
}

type XeroConfig struct {
	ClientID     string `mapstructure:"client_id" validate:"required"`
	ClientSecret string `mapstructure:"client_secret" validate:"required"`
	// TenantID is optional; when empty it is resolved from the connections
	// endpoint at startup
	TenantID string `mapstructure:"tenant_id"`

	GenericCustomerContactID string `mapstructure:"generic_customer_contact_id" validate:"required"`

	TrackingCategoryOneID       string `mapstructure:"tracking_category_one_id"`
	TrackingCategoryOneOptionID string `mapstructure:"tracking_category_one_option_id"`
	TrackingCategoryTwoID       string `mapstructure:"tracking_category_two_id"`
	TrackingCategoryTwoOptionID string `mapstructure:"tracking_category_two_option_id"`

	AccountStripeSales         string `mapstructure:"account_stripe_sales" validate:"required"`
	AccountStripeSalesLongTerm string `mapstructure:"account_stripe_sales_long_term" validate:"required"`
	AccountStripeBank          string `mapstructure:"account_stripe_bank" validate:"required"`

	// ContactNumbersLongTerm is a comma separated list of contact numbers
	// whose revenue routes to the long-term sales account
	ContactNumbersLongTerm string `mapstructure:"contact_ids_long_term"`
}

// LongTermContactNumbers returns the parsed long-term allow-list
func (c XeroConfig) LongTermContactNumbers() []string {
	parts := strings.Split(c.ContactNumbersLongTerm, ",")
	trimmed := lo.Map(parts, func(p string, _ int) string { return strings.TrimSpace(p) })
	return lo.Filter(trimmed, func(p string, _ int) bool { return p != "" })
}

type WindowConfig struct {
	StartDate string `mapstructure:"start_date" validate:"required"`
	EndDate   string `mapstructure:"end_date" validate:"required"`

	acceptStart time.Time
	acceptEnd   time.Time
}

// Resolve parses StartDate/EndDate into the inclusive acceptance window
// [StartDate 00:00:00, EndDate 23:59:59] in the fixed timezone
func (w *WindowConfig) Resolve() error {
	loc, err := time.LoadLocation(Timezone)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to load timezone").
			Mark(ierr.ErrSystem)
	}

	start, err := time.ParseInLocation(dateLayout, w.StartDate, loc)
	if err != nil {
		return ierr.WithError(err).
			WithHintf("START_DATE must be in %s format", dateLayout).
			Mark(ierr.ErrConfiguration)
	}

	end, err := time.ParseInLocation(dateLayout, w.EndDate, loc)
	if err != nil {
		return ierr.WithError(err).
			WithHintf("END_DATE must be in %s format", dateLayout).
			Mark(ierr.ErrConfiguration)
	}

	w.acceptStart = start
	// wall-clock end of day; adding a duration instead would drift across
	// DST transitions
	w.acceptEnd = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, loc)

	if w.acceptEnd.Before(w.acceptStart) {
		return ierr.NewError("END_DATE is before START_DATE").
			WithReportableDetails(map[string]any{
				"start_date": w.StartDate,
				"end_date":   w.EndDate,
			}).
			Mark(ierr.ErrConfiguration)
	}
	return nil
}

// AcceptStart is the inclusive lower bound of the acceptance window
func (w WindowConfig) AcceptStart() time.Time { return w.acceptStart }

// AcceptEnd is the inclusive upper bound of the acceptance window
func (w WindowConfig) AcceptEnd() time.Time { return w.acceptEnd }

// FetchStart is the inclusive lower bound on invoice creation time used when
// enumerating the source system, 31 days before AcceptStart
func (w WindowConfig) FetchStart() time.Time { return w.acceptStart.Add(-finalizationLookback) }

// FetchEnd is the exclusive upper bound on invoice creation time used when
// enumerating the source system
func (w WindowConfig) FetchEnd() time.Time { return w.acceptEnd }

type LoggingConfig struct {
	Level types.LogLevel `mapstructure:"level"`
}

// NewConfig loads configuration from the environment (and an optional
// config.yaml) and validates it. A missing required setting is fatal at
// startup.
func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	// Environment variables keep the names the operators already use
	bindings := map[string]string{
		"stripe.secret_key":                    "STRIPE_SECRET_KEY",
		"window.start_date":                    "START_DATE",
		"window.end_date":                      "END_DATE",
		"xero.client_id":                       "XERO_CLIENT_ID",
		"xero.client_secret":                   "XERO_CLIENT_SECRET",
		"xero.tenant_id":                       "XERO_TENANT_ID",
		"xero.generic_customer_contact_id":     "XERO_GENERIC_CUSTOMER_CONTACT_ID",
		"xero.tracking_category_one_id":        "XERO_TRACKING_CATEGORY_ONE_ID",
		"xero.tracking_category_one_option_id": "XERO_TRACKING_CATEGORY_ONE_OPTION_ID",
		"xero.tracking_category_two_id":        "XERO_TRACKING_CATEGORY_TWO_ID",
		"xero.tracking_category_two_option_id": "XERO_TRACKING_CATEGORY_TWO_OPTION_ID",
		"xero.account_stripe_sales":            "XERO_ACCOUNT_STRIPE_SALES",
		"xero.account_stripe_sales_long_term":  "XERO_ACCOUNT_STRIPE_SALES_LONG_TERM",
		"xero.account_stripe_bank":             "XERO_ACCOUNT_STRIPE_BANK",
		"xero.contact_ids_long_term":           "XERO_CONTACT_IDS_LONG_TERM",
		"logging.level":                        "LOG_LEVEL",
	}
	for key, env := range bindings {
		_ = v.BindEnv(key, env)
	}

	// Config file is optional; the environment alone is enough
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !ierr.As(err, &notFound) {
			return nil, ierr.WithError(err).
				WithHint("Failed to read config file").
				Mark(ierr.ErrConfiguration)
		}
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to parse configuration").
			Mark(ierr.ErrConfiguration)
	}

	if config.Logging.Level == "" {
		config.Logging.Level = types.LogLevelInfo
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if err := config.Window.Resolve(); err != nil {
		return nil, err
	}

	return &config, nil
}

func (c Configuration) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return ierr.WithError(err).
			WithHint("A required environment variable is missing").
			Mark(ierr.ErrConfiguration)
	}
	return nil
}
