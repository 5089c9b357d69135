// Package config loads bizcards settings from environment variables.
//
// Every field is described by struct tags: env names the variable, envAlt an
// older alias, default the value used when the variable is unset, and
// required marks settings without a sensible default. Load applies the tags
// and then Validate reports every problem at once.
package config

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/JonMunkholm/bizcards/internal/contact"
	"github.com/JonMunkholm/bizcards/internal/delimited"
)

// Config holds all application configuration.
type Config struct {
	Parser   ParserConfig
	Card     CardConfig
	Render   RenderConfig
	Server   ServerConfig
	Database DatabaseConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ParserConfig mirrors delimited.Options.
type ParserConfig struct {
	// Delimiter is the single field separator character (default: ;)
	Delimiter string `env:"CSV_DELIMITER" default:";"`

	// Relaxed tolerates stray characters, line endings and blank lines
	Relaxed bool `env:"CSV_RELAXED" default:"false"`

	IgnoreRecordLength bool `env:"CSV_IGNORE_RECORD_LENGTH" default:"false"`
	IgnoreQuotes       bool `env:"CSV_IGNORE_QUOTES" default:"false"`
	LineFeedOK         bool `env:"CSV_LINE_FEED_OK" default:"true"`
	CarriageReturnOK   bool `env:"CSV_CARRIAGE_RETURN_OK" default:"true"`

	// DetectTypes turns numeric, boolean, null and undefined tokens into typed values
	DetectTypes bool `env:"CSV_DETECT_TYPES" default:"true"`

	IgnoreQuoteWhitespace bool `env:"CSV_IGNORE_QUOTE_WHITESPACE" default:"true"`

	// Debug logs every parser step at debug level
	Debug bool `env:"CSV_DEBUG" default:"false"`
}

// CardConfig holds contact normalization settings.
type CardConfig struct {
	// WebsiteDomain is the company domain printed on every card (default: trakt.ru)
	WebsiteDomain string `env:"CARD_WEBSITE_DOMAIN" default:"trakt.ru"`
}

// RenderConfig holds card rendering settings.
type RenderConfig struct {
	// FontFile is a TrueType font with Cyrillic glyphs. Rendering is
	// unavailable until it is set.
	FontFile string `env:"RENDER_FONT_FILE"`

	// Layout is the registered card layout key (default: standard)
	Layout string `env:"RENDER_LAYOUT" default:"standard"`

	// OutputDir is where bizcards generate writes PDFs (default: cards)
	OutputDir string `env:"RENDER_OUTPUT_DIR" default:"cards"`

	// SlugFileNames transliterates surnames into ASCII file names
	SlugFileNames bool `env:"RENDER_SLUG_FILENAMES" default:"false"`

	// MaxConcurrent is the number of render batches the server runs at once (default: 2)
	MaxConcurrent int `env:"RENDER_MAX_CONCURRENT" default:"2"`

	// MaxWait is how long a request waits for a render slot (default: 30s)
	MaxWait time.Duration `env:"RENDER_MAX_WAIT" default:"30s"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`
	Port int    `env:"SERVER_PORT" default:"8080"`

	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	RequestTimeout  time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// MaxUploadSize caps uploaded contact lists in bytes (default: 10MB)
	MaxUploadSize int64 `env:"SERVER_MAX_UPLOAD_SIZE" default:"10485760"`
}

// DatabaseConfig holds the optional run store connection.
type DatabaseConfig struct {
	// URL is the PostgreSQL connection string. Empty disables run history.
	URL string `env:"DATABASE_URL" envAlt:"DB_URL"`

	MaxConns        int           `env:"DB_MAX_CONNS" default:"4"`
	MinConns        int           `env:"DB_MIN_CONNS" default:"0"`
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" default:"1h"`
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" default:"30m"`
}

// SecurityConfig holds HTTP hardening settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// X-Real-IP and X-Forwarded-For headers are believed
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// RequireAPIKey guards the /api routes with X-API-Key (default: false)
	RequireAPIKey bool     `env:"REQUIRE_API_KEY" default:"false"`
	APIKeys       []string `env:"API_KEYS"`

	// RequestsPerMinute is the per-IP rate limit; 0 disables it (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Enabled reports whether a database is configured.
func (c *DatabaseConfig) Enabled() bool {
	return c.URL != ""
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// DelimiterRune returns the configured delimiter, or ';' if it is not a
// single character.
func (c *ParserConfig) DelimiterRune() rune {
	r, size := utf8.DecodeRuneInString(c.Delimiter)
	if r == utf8.RuneError || size != len(c.Delimiter) {
		return ';'
	}
	return r
}

// Options converts the parser settings into delimited.Options.
func (c *ParserConfig) Options() delimited.Options {
	return delimited.Options{
		Delimiter:             c.DelimiterRune(),
		Relaxed:               c.Relaxed,
		IgnoreRecordLength:    c.IgnoreRecordLength,
		IgnoreQuotes:          c.IgnoreQuotes,
		LineFeedOK:            c.LineFeedOK,
		CarriageReturnOK:      c.CarriageReturnOK,
		DetectTypes:           c.DetectTypes,
		IgnoreQuoteWhitespace: c.IgnoreQuoteWhitespace,
		Debug:                 c.Debug,
	}
}

// ContactOptions converts the card settings into contact.Options.
func (c *CardConfig) ContactOptions() contact.Options {
	return contact.Options{Domain: c.WebsiteDomain, Cities: contact.Cities}
}

// String returns a representation safe for logging; the database URL is masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	fmt.Fprintf(&b, "Parser: {Delimiter: %q, Relaxed: %v, DetectTypes: %v}, ",
		c.Parser.Delimiter, c.Parser.Relaxed, c.Parser.DetectTypes)
	fmt.Fprintf(&b, "Card: {WebsiteDomain: %q}, ", c.Card.WebsiteDomain)
	fmt.Fprintf(&b, "Render: {Layout: %q, FontFile: %q, MaxConcurrent: %d}, ",
		c.Render.Layout, c.Render.FontFile, c.Render.MaxConcurrent)
	fmt.Fprintf(&b, "Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port)
	if c.Database.Enabled() {
		fmt.Fprintf(&b, "Database: {URL: [MASKED], MaxConns: %d}, ", c.Database.MaxConns)
	} else {
		b.WriteString("Database: {disabled}, ")
	}
	fmt.Fprintf(&b, "Security: {RequireAPIKey: %v, APIKeys: %d, TrustedProxies: %d}, ",
		c.Security.RequireAPIKey, len(c.Security.APIKeys), len(c.Security.TrustedProxies))
	fmt.Fprintf(&b, "Logging: {Level: %q, Format: %q}", c.Logging.Level, c.Logging.Format)
	b.WriteString("}")
	return b.String()
}
