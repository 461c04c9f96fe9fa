package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	HTTPAddr        string
	DBPath          string
	SnapshotDir     string
	JWTIssuer       string
	JWTSecret       string
	JWTTTL          time.Duration
	InternalToken   string
	WebSocketOrigin string
	InitialBalance  decimal.Decimal
	FeedSymbols     []string
	FeedInterval    time.Duration
	UIDist          string
}

func Load() (Config, error) {
	var c Config
	var missing []string
	c.HTTPAddr = os.Getenv("HTTP_ADDR")
	if c.HTTPAddr == "" {
		missing = append(missing, "HTTP_ADDR")
	}
	c.DBPath = os.Getenv("DB_PATH")
	if c.DBPath == "" {
		missing = append(missing, "DB_PATH")
	}
	c.JWTIssuer = os.Getenv("JWT_ISSUER")
	if c.JWTIssuer == "" {
		missing = append(missing, "JWT_ISSUER")
	}
	c.JWTSecret = os.Getenv("JWT_SECRET")
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	jwtTTL := os.Getenv("JWT_TTL")
	if jwtTTL == "" {
		missing = append(missing, "JWT_TTL")
	} else {
		d, err := time.ParseDuration(jwtTTL)
		if err != nil {
			return c, err
		}
		c.JWTTTL = d
	}
	c.InternalToken = os.Getenv("INTERNAL_API_TOKEN")
	if c.InternalToken == "" {
		missing = append(missing, "INTERNAL_API_TOKEN")
	}
	c.WebSocketOrigin = os.Getenv("WS_ORIGIN")
	if c.WebSocketOrigin == "" {
		missing = append(missing, "WS_ORIGIN")
	}
	c.SnapshotDir = os.Getenv("SNAPSHOT_DIR")
	c.UIDist = os.Getenv("UI_DIST")
	initial := os.Getenv("INITIAL_BALANCE")
	if initial == "" {
		initial = "1000000"
	}
	balance, err := decimal.NewFromString(initial)
	if err != nil || balance.LessThanOrEqual(decimal.Zero) {
		return c, errors.New("invalid INITIAL_BALANCE")
	}
	c.InitialBalance = balance
	symbols := os.Getenv("FEED_SYMBOLS")
	if symbols == "" {
		symbols = "AAPL,MSFT,BTC-USD,ETH-USD"
	}
	for _, sym := range strings.Split(symbols, ",") {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if sym != "" {
			c.FeedSymbols = append(c.FeedSymbols, sym)
		}
	}
	if len(c.FeedSymbols) == 0 {
		return c, errors.New("FEED_SYMBOLS must name at least one symbol")
	}
	interval := os.Getenv("FEED_INTERVAL")
	if interval == "" {
		interval = "250ms"
	}
	d, err := time.ParseDuration(interval)
	if err != nil || d <= 0 {
		return c, errors.New("invalid FEED_INTERVAL")
	}
	c.FeedInterval = d
	if len(missing) > 0 {
		return c, errors.New("missing required env: " + strings.Join(missing, ","))
	}
	return c, nil
}
