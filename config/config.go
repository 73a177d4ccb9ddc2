package config

import "time"

type Config struct {
	Web     Web
	DB      DB
	Session Session
	Payment Payment
	Stripe  Stripe
	Paypal  Paypal
	Storage Storage
	Rate    Rate
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:8000"`
	BaseURL         string        `conf:"default:http://localhost:8000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
	DebugErrors     bool          `conf:"default:false"`
}

type DB struct {
	Driver       string `conf:"default:sqlite3"`
	DSN          string `conf:"default:database.db,mask"`
	MaxIdleConns int    `conf:"default:2"`
	MaxOpenConns int    `conf:"default:0"`
	Migrate      bool   `conf:"default:true"`
}

type Session struct {
	Lifetime   time.Duration `conf:"default:24h"`
	CookieName string        `conf:"default:session"`
	Secure     bool          `conf:"default:false"`
}

type Payment struct {
	Provider string `conf:"default:stripe"`
	Currency string `conf:"default:usd"`
}

type Stripe struct {
	APISecret string `conf:"mask"`
	URL       string
}

type Paypal struct {
	ClientID string `conf:"mask"`
	Secret   string `conf:"mask"`
	URL      string `conf:"default:https://api-m.sandbox.paypal.com"`
}

type Storage struct {
	AccountID string
	AccessKey string `conf:"mask"`
	SecretKey string `conf:"mask"`
	Bucket    string
	Endpoint  string
	Region    string `conf:"default:auto"`
	Insecure  bool   `conf:"default:false"`
}

type Rate struct {
	Burst    int           `conf:"default:5"`
	Interval time.Duration `conf:"default:12s"`
	Expiry   int           `conf:"default:10"`
}
