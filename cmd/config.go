package cmd

import "time"

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	AmqpURL string

	BillingServiceURL string
	FleetServiceURL   string
	GatewayTimeout    time.Duration

	JWTSecret string
	JWTIssuer string

	LedgerSeenWindow time.Duration
	StalePendingAge  time.Duration
}
