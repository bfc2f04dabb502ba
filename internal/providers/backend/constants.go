package backend

import "time"

const (
	providerName       = "backend"
	defaultHTTPTimeout = 10 * time.Second
	defaultMaxPages    = 5
)
