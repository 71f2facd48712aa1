package httpapi

// Config configures the HTTP API server.
type Config struct {
	// Address is the listen address, e.g. ":8080".
	Address string
}
