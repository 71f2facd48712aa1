package metrics

// Config configures the Prometheus metrics server.
type Config struct {
	// Address is the listen address of the /metrics HTTP server, e.g. ":9090".
	Address string

	// ServiceName is attached as a constant service label to every metric.
	ServiceName string

	// EnableDefaultCollectors registers the Go runtime, process, and build
	// info collectors alongside the application metrics.
	EnableDefaultCollectors bool
}
