// Package metrics provides Prometheus-based monitoring and metrics
// collection for the service.
//
// # Architecture
//
// This package follows the "accept interfaces, return structs" design pattern:
//   - MetricsCollector interface: Defines the contract for metrics operations
//   - Metrics struct: Concrete implementation of the MetricsCollector interface
//   - NewMetrics constructor: Returns *Metrics (concrete type)
//   - FX module: Provides *Metrics and an observability.Observer for dependency injection
//
// Core Features:
//   - Exposes a configurable /metrics endpoint for Prometheus scraping
//   - Integration with go.uber.org/fx for automatic lifecycle management
//   - Automatic registration of Go runtime and process-level metrics
//   - Support for custom metric registration (counters, gauges, histograms)
//   - A constant service label on every metric for multi-service observability
//   - Graceful startup and shutdown via Fx lifecycle hooks
//
// Built-in metrics:
//   - http_requests_total{method,path,status}
//   - http_request_duration_seconds{method,path}
//   - repository_operations_total{operation,status}
//   - repository_operation_duration_seconds{operation}
//
// # Direct Usage (Without FX)
//
// For simple applications or tests, create metrics directly:
//
//	cfg := metrics.Config{
//		Address:                 ":9090",
//		ServiceName:             "classrooms",
//		EnableDefaultCollectors: true,
//	}
//
//	m := metrics.NewMetrics(cfg)
//	go m.Server.ListenAndServe()
//
// RepositoryObserver adapts the registry to the observability.Observer
// interface so data-access operations report outcomes without importing
// Prometheus directly.
package metrics
