// Package observability defines the operation-observer contract shared by the
// data-access components.
//
// Components that perform store round-trips (the generic repository, the
// transaction helper, the raw query wrapper) report every completed operation
// to an Observer. Observers are optional: a nil observer disables reporting
// without any conditional logic at the call sites, via Notify.
//
// The metrics package provides a Prometheus-backed Observer implementation;
// tests typically use a small recording fake.
package observability
