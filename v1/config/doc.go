// Package config loads the application settings from the environment.
//
// Settings are read from env vars with the CLASSROOMS_ prefix (a .env file,
// when present, is loaded first), decoded with koanf, validated, and exposed
// to the container as one Settings value plus per-component Config values
// derived from it.
package config
