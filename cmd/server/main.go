// Command server runs the classrooms HTTP API.
package main

import (
	"go.uber.org/fx"

	"github.com/classtrack/classrooms/v1/classrooms"
	"github.com/classtrack/classrooms/v1/config"
	"github.com/classtrack/classrooms/v1/httpapi"
	"github.com/classtrack/classrooms/v1/logger"
	"github.com/classtrack/classrooms/v1/metrics"
	"github.com/classtrack/classrooms/v1/postgres"
)

func main() {
	fx.New(
		config.FXModule,
		logger.FXModule,
		postgres.FXModule,
		metrics.FXModule,
		classrooms.FXModule,
		httpapi.FXModule,
	).Run()
}
