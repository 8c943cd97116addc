//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"github.com/yasuguerra/skyride-booking/internal/app"
)

func InitializeApp() (*app.App, error) {
	panic(wire.Build(
		ConfigSet,
		ObservabilitySet,
		RuntimeInfraSet,
		RepositorySet,
		ServiceSet,
		HTTPSet,
		AppSet,
	))
}
