package app

import (
	"github.com/iotaledger/collection-pricing/components/engine"
	"github.com/iotaledger/collection-pricing/components/identity"
	"github.com/iotaledger/collection-pricing/components/prometheus"
	"github.com/iotaledger/collection-pricing/components/restapi"
	"github.com/iotaledger/collection-pricing/components/restapi/management"
	"github.com/iotaledger/collection-pricing/components/restapi/prices"
	"github.com/iotaledger/hive.go/app"
	"github.com/iotaledger/hive.go/app/components/profiling"
	"github.com/iotaledger/hive.go/app/components/shutdown"
)

var (
	// Name of the app.
	Name = "collection-pricing"

	// Version of the app.
	Version = "0.1.0"
)

func App() *app.App {
	return app.New(Name, Version,
		app.WithInitComponent(InitComponent),
		app.WithComponents(
			shutdown.Component,
			engine.Component,
			identity.Component,
			profiling.Component,
			restapi.Component,
			prices.Component,
			management.Component,
			prometheus.Component,
		),
	)
}

var InitComponent *app.InitComponent

func init() {
	InitComponent = &app.InitComponent{
		Component: &app.Component{
			Name: "App",
		},
		NonHiddenFlags: []string{
			"config",
			"help",
			"version",
		},
	}
}
