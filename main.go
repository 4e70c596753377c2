package main

import (
	"github.com/iotaledger/collection-pricing/components/app"
	"github.com/iotaledger/collection-pricing/pkg/toolset"
)

func main() {
	if toolset.ShouldHandleTools() {
		toolset.HandleTools()
		// HandleTools will call os.Exit
	}

	app.App().Run()
}
