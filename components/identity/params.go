package identity

import (
	"github.com/iotaledger/hive.go/app"
)

// ParametersIdentity contains the definition of configuration parameters used by the identity component.
type ParametersIdentity struct {
	// Seed defines the seed of the node's private key.
	Seed string `usage:"private key seed used to derive the node identity; optional hex encoded 256-bit string"`
	// OverwriteStoredSeed defines whether the seed stored in an existing database should be overwritten.
	OverwriteStoredSeed bool `default:"false" usage:"whether to overwrite the seed if an existing database contains one"`
}

// ParamsIdentity contains the configuration used by the identity component.
var ParamsIdentity = &ParametersIdentity{}

var params = &app.ComponentParams{
	Params: map[string]any{
		"node": ParamsIdentity,
	},
	Masked: []string{"node.seed"},
}
