package identity

import (
	"go.uber.org/dig"

	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/storage"
	"github.com/iotaledger/hive.go/app"
	"github.com/iotaledger/hive.go/crypto/ed25519"
)

func init() {
	Component = &app.Component{
		Name:    "Identity",
		Params:  params,
		Provide: provide,
	}
}

var Component *app.Component

func provide(c *dig.Container) error {
	type identityOut struct {
		dig.Out
		NodePrivateKey ed25519.PrivateKey `name:"nodePrivateKey"`
		NodeID         model.Identity     `name:"nodeID"`
	}

	return c.Provide(func(s *storage.Storage) identityOut {
		seed, generated, err := loadSeed(s.Settings())
		if err != nil {
			Component.LogFatal(err.Error())
		}

		privateKey := ed25519.PrivateKeyFromSeed(seed)
		if generated {
			Component.LogInfof("Generated new node identity: %s", nodeID(privateKey))
		} else {
			Component.LogInfof("Initialized node identity: %s", nodeID(privateKey))
		}

		return identityOut{
			NodePrivateKey: privateKey,
			NodeID:         nodeID(privateKey),
		}
	})
}
