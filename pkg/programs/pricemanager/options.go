package pricemanager

import (
	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/hive.go/runtime/options"
)

// WithProgramID sets the identity the program is deployed under. It is part of every derived address.
func WithProgramID(programID model.Identity) options.Option[Program] {
	return func(p *Program) {
		p.optsProgramID = programID
	}
}

// WithTreeProgramID sets the identity of the tree program that trees are created with.
func WithTreeProgramID(treeProgramID model.Identity) options.Option[Program] {
	return func(p *Program) {
		p.optsTreeProgramID = treeProgramID
	}
}

// WithPriceCeiling sets the exclusive upper bound of prices.
func WithPriceCeiling(priceCeiling uint64) options.Option[Program] {
	return func(p *Program) {
		p.optsPriceCeiling = priceCeiling
	}
}

// WithBoundsCheckOnCreate enables the price bounds check for the initial prices of a registry.
func WithBoundsCheckOnCreate(enabled bool) options.Option[Program] {
	return func(p *Program) {
		p.optsBoundsCheckOnCreate = enabled
	}
}
