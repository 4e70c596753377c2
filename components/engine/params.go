package engine

import (
	"github.com/iotaledger/hive.go/app"
)

// ParametersEngine contains the definition of the parameters used by the engine and the deployed programs.
type ParametersEngine struct {
	// MaxCallDepth defines how deep programs can invoke each other.
	MaxCallDepth int `default:"4" usage:"the maximum depth of nested program invocations"`
	// MaxEventsPerTransaction defines how many events a single transaction can emit.
	MaxEventsPerTransaction int `default:"64" usage:"the maximum number of events a single transaction can emit"`

	PriceManager struct {
		// ProgramID is the base58 encoded identity the price manager is deployed under.
		ProgramID string `default:"FV2936jpAPgHkguQeefLpMJm6hJdcmHLy2pDCNTb13Xv" usage:"the identity of the price manager program"`
		// PriceCeiling is the exclusive upper bound of prices.
		PriceCeiling uint64 `default:"1000000000000000" usage:"the exclusive upper bound of prices in the smallest unit of the payment mint"`
		// BoundsCheckOnCreate defines whether the price bounds are also checked when a registry is created.
		BoundsCheckOnCreate bool `default:"false" usage:"whether prices are bounds checked on registry creation as well"`
	}

	Compression struct {
		// ProgramID is the base58 encoded identity the tree program is deployed under.
		ProgramID string `default:"BGUMAp9Gq7iTEuizy4pqaxsTyUCBK68MDfK752saRPUY" usage:"the identity of the tree program"`
	}
}

// ParametersDatabase contains the definition of configuration parameters used by the storage layer.
type ParametersDatabase struct {
	// Engine defines the used database engine (rocksdb/mapdb).
	Engine string `default:"rocksdb" usage:"the used database engine (rocksdb/mapdb)"`
	// Path defines the path to the database folder.
	Path string `default:"testnet/database" usage:"the path to the database folder"`
	// AccountCacheSize defines how many decoded accounts are kept in memory.
	AccountCacheSize int `default:"10000" usage:"the number of decoded accounts that are kept in memory"`

	Retainer struct {
		// StoreErrorMessages defines whether the error messages of failed transactions are retained.
		StoreErrorMessages bool `default:"true" usage:"whether to store the error messages of failed transactions"`
		// MaxEventsPerQuery defines the maximum number of events returned by a single query.
		MaxEventsPerQuery int `default:"1000" usage:"the maximum number of events returned by a single query"`
	}
}

// ParamsEngine contains the configuration parameters used by the engine.
var ParamsEngine = &ParametersEngine{}

// ParamsDatabase contains configuration parameters used by Database.
var ParamsDatabase = &ParametersDatabase{}

var params = &app.ComponentParams{
	Params: map[string]any{
		"engine":   ParamsEngine,
		"database": ParamsDatabase,
	},
}
