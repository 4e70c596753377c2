package requesthandler

import (
	"github.com/iotaledger/collection-pricing/pkg/engine"
	"github.com/iotaledger/collection-pricing/pkg/programs/pricemanager"
	"github.com/iotaledger/collection-pricing/pkg/requesthandler/cache"
	"github.com/iotaledger/collection-pricing/pkg/retainer/eventretainer"
	"github.com/iotaledger/hive.go/runtime/options"
)

// RequestHandler contains the logic to handle api requests.
type RequestHandler struct {
	engine       *engine.Engine
	retainer     *eventretainer.EventRetainer
	priceManager *pricemanager.Program

	addressCache *cache.Cache

	optsAddressCacheSize int
}

func New(e *engine.Engine, retainer *eventretainer.EventRetainer, priceManager *pricemanager.Program, opts ...options.Option[RequestHandler]) *RequestHandler {
	return options.Apply(&RequestHandler{
		engine:               e,
		retainer:             retainer,
		priceManager:         priceManager,
		optsAddressCacheSize: 8 * 1024 * 1024,
	}, opts, func(r *RequestHandler) {
		r.addressCache = cache.NewCache(r.optsAddressCacheSize)
	})
}

// WithAddressCacheSize sets the maximum size in bytes of the cache for derived collection addresses.
func WithAddressCacheSize(size int) options.Option[RequestHandler] {
	return func(r *RequestHandler) {
		r.optsAddressCacheSize = size
	}
}

// Shutdown releases the caches of the request handler.
func (r *RequestHandler) Shutdown() {
	r.addressCache.Reset()
}
