package permanent

import (
	"github.com/iotaledger/hive.go/runtime/options"
)

// WithAccountCacheSize sets the number of decoded accounts that are kept in memory.
func WithAccountCacheSize(size int) options.Option[Permanent] {
	return func(p *Permanent) {
		p.optsAccountCacheSize = size
	}
}
