package compression

import (
	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/hive.go/runtime/options"
)

func WithProgramID(programID model.Identity) options.Option[Program] {
	return func(p *Program) {
		p.optsProgramID = programID
	}
}
