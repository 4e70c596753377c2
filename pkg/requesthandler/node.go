package requesthandler

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/bytes"

	"github.com/iotaledger/collection-pricing/pkg/engine"
	"github.com/iotaledger/collection-pricing/pkg/restapi"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/inx-app/pkg/httpserver"
)

func (r *RequestHandler) Info(name string, version string, nodeID string) *restapi.InfoResponse {
	programs := r.engine.Programs()

	resp := &restapi.InfoResponse{
		Name:         name,
		Version:      version,
		NodeID:       nodeID,
		Programs:     make([]*restapi.ProgramResponse, 0, len(programs)),
		PriceCeiling: r.priceManager.PriceCeiling(),
		Metrics: &restapi.EngineMetricsResponse{
			ExecutedTransactions: r.engine.ExecutedTransactions(),
			FailedTransactions:   r.engine.FailedTransactions(),
			LockedAccounts:       r.engine.LockedAccounts(),
		},
	}

	for _, program := range programs {
		resp.Programs = append(resp.Programs, programResponse(program))
	}

	return resp
}

func programResponse(program engine.Program) *restapi.ProgramResponse {
	return &restapi.ProgramResponse{
		Name:      program.Name(),
		ProgramID: program.ID().String(),
	}
}

func (r *RequestHandler) DatabaseSizes() *restapi.DatabaseSizesResponse {
	s := r.engine.Storage()

	return &restapi.DatabaseSizesResponse{
		Permanent: bytes.Format(s.PermanentDatabaseSize()),
		Retainer:  bytes.Format(s.RetainerDatabaseSize()),
		Total:     bytes.Format(s.Size()),
	}
}

// PruneFailedReceipts removes the receipts of failed executions that are older than the age of the request.
func (r *RequestHandler) PruneFailedReceipts(request *restapi.PruneReceiptsRequest) (*restapi.PruneReceiptsResponse, error) {
	age, err := time.ParseDuration(request.Age)
	if err != nil || age < 0 {
		return nil, ierrors.WithMessagef(httpserver.ErrInvalidParameter, "invalid age: %q", request.Age)
	}

	before := time.Now().Add(-age).Unix()
	if err := r.retainer.PruneFailedReceipts(before); err != nil {
		return nil, ierrors.Wrapf(echo.ErrInternalServerError, "pruning receipts failed: %s", err)
	}

	return &restapi.PruneReceiptsResponse{
		Before: before,
	}, nil
}
