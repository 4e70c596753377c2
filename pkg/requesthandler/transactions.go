package requesthandler

import (
	"context"

	"github.com/labstack/echo/v4"

	"github.com/iotaledger/collection-pricing/pkg/engine"
	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/restapi"
	"github.com/iotaledger/collection-pricing/pkg/retainer/eventretainer"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/lo"
	"github.com/iotaledger/inx-app/pkg/httpserver"
	"github.com/iotaledger/iota.go/v4/hexutil"
)

// SubmitTransaction executes the hex encoded transaction of the request. Transactions that were authenticated get a
// receipt, even if their execution failed.
func (r *RequestHandler) SubmitTransaction(ctx context.Context, request *restapi.SubmitTransactionRequest) (*restapi.ReceiptResponse, error) {
	txBytes, err := hexutil.DecodeHex(request.Transaction)
	if err != nil {
		return nil, ierrors.WithMessagef(httpserver.ErrInvalidParameter, "invalid transaction, error: %s", err)
	}

	tx, _, err := model.TransactionFromBytes(txBytes)
	if err != nil {
		return nil, ierrors.WithMessagef(httpserver.ErrInvalidParameter, "invalid transaction, error: %s", err)
	}

	receipt, err := r.engine.Execute(ctx, tx)
	if receipt == nil {
		switch {
		case ierrors.Is(err, engine.ErrEngineShutdown), ierrors.Is(err, context.Canceled), ierrors.Is(err, context.DeadlineExceeded):
			return nil, ierrors.WithMessagef(echo.ErrServiceUnavailable, "failed to execute transaction: %s", err)
		case ierrors.Is(err, engine.ErrTransactionAlreadyExecuted):
			return nil, ierrors.WithMessagef(echo.ErrConflict, "transaction rejected: %s", err)
		default:
			return nil, ierrors.WithMessagef(echo.ErrBadRequest, "transaction rejected: %s", err)
		}
	}

	return receiptResponse(receipt), nil
}

// Receipt returns the retained receipt of the transaction.
func (r *RequestHandler) Receipt(transactionID model.TransactionID) (*restapi.ReceiptResponse, error) {
	record, err := r.retainer.Receipt(transactionID)
	if err != nil {
		if ierrors.Is(err, eventretainer.ErrEntryNotFound) {
			return nil, ierrors.WithMessagef(echo.ErrNotFound, "receipt of transaction %s not found", transactionID.ToHex())
		}

		return nil, ierrors.Wrapf(echo.ErrInternalServerError, "failed to retrieve receipt of transaction %s: %s", transactionID.ToHex(), err)
	}

	resp := &restapi.ReceiptResponse{
		TransactionID: transactionID.ToHex(),
		Timestamp:     record.Timestamp,
		Committed:     record.Committed,
		EventCount:    record.EventCount,
	}

	if len(record.ReturnData) > 0 {
		resp.ReturnData = hexutil.EncodeHex(record.ReturnData)
	}

	if record.ErrorMsg != nil {
		resp.Error = *record.ErrorMsg
	}

	return resp, nil
}

// EventsByTransactionID returns the committed events of the transaction.
func (r *RequestHandler) EventsByTransactionID(transactionID model.TransactionID) (*restapi.EventsResponse, error) {
	events, err := r.retainer.EventsByTransactionID(transactionID)
	if err != nil {
		return nil, ierrors.Wrapf(echo.ErrInternalServerError, "failed to retrieve events of transaction %s: %s", transactionID.ToHex(), err)
	}

	return &restapi.EventsResponse{
		Events:   r.eventResponses(events),
		PageSize: len(events),
	}, nil
}

func receiptResponse(receipt *engine.Receipt) *restapi.ReceiptResponse {
	resp := &restapi.ReceiptResponse{
		TransactionID: receipt.TransactionID.ToHex(),
		Timestamp:     receipt.Timestamp.Unix(),
		Signers: lo.Map(receipt.Signers, func(signer model.Identity) string {
			return signer.String()
		}),
		Committed:  receipt.Committed,
		EventCount: uint32(len(receipt.Events)),
	}

	if len(receipt.ReturnData) > 0 {
		resp.ReturnData = hexutil.EncodeHex(receipt.ReturnData)
	}

	if receipt.Err != nil {
		resp.Error = receipt.Err.Error()
	}

	return resp
}
