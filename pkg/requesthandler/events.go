package requesthandler

import (
	"github.com/labstack/echo/v4"

	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/programs/pricemanager"
	"github.com/iotaledger/collection-pricing/pkg/restapi"
	"github.com/iotaledger/collection-pricing/pkg/retainer/eventretainer"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/iota.go/v4/hexutil"
)

// EventsByCollection returns a page of the events published for the collection, starting at the event index cursor.
func (r *RequestHandler) EventsByCollection(collection model.Identity, cursor uint64, pageSize int) (*restapi.EventsResponse, error) {
	// one more event than requested tells whether there is a next page
	events, err := r.retainer.EventsByTopic(collection, cursor, pageSize+1)
	if err != nil {
		if ierrors.Is(err, eventretainer.ErrInvalidQuery) {
			return nil, ierrors.WithMessagef(echo.ErrBadRequest, "invalid events query: %s", err)
		}

		return nil, ierrors.Wrapf(echo.ErrInternalServerError, "failed to retrieve events of collection %s: %s", collection, err)
	}

	resp := &restapi.EventsResponse{
		PageSize: pageSize,
	}

	if len(events) > pageSize {
		nextCursor := events[pageSize].Index
		resp.Cursor = &nextCursor
		events = events[:pageSize]
	}

	resp.Events = r.eventResponses(events)

	return resp, nil
}

func (r *RequestHandler) eventResponses(events []*model.Event) []*restapi.EventResponse {
	responses := make([]*restapi.EventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, r.eventResponse(event))
	}

	return responses
}

func (r *RequestHandler) eventResponse(event *model.Event) *restapi.EventResponse {
	resp := &restapi.EventResponse{
		Index:         event.Index,
		TransactionID: event.TransactionID.ToHex(),
		ProgramID:     event.ProgramID.String(),
		Topic:         event.Topic.String(),
		Data:          hexutil.EncodeHex(event.Data),
	}

	if event.ProgramID != r.priceManager.ID() {
		return resp
	}

	// events of the price manager are decoded, undecodable ones are returned raw
	if priceEvent, err := pricemanager.EventFromBytes(event.Data); err == nil {
		resp.Kind = string(priceEvent.Kind)
		resp.Collection = priceEvent.Collection.String()
		resp.Owner = priceEvent.Owner.String()
		resp.Timestamp = priceEvent.Timestamp

		if !priceEvent.TreeAddress.Empty() {
			resp.Tree = priceEvent.TreeAddress.String()
		}
	}

	return resp
}
