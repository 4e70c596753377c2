package restapi

import (
	"github.com/iotaledger/collection-pricing/pkg/programs/pricemanager"
)

type (
	// InfoResponse defines the response of a GET info REST API call.
	InfoResponse struct {
		// The name of the node software.
		Name string `json:"name"`
		// The version of the node software.
		Version string `json:"version"`
		// The identity the API tokens of the node are issued for.
		NodeID string `json:"nodeId"`
		// The programs deployed on the node.
		Programs []*ProgramResponse `json:"programs"`
		// The highest accepted price of the price manager.
		PriceCeiling uint64 `json:"priceCeiling,string"`
		// The metrics of the engine.
		Metrics *EngineMetricsResponse `json:"metrics"`
	}

	// ProgramResponse describes a deployed program.
	ProgramResponse struct {
		Name      string `json:"name"`
		ProgramID string `json:"programId"`
	}

	// EngineMetricsResponse defines the engine metrics returned by the info REST API call.
	EngineMetricsResponse struct {
		ExecutedTransactions uint64 `json:"executedTransactions"`
		FailedTransactions   uint64 `json:"failedTransactions"`
		LockedAccounts       int    `json:"lockedAccounts"`
	}

	// CollectionResponse defines the response of a GET collection REST API call.
	CollectionResponse struct {
		// The collection the registry belongs to.
		Collection string `json:"collection"`
		// The address of the price registry.
		Registry string `json:"registry"`
		// The owner that is allowed to update the prices.
		Owner string `json:"owner"`
		// The mint in which prices are denominated.
		PaymentMint string `json:"paymentMint"`
		// The number of prices of the collection.
		Size uint16 `json:"size"`
		// The prices of the collection.
		Prices []uint64 `json:"prices"`
		// The tree the collection currently mints into.
		Tree string `json:"tree,omitempty"`
		// The bump of the registry address.
		Bump uint8 `json:"bump"`
	}

	// PricesResponse defines the response of a GET prices REST API call.
	PricesResponse struct {
		Size        uint16   `json:"size"`
		PaymentMint string   `json:"paymentMint"`
		Prices      []uint64 `json:"prices"`
	}

	// DerivedAddressResponse is a program derived address together with its bump.
	DerivedAddressResponse struct {
		Address string `json:"address"`
		Bump    uint8  `json:"bump"`
	}

	// CollectionAddressesResponse defines the response of a GET collection addresses REST API call.
	CollectionAddressesResponse struct {
		Collection    string                  `json:"collection"`
		Registry      *DerivedAddressResponse `json:"registry"`
		MintAuthority *DerivedAddressResponse `json:"mintAuthority"`
		NextTree      *DerivedAddressResponse `json:"nextTree"`
		Tree          string                  `json:"tree,omitempty"`
		TreeIndex     *DerivedAddressResponse `json:"treeIndex,omitempty"`
		TreeConfig    *DerivedAddressResponse `json:"treeConfig,omitempty"`
	}

	// EventResponse describes an event of the ledger's event log.
	EventResponse struct {
		Index         uint64 `json:"index"`
		TransactionID string `json:"transactionId"`
		ProgramID     string `json:"programId"`
		Topic         string `json:"topic"`
		// Kind, Collection, Owner, Timestamp and Tree are only set for events of the price manager.
		Kind       string `json:"kind,omitempty"`
		Collection string `json:"collection,omitempty"`
		Owner      string `json:"owner,omitempty"`
		Timestamp  int64  `json:"timestamp,omitempty"`
		Tree       string `json:"tree,omitempty"`
		// The raw data of the event, hex encoded.
		Data string `json:"data"`
	}

	// EventsResponse defines the response of a GET events REST API call.
	EventsResponse struct {
		Events   []*EventResponse `json:"events"`
		PageSize int              `json:"pageSize"`
		// Cursor is the cursor of the next page. It is omitted on the last page.
		Cursor *uint64 `json:"cursor,omitempty"`
	}

	// SubmitTransactionRequest defines the request of a POST transactions REST API call.
	SubmitTransactionRequest struct {
		// The serialized signed transaction, hex encoded.
		Transaction string `json:"transaction"`
	}

	// ReceiptResponse describes the outcome of a transaction.
	ReceiptResponse struct {
		TransactionID string   `json:"transactionId"`
		Timestamp     int64    `json:"timestamp"`
		Signers       []string `json:"signers,omitempty"`
		Committed     bool     `json:"committed"`
		EventCount    uint32   `json:"eventCount"`
		// The return data of the last executed instruction, hex encoded.
		ReturnData string `json:"returnData,omitempty"`
		Error      string `json:"error,omitempty"`
	}

	// DatabaseSizesResponse defines the response of a GET database sizes REST API call.
	DatabaseSizesResponse struct {
		Permanent string `json:"permanent"`
		Retainer  string `json:"retainer"`
		Total     string `json:"total"`
	}

	// PruneReceiptsRequest defines the request of a POST prune receipts REST API call.
	PruneReceiptsRequest struct {
		// Age is the minimum age of the failed receipts that are pruned, e.g. "24h".
		Age string `json:"age"`
	}

	// PruneReceiptsResponse defines the response of a POST prune receipts REST API call.
	PruneReceiptsResponse struct {
		// Before is the unix timestamp before which failed receipts were pruned.
		Before int64 `json:"before"`
	}

	// RoutesResponse defines the response of a GET routes REST API call.
	RoutesResponse struct {
		Routes []string `json:"routes"`
	}
)

// NewCollectionAddressesResponse converts derived collection addresses to their API representation.
func NewCollectionAddressesResponse(addresses *pricemanager.CollectionAddresses) *CollectionAddressesResponse {
	resp := &CollectionAddressesResponse{
		Collection:    addresses.Collection.String(),
		Registry:      newDerivedAddressResponse(&addresses.Registry),
		MintAuthority: newDerivedAddressResponse(&addresses.MintAuthority),
		NextTree:      newDerivedAddressResponse(&addresses.NextTree),
	}

	if addresses.TreeIndex != nil {
		resp.Tree = addresses.Tree.String()
		resp.TreeIndex = newDerivedAddressResponse(addresses.TreeIndex)
		resp.TreeConfig = newDerivedAddressResponse(addresses.TreeConfig)
	}

	return resp
}

func newDerivedAddressResponse(address *pricemanager.DerivedAddress) *DerivedAddressResponse {
	return &DerivedAddressResponse{
		Address: address.Address.String(),
		Bump:    address.Bump,
	}
}
