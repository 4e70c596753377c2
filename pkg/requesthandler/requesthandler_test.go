package requesthandler_test

import (
	"context"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/programs/compression"
	"github.com/iotaledger/collection-pricing/pkg/programs/pricemanager"
	"github.com/iotaledger/collection-pricing/pkg/requesthandler"
	"github.com/iotaledger/collection-pricing/pkg/restapi"
	"github.com/iotaledger/collection-pricing/pkg/retainer/eventretainer"
	"github.com/iotaledger/collection-pricing/pkg/testsuite"
	"github.com/iotaledger/collection-pricing/pkg/testsuite/mock"
	"github.com/iotaledger/hive.go/lo"
	"github.com/iotaledger/hive.go/log"
	"github.com/iotaledger/inx-app/pkg/httpserver"
	"github.com/iotaledger/iota.go/v4/hexutil"
)

type testFramework struct {
	*testsuite.TestSuite

	Program        *pricemanager.Program
	Retainer       *eventretainer.EventRetainer
	RequestHandler *requesthandler.RequestHandler

	test *testing.T
}

func newTestFramework(t *testing.T) *testFramework {
	tf := &testFramework{
		TestSuite: testsuite.NewTestSuite(t),
		Program:   pricemanager.New(),
		test:      t,
	}
	tf.RegisterPrograms(tf.Program, compression.New())

	tf.Retainer = lo.PanicOnErr(eventretainer.NewForEngine(log.NewLogger(), tf.Engine, func(err error) {
		require.NoError(t, err)
	}))
	t.Cleanup(tf.Retainer.Shutdown)

	tf.RequestHandler = requesthandler.New(tf.Engine, tf.Retainer, tf.Program, requesthandler.WithAddressCacheSize(1024*1024))
	t.Cleanup(tf.RequestHandler.Shutdown)

	return tf
}

// submit encodes and submits a transaction with the instruction through the request handler.
func (tf *testFramework) submit(instruction pricemanager.Instruction, signers ...*mock.Wallet) *restapi.ReceiptResponse {
	tx := tf.Transaction([]*model.Instruction{lo.PanicOnErr(pricemanager.NewInstruction(tf.Program.ID(), instruction))}, signers...)

	resp, err := tf.RequestHandler.SubmitTransaction(context.Background(), &restapi.SubmitTransactionRequest{
		Transaction: hexutil.EncodeHex(lo.PanicOnErr(tx.Bytes())),
	})
	require.NoError(tf.test, err)

	return resp
}

func TestRequestHandler_Collections(t *testing.T) {
	tf := newTestFramework(t)

	owner := tf.Wallet("owner")
	collection := tf.Wallet("collection").Identity()
	paymentMint := model.Identity{0xaa}

	_, err := tf.RequestHandler.Collection(collection)
	require.ErrorIs(t, err, echo.ErrNotFound)

	_, err = tf.RequestHandler.Prices(context.Background(), collection)
	require.ErrorIs(t, err, echo.ErrNotFound)

	addressesBefore, err := tf.RequestHandler.CollectionAddresses(collection)
	require.NoError(t, err)
	require.Empty(t, addressesBefore.Tree)
	require.Nil(t, addressesBefore.TreeIndex)

	registryAddress, bump, err := pricemanager.RegistryAddress(collection, tf.Program.ID())
	require.NoError(t, err)
	require.Equal(t, registryAddress.String(), addressesBefore.Registry.Address)
	require.Equal(t, bump, addressesBefore.Registry.Bump)

	created := tf.submit(&pricemanager.Create{
		Owner:       owner.Identity(),
		Collection:  collection,
		PaymentMint: paymentMint,
		Size:        2,
		Prices:      []uint64{10, 20},
	}, owner)
	require.True(t, created.Committed)
	require.EqualValues(t, 1, created.EventCount)
	require.Contains(t, created.Signers, owner.Identity().String())

	registry, err := tf.RequestHandler.Collection(collection)
	require.NoError(t, err)
	require.Equal(t, &restapi.CollectionResponse{
		Collection:  collection.String(),
		Registry:    registryAddress.String(),
		Owner:       owner.Identity().String(),
		PaymentMint: paymentMint.String(),
		Size:        2,
		Prices:      []uint64{10, 20},
		Bump:        bump,
	}, registry)

	prices, err := tf.RequestHandler.Prices(context.Background(), collection)
	require.NoError(t, err)
	require.Equal(t, &restapi.PricesResponse{
		Size:        2,
		PaymentMint: paymentMint.String(),
		Prices:      []uint64{10, 20},
	}, prices)

	treeCreated := tf.submit(&pricemanager.CreateTree{Collection: collection, MaxDepth: 14, MaxBufferSize: 64}, owner)
	require.True(t, treeCreated.Committed, treeCreated.Error)

	registry, err = tf.RequestHandler.Collection(collection)
	require.NoError(t, err)
	require.Equal(t, addressesBefore.NextTree.Address, registry.Tree)

	addresses, err := tf.RequestHandler.CollectionAddresses(collection)
	require.NoError(t, err)
	require.Equal(t, registry.Tree, addresses.Tree)
	require.NotNil(t, addresses.TreeIndex)
	require.NotNil(t, addresses.TreeConfig)
	require.NotEqual(t, addressesBefore.NextTree, addresses.NextTree)

	// served from the cache
	cached, err := tf.RequestHandler.CollectionAddresses(collection)
	require.NoError(t, err)
	require.Equal(t, addresses, cached)
}

func TestRequestHandler_TransactionsAndEvents(t *testing.T) {
	tf := newTestFramework(t)

	owner := tf.Wallet("owner")
	collection := tf.Wallet("collection").Identity()

	created := tf.submit(&pricemanager.Create{
		Owner:       owner.Identity(),
		Collection:  collection,
		PaymentMint: model.Identity{0xaa},
		Size:        1,
		Prices:      []uint64{10},
	}, owner)
	require.True(t, created.Committed)

	tf.AdvanceTime(time.Minute)
	require.True(t, tf.submit(&pricemanager.Update{Collection: collection, Prices: []uint64{11}}, owner).Committed)

	tf.AdvanceTime(time.Minute)
	require.True(t, tf.submit(&pricemanager.Update{Collection: collection, Prices: []uint64{12}}, owner).Committed)

	rejected := tf.submit(&pricemanager.Update{Collection: collection, Prices: []uint64{1}})
	require.False(t, rejected.Committed)
	require.Contains(t, rejected.Error, pricemanager.ErrUnauthorized.Error())

	tf.Retainer.WaitIdle()

	t.Run("InvalidSubmissions", func(t *testing.T) {
		_, err := tf.RequestHandler.SubmitTransaction(context.Background(), &restapi.SubmitTransactionRequest{Transaction: "0xzz"})
		require.ErrorIs(t, err, httpserver.ErrInvalidParameter)

		_, err = tf.RequestHandler.SubmitTransaction(context.Background(), &restapi.SubmitTransactionRequest{Transaction: "0x0102"})
		require.ErrorIs(t, err, httpserver.ErrInvalidParameter)

		empty := model.NewTransaction(42)
		_, err = tf.RequestHandler.SubmitTransaction(context.Background(), &restapi.SubmitTransactionRequest{
			Transaction: hexutil.EncodeHex(lo.PanicOnErr(empty.Bytes())),
		})
		require.ErrorIs(t, err, echo.ErrBadRequest)
	})

	t.Run("ReplayedSubmission", func(t *testing.T) {
		tx := tf.Transaction([]*model.Instruction{lo.PanicOnErr(pricemanager.NewInstruction(tf.Program.ID(), &pricemanager.Read{Collection: collection}))})
		request := &restapi.SubmitTransactionRequest{Transaction: hexutil.EncodeHex(lo.PanicOnErr(tx.Bytes()))}

		resp, err := tf.RequestHandler.SubmitTransaction(context.Background(), request)
		require.NoError(t, err)
		require.True(t, resp.Committed)

		_, err = tf.RequestHandler.SubmitTransaction(context.Background(), request)
		require.ErrorIs(t, err, echo.ErrConflict)
	})

	t.Run("Receipts", func(t *testing.T) {
		receipt, err := tf.RequestHandler.Receipt(lo.PanicOnErr(model.TransactionIDFromHexString(created.TransactionID)))
		require.NoError(t, err)
		require.True(t, receipt.Committed)
		require.Equal(t, created.Timestamp, receipt.Timestamp)
		require.Empty(t, receipt.Error)

		receipt, err = tf.RequestHandler.Receipt(lo.PanicOnErr(model.TransactionIDFromHexString(rejected.TransactionID)))
		require.NoError(t, err)
		require.False(t, receipt.Committed)
		require.NotEmpty(t, receipt.Error)

		_, err = tf.RequestHandler.Receipt(model.TransactionID{0xff})
		require.ErrorIs(t, err, echo.ErrNotFound)
	})

	t.Run("EventsByTransactionID", func(t *testing.T) {
		events, err := tf.RequestHandler.EventsByTransactionID(lo.PanicOnErr(model.TransactionIDFromHexString(created.TransactionID)))
		require.NoError(t, err)
		require.Len(t, events.Events, 1)
		require.Equal(t, string(pricemanager.EventRegistryCreated), events.Events[0].Kind)
		require.Equal(t, owner.Identity().String(), events.Events[0].Owner)
	})

	t.Run("EventsByCollection", func(t *testing.T) {
		page, err := tf.RequestHandler.EventsByCollection(collection, 0, 2)
		require.NoError(t, err)
		require.Len(t, page.Events, 2)
		require.NotNil(t, page.Cursor)
		require.Equal(t, string(pricemanager.EventRegistryCreated), page.Events[0].Kind)
		require.Equal(t, string(pricemanager.EventPricesUpdated), page.Events[1].Kind)

		lastPage, err := tf.RequestHandler.EventsByCollection(collection, *page.Cursor, 2)
		require.NoError(t, err)
		require.Len(t, lastPage.Events, 1)
		require.Nil(t, lastPage.Cursor)
		require.Equal(t, collection.String(), lastPage.Events[0].Topic)
		require.Greater(t, lastPage.Events[0].Timestamp, page.Events[1].Timestamp)

		_, err = tf.RequestHandler.EventsByCollection(collection, 0, eventretainer.DefaultMaxEventsPerQuery)
		require.ErrorIs(t, err, echo.ErrBadRequest)
	})

	t.Run("PruneFailedReceipts", func(t *testing.T) {
		_, err := tf.RequestHandler.PruneFailedReceipts(&restapi.PruneReceiptsRequest{Age: "yesterday"})
		require.ErrorIs(t, err, httpserver.ErrInvalidParameter)

		// the clock of the suite lies in the past
		_, err = tf.RequestHandler.PruneFailedReceipts(&restapi.PruneReceiptsRequest{Age: "1h"})
		require.NoError(t, err)

		_, err = tf.RequestHandler.Receipt(lo.PanicOnErr(model.TransactionIDFromHexString(rejected.TransactionID)))
		require.ErrorIs(t, err, echo.ErrNotFound)

		_, err = tf.RequestHandler.Receipt(lo.PanicOnErr(model.TransactionIDFromHexString(created.TransactionID)))
		require.NoError(t, err)
	})

	t.Run("Info", func(t *testing.T) {
		info := tf.RequestHandler.Info("collection-pricing", "v1.0.0", "node")
		require.Equal(t, "node", info.NodeID)
		require.Len(t, info.Programs, 2)
		require.EqualValues(t, 4, info.Metrics.ExecutedTransactions)
		require.EqualValues(t, 1, info.Metrics.FailedTransactions)
		require.Equal(t, pricemanager.DefaultPriceCeiling, info.PriceCeiling)

		sizes := tf.RequestHandler.DatabaseSizes()
		require.NotEmpty(t, sizes.Total)
	})
}
