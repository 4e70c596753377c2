package toolset

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/collection-pricing/pkg/programs/pricemanager"
	"github.com/iotaledger/collection-pricing/pkg/restapi"
	"github.com/iotaledger/hive.go/app/configuration"
	"github.com/iotaledger/hive.go/ierrors"
)

func deriveAddresses(args []string) error {
	fs := configuration.NewUnsortedFlagSet("", flag.ContinueOnError)
	collectionFlag := fs.String(FlagToolCollection, "", "the base58 encoded collection mint")
	currentTreeFlag := fs.String(FlagToolCurrentTree, "", "the base58 encoded current tree of the collection (optional)")
	programIDFlag := fs.String(FlagToolProgramID, DefaultValueProgramID, "the identity of the price manager program")
	treeProgramIDFlag := fs.String(FlagToolTreeProgramID, DefaultValueTreeProgramID, "the identity of the tree program")
	outputJSONFlag := fs.Bool(FlagToolOutputJSON, false, FlagToolDescriptionOutputJSON)

	fs.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage of %s:\n", ToolDeriveAddresses)
		fs.PrintDefaults()
		println(fmt.Sprintf("\nexample: %s --%s %s",
			ToolDeriveAddresses,
			FlagToolCollection,
			"[COLLECTION]"))
	}

	if err := parseFlagSet(fs, args); err != nil {
		return err
	}

	parse := func(flagName string, value string) (model.Identity, error) {
		if len(value) == 0 {
			return model.EmptyIdentity, ierrors.Errorf("'%s' not specified", flagName)
		}

		id, err := model.IdentityFromBase58(value)
		if err != nil {
			return model.EmptyIdentity, ierrors.Wrapf(err, "can't decode '%s'", flagName)
		}

		return id, nil
	}

	collection, err := parse(FlagToolCollection, *collectionFlag)
	if err != nil {
		return err
	}

	programID, err := parse(FlagToolProgramID, *programIDFlag)
	if err != nil {
		return err
	}

	treeProgramID, err := parse(FlagToolTreeProgramID, *treeProgramIDFlag)
	if err != nil {
		return err
	}

	currentTree := model.EmptyIdentity
	if len(*currentTreeFlag) != 0 {
		if currentTree, err = parse(FlagToolCurrentTree, *currentTreeFlag); err != nil {
			return err
		}
	}

	addresses, err := pricemanager.DeriveCollectionAddresses(collection, currentTree, programID, treeProgramID)
	if err != nil {
		return ierrors.Wrap(err, "deriving the collection addresses failed")
	}

	if *outputJSONFlag {
		return printJSON(restapi.NewCollectionAddressesResponse(addresses))
	}

	fmt.Println(addresses)

	return nil
}
