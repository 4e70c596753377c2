package toolset

import (
	"crypto/rand"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/hive.go/app/configuration"
	"github.com/iotaledger/hive.go/crypto/ed25519"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/iota.go/v4/hexutil"
)

type keyInfo struct {
	Seed       string `json:"seed,omitempty"`
	PrivateKey string `json:"privateKey,omitempty"`
	PublicKey  string `json:"publicKey"`
	Identity   string `json:"identity"`
}

func newKeyInfo(seed []byte) keyInfo {
	privateKey := ed25519.PrivateKeyFromSeed(seed)
	publicKey := privateKey.Public()

	return keyInfo{
		Seed:       hexutil.EncodeHex(seed),
		PrivateKey: hexutil.EncodeHex(privateKey[:]),
		PublicKey:  hexutil.EncodeHex(publicKey[:]),
		Identity:   model.IdentityFromPublicKey(publicKey).String(),
	}
}

func printKeyInfo(info keyInfo, outputJSON bool) error {
	if outputJSON {
		return printJSON(info)
	}

	if info.Seed != "" {
		fmt.Println("Your ed25519 seed:        ", info.Seed)
	}

	if info.PrivateKey != "" {
		fmt.Println("Your ed25519 private key: ", info.PrivateKey)
	}

	fmt.Println("Your ed25519 public key:  ", info.PublicKey)
	fmt.Println("Your identity:            ", info.Identity)

	return nil
}

func generateEd25519Key(args []string) error {
	fs := configuration.NewUnsortedFlagSet("", flag.ContinueOnError)
	seedFlag := fs.String(FlagToolSeed, "", "the hex encoded seed the key pair is derived from (optional)")
	outputJSONFlag := fs.Bool(FlagToolOutputJSON, false, FlagToolDescriptionOutputJSON)

	fs.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage of %s:\n", ToolEd25519Key)
		fs.PrintDefaults()
		println(fmt.Sprintf("\nexample: %s --%s",
			ToolEd25519Key,
			FlagToolOutputJSON))
	}

	if err := parseFlagSet(fs, args); err != nil {
		return err
	}

	var seed []byte
	if len(*seedFlag) == 0 {
		seed = make([]byte, ed25519.SeedSize)
		if _, err := rand.Read(seed); err != nil {
			return ierrors.Wrap(err, "unable to generate seed")
		}
	} else {
		var err error
		if seed, err = hexutil.DecodeHex(*seedFlag); err != nil {
			return ierrors.Wrapf(err, "can't decode '%s'", FlagToolSeed)
		}

		if len(seed) != ed25519.SeedSize {
			return ierrors.Errorf("invalid '%s' length: %d, need %d", FlagToolSeed, len(seed), ed25519.SeedSize)
		}
	}

	return printKeyInfo(newKeyInfo(seed), *outputJSONFlag)
}

func nodeIdentity(args []string) error {
	fs := configuration.NewUnsortedFlagSet("", flag.ContinueOnError)
	databasePathFlag := fs.String(FlagToolDatabasePath, DefaultValueDatabasePath, "the path to the database folder")
	databaseEngineFlag := fs.String(FlagToolDatabaseEngine, DefaultValueDatabaseEngine, "the engine of the database (rocksdb/mapdb)")
	outputJSONFlag := fs.Bool(FlagToolOutputJSON, false, FlagToolDescriptionOutputJSON)

	fs.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage of %s:\n", ToolNodeIdentity)
		fs.PrintDefaults()
		println(fmt.Sprintf("\nexample: %s --%s %s",
			ToolNodeIdentity,
			FlagToolDatabasePath,
			DefaultValueDatabasePath))
	}

	if err := parseFlagSet(fs, args); err != nil {
		return err
	}

	if len(*databasePathFlag) == 0 {
		return ierrors.Errorf("'%s' not specified", FlagToolDatabasePath)
	}

	seed, err := readNodeSeed(*databasePathFlag, *databaseEngineFlag)
	if err != nil {
		return err
	}

	info := newKeyInfo(seed)
	info.Seed = ""
	info.PrivateKey = ""

	return printKeyInfo(info, *outputJSONFlag)
}
