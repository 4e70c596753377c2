package toolset

import (
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/iotaledger/collection-pricing/pkg/jwt"
	"github.com/iotaledger/collection-pricing/pkg/model"
	"github.com/iotaledger/hive.go/app/configuration"
	"github.com/iotaledger/hive.go/crypto/ed25519"
	"github.com/iotaledger/hive.go/ierrors"
)

func generateJWTApiToken(args []string) error {
	fs := configuration.NewUnsortedFlagSet("", flag.ContinueOnError)
	databasePathFlag := fs.String(FlagToolDatabasePath, DefaultValueDatabasePath, "the path to the database folder")
	databaseEngineFlag := fs.String(FlagToolDatabaseEngine, DefaultValueDatabaseEngine, "the engine of the database (rocksdb/mapdb)")
	apiJWTSaltFlag := fs.String(FlagToolSalt, DefaultValueAPIJWTTokenSalt, "salt used inside the JWT tokens for the REST API")
	outputJSONFlag := fs.Bool(FlagToolOutputJSON, false, FlagToolDescriptionOutputJSON)

	fs.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage of %s:\n", ToolJWTApi)
		fs.PrintDefaults()
		println(fmt.Sprintf("\nexample: %s --%s %s --%s %s",
			ToolJWTApi,
			FlagToolDatabasePath,
			DefaultValueDatabasePath,
			FlagToolSalt,
			DefaultValueAPIJWTTokenSalt))
	}

	if err := parseFlagSet(fs, args); err != nil {
		return err
	}

	if len(*databasePathFlag) == 0 {
		return ierrors.Errorf("'%s' not specified", FlagToolDatabasePath)
	}
	if len(*apiJWTSaltFlag) == 0 {
		return ierrors.Errorf("'%s' not specified", FlagToolSalt)
	}

	seed, err := readNodeSeed(*databasePathFlag, *databaseEngineFlag)
	if err != nil {
		return ierrors.Wrap(err, "reading the node identity failed")
	}

	privateKey := ed25519.PrivateKeyFromSeed(seed)

	// API tokens do not expire.
	jwtAuth, err := jwt.NewAuth(*apiJWTSaltFlag,
		0,
		model.IdentityFromPublicKey(privateKey.Public()).String(),
		privateKey,
	)
	if err != nil {
		return ierrors.Wrap(err, "JWT auth initialization failed")
	}

	jwtToken, err := jwtAuth.IssueJWT()
	if err != nil {
		return ierrors.Wrap(err, "issuing JWT token failed")
	}

	if *outputJSONFlag {
		result := struct {
			JWT string `json:"jwt"`
		}{
			JWT: jwtToken,
		}

		return printJSON(result)
	}

	fmt.Println("Your API JWT token: ", jwtToken)

	return nil
}
