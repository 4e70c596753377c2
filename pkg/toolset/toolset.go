package toolset

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/iotaledger/collection-pricing/pkg/storage"
	"github.com/iotaledger/hive.go/db"
	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/log"
)

const (
	FlagToolDatabasePath   = "databasePath"
	FlagToolDatabaseEngine = "databaseEngine"

	FlagToolOutputPath = "outputPath"

	FlagToolSeed = "seed"
	FlagToolSalt = "salt"

	FlagToolCollection    = "collection"
	FlagToolCurrentTree   = "currentTree"
	FlagToolProgramID     = "programID"
	FlagToolTreeProgramID = "treeProgramID"

	FlagToolOutputJSON            = "json"
	FlagToolDescriptionOutputJSON = "format output as JSON"
)

const (
	ToolEd25519Key      = "ed25519-key"
	ToolNodeIdentity    = "node-identity"
	ToolJWTApi          = "jwt-api"
	ToolDeriveAddresses = "derive-addresses"
	ToolDatabaseBackup  = "db-backup"
)

const (
	DefaultValueAPIJWTTokenSalt = "COLLECTION-PRICING"
	DefaultValueDatabasePath    = "testnet/database"
	DefaultValueDatabaseEngine  = string(db.EngineRocksDB)
	DefaultValueProgramID       = "FV2936jpAPgHkguQeefLpMJm6hJdcmHLy2pDCNTb13Xv"
	DefaultValueTreeProgramID   = "BGUMAp9Gq7iTEuizy4pqaxsTyUCBK68MDfK752saRPUY"
)

// ShouldHandleTools checks if tools were requested.
func ShouldHandleTools() bool {
	args := os.Args[1:]

	for _, arg := range args {
		if strings.ToLower(arg) == "tool" || strings.ToLower(arg) == "tools" {
			return true
		}
	}

	return false
}

// HandleTools handles available tools.
func HandleTools() {
	args := os.Args[1:]
	if len(args) == 1 {
		listTools()
		os.Exit(1)
	}

	tools := map[string]func([]string) error{
		ToolEd25519Key:      generateEd25519Key,
		ToolNodeIdentity:    nodeIdentity,
		ToolJWTApi:          generateJWTApiToken,
		ToolDeriveAddresses: deriveAddresses,
		ToolDatabaseBackup:  backupDatabase,
	}

	tool, exists := tools[strings.ToLower(args[1])]
	if !exists {
		fmt.Print("tool not found.\n\n")
		listTools()
		os.Exit(1)
	}

	if err := tool(args[2:]); err != nil {
		if ierrors.Is(err, flag.ErrHelp) {
			// help text was requested
			os.Exit(0)
		}

		fmt.Printf("\nerror: %s\n", err)
		os.Exit(1)
	}

	os.Exit(0)
}

func listTools() {
	fmt.Printf("%-20s generates an ed25519 key pair and its identity\n", fmt.Sprintf("%s:", ToolEd25519Key))
	fmt.Printf("%-20s prints the node identity stored in the database\n", fmt.Sprintf("%s:", ToolNodeIdentity))
	fmt.Printf("%-20s generates a JWT token for REST-API access\n", fmt.Sprintf("%s:", ToolJWTApi))
	fmt.Printf("%-20s derives the program addresses of a collection\n", fmt.Sprintf("%s:", ToolDeriveAddresses))
	fmt.Printf("%-20s copies the database of a stopped node\n", fmt.Sprintf("%s:", ToolDatabaseBackup))
}

func parseFlagSet(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return err
	}

	// Check if all parameters were parsed
	if fs.NArg() != 0 {
		return ierrors.New("too much arguments")
	}

	return nil
}

func printJSON(obj interface{}) error {
	output, err := json.MarshalIndent(obj, "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(output))

	return nil
}

// readNodeSeed opens the storage of a stopped node and reads the seed of its identity.
func readNodeSeed(databasePath string, databaseEngine string) ([]byte, error) {
	if _, err := os.Stat(databasePath); err != nil {
		return nil, ierrors.Wrapf(err, "unable to access database (%s)", databasePath)
	}

	s, err := storage.Create(log.NewLogger(), databasePath, storage.DatabaseVersion, func(err error) {
		fmt.Printf("storage error: %s\n", err)
	}, storage.WithDBEngine(db.Engine(databaseEngine)))
	if err != nil {
		return nil, ierrors.Wrap(err, "unable to open database")
	}
	defer s.Shutdown()

	return s.Settings().NodeSeed()
}
