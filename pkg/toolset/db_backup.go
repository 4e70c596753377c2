package toolset

import (
	"fmt"
	"os"

	copydir "github.com/otiai10/copy"
	flag "github.com/spf13/pflag"

	"github.com/iotaledger/hive.go/app/configuration"
	"github.com/iotaledger/hive.go/ierrors"
)

func backupDatabase(args []string) error {
	fs := configuration.NewUnsortedFlagSet("", flag.ContinueOnError)
	databasePathFlag := fs.String(FlagToolDatabasePath, DefaultValueDatabasePath, "the path to the database folder")
	outputPathFlag := fs.String(FlagToolOutputPath, "", "the path the backup is written to")

	fs.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage of %s:\n", ToolDatabaseBackup)
		fs.PrintDefaults()
		println(fmt.Sprintf("\nexample: %s --%s %s --%s %s",
			ToolDatabaseBackup,
			FlagToolDatabasePath,
			DefaultValueDatabasePath,
			FlagToolOutputPath,
			"backup/database"))
	}

	if err := parseFlagSet(fs, args); err != nil {
		return err
	}

	if len(*databasePathFlag) == 0 {
		return ierrors.Errorf("'%s' not specified", FlagToolDatabasePath)
	}
	if len(*outputPathFlag) == 0 {
		return ierrors.Errorf("'%s' not specified", FlagToolOutputPath)
	}

	if _, err := os.Stat(*databasePathFlag); err != nil {
		return ierrors.Wrapf(err, "unable to access database (%s)", *databasePathFlag)
	}

	if _, err := os.Stat(*outputPathFlag); err == nil {
		return ierrors.Errorf("output path (%s) already exists", *outputPathFlag)
	}

	// the node has to be stopped, the databases are copied as they are on disk
	if err := copydir.Copy(*databasePathFlag, *outputPathFlag); err != nil {
		return ierrors.Wrapf(err, "failed to copy database to %s", *outputPathFlag)
	}

	fmt.Printf("Database backup written to %s\n", *outputPathFlag)

	return nil
}
