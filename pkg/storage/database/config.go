package database

import "github.com/iotaledger/hive.go/db"

type Config struct {
	Engine         db.Engine
	AllowedEngines []db.Engine
	Directory      string

	Version      byte
	PrefixHealth []byte
}

// WithDirectory returns a copy of the Config that points to a different directory.
func (c Config) WithDirectory(directory string) Config {
	c.Directory = directory

	return c
}
