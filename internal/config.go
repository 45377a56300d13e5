package internal

import "time"

type Config struct {
	BadgerFilepath string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath  string        `env:"BLUGE_FILEPATH,required=true"`
	LogLevel       string        `env:"LOG_LEVEL,required=true"`
	StatsInterval  time.Duration `env:"STATS_INTERVAL,required=true"`
	DebugPort      int           `env:"DEBUG_PORT"`
	// ContactsKey overrides the shared ledger key. Leave empty unless every
	// instance sharing the store is reconfigured together.
	ContactsKey string `env:"CONTACTS_KEY"`
}
