package cliopt

import "flag"

// SourceOptions selects where records come from. Exactly one of Input or DB
// is used; DB requires Table.
type SourceOptions struct {
	Input  string // JSON-lines file, "-" for stdin
	DB     string // sqlite:<path> or postgres:<dsn>
	Table  string
	Driver string // sqlite driver name override
}

func DefaultSourceOptions() SourceOptions {
	return SourceOptions{Input: "-", Driver: "sqlite"}
}

// BindSourceFlags registers the shared record-source flags on fs.
func BindSourceFlags(fs *flag.FlagSet, o *SourceOptions) {
	fs.StringVar(&o.Input, "input", o.Input, "JSON-lines input file, - for stdin")
	fs.StringVar(&o.Input, "i", o.Input, "JSON-lines input file (shorthand)")
	fs.StringVar(&o.DB, "db", o.DB, "database: sqlite:<path> or postgres:<dsn>")
	fs.StringVar(&o.Table, "table", o.Table, "table to read when --db is set")
	fs.StringVar(&o.Driver, "driver", o.Driver, "sqlite driver name: sqlite|sqlite3")
}
