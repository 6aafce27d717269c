//go:build sqlite3

package main

// Building with -tags sqlite3 registers the cgo driver so --driver sqlite3
// can be selected.
import _ "github.com/mattn/go-sqlite3"
