package wad

import (
	"io"
	"log"
)

var logger *log.Logger = log.New(io.Discard, "", log.LstdFlags)

// SetLogger replaces the package logger. Passing nil silences logging again.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard, "", log.LstdFlags)
	}
	logger = l
}
