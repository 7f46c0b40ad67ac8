package logger

import (
	"log"
	"os"
)

var (
	// InfoLogger is the process-wide informational logger.
	InfoLogger *log.Logger
	// ErrorLogger is the process-wide error logger.
	ErrorLogger *log.Logger
)

// Init wires the package loggers to stdout/stderr. Safe to call more than once.
func Init() {
	InfoLogger = log.New(os.Stdout, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLogger = log.New(os.Stderr, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
}

func init() {
	Init()
}
