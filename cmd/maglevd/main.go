// Command maglevd is the thin, collaborator-owned front end around the
// core: it parses flags, builds a BackendSet and LookupTable, and runs a
// worker.Pool against a synthetic PacketSource (the NIC ring this repo's
// spec excludes) until it receives a shutdown signal.
//
// This is the generalized replacement for the reference repository's
// main.go: the hand-rolled parseArgs/printHelp loop is replaced by
// Cobra/pflag, matching the CLI idiom this corpus's larger repositories
// (cilium, deepflow) use throughout.
package main

import (
	"os"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("maglevd exited with an error")
		os.Exit(1)
	}
}
