// Command legalease serves and runs AI analyses of legal documents: a gRPC
// session server, a one-shot analyzer and a folder watcher.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
