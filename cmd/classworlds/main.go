// classworlds inspects a world of realms described by a realm descriptor.
//
// Usage:
//
//	classworlds -c realms.yaml describe
//	classworlds -c realms.yaml resolve --realm app com.acme.Widget
//	classworlds -c realms.star resources META-INF/services/com.acme.Plugin
//	classworlds strategies
package main

import (
	"fmt"
	"log"
	"os"
)

const (
	executableName = "classworlds"
)

// version is set with -ldflags.
var version = "dev"

func main() {
	log.SetPrefix(executableName + ": ")
	log.SetFlags(0) // don't print timestamps

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "ERROR:", err)
		os.Exit(1)
	}
}
