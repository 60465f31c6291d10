// Package main provides the recast CLI, which converts Camunda 7 BPMN and
// DMN documents for Camunda 8.
package main

import "os"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
