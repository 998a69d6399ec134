package main

import (
	"log"

	"market-analysis/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		log.Fatalf("market-analysis: %v", err)
	}
}
