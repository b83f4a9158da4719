// Command schema writes JSON schema of rssreader configuration, "-" as the target prints it to stdout
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/umputun/rssreader/pkg/config"
)

func main() {
	target := "schema.json"
	if len(os.Args) > 1 {
		target = os.Args[1]
	}

	data, err := json.MarshalIndent(config.GenerateSchema(), "", "  ")
	if err != nil {
		log.Fatalf("failed to marshal schema: %v", err)
	}
	data = append(data, '\n')

	if target == "-" {
		if _, err := os.Stdout.Write(data); err != nil {
			log.Fatalf("failed to print schema: %v", err)
		}
		return
	}

	if err := os.WriteFile(target, data, 0o600); err != nil {
		log.Fatalf("failed to write schema file %s: %v", target, err)
	}
	fmt.Printf("config schema written to %s\n", target)
}
