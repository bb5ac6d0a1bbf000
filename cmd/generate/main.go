// Command generate writes the engine config JSON schema and a sample
// config to ./config, for editor completion on config files.
package main

import (
	"log"
	"os"
	"path/filepath"

	enginev1 "github.com/quantexlab/quantex/internal/backtest/engine/engine_v1"
	"gopkg.in/yaml.v2"
)

func main() {
	schemaJSON, err := enginev1.GenerateSchemaJSON()
	if err != nil {
		log.Fatalf("Failed to generate schema: %v", err)
	}

	schemaName := "backtest-engine-v1-config.json"
	schemaPath := filepath.Join("./config", schemaName)
	sampleConfigPath := filepath.Join("./config", "backtest-engine-v1-config.yaml")

	if err := os.MkdirAll(filepath.Dir(schemaPath), 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	if err := os.WriteFile(schemaPath, schemaJSON, 0644); err != nil {
		log.Fatalf("Failed to write schema to file: %v", err)
	}

	// write a sample config next to the schema if none exists yet
	if _, err := os.Stat(sampleConfigPath); os.IsNotExist(err) {
		config := enginev1.DefaultConfig()

		yamlBytes, err := yaml.Marshal(&config)
		if err != nil {
			log.Fatalf("Failed to marshal sample config to yaml: %v", err)
		}

		yamlBytes = append([]byte("# yaml-language-server: $schema="+schemaName+"\n"), yamlBytes...)

		if err := os.WriteFile(sampleConfigPath, yamlBytes, 0644); err != nil {
			log.Fatalf("Failed to write sample config to file: %v", err)
		}
	}

	log.Printf("Schema written to %s", schemaPath)
}
