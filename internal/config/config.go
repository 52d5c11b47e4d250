package config

import (
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	DataPath     string
	DBPath       string
	WorkflowFile string
	Workflow     Workflow
}

// Load loads the configuration from .env files, environment variables and the
// YAML workflow file.
func Load() (*AppConfig, error) {
	// 1. Try to load from the executable's directory first
	exePath, err := os.Executable()
	exeDir := ""
	if err == nil {
		exeDir = filepath.Dir(exePath)
		envPath := filepath.Join(exeDir, ".env")
		if err := godotenv.Load(envPath); err == nil {
			log.Debug().Str("path", envPath).Msg("Loaded configuration from binary directory")
		}
	}

	// 2. Fallback to current working directory (useful for development/go run)
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("No .env file found in working directory, relying on environment variables or binary-relative .env")
	}

	// 3. Resolve data paths
	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		if exeDir != "" {
			dataPath = exeDir
		} else {
			dataPath = "."
		}
	}

	workflowFile := getEnv("WORKFLOW_FILE", filepath.Join(dataPath, "workflow.yml"))

	cfg := &AppConfig{
		DataPath:     dataPath,
		DBPath:       filepath.Join(dataPath, "cycleflow.db"),
		WorkflowFile: workflowFile,
	}

	if _, err := os.Stat(workflowFile); err != nil {
		// Commands that aggregate check for an empty cycle themselves.
		log.Debug().Str("path", workflowFile).Msg("No workflow file found")
		return cfg, nil
	}

	wf, err := LoadWorkflow(workflowFile)
	if err != nil {
		return nil, err
	}
	cfg.Workflow = *wf

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}
