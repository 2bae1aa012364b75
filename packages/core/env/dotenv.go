package env

import (
	"fmt"

	"github.com/joho/godotenv"
)

// LoadDotEnv parses .env files and returns key-value pairs. Later files
// override earlier ones.
// Note: This does NOT export to the OS environment. Use LoadAndExportDotEnv
// for that.
func LoadDotEnv(paths ...string) (map[string]string, error) {
	result := make(map[string]string)
	for _, path := range paths {
		vars, err := godotenv.Read(path)
		if err != nil {
			return nil, fmt.Errorf("cannot read env file %s: %w", path, err)
		}
		for k, v := range vars {
			result[k] = v
		}
	}
	return result, nil
}

// LoadAndExportDotEnv parses .env files, returns key-value pairs, and exports
// them to the OS environment. Variables already set in the OS environment are
// left alone.
func LoadAndExportDotEnv(paths ...string) (map[string]string, error) {
	vars, err := LoadDotEnv(paths...)
	if err != nil {
		return nil, err
	}
	if err := godotenv.Load(paths...); err != nil {
		return nil, fmt.Errorf("cannot export env files: %w", err)
	}
	return vars, nil
}
