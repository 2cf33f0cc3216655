package constants

import (
	"os"
	"strconv"
)

const (
	DefaultTicksPerQuarter = 480
	DefaultMaxUploadBytes  = 16 * 1024 * 1024
	DefaultMaxStoredScores = 256
	DefaultDynamoTable     = "scoretree-scores"
)

func GetOutputDir() string {
	path := os.Getenv("OUTPUT_PATH")
	if path != "" {
		return path
	}
	return "./out"
}

// GetLogLevel is one of debug, info, warn or error.
func GetLogLevel() string {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		return level
	}
	return "info"
}

// GetLogFormat is text or json.
func GetLogFormat() string {
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		return format
	}
	return "text"
}

func GetPort() string {
	if port := os.Getenv("PORT"); port != "" {
		return port
	}
	return "8080"
}

func GetDynamoEndpoint() string {
	if endpoint := os.Getenv("DYNAMO_ENDPOINT"); endpoint != "" {
		return endpoint
	}
	return "http://localhost:8000"
}

func GetDynamoRegion() string {
	if region := os.Getenv("DYNAMO_REGION"); region != "" {
		return region
	}
	return "localhost"
}

func GetDynamoTable() string {
	if table := os.Getenv("DYNAMO_TABLE"); table != "" {
		return table
	}
	return DefaultDynamoTable
}

func GetTicksPerQuarter() uint16 {
	return uint16(getInt("TICKS_PER_QUARTER", DefaultTicksPerQuarter, 1, 32767))
}

func GetMaxUploadBytes() int64 {
	return int64(getInt("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes, 1, 1<<30))
}

// GetMaxStoredScores caps how many conversions the server keeps in memory.
func GetMaxStoredScores() int {
	return getInt("MAX_STORED_SCORES", DefaultMaxStoredScores, 1, 1<<20)
}

func getInt(name string, fallback, lo, hi int) int {
	v, err := strconv.Atoi(os.Getenv(name))
	if err != nil || v < lo || v > hi {
		return fallback
	}
	return v
}
