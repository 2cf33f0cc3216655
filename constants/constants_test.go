package constants

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaults(t *testing.T) {
	t.Setenv("OUTPUT_PATH", "")
	t.Setenv("TICKS_PER_QUARTER", "")
	t.Setenv("DYNAMO_TABLE", "")
	t.Setenv("MAX_STORED_SCORES", "")

	assert := assert.New(t)
	assert.Equal("./out", GetOutputDir())
	assert.Equal(uint16(DefaultTicksPerQuarter), GetTicksPerQuarter())
	assert.Equal(DefaultDynamoTable, GetDynamoTable())
	assert.Equal(DefaultMaxStoredScores, GetMaxStoredScores())
}

func TestOverrides(t *testing.T) {
	t.Setenv("TICKS_PER_QUARTER", "960")
	t.Setenv("MAX_UPLOAD_BYTES", "not-a-number")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("MAX_STORED_SCORES", "0")

	assert := assert.New(t)
	assert.Equal(uint16(960), GetTicksPerQuarter())
	assert.Equal(int64(DefaultMaxUploadBytes), GetMaxUploadBytes())
	assert.Equal("json", GetLogFormat())
	assert.Equal(DefaultMaxStoredScores, GetMaxStoredScores())
}
