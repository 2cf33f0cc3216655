package db

import (
	"testing"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/scoretree/model"
	"github.com/jsphweid/scoretree/scoreerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDynamo keeps items in memory, keyed by PK.
type fakeDynamo struct {
	dynamodbiface.DynamoDBAPI
	items map[string]map[string]*dynamodb.AttributeValue
}

func (f *fakeDynamo) PutItem(in *dynamodb.PutItemInput) (*dynamodb.PutItemOutput, error) {
	f.items[*in.Item["PK"].S] = in.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (f *fakeDynamo) BatchGetItem(in *dynamodb.BatchGetItemInput) (*dynamodb.BatchGetItemOutput, error) {
	out := &dynamodb.BatchGetItemOutput{Responses: map[string][]map[string]*dynamodb.AttributeValue{}}
	for table, ka := range in.RequestItems {
		for _, key := range ka.Keys {
			if item, ok := f.items[*key["PK"].S]; ok {
				out.Responses[table] = append(out.Responses[table], item)
			}
		}
	}
	return out, nil
}

func TestPutAndGetScoreRecords(t *testing.T) {
	assert := assert.New(t)
	fake := &fakeDynamo{items: make(map[string]map[string]*dynamodb.AttributeValue)}
	store := New(fake, "scores")

	created := time.Date(2022, 7, 1, 12, 0, 0, 0, time.UTC)
	record := model.ScoreRecord{
		ID:        "abc",
		Title:     "Minuet",
		Composers: []string{"Petzold"},
		Parts:     2,
		Notes:     120,
		Source:    "minuet.musicxml",
		CreatedAt: created,
	}
	require.NoError(t, store.PutScoreRecord(record))
	assert.Equal("2", aws.StringValue(fake.items["abc"]["Parts"].N))

	got, err := store.GetScoreRecords([]string{"abc", "missing"})
	require.NoError(t, err)
	assert.Len(got, 1)
	assert.Equal(record, got["abc"])
}

func TestGetScoreRecordsLimits(t *testing.T) {
	store := New(&fakeDynamo{}, "scores")
	got, err := store.GetScoreRecords(nil)
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = store.GetScoreRecords(make([]string, MaxBatchGet+1))
	assert.True(t, scoreerr.Is(err, scoreerr.Input))
}

func TestDecodeRejectsRecordWithoutKey(t *testing.T) {
	_, err := decodeRecord(map[string]*dynamodb.AttributeValue{"Title": {S: aws.String("x")}})
	assert.True(t, scoreerr.Is(err, scoreerr.Internal))
}
