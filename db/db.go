// Package db keeps a DynamoDB catalogue of converted scores.
package db

import (
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/dynamodb/dynamodbiface"
	"github.com/jsphweid/scoretree/constants"
	"github.com/jsphweid/scoretree/model"
	"github.com/jsphweid/scoretree/scoreerr"
	"github.com/pkg/errors"
)

// MaxBatchGet is the most keys a single BatchGetItem accepts.
const MaxBatchGet = 100

type Store struct {
	client dynamodbiface.DynamoDBAPI
	table  string
}

func New(client dynamodbiface.DynamoDBAPI, table string) *Store {
	return &Store{client: client, table: table}
}

// NewStore connects to the endpoint, region and table from the environment.
func NewStore() (*Store, error) {
	endpoint := constants.GetDynamoEndpoint()
	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String(constants.GetDynamoRegion()),
		Endpoint: &endpoint,
	})
	if err != nil {
		return nil, errors.Wrap(err, "could not create a new DynamoDB session")
	}
	return New(dynamodb.New(sess), constants.GetDynamoTable()), nil
}

func (s *Store) PutScoreRecord(r model.ScoreRecord) error {
	item := map[string]*dynamodb.AttributeValue{
		"PK":        {S: aws.String(r.ID)},
		"Title":     {S: aws.String(r.Title)},
		"Parts":     {N: aws.String(strconv.Itoa(r.Parts))},
		"Notes":     {N: aws.String(strconv.Itoa(r.Notes))},
		"Source":    {S: aws.String(r.Source)},
		"CreatedAt": {S: aws.String(r.CreatedAt.UTC().Format(time.RFC3339))},
	}
	if len(r.Composers) > 0 {
		item["Composers"] = &dynamodb.AttributeValue{SS: aws.StringSlice(r.Composers)}
	}
	_, err := s.client.PutItem(&dynamodb.PutItemInput{
		TableName: aws.String(s.table),
		Item:      item,
	})
	return errors.Wrapf(err, "putting score record %s", r.ID)
}

// GetScoreRecords looks up records by id. Unknown ids are absent from the
// result.
func (s *Store) GetScoreRecords(ids []string) (map[string]model.ScoreRecord, error) {
	if len(ids) > MaxBatchGet {
		return nil, scoreerr.Inputf("at most %d ids per lookup, got %d", MaxBatchGet, len(ids))
	}
	res := make(map[string]model.ScoreRecord)
	if len(ids) == 0 {
		return res, nil
	}

	var keys []map[string]*dynamodb.AttributeValue
	for _, id := range ids {
		keys = append(keys, map[string]*dynamodb.AttributeValue{
			"PK": {S: aws.String(id)},
		})
	}
	out, err := s.client.BatchGetItem(&dynamodb.BatchGetItemInput{
		RequestItems: map[string]*dynamodb.KeysAndAttributes{
			s.table: {Keys: keys},
		},
	})
	if err != nil {
		return nil, errors.Wrap(err, "error from DynamoDB")
	}

	for _, v := range out.Responses[s.table] {
		r, err := decodeRecord(v)
		if err != nil {
			return nil, err
		}
		res[r.ID] = r
	}
	return res, nil
}

func decodeRecord(v map[string]*dynamodb.AttributeValue) (model.ScoreRecord, error) {
	var r model.ScoreRecord
	if v["PK"] == nil || v["PK"].S == nil {
		return r, scoreerr.Internalf("score record without a key")
	}
	r.ID = *v["PK"].S
	r.Title = aws.StringValue(stringAttr(v, "Title"))
	r.Source = aws.StringValue(stringAttr(v, "Source"))
	if c, ok := v["Composers"]; ok && c != nil {
		r.Composers = aws.StringValueSlice(c.SS)
	}

	var err error
	if r.Parts, err = intAttr(v, "Parts"); err != nil {
		return r, err
	}
	if r.Notes, err = intAttr(v, "Notes"); err != nil {
		return r, err
	}
	if created := stringAttr(v, "CreatedAt"); created != nil {
		if r.CreatedAt, err = time.Parse(time.RFC3339, *created); err != nil {
			return r, errors.Wrapf(err, "record %s created at", r.ID)
		}
	}
	return r, nil
}

func stringAttr(v map[string]*dynamodb.AttributeValue, name string) *string {
	if a, ok := v[name]; ok && a != nil {
		return a.S
	}
	return nil
}

func intAttr(v map[string]*dynamodb.AttributeValue, name string) (int, error) {
	a, ok := v[name]
	if !ok || a == nil || a.N == nil {
		return 0, nil
	}
	n, err := strconv.Atoi(*a.N)
	return n, errors.Wrapf(err, "record attribute %s", name)
}
