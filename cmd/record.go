package cmd

import (
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/jsphweid/scoretree/model"
	"github.com/jsphweid/scoretree/structure"
)

func newRecord(source string, c *structure.Composition) model.ScoreRecord {
	r := model.ScoreRecord{
		ID:        uuid.New().String(),
		Title:     c.Title,
		Composers: c.Composers,
		Parts:     len(c.Parts),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	if source != "" {
		r.Source = filepath.Base(source)
	}
	for _, p := range c.Parts {
		r.Notes += p.Stats().Notes
	}
	return r
}
