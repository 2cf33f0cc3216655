// Package convert turns a parsed MusicXML document into a structure.Composition.
package convert

import (
	"io"
	"log/slog"

	"github.com/jsphweid/scoretree/model"
	"github.com/jsphweid/scoretree/musicxml"
	"github.com/jsphweid/scoretree/scoreerr"
	"github.com/jsphweid/scoretree/section"
	"github.com/jsphweid/scoretree/structure"
	"github.com/jsphweid/scoretree/timeline"
	"github.com/pkg/errors"
)

const UntitledTitle = "Untitled"

type Options struct {
	// Logger receives debug output per part. Nil discards it.
	Logger *slog.Logger
	// IDs issues node ids. Nil starts a fresh structure.Sequence.
	IDs structure.IDGenerator
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func FromFile(path string, opts Options) (*structure.Composition, error) {
	doc, err := musicxml.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := FromDocument(doc, opts)
	return c, errors.Wrapf(err, "converting %s", path)
}

func FromReader(r io.Reader, opts Options) (*structure.Composition, error) {
	doc, err := musicxml.Decode(r)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc, opts)
}

// FromDocument builds the whole composition or fails without a partial result.
func FromDocument(doc *musicxml.Document, opts Options) (*structure.Composition, error) {
	if len(doc.PartList.ScoreParts) == 0 || len(doc.Parts) == 0 {
		return nil, scoreerr.Inputf("no parts found in the MusicXML score")
	}
	empty := true
	for _, p := range doc.Parts {
		if !isEmptyPart(p) {
			empty = false
			break
		}
	}
	if empty {
		return nil, scoreerr.Inputf("all parts in the MusicXML score are empty")
	}

	log := opts.logger()
	title := doc.Work.Title
	if title == "" {
		title = UntitledTitle
	}
	c := structure.NewComposition(title, opts.IDs)
	addMetadata(c, doc)

	var err error
	if c.StartingKey, err = startingKey(doc); err != nil {
		return nil, err
	}
	if c.StartingTimeSignature, err = startingTimeSignature(doc); err != nil {
		return nil, err
	}
	if c.Tempo, err = startingTempo(doc); err != nil {
		return nil, err
	}

	sources, err := partTimelines(doc, log)
	if err != nil {
		return nil, err
	}
	// Structural marks usually appear only in the top part; every part
	// follows the sections of the first one.
	lead := sources[0].timeline
	plan := section.Gather(lead.Staves[lead.StaffNames[0]])
	for _, src := range sources {
		p := c.AddPart(src.name)
		partPlan := plan.Rescale(lead.DivisionsPerQuarter, src.timeline.DivisionsPerQuarter)
		if err := buildPart(p, src.timeline, partPlan, log); err != nil {
			return nil, errors.Wrapf(err, "part %q", src.name)
		}
		if p.IsEmpty() {
			log.Debug("dropping part without notes", "part", src.name)
			c.RemovePart(p.ID)
		}
	}
	if len(c.Parts) == 0 {
		return nil, scoreerr.Inputf("all parts in the MusicXML score are empty")
	}
	return c, nil
}

func isEmptyPart(p musicxml.Part) bool {
	for _, m := range p.Measures {
		if len(m.Elements) > 0 {
			return false
		}
	}
	return true
}

func addMetadata(c *structure.Composition, doc *musicxml.Document) {
	if doc.Work.Number != "" {
		c.AddMetadata("opus_number", doc.Work.Number)
	}
	if doc.MovementNumber != "" {
		c.AddMetadata("movement_number", doc.MovementNumber)
	}
	if doc.MovementTitle != "" {
		c.AddMetadata("movement_title", doc.MovementTitle)
	}
	for _, creator := range doc.Identification.Creators {
		switch creator.Type {
		case "composer":
			c.AddComposer(creator.Value)
		case "lyricist":
			c.AddLyricist(creator.Value)
		case "arranger":
			c.AddArranger(creator.Value)
		case "publisher":
			c.Publisher = creator.Value
		case "":
			c.AddMetadata("creator", creator.Value)
		default:
			c.AddMetadata(creator.Type, creator.Value)
		}
	}
	for _, rights := range doc.Identification.Rights {
		if rights.Type == "" || rights.Type == "copyright" {
			c.Copyright = rights.Value
		} else {
			c.AddMetadata(rights.Type, rights.Value)
		}
	}
}

// firstMeasures calls fn with the elements of every part's first measure
// until fn reports it is done.
func firstMeasures(doc *musicxml.Document, fn func(el interface{}) (bool, error)) error {
	for _, p := range doc.Parts {
		if len(p.Measures) == 0 {
			continue
		}
		for _, el := range p.Measures[0].Elements {
			done, err := fn(el)
			if err != nil || done {
				return err
			}
		}
	}
	return nil
}

func startingKey(doc *musicxml.Document) (model.Key, error) {
	var key model.Key
	err := firstMeasures(doc, func(el interface{}) (bool, error) {
		a, ok := el.(musicxml.Attributes)
		if !ok {
			return false, nil
		}
		for _, k := range a.Keys {
			if k.Fifths == nil {
				continue
			}
			parsed, err := timeline.ParseKey(k)
			if err != nil {
				return false, err
			}
			key = parsed
			return true, nil
		}
		return false, nil
	})
	return key, err
}

func startingTimeSignature(doc *musicxml.Document) (model.TimeSignature, error) {
	sig := model.DefaultTimeSignature()
	err := firstMeasures(doc, func(el interface{}) (bool, error) {
		a, ok := el.(musicxml.Attributes)
		if !ok {
			return false, nil
		}
		for _, t := range a.Times {
			parsed, ok, err := timeline.ParseTime(t)
			if err != nil {
				return false, err
			}
			if ok {
				sig = parsed
				return true, nil
			}
		}
		return false, nil
	})
	return sig, err
}

func startingTempo(doc *musicxml.Document) (model.Tempo, error) {
	tempo := model.DefaultTempo()
	found := false
	err := firstMeasures(doc, func(el interface{}) (bool, error) {
		d, ok := el.(musicxml.Direction)
		if !ok {
			return false, nil
		}
		for _, dt := range d.Types {
			if dt.Metronome == nil {
				continue
			}
			t, ok, err := timeline.ParseMetronome(*dt.Metronome)
			if err != nil {
				return false, err
			}
			if ok {
				tempo, found = t, true
				return true, nil
			}
		}
		return false, nil
	})
	if err != nil || found {
		return tempo, err
	}
	err = firstMeasures(doc, func(el interface{}) (bool, error) {
		var sound *musicxml.Sound
		switch v := el.(type) {
		case musicxml.Direction:
			sound = v.Sound
		case musicxml.Sound:
			sound = &v
		}
		if sound == nil {
			return false, nil
		}
		t, ok, err := timeline.ParseSoundTempo(*sound)
		if err != nil {
			return false, err
		}
		if ok {
			tempo = t
		}
		return ok, nil
	})
	return tempo, err
}
