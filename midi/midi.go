// Package midi renders compositions as Standard MIDI Files and reads them
// back.
package midi

import (
	"bytes"
	"fmt"
	"os"
	"sort"

	"github.com/pkg/errors"
	"gitlab.com/gomidi/midi/v2/smf"
)

// Sounding is one note from press to release, in microseconds.
type Sounding struct {
	Channel uint8
	Key     uint8
	Start   int64
	End     int64
}

func ReadFile(path string) (s *smf.SMF, e error) {
	// handle panics
	// https://github.com/gomidi/midi/issues/20
	defer func() {
		if r := recover(); r != nil {
			e = fmt.Errorf("parsing midi file: %v", r)
		}
	}()

	dat, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading midi file")
	}
	res, err := smf.ReadFrom(bytes.NewReader(dat))
	if err != nil {
		return nil, errors.Wrap(err, "parsing midi file")
	}
	return res, nil
}

type reducedEvent struct {
	offset    int64
	isNoteOff bool
	channel   uint8
	key       uint8
}

// Notes pairs note-ons with their note-offs across all tracks, ordered by
// start time and then key.
func Notes(s *smf.SMF) []Sounding {
	var reduced []reducedEvent
	for _, events := range s.Tracks {
		var absTicks int64
		for _, event := range events {
			absTicks += int64(event.Delta)
			var channel, key, velocity uint8
			switch {
			case event.Message.GetNoteOn(&channel, &key, &velocity):
				reduced = append(reduced, reducedEvent{
					offset:    s.TimeAt(absTicks),
					isNoteOff: velocity == 0,
					channel:   channel,
					key:       key,
				})
			case event.Message.GetNoteOff(&channel, &key, &velocity):
				reduced = append(reduced, reducedEvent{
					offset:    s.TimeAt(absTicks),
					isNoteOff: true,
					channel:   channel,
					key:       key,
				})
			}
		}
	}

	// smaller offsets first, then note offs
	sort.SliceStable(reduced, func(i, j int) bool {
		if reduced[i].offset != reduced[j].offset {
			return reduced[i].offset < reduced[j].offset
		}
		return reduced[i].isNoteOff && !reduced[j].isNoteOff
	})

	type pressKey struct{ channel, key uint8 }
	pressed := make(map[pressKey]int64)
	var res []Sounding
	for _, evt := range reduced {
		k := pressKey{evt.channel, evt.key}
		if !evt.isNoteOff {
			pressed[k] = evt.offset
			continue
		}
		start, ok := pressed[k]
		if !ok {
			continue
		}
		delete(pressed, k)
		res = append(res, Sounding{Channel: evt.channel, Key: evt.key, Start: start, End: evt.offset})
	}
	sort.SliceStable(res, func(i, j int) bool {
		if res[i].Start != res[j].Start {
			return res[i].Start < res[j].Start
		}
		return res[i].Key < res[j].Key
	})
	return res
}
