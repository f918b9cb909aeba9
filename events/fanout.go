package events

import (
	"context"
	"errors"

	"slotfinder/models"
)

// Recorder is a search audit sink.
type Recorder interface {
	Record(ctx context.Context, rec models.SearchRecord) error
}

// Fanout delivers each record to every sink and joins their failures.
type Fanout []Recorder

func (f Fanout) Record(ctx context.Context, rec models.SearchRecord) error {
	var errs []error
	for _, r := range f {
		if err := r.Record(ctx, rec); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
