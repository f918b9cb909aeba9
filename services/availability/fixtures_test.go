package availability

import (
	"context"
	"errors"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"slotfinder/models"
	"slotfinder/services/upstream"

	"go.uber.org/zap"
)

var testLoc = time.FixedZone("MST", -7*3600)

func at(day, hour, minute int) time.Time {
	return time.Date(2026, 1, day, hour, minute, 0, 0, testLoc)
}

func day(d int) models.DateRange {
	return models.DateRange{Start: at(d, 0, 0), End: at(d, 0, 0)}
}

// fakePlatform serves openings from a full schedule, capped per query like
// the real endpoint.
type fakePlatform struct {
	mu       sync.Mutex
	cap      int
	schedule map[string][]upstream.Opening // key: provider|service
	failing  map[string]bool               // key: "HH:MM-HH:MM"
	calls    int32
}

func newFakePlatform(limit int) *fakePlatform {
	return &fakePlatform{cap: limit, schedule: make(map[string][]upstream.Opening), failing: make(map[string]bool)}
}

func (f *fakePlatform) add(provider, service string, start time.Time, length time.Duration, price float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := provider + "|" + service
	f.schedule[k] = append(f.schedule[k], upstream.Opening{
		ServiceID: service,
		Start:     start,
		End:       start.Add(length),
		Price:     price,
	})
}

// run adds back-to-back openings of the given length from start until end.
func (f *fakePlatform) run(provider, service string, start, end time.Time, length time.Duration) {
	for t := start; t.Before(end); t = t.Add(length) {
		f.add(provider, service, t, length, 20)
	}
}

func (f *fakePlatform) ScanOpenings(_ context.Context, _ string, q upstream.OpeningsQuery) ([]upstream.Opening, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.failing[q.StartTime+"-"+q.EndTime] {
		return nil, errors.New("upstream timeout")
	}

	d, err := time.ParseInLocation(models.DateLayout, q.StartDate, testLoc)
	if err != nil {
		return nil, err
	}
	from, _ := ParseClock(q.StartTime)
	to, _ := ParseClock(q.EndTime)
	lo := d.Add(time.Duration(from) * time.Minute)
	hi := d.Add(time.Duration(to) * time.Minute)

	f.mu.Lock()
	all := append([]upstream.Opening(nil), f.schedule[q.EmployeeID+"|"+q.ServiceID]...)
	f.mu.Unlock()
	sort.Slice(all, func(i, j int) bool { return all[i].Start.Before(all[j].Start) })

	var out []upstream.Opening
	for _, o := range all {
		if o.Start.Before(lo) || !o.Start.Before(hi) {
			continue
		}
		out = append(out, o)
		if len(out) == f.cap {
			break
		}
	}
	return out, nil
}

func (f *fakePlatform) callCount() int {
	return int(atomic.LoadInt32(&f.calls))
}

type fakeRoster struct {
	providers []models.Provider
	calls     int
}

func (r *fakeRoster) Active(context.Context) ([]models.Provider, error) {
	r.calls++
	return r.providers, nil
}

type fakeTokens struct {
	err   error
	calls int
}

func (t *fakeTokens) Token(context.Context) (string, error) {
	t.calls++
	return "tok", t.err
}

type memRecorder struct {
	records []models.SearchRecord
}

func (m *memRecorder) Record(_ context.Context, rec models.SearchRecord) error {
	m.records = append(m.records, rec)
	return nil
}

func newTestAggregator(src OpeningsSource) *Aggregator {
	return &Aggregator{Scanner: NewScanner(src, nil, 4, zap.NewNop())}
}

func provider(id string) models.Provider {
	return models.Provider{ID: id, Name: id, Nickname: id}
}
