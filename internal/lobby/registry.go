// Package lobby tracks live tables: friendly id allocation, lookup, listing
// and a sweep that reaps tables nobody sits at anymore.
package lobby

import (
	"fmt"
	"math/rand"
	"sort"
	"sync"
	"time"

	"tricktable/internal/codec"
	"tricktable/internal/table"

	"github.com/decred/slog"
)

const (
	sweepInterval = 60 * time.Second
	idleTTL       = 60 * time.Second
	idRetries     = 100
)

// Registry owns the id -> table map. Tables stop themselves when idle; the
// sweep removes stopped tables from the map so ids become reusable.
type Registry struct {
	log      slog.Logger
	tableLog slog.Logger
	rng      *rand.Rand

	mu     sync.RWMutex
	tables map[string]*table.Table

	hooks []table.GameEndHook

	done     chan struct{}
	stopOnce sync.Once
}

// NewRegistry builds a registry and starts its sweep goroutine. tableLog is
// handed to every table actor the registry creates.
func NewRegistry(log, tableLog slog.Logger) *Registry {
	r := &Registry{
		log:      log,
		tableLog: tableLog,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
		tables:   make(map[string]*table.Table),
		done:     make(chan struct{}),
	}
	go r.sweep()
	return r
}

// AddGameEndHook registers a hook attached to every table created after this
// call.
func (r *Registry) AddGameEndHook(hook table.GameEndHook) {
	if hook == nil {
		return
	}
	r.mu.Lock()
	r.hooks = append(r.hooks, hook)
	r.mu.Unlock()
}

// Create allocates a friendly id and starts a new table actor.
func (r *Registry) Create(opts table.Options, broadcastFn func(playerID string, data []byte)) (*table.Table, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, err := r.newIDLocked()
	if err != nil {
		return nil, err
	}
	t := table.New(id, opts, broadcastFn, r.tableLog)
	for _, hook := range r.hooks {
		t.AddGameEndHook(hook)
	}
	r.tables[id] = t
	r.log.Infof("lobby: created table %s (%s), %d live", id, opts.GameType, len(r.tables))
	return t, nil
}

// newIDLocked draws random words until one is free, falling back to a numeric
// suffix when the pool is saturated.
func (r *Registry) newIDLocked() (string, error) {
	for i := 0; i < idRetries; i++ {
		id := tableWords[r.rng.Intn(len(tableWords))]
		if _, taken := r.tables[id]; !taken {
			return id, nil
		}
	}
	for i := 0; i < idRetries; i++ {
		id := fmt.Sprintf("%s-%d", tableWords[r.rng.Intn(len(tableWords))], r.rng.Intn(10000))
		if _, taken := r.tables[id]; !taken {
			return id, nil
		}
	}
	return "", fmt.Errorf("no table id available")
}

// Get returns the live table with the given id.
func (r *Registry) Get(id string) (*table.Table, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tables[id]
	return t, ok
}

// List builds lobby rows, optionally filtered by game type. Tables with a
// running game are excluded unless includeInProgress is set; their rows carry
// the takeover seats so clients can offer a rejoin.
func (r *Registry) List(gameType string, includeInProgress bool) []codec.TableSummary {
	r.mu.RLock()
	tables := make([]*table.Table, 0, len(r.tables))
	for _, t := range r.tables {
		tables = append(tables, t)
	}
	r.mu.RUnlock()

	out := make([]codec.TableSummary, 0, len(tables))
	for _, t := range tables {
		if t.IsClosed() {
			continue
		}
		s := t.Summary()
		if gameType != "" && s.GameType != gameType {
			continue
		}
		if s.InProgress && !includeInProgress && len(s.TakeoverSeats) == 0 {
			continue
		}
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TableID < out[j].TableID })
	return out
}

// Count reports how many tables are live.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tables)
}

func (r *Registry) sweep() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.reap()
		case <-r.done:
			return
		}
	}
}

func (r *Registry) reap() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, t := range r.tables {
		if t.IsClosed() {
			delete(r.tables, id)
			r.log.Debugf("lobby: reaped table %s, %d live", id, len(r.tables))
			continue
		}
		if t.IsIdleFor(idleTTL) {
			t.Stop()
			delete(r.tables, id)
			r.log.Infof("lobby: reaped idle table %s, %d live", id, len(r.tables))
		}
	}
}

// Close stops the sweep and every live table.
func (r *Registry) Close() {
	r.stopOnce.Do(func() { close(r.done) })

	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.tables {
		t.Stop()
		delete(r.tables, id)
	}
}
