package state

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/fdg312/mealsim/internal/blob"
	"github.com/fdg312/mealsim/internal/catalog"
	"github.com/fdg312/mealsim/internal/combos"
	"github.com/fdg312/mealsim/internal/config"
	"github.com/fdg312/mealsim/internal/dbmigrate"
	"github.com/fdg312/mealsim/internal/ledger"
	"github.com/fdg312/mealsim/internal/reports"
	"github.com/fdg312/mealsim/internal/strategy"
	"github.com/fdg312/mealsim/internal/transfer"
)

// ErrPersist wraps failures to write the state back to the blob store. The
// in-memory state has already changed when it is returned.
var ErrPersist = errors.New("persist state")

const (
	keyCatalog = "catalog"
	keyLedger  = "ledger"
	keyTargets = "targets"
	keySaves   = "saves"
)

var persistedKeys = []string{keyCatalog, keyLedger, keyTargets, keySaves}

type Options struct {
	Namespace      string
	Capacity       int
	DefaultCatalog []catalog.MenuItem // built-in catalog when nil
	Logger         blob.Logger
	Rand           strategy.Rand    // used when ApplyRandom carries none
	Now            func() time.Time // used when SaveCombo has no time
}

// Store serialises actions on a State and writes the changed parts to a
// blob store after each accepted action.
type Store struct {
	mu      sync.Mutex
	blobs   blob.Store
	mode    string
	ns      string
	env     Env
	logger  blob.Logger
	rng     strategy.Rand
	now     func() time.Time
	state   State
	written map[string][]byte
}

// Open builds the blob store selected by cfg, runs startup migrations when
// asked to, and loads the persisted state.
func Open(ctx context.Context, cfg *config.Config, logger blob.Logger) (*Store, error) {
	if cfg.RunMigrationsOnStartup && cfg.Store.ResolveMode() == config.StoreModePostgres {
		sel, err := dbmigrate.SelectDatabaseURL(cfg, true)
		if err != nil {
			return nil, fmt.Errorf("startup migrations: %w", err)
		}
		logf(logger, "INFO state: startup migrations command=up using=%s", sel.Source)
		if err := dbmigrate.Run("up", sel.URL); err != nil {
			return nil, fmt.Errorf("startup migrations failed: %w", err)
		}
	}

	items := catalog.Default()
	if cfg.CatalogSeedPath != "" {
		seed, err := catalog.LoadSeed(cfg.CatalogSeedPath)
		if err != nil {
			return nil, err
		}
		logf(logger, "INFO state: catalog seed=%s items=%d", cfg.CatalogSeedPath, len(seed))
		items = seed
	}

	blobs, mode, err := blob.NewBlobStore(ctx, cfg.Store, logger)
	if err != nil {
		return nil, err
	}

	s := Load(ctx, blobs, Options{
		Namespace:      cfg.Store.Namespace,
		Capacity:       cfg.SavesCapacity,
		DefaultCatalog: items,
		Logger:         logger,
	})
	s.mode = mode
	return s, nil
}

// Load reads the persisted state from blobs. A missing or unreadable key
// falls back to its default; Load itself never fails.
func Load(ctx context.Context, blobs blob.Store, opts Options) *Store {
	if opts.Namespace == "" {
		opts.Namespace = config.DefaultNamespace
	}
	if opts.Capacity <= 0 {
		opts.Capacity = combos.DefaultCapacity
	}
	if opts.DefaultCatalog == nil {
		opts.DefaultCatalog = catalog.Default()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	s := &Store{
		blobs:   blobs,
		ns:      opts.Namespace,
		env:     Env{Capacity: opts.Capacity, DefaultCatalog: catalog.Clone(opts.DefaultCatalog)},
		logger:  opts.Logger,
		rng:     opts.Rand,
		now:     opts.Now,
		written: make(map[string][]byte, len(persistedKeys)),
	}
	s.state = s.load(ctx)

	for _, key := range persistedKeys {
		if data, err := encode(key, s.state); err == nil {
			s.written[key] = data
		}
	}
	return s
}

func (s *Store) load(ctx context.Context) State {
	st := Initial(s.env.DefaultCatalog)

	if data, ok := s.read(ctx, keyCatalog); ok {
		if items, err := catalog.ParseItems(data); err != nil {
			s.corrupt(keyCatalog, err)
		} else {
			st.Catalog = items
		}
	}

	if data, ok := s.read(ctx, keyLedger); ok {
		if l, err := ledger.Decode(data); err != nil {
			s.corrupt(keyLedger, err)
		} else {
			st.Ledger = l.Compact()
		}
	}

	if data, ok := s.read(ctx, keyTargets); ok {
		if t, err := combos.DecodeTargets(data); err != nil {
			s.corrupt(keyTargets, err)
		} else {
			st.Targets = t
		}
	}

	if data, ok := s.read(ctx, keySaves); ok {
		saves, dropped, err := combos.DecodeList(data)
		switch {
		case err != nil:
			s.corrupt(keySaves, err)
		default:
			if dropped > 0 {
				logf(s.logger, "WARN state: key=%s dropped=%d malformed entries", s.key(keySaves), dropped)
			}
			if len(saves) > s.env.Capacity {
				saves = saves[:s.env.Capacity]
			}
			st.Saves = saves
		}
	}
	return st
}

func (s *Store) read(ctx context.Context, name string) ([]byte, bool) {
	data, err := s.blobs.GetObject(ctx, s.key(name))
	if errors.Is(err, blob.ErrNotFound) {
		logf(s.logger, "INFO state: key=%s not found, using default", s.key(name))
		return nil, false
	}
	if err != nil {
		logf(s.logger, "WARN state: key=%s read_failed=%q, using default", s.key(name), err.Error())
		return nil, false
	}
	return data, true
}

func (s *Store) corrupt(name string, err error) {
	logf(s.logger, "WARN state: key=%s corrupt=%q, using default", s.key(name), err.Error())
}

func (s *Store) key(name string) string {
	return blob.Key(s.ns, name)
}

// State returns a copy of the current state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.state)
}

// Mode is the blob store mode the store was opened with, empty for Load.
func (s *Store) Mode() string {
	return s.mode
}

// Dispatch applies a and persists the keys whose encoding changed. A
// rejected action leaves the state untouched and writes nothing.
func (s *Store) Dispatch(ctx context.Context, a Action) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dispatchLocked(ctx, a)
}

func (s *Store) dispatchLocked(ctx context.Context, a Action) (State, error) {
	switch act := a.(type) {
	case ApplyRandom:
		if act.Rand == nil {
			act.Rand = s.rng
		}
		a = act
	case SaveCombo:
		if act.At.IsZero() {
			act.At = s.now()
		}
		a = act
	}

	next, err := Reduce(s.state, a, s.env)
	if err != nil {
		return snapshot(s.state), err
	}
	s.state = next

	if err := s.persist(ctx); err != nil {
		return snapshot(s.state), err
	}
	return snapshot(s.state), nil
}

func (s *Store) persist(ctx context.Context) error {
	var errs []error
	for _, name := range persistedKeys {
		data, err := encode(name, s.state)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if bytes.Equal(data, s.written[name]) {
			continue
		}
		if _, err := s.blobs.PutObject(ctx, s.key(name), data, "application/json"); err != nil {
			logf(s.logger, "WARN state: key=%s write_failed=%q", s.key(name), err.Error())
			errs = append(errs, err)
			continue
		}
		s.written[name] = data
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrPersist, errors.Join(errs...))
	}
	return nil
}

// ImportCatalog applies a catalog export. It returns what was taken from
// the document, including the parts that were skipped.
func (s *Store) ImportCatalog(ctx context.Context, raw []byte) (transfer.CatalogImport, error) {
	imp, err := transfer.ParseCatalog(raw)
	if err != nil {
		return transfer.CatalogImport{}, err
	}
	if _, err := s.Dispatch(ctx, ImportCatalog{Items: imp.Items, Targets: imp.Targets}); err != nil {
		return imp, err
	}
	return imp, nil
}

// SavesReport describes the outcome of a saves import.
type SavesReport struct {
	Added   int // merged into the saved list
	Known   int // skipped because the id already exists
	Dropped int // malformed entries
}

// ImportSaves merges an exported saves array into the saved list.
func (s *Store) ImportSaves(ctx context.Context, raw []byte) (SavesReport, error) {
	imp, err := transfer.ParseSaves(raw)
	if err != nil {
		return SavesReport{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, added := combos.Merge(s.state.Saves, imp.Saves, s.env.Capacity)
	report := SavesReport{Added: added, Known: len(imp.Saves) - added, Dropped: imp.Dropped}
	if _, err := s.dispatchLocked(ctx, ImportSaves{Saves: imp.Saves}); err != nil {
		return report, err
	}
	return report, nil
}

func (s *Store) ExportCatalog() ([]byte, error) {
	st := s.State()
	return transfer.ExportCatalog(st.Catalog, st.Targets)
}

func (s *Store) ExportSaves() ([]byte, error) {
	return transfer.ExportSaves(s.State().Saves)
}

// Summary is the order summary of the working ledger.
func (s *Store) Summary() reports.Summary {
	st := s.State()
	return reports.NewSummary(st.Catalog, st.Ledger, st.Targets)
}

// PublishSummary renders the order summary in format and uploads it next to
// the persisted state. It returns the object key.
func (s *Store) PublishSummary(ctx context.Context, format string) (string, error) {
	return reports.Publish(ctx, s.blobs, s.ns, format, s.Summary(), s.now())
}

func (s *Store) Close() error {
	return s.blobs.Close()
}

func encode(name string, st State) ([]byte, error) {
	var v any
	switch name {
	case keyCatalog:
		items := st.Catalog
		if items == nil {
			items = []catalog.MenuItem{}
		}
		v = items
	case keyLedger:
		l := st.Ledger
		if l == nil {
			l = ledger.Ledger{}
		}
		v = l
	case keyTargets:
		v = st.Targets
	case keySaves:
		saves := st.Saves
		if saves == nil {
			saves = []combos.SavedCombo{}
		}
		v = saves
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}
	return data, nil
}

func snapshot(st State) State {
	saves := make([]combos.SavedCombo, len(st.Saves))
	for i, c := range st.Saves {
		c.Qty = c.Qty.Clone()
		if c.Targets != nil {
			t := c.Targets.Clone()
			c.Targets = &t
		}
		saves[i] = c
	}
	return State{
		Catalog: catalog.Clone(st.Catalog),
		Ledger:  st.Ledger.Clone(),
		Targets: st.Targets.Clone(),
		Saves:   saves,
	}
}

func logf(logger blob.Logger, format string, v ...any) {
	if logger == nil {
		return
	}
	logger.Printf(format, v...)
}
