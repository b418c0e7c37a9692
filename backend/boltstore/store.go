package boltstore

import (
	"errors"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/vmihailenco/msgpack/v5"
	"go.etcd.io/bbolt"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/robert-malhotra/go-hdfobject/datatype"
	"github.com/robert-malhotra/go-hdfobject/internal/binary"
	"github.com/robert-malhotra/go-hdfobject/internal/filter"
	"github.com/robert-malhotra/go-hdfobject/internal/layout"
	"github.com/robert-malhotra/go-hdfobject/object"
)

var (
	ErrNotFound = errors.New("boltstore: object not found")
	ErrChecksum = errors.New("boltstore: blob checksum mismatch")
	ErrMismatch = errors.New("boltstore: datatype does not match stored record")
)

var (
	recordsBucket = []byte("records")
	blobsBucket   = []byte("blobs")
)

// DefaultCacheSize is the number of decoded blobs kept in memory.
const DefaultCacheSize = 32

// Record describes a stored dataset.
type Record struct {
	Name    string         `msgpack:"name"`
	Type    *datatype.Spec `msgpack:"type"`
	Dims    []uint64       `msgpack:"dims"`
	Filters []filter.Spec  `msgpack:"filters,omitempty"`
	// Size is the unfiltered blob length.
	Size int `msgpack:"size"`
	// Stored is the filtered blob length.
	Stored int `msgpack:"stored"`
	// Checksum is the Fletcher-32 of the unfiltered blob.
	Checksum uint32 `msgpack:"checksum"`
}

// Datatype rebuilds the record's datatype.
func (r *Record) Datatype() (*datatype.Datatype, error) {
	return datatype.FromSpec(r.Type)
}

// Store is a bbolt-backed object.Backend.
type Store struct {
	// mu is held for writing across every update transaction and the
	// cache change that follows it, and for reading while a blob is loaded
	// into the cache, so the cache never holds an older blob than the
	// database.
	mu      sync.RWMutex
	db      *bbolt.DB
	cache   *lru.Cache[string, []byte]
	filters []filter.Spec
	log     *zap.Logger
}

// Option configures a Store.
type Option func(*options)

type options struct {
	logger    *zap.Logger
	filters   []filter.Spec
	cacheSize int
	timeout   time.Duration
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithFilters sets the pipeline applied to blobs written by Put. Existing
// blobs keep the pipeline they were written with.
func WithFilters(specs []filter.Spec) Option {
	return func(o *options) {
		o.filters = specs
	}
}

// WithCacheSize sets how many decoded blobs are cached.
func WithCacheSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.cacheSize = n
		}
	}
}

// WithTimeout sets how long Open waits for the database file lock.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		o.timeout = d
	}
}

// Open opens or creates the database at path.
func Open(path string, opts ...Option) (*Store, error) {
	o := &options{
		logger:    zap.NewNop(),
		cacheSize: DefaultCacheSize,
		timeout:   10 * time.Second,
	}
	for _, opt := range opts {
		opt(o)
	}
	if _, err := filter.NewPipeline(o.filters); err != nil {
		return nil, fmt.Errorf("boltstore: %w", err)
	}

	db, err := bbolt.Open(path, 0o666, &bbolt.Options{Timeout: o.timeout})
	if err != nil {
		return nil, fmt.Errorf("boltstore: %w", err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(recordsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(blobsBucket)
		return err
	})
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("boltstore: creating buckets: %w", err), db.Close())
	}
	cache, err := lru.New[string, []byte](o.cacheSize)
	if err != nil {
		return nil, multierr.Append(fmt.Errorf("boltstore: %w", err), db.Close())
	}
	return &Store{
		db:      db,
		cache:   cache,
		filters: o.filters,
		log:     o.logger,
	}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	s.cache.Purge()
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.db.Path()
}

// Put stores data, the whole row-major buffer of a dataset with extents
// dims, replacing any dataset of the same name.
func (s *Store) Put(name string, dt *datatype.Datatype, dims []uint64, data []byte) error {
	want := dt.ElementSize()
	for _, d := range dims {
		want *= int(d)
	}
	if len(data) != want {
		return fmt.Errorf("boltstore: %s holds %d bytes, extents need %d", name, len(data), want)
	}
	rec := &Record{
		Name:    name,
		Type:    dt.Spec(),
		Dims:    append([]uint64(nil), dims...),
		Filters: pipelineFor(s.filters, dt),
	}
	return s.store(rec, append([]byte(nil), data...))
}

// pipelineFor fills in the element size of shuffle filters that do not
// set one.
func pipelineFor(specs []filter.Spec, dt *datatype.Datatype) []filter.Spec {
	out := make([]filter.Spec, len(specs))
	for i, spec := range specs {
		out[i] = filter.Spec{Name: spec.Name, Params: append([]uint32(nil), spec.Params...)}
		if spec.Name == filter.NameShuffle && len(spec.Params) == 0 {
			out[i].Params = []uint32{uint32(dt.ElementSize())}
		}
	}
	return out
}

func (s *Store) store(rec *Record, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return s.putTx(tx, rec, data)
	})
	return s.commit(rec.Name, data, err)
}

// commit brings the cache in line with the outcome of an update
// transaction. It must be called with mu held for writing.
func (s *Store) commit(name string, data []byte, err error) error {
	if err != nil {
		s.cache.Remove(name)
		return err
	}
	s.cache.Add(name, data)
	return nil
}

// putTx filters data and writes it with its record. data is not retained
// by the transaction.
func (s *Store) putTx(tx *bbolt.Tx, rec *Record, data []byte) error {
	p, err := filter.NewPipeline(rec.Filters)
	if err != nil {
		return fmt.Errorf("boltstore: %s: %w", rec.Name, err)
	}
	blob, err := p.Encode(data)
	if err != nil {
		return fmt.Errorf("boltstore: %s: %w", rec.Name, err)
	}
	rec.Size = len(data)
	rec.Stored = len(blob)
	rec.Checksum = binary.Fletcher32(data)
	meta, err := msgpack.Marshal(rec)
	if err != nil {
		return fmt.Errorf("boltstore: %s: encoding record: %w", rec.Name, err)
	}
	if err := tx.Bucket(recordsBucket).Put([]byte(rec.Name), meta); err != nil {
		return fmt.Errorf("boltstore: %s: %w", rec.Name, err)
	}
	if err := tx.Bucket(blobsBucket).Put([]byte(rec.Name), blob); err != nil {
		return fmt.Errorf("boltstore: %s: %w", rec.Name, err)
	}
	s.log.Debug("stored blob",
		zap.String("name", rec.Name),
		zap.Int("size", rec.Size),
		zap.Int("stored", rec.Stored),
		zap.Int("filters", len(rec.Filters)))
	return nil
}

// Delete removes a dataset.
func (s *Store) Delete(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.db.Update(func(tx *bbolt.Tx) error {
		if tx.Bucket(recordsBucket).Get([]byte(name)) == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return multierr.Append(
			tx.Bucket(recordsBucket).Delete([]byte(name)),
			tx.Bucket(blobsBucket).Delete([]byte(name)))
	})
	s.cache.Remove(name)
	return err
}

// Describe returns the record stored under name.
func (s *Store) Describe(name string) (*Record, error) {
	var rec *Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		rec, err = getRecord(tx, name)
		return err
	})
	return rec, err
}

// List returns every record in name order.
func (s *Store) List() ([]*Record, error) {
	var recs []*Record
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(recordsBucket).ForEach(func(k, v []byte) error {
			rec := new(Record)
			if err := msgpack.Unmarshal(v, rec); err != nil {
				return fmt.Errorf("boltstore: decoding record %s: %w", k, err)
			}
			recs = append(recs, rec)
			return nil
		})
	})
	return recs, err
}

// Dataset opens a stored dataset with the store as its backend.
func (s *Store) Dataset(name string, opts ...object.Option) (*object.Dataset, error) {
	rec, err := s.Describe(name)
	if err != nil {
		return nil, err
	}
	dt, err := rec.Datatype()
	if err != nil {
		return nil, fmt.Errorf("boltstore: %s: %w", name, err)
	}
	opts = append([]object.Option{object.WithBackend(s)}, opts...)
	return object.NewDataset(name, dt, rec.Dims, opts...)
}

func getRecord(tx *bbolt.Tx, name string) (*Record, error) {
	v := tx.Bucket(recordsBucket).Get([]byte(name))
	if v == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	rec := new(Record)
	if err := msgpack.Unmarshal(v, rec); err != nil {
		return nil, fmt.Errorf("boltstore: decoding record %s: %w", name, err)
	}
	return rec, nil
}

// load returns the record and unfiltered blob of name. The blob may be
// shared with the cache and must not be modified.
func (s *Store) load(name string) (*Record, []byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var (
		rec  *Record
		blob []byte
	)
	err := s.db.View(func(tx *bbolt.Tx) error {
		var err error
		rec, blob, err = s.current(tx, name)
		return err
	})
	return rec, blob, err
}

// current returns the record and unfiltered blob of name as seen by tx,
// decoding the stored blob on a cache miss. The caller must hold mu.
func (s *Store) current(tx *bbolt.Tx, name string) (*Record, []byte, error) {
	rec, err := getRecord(tx, name)
	if err != nil {
		return nil, nil, err
	}
	if blob, ok := s.cache.Get(name); ok {
		return rec, blob, nil
	}

	p, err := filter.NewPipeline(rec.Filters)
	if err != nil {
		return nil, nil, fmt.Errorf("boltstore: %s: %w", name, err)
	}
	// Bolt values are only valid inside the transaction.
	stored := append([]byte(nil), tx.Bucket(blobsBucket).Get([]byte(name))...)
	blob, err := p.Decode(stored, 0)
	if err != nil {
		return nil, nil, fmt.Errorf("boltstore: %s: %w", name, err)
	}
	if sum := binary.Fletcher32(blob); len(blob) != rec.Size || sum != rec.Checksum {
		return nil, nil, fmt.Errorf("%w: %s (size %d/%d, checksum 0x%08x/0x%08x)",
			ErrChecksum, name, len(blob), rec.Size, sum, rec.Checksum)
	}
	s.cache.Add(name, blob)
	s.log.Debug("decoded blob", zap.String("name", name), zap.Int("size", len(blob)))
	return rec, blob, nil
}

func checkType(rec *Record, dt *datatype.Datatype) error {
	stored, err := rec.Datatype()
	if err != nil {
		return fmt.Errorf("boltstore: %s: %w", rec.Name, err)
	}
	if stored.ElementSize() != dt.ElementSize() {
		return fmt.Errorf("%w: %s stores %s, caller asked for %s", ErrMismatch, rec.Name, stored, dt)
	}
	return nil
}

// ReadSelected implements object.Backend.
func (s *Store) ReadSelected(name string, dt *datatype.Datatype, sel object.Hyperslab) (object.Payload, error) {
	rec, blob, err := s.load(name)
	if err != nil {
		return object.Payload{}, err
	}
	if err := checkType(rec, dt); err != nil {
		return object.Payload{}, err
	}
	b, err := layout.Gather(binary.WrapBuffer(blob), rec.Dims, slab(sel), uint64(dt.ElementSize()))
	if err != nil {
		return object.Payload{}, fmt.Errorf("boltstore: %s: %w", name, err)
	}
	return object.Payload{Bytes: b}, nil
}

// Write implements object.Backend. The whole blob is read, patched and
// rewritten through the record's own filter pipeline in one transaction.
func (s *Store) Write(name string, dt *datatype.Datatype, sel object.Hyperslab, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var patched []byte
	err := s.db.Update(func(tx *bbolt.Tx) error {
		rec, blob, err := s.current(tx, name)
		if err != nil {
			return err
		}
		if err := checkType(rec, dt); err != nil {
			return err
		}
		buf := binary.WrapBuffer(append([]byte(nil), blob...))
		if err := layout.Scatter(buf, rec.Dims, slab(sel), uint64(dt.ElementSize()), data); err != nil {
			return fmt.Errorf("boltstore: %s: %w", name, err)
		}
		patched = buf.Bytes()
		return s.putTx(tx, rec, patched)
	})
	return s.commit(name, patched, err)
}

func slab(sel object.Hyperslab) layout.Slab {
	return layout.Slab{Start: sel.Start, Count: sel.Count, Stride: sel.Stride}
}
