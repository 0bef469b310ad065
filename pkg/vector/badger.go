package vector

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	badger "github.com/dgraph-io/badger/v4"
)

// BadgerStore is a Store backed by a Badger key-value database, for vector
// indexes that outlive a single process. Each entry records an insertion
// sequence number so search ties resolve in insertion order, matching
// MemoryStore.
type BadgerStore struct {
	db  *badger.DB
	seq *badger.Sequence
}

// NewBadgerStore opens (or creates) a Badger database at path.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open vector store: %w", err)
	}
	seq, err := db.GetSequence([]byte("!seq"), 64)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open vector store sequence: %w", err)
	}
	return &BadgerStore{db: db, seq: seq}, nil
}

// Upsert stores a normalized copy of vec under id. Overwriting an existing id
// keeps its original sequence number.
func (s *BadgerStore) Upsert(ctx context.Context, id string, vec []float32) error {
	normalized := Normalize(vec)

	return s.db.Update(func(txn *badger.Txn) error {
		key := entryKey(id)

		var seq uint64
		switch item, err := txn.Get(key); err {
		case nil:
			if err := item.Value(func(val []byte) error {
				var decodeErr error
				seq, _, decodeErr = decodeEntry(val)
				return decodeErr
			}); err != nil {
				return err
			}
		case badger.ErrKeyNotFound:
			next, err := s.seq.Next()
			if err != nil {
				return err
			}
			seq = next
		default:
			return err
		}

		return txn.Set(key, encodeEntry(seq, normalized))
	})
}

// Search scans every stored vector, scores it against query by cosine
// similarity, and returns the top k, best first.
func (s *BadgerStore) Search(ctx context.Context, query []float32, k int) ([]SearchResult, error) {
	if k <= 0 {
		return nil, nil
	}
	normalized := Normalize(query)

	type scored struct {
		seq    uint64
		result SearchResult
	}
	var entries []scored

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(entryPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			id := string(item.Key()[len(prefix):])
			if err := item.Value(func(val []byte) error {
				seq, vec, err := decodeEntry(val)
				if err != nil {
					return err
				}
				entries = append(entries, scored{
					seq:    seq,
					result: SearchResult{ID: id, Score: DotProduct(normalized, vec)},
				})
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("search vector store: %w", err)
	}
	if len(entries) == 0 {
		return nil, nil
	}

	// Badger iterates in key order; restore insertion order first so the
	// stable sort breaks score ties the same way MemoryStore does.
	sort.Slice(entries, func(i, j int) bool { return entries[i].seq < entries[j].seq })
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].result.Score > entries[j].result.Score })

	if k > len(entries) {
		k = len(entries)
	}
	results := make([]SearchResult, k)
	for i := 0; i < k; i++ {
		results[i] = entries[i].result
	}
	return results, nil
}

// Len returns the number of stored vectors.
func (s *BadgerStore) Len() int {
	count := 0
	_ = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		prefix := []byte(entryPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	return count
}

// Close releases the sequence and closes the database.
func (s *BadgerStore) Close() error {
	if err := s.seq.Release(); err != nil {
		s.db.Close()
		return err
	}
	return s.db.Close()
}

const entryPrefix = "v:"

func entryKey(id string) []byte {
	return append([]byte(entryPrefix), id...)
}

// encodeEntry packs a sequence number and vector as little-endian binary:
// 8 bytes of sequence, then 4 bytes per component.
func encodeEntry(seq uint64, vec []float32) []byte {
	buf := make([]byte, 8+4*len(vec))
	binary.LittleEndian.PutUint64(buf, seq)
	for i, x := range vec {
		binary.LittleEndian.PutUint32(buf[8+4*i:], math.Float32bits(x))
	}
	return buf
}

func decodeEntry(val []byte) (uint64, []float32, error) {
	if len(val) < 8 || (len(val)-8)%4 != 0 {
		return 0, nil, fmt.Errorf("corrupt vector entry of %d bytes", len(val))
	}
	seq := binary.LittleEndian.Uint64(val)
	vec := make([]float32, (len(val)-8)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(val[8+4*i:]))
	}
	return seq, vec, nil
}
