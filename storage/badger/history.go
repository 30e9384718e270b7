package badger

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/sift/core"
	"github.com/poiesic/sift/storage"
)

// HistoryRepository implements storage.HistoryRepository for BadgerDB.
type HistoryRepository struct {
	backend     *Backend
	seq         *badger.Sequence
	ownsBackend bool
}

var _ storage.HistoryRepository = (*HistoryRepository)(nil)

// NewHistoryRepository creates a HistoryRepository on an open backend.
// Closing the repository leaves the backend open.
func NewHistoryRepository(backend *Backend) (*HistoryRepository, error) {
	seq, err := backend.GetSequence(historySeq)
	if err != nil {
		return nil, err
	}
	return &HistoryRepository{
		backend: backend,
		seq:     seq,
	}, nil
}

// OpenHistory opens (or creates) a history database in dir.
// The returned repository closes the database when it is closed.
func OpenHistory(dir string, logger *slog.Logger) (*HistoryRepository, error) {
	backend, err := OpenBackend(dir, false, WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("opening history at %s: %w", dir, err)
	}
	repo, err := NewHistoryRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}
	repo.ownsBackend = true
	return repo, nil
}

// Close releases the sequence and, if owned, the backend.
func (r *HistoryRepository) Close() error {
	err := r.seq.Release()
	if r.ownsBackend {
		err = errors.Join(err, r.backend.Close())
	}
	return err
}

// AddQuery records query as the most recent entry.
func (r *HistoryRepository) AddQuery(ctx context.Context, query string) (*core.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	entry := &core.HistoryEntry{
		Id:        core.IDFromContent(query),
		Query:     query,
		Timestamp: time.Now().UTC(),
	}
	if err := core.ValidateHistoryEntry(entry); err != nil {
		return nil, err
	}

	err := r.backend.WithTx(func(tx *badger.Txn) error {
		indexKey := makeHistoryQueryKey(entry.Id)

		// Drop the previous position of the same query
		item, err := tx.Get(indexKey)
		switch {
		case err == nil:
			var oldSeq uint64
			if err := item.Value(func(val []byte) error {
				var err error
				oldSeq, err = storage.UnmarshalSequence(val)
				return err
			}); err != nil {
				return err
			}
			if err := tx.Delete(makeHistoryKey(oldSeq)); err != nil {
				return err
			}
		case !errors.Is(err, badger.ErrKeyNotFound):
			return err
		}

		nextSeq, err := r.seq.Next()
		if err != nil {
			return err
		}
		// BadgerDB sequences can return 0 on first call, so we skip it
		if nextSeq == 0 {
			nextSeq, err = r.seq.Next()
			if err != nil {
				return err
			}
		}

		if err := tx.Set(makeHistoryKey(nextSeq), storage.MarshalHistoryEntry(entry)); err != nil {
			return err
		}
		if err := tx.Set(indexKey, storage.MarshalSequence(nextSeq)); err != nil {
			return err
		}
		return tx.Commit()
	}, true)
	if err != nil {
		return nil, err
	}

	r.backend.logger.Debug("recorded query", "query", query, "id", entry.Id)
	return entry, nil
}

// RecentQueries returns up to limit entries, most recent first.
func (r *HistoryRepository) RecentQueries(ctx context.Context, limit int) ([]*core.HistoryEntry, error) {
	if limit < 0 {
		return nil, fmt.Errorf("%w: negative limit %d", storage.ErrInvalidQuery, limit)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}

	var results []*core.HistoryEntry
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		// Use reverse iterator to get most recent entries first
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true

		iter := tx.NewIterator(opts)
		defer iter.Close()

		prefix := []byte(historyPrefix)
		for iter.Seek(makeHistoryEndKey()); iter.Valid(); iter.Next() {
			if limit > 0 && len(results) >= limit {
				break
			}
			if !bytes.HasPrefix(iter.Item().Key(), prefix) {
				break
			}

			var entry *core.HistoryEntry
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				entry, err = storage.UnmarshalHistoryEntry(val)
				return err
			}); err != nil {
				return err
			}
			results = append(results, entry)
		}
		return nil
	}, false)

	return results, err
}

// Clear removes every stored query.
func (r *HistoryRepository) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if r.backend.IsClosed() {
		return storage.ErrStorageClosed
	}
	return r.backend.DropPrefix(historyPrefix, historyQueryPrefix)
}
