package ldbstore

import (
	"bytes"
	"encoding/gob"
	"os"

	"github.com/golang/glog"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/cfrlab/go-cscfr"
)

const formatVersion = 1

var (
	metaKey          = []byte("meta")
	infoSetPrefix    = []byte("is/")
	errCountMismatch = errors.New("infoset count does not match metadata")
)

type meta struct {
	Version     int
	RunID       uuid.UUID
	Iter        int64
	NumInfoSets int64
}

// Store implements cfr.TableStore on a LevelDB database.
// The database is only held open for the duration of each call.
type Store struct {
	path string
	opts opt.Options
}

var _ cfr.TableStore = &Store{}

// New returns a Store for the database at the given path.
// A nil opts uses the LevelDB defaults.
func New(path string, opts *opt.Options) *Store {
	s := &Store{path: path}
	if opts != nil {
		s.opts = *opts
	}

	return s
}

func (s *Store) open(create bool) (*leveldb.DB, error) {
	opts := s.opts
	opts.ErrorIfMissing = !create
	if !create {
		if _, err := os.Stat(s.path); os.IsNotExist(err) {
			return nil, errors.Wrap(cfr.ErrNoSnapshot, s.path)
		}
	}

	db, err := leveldb.OpenFile(s.path, &opts)
	if err != nil {
		if os.IsNotExist(errors.Cause(err)) {
			return nil, errors.Wrap(cfr.ErrNoSnapshot, s.path)
		}

		return nil, errors.Wrapf(err, "open leveldb %v", s.path)
	}

	return db, nil
}

// SaveTable implements cfr.TableStore. Information sets from a previous
// snapshot are replaced in the same atomic batch.
func (s *Store) SaveTable(snapshot *cfr.Snapshot) error {
	db, err := s.open(true)
	if err != nil {
		return err
	}
	defer db.Close()

	batch := new(leveldb.Batch)
	iter := db.NewIterator(util.BytesPrefix(infoSetPrefix), nil)
	for iter.Next() {
		batch.Delete(append([]byte(nil), iter.Key()...))
	}

	iter.Release()
	if err := iter.Error(); err != nil {
		return errors.Wrap(err, "scan previous snapshot")
	}

	var encodeErr error
	snapshot.Table.Range(func(is *cfr.InfoSet) bool {
		buf, err := is.GobEncode()
		if err != nil {
			encodeErr = errors.Wrapf(err, "encode infoset %q", is.Key)
			return false
		}

		batch.Put(infoSetKey(is.Key), buf)
		return true
	})

	if encodeErr != nil {
		return encodeErr
	}

	m := meta{
		Version:     formatVersion,
		RunID:       snapshot.RunID,
		Iter:        int64(snapshot.Iter),
		NumInfoSets: int64(snapshot.Table.Len()),
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(m); err != nil {
		return errors.Wrap(err, "encode metadata")
	}

	batch.Put(metaKey, buf.Bytes())
	if err := db.Write(batch, &opt.WriteOptions{Sync: true}); err != nil {
		return errors.Wrap(err, "write snapshot")
	}

	glog.V(2).Infof("Wrote %d infosets to %v", m.NumInfoSets, s.path)
	return nil
}

// LoadTable implements cfr.TableStore.
func (s *Store) LoadTable() (*cfr.Snapshot, error) {
	db, err := s.open(false)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	m, err := readMeta(db)
	if err != nil {
		return nil, err
	}

	table := cfr.NewInfoSetTable()
	iter := db.NewIterator(util.BytesPrefix(infoSetPrefix), nil)
	defer iter.Release()
	for iter.Next() {
		is := &cfr.InfoSet{}
		if err := is.GobDecode(iter.Value()); err != nil {
			return nil, errors.Wrapf(err, "decode infoset %q", iter.Key())
		}

		if err := table.Add(is); err != nil {
			return nil, err
		}
	}

	if err := iter.Error(); err != nil {
		return nil, errors.Wrap(err, "read infosets")
	}

	if int64(table.Len()) != m.NumInfoSets {
		return nil, errors.Wrapf(errCountMismatch, "found %d, expected %d", table.Len(), m.NumInfoSets)
	}

	return &cfr.Snapshot{
		RunID: m.RunID,
		Iter:  int(m.Iter),
		Table: table,
	}, nil
}

// InfoSet reads a single information set from the saved snapshot.
func (s *Store) InfoSet(key string) (*cfr.InfoSet, error) {
	db, err := s.open(false)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	buf, err := db.Get(infoSetKey(key), nil)
	if err != nil {
		return nil, errors.Wrapf(err, "get infoset %q", key)
	}

	is := &cfr.InfoSet{}
	if err := is.GobDecode(buf); err != nil {
		return nil, errors.Wrapf(err, "decode infoset %q", key)
	}

	return is, nil
}

func readMeta(db *leveldb.DB) (meta, error) {
	var m meta
	buf, err := db.Get(metaKey, nil)
	if err == leveldb.ErrNotFound {
		return m, errors.Wrap(cfr.ErrNoSnapshot, "no metadata record")
	} else if err != nil {
		return m, errors.Wrap(err, "get metadata")
	}

	if err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&m); err != nil {
		return m, errors.Wrap(err, "decode metadata")
	}

	if m.Version != formatVersion {
		return m, errors.Errorf("unsupported snapshot version %d", m.Version)
	}

	return m, nil
}

func infoSetKey(key string) []byte {
	k := make([]byte, 0, len(infoSetPrefix)+len(key))
	k = append(k, infoSetPrefix...)
	return append(k, key...)
}
