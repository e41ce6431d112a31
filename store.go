package cfr

import (
	"bufio"
	"os"
	"path/filepath"

	"github.com/golang/glog"
	gzip "github.com/klauspost/pgzip"
	"github.com/pkg/errors"
)

// TableStore persists snapshots of a training run.
type TableStore interface {
	SaveTable(s *Snapshot) error
	// LoadTable returns ErrNoSnapshot (possibly wrapped) if nothing has
	// been saved yet.
	LoadTable() (*Snapshot, error)
}

// FileStore keeps a gzip-compressed snapshot in a single file.
type FileStore struct {
	Path string
}

var _ TableStore = FileStore{}

// SaveTable implements TableStore. The file is replaced atomically.
func (fs FileStore) SaveTable(s *Snapshot) error {
	dir := filepath.Dir(fs.Path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrap(err, "create snapshot dir")
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(fs.Path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "create snapshot temp file")
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	gz := gzip.NewWriter(w)
	if err := s.MarshalTo(gz); err != nil {
		tmp.Close()
		return err
	}

	if err := gz.Close(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "compress snapshot")
	}

	if err := w.Flush(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "write snapshot")
	}

	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "close snapshot temp file")
	}

	return errors.Wrap(os.Rename(tmp.Name(), fs.Path), "persist snapshot")
}

// LoadTable implements TableStore.
func (fs FileStore) LoadTable() (*Snapshot, error) {
	f, err := os.Open(fs.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(ErrNoSnapshot, fs.Path)
		}

		return nil, errors.Wrap(err, "open snapshot")
	}
	defer f.Close()

	r, err := gzip.NewReader(bufio.NewReader(f))
	if err != nil {
		return nil, errors.Wrapf(err, "decompress snapshot %v", fs.Path)
	}
	defer r.Close()

	return ReadSnapshot(r)
}

// Save writes the current table to the store.
func (t *Trainer) Save(store TableStore) error {
	s := &Snapshot{
		RunID: t.runID,
		Iter:  t.iter,
		Table: t.table,
	}

	if err := store.SaveTable(s); err != nil {
		return errors.Wrap(err, "save snapshot")
	}

	glog.V(1).Infof("Saved %d infosets at iteration %d", t.table.Len(), t.iter)
	return nil
}

// Load replaces the current table with the one saved in the store, so that
// further training continues from it. If the store holds no snapshot, Load
// logs a warning and leaves the Trainer unchanged.
func (t *Trainer) Load(store TableStore) error {
	s, err := store.LoadTable()
	if errors.Cause(err) == ErrNoSnapshot {
		glog.Warningf("No saved strategy found (%v), keeping %d infosets", err, t.table.Len())
		return nil
	} else if err != nil {
		return errors.Wrap(err, "load snapshot")
	}

	t.runID = s.RunID
	t.reset(s.Table, s.Iter)
	glog.Infof("Loaded %d infosets at iteration %d (run %v)", s.Table.Len(), s.Iter, s.RunID)
	return nil
}
