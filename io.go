package cfr

import (
	"bytes"
	"encoding/gob"
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const snapshotVersion = 1

// Snapshot is the persisted state of a training run.
type Snapshot struct {
	RunID uuid.UUID
	Iter  int
	Table *InfoSetTable
}

type snapshotHeader struct {
	Version     int
	RunID       uuid.UUID
	Iter        int64
	NumInfoSets int64
}

// MarshalTo writes the snapshot to w as a gob stream: a header followed by
// one record per InfoSet, in key order.
func (s *Snapshot) MarshalTo(w io.Writer) error {
	enc := gob.NewEncoder(w)
	hdr := snapshotHeader{
		Version:     snapshotVersion,
		RunID:       s.RunID,
		Iter:        int64(s.Iter),
		NumInfoSets: int64(s.Table.Len()),
	}

	if err := enc.Encode(hdr); err != nil {
		return errors.Wrap(err, "encode snapshot header")
	}

	var err error
	s.Table.Range(func(is *InfoSet) bool {
		if err = enc.Encode(is); err != nil {
			err = errors.Wrapf(err, "encode infoset %q", is.Key)
			return false
		}

		return true
	})

	return err
}

// ReadSnapshot decodes a snapshot written by MarshalTo.
func ReadSnapshot(r io.Reader) (*Snapshot, error) {
	dec := gob.NewDecoder(r)
	var hdr snapshotHeader
	if err := dec.Decode(&hdr); err != nil {
		return nil, errors.Wrap(err, "decode snapshot header")
	}

	if hdr.Version != snapshotVersion {
		return nil, errors.Errorf("unsupported snapshot version %d", hdr.Version)
	}

	table := NewInfoSetTable()
	for i := int64(0); i < hdr.NumInfoSets; i++ {
		is := &InfoSet{}
		if err := dec.Decode(is); err != nil {
			return nil, errors.Wrapf(err, "decode infoset %d of %d", i+1, hdr.NumInfoSets)
		}

		if err := table.Add(is); err != nil {
			return nil, err
		}
	}

	return &Snapshot{
		RunID: hdr.RunID,
		Iter:  int(hdr.Iter),
		Table: table,
	}, nil
}

// GobEncode implements gob.GobEncoder. The current strategy is not stored
// since it is derived from the regrets.
func (is *InfoSet) GobEncode() ([]byte, error) {
	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)

	if err := enc.Encode(is.Key); err != nil {
		return nil, err
	}

	if err := enc.Encode(is.Actions); err != nil {
		return nil, err
	}

	if err := enc.Encode(is.Regret); err != nil {
		return nil, err
	}

	if err := enc.Encode(is.CumulativeStrategy); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// GobDecode implements gob.GobDecoder.
func (is *InfoSet) GobDecode(buf []byte) error {
	r := bytes.NewReader(buf)
	dec := gob.NewDecoder(r)

	var key string
	if err := dec.Decode(&key); err != nil {
		return err
	}

	var actions []Action
	if err := dec.Decode(&actions); err != nil {
		return err
	}

	var regret []float64
	if err := dec.Decode(&regret); err != nil {
		return err
	}

	var cumulativeStrategy []float64
	if err := dec.Decode(&cumulativeStrategy); err != nil {
		return err
	}

	if len(actions) == 0 {
		return errors.Wrapf(ErrNoLegalActions, "infoset %q", key)
	}

	if len(regret) != len(actions) || len(cumulativeStrategy) != len(actions) {
		return errors.Errorf("infoset %q has %d actions but %d regrets and %d strategy weights",
			key, len(actions), len(regret), len(cumulativeStrategy))
	}

	is.Key = key
	is.Actions = actions
	is.Regret = regret
	is.CumulativeStrategy = cumulativeStrategy
	is.Strategy = make([]float64, len(actions))
	is.CalculateStrategy()
	return nil
}
