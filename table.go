package cfr

import (
	"sort"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// InfoSetTable implements tabular CFR storage by keeping one InfoSet for each
// information set key. Entries are created on first visit and never removed.
//
// InfoSetTable is not safe for concurrent use while it is being trained.
type InfoSetTable struct {
	infoSets map[string]*InfoSet
}

// NewInfoSetTable returns an empty table.
func NewInfoSetTable() *InfoSetTable {
	return &InfoSetTable{
		infoSets: make(map[string]*InfoSet),
	}
}

// GetOrCreate returns the InfoSet for the given key, creating it with the
// given legal actions if it does not exist yet.
func (t *InfoSetTable) GetOrCreate(key string, actions []Action) (*InfoSet, error) {
	if is, ok := t.infoSets[key]; ok {
		if !is.hasActions(actions) {
			return nil, errors.Wrapf(ErrKeyCollision,
				"infoset %q has actions %v but state has %v", key, is.Actions, actions)
		}

		return is, nil
	}

	is, err := NewInfoSet(key, actions)
	if err != nil {
		return nil, err
	}

	t.infoSets[key] = is
	if len(t.infoSets)%100000 == 0 {
		glog.V(2).Infof("%d infosets", len(t.infoSets))
	}

	return is, nil
}

// Get returns the InfoSet for the given key, if it exists.
func (t *InfoSetTable) Get(key string) (*InfoSet, bool) {
	is, ok := t.infoSets[key]
	return is, ok
}

// Len returns the number of information sets in the table.
func (t *InfoSetTable) Len() int {
	return len(t.infoSets)
}

// Keys returns all information set keys in sorted order.
func (t *InfoSetTable) Keys() []string {
	keys := make([]string, 0, len(t.infoSets))
	for key := range t.infoSets {
		keys = append(keys, key)
	}

	sort.Strings(keys)
	return keys
}

// Range calls fn for each InfoSet in key order until fn returns false.
func (t *InfoSetTable) Range(fn func(is *InfoSet) bool) {
	for _, key := range t.Keys() {
		if !fn(t.infoSets[key]) {
			return
		}
	}
}

// Add inserts a restored InfoSet. Keys must be unique.
func (t *InfoSetTable) Add(is *InfoSet) error {
	if _, ok := t.infoSets[is.Key]; ok {
		return errors.Errorf("duplicate infoset %q", is.Key)
	}

	if len(is.Actions) == 0 {
		return errors.Wrapf(ErrNoLegalActions, "infoset %q", is.Key)
	}

	t.infoSets[is.Key] = is
	return nil
}
