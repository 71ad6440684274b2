package interval

import "encoding/json"

// lapperDoc is the on-wire shape of a Lapper: only the sorted interval
// list, never the tree. The tree is rebuilt on load by balanced-median
// construction in linear time.
type lapperDoc[V comparable] struct {
	Intervals []Interval[V] `json:"intervals"`
}

func (l *Lapper[V]) MarshalJSON() ([]byte, error) {
	return json.Marshal(lapperDoc[V]{Intervals: l.Intervals()})
}

func (l *Lapper[V]) UnmarshalJSON(data []byte) error {
	var doc lapperDoc[V]
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*l = Lapper[V]{}
	l.InsertBatch(doc.Intervals)
	return nil
}
