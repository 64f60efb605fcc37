package models

import (
	"bytes"
	"encoding/json"
)

// RegionMetricsMap is a string-keyed map of RegionMetrics that remembers
// insertion order and marshals to a JSON object in that order. The aggregation
// engine relies on this to keep first-seen grouping order on the wire instead
// of leaning on map iteration order.
type RegionMetricsMap struct {
	keys   []string
	values map[string]RegionMetrics
}

func NewRegionMetricsMap() *RegionMetricsMap {
	return &RegionMetricsMap{values: make(map[string]RegionMetrics)}
}

func (m *RegionMetricsMap) Set(key string, value RegionMetrics) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *RegionMetricsMap) Get(key string) (RegionMetrics, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order. The returned slice is shared;
// callers must not mutate it.
func (m *RegionMetricsMap) Keys() []string { return m.keys }

func (m *RegionMetricsMap) Len() int { return len(m.keys) }

func (m *RegionMetricsMap) MarshalJSON() ([]byte, error) {
	return marshalOrdered(m.keys, func(key string) (interface{}, error) {
		return m.values[key], nil
	})
}

// DistributionMap is the DistributionItem counterpart of RegionMetricsMap.
type DistributionMap struct {
	keys   []string
	values map[string]DistributionItem
}

func NewDistributionMap() *DistributionMap {
	return &DistributionMap{values: make(map[string]DistributionItem)}
}

func (m *DistributionMap) Set(key string, value DistributionItem) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *DistributionMap) Get(key string) (DistributionItem, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *DistributionMap) Keys() []string { return m.keys }

func (m *DistributionMap) Len() int { return len(m.keys) }

func (m *DistributionMap) MarshalJSON() ([]byte, error) {
	return marshalOrdered(m.keys, func(key string) (interface{}, error) {
		return m.values[key], nil
	})
}

func marshalOrdered(keys []string, value func(string) (interface{}, error)) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		item, err := value(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(item)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
