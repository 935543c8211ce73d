package types

// ProcessNumKey is the namespace entry holding the HAProxy worker process
// number.  Sinks turn it into part of the metric name or a label instead of
// publishing it as a metric.
const ProcessNumKey = "Process_num"

// Namespace is an ordered mapping of dotted metric keys (e.g.
// `front_http.srv1.scur`) to values.  Setting an existing key overwrites its
// value but keeps its original position.
type Namespace struct {
	keys   []string
	values map[string]float64
}

// NewNamespace creates an empty namespace
func NewNamespace() *Namespace {
	return &Namespace{
		values: make(map[string]float64),
	}
}

// Set stores value under key
func (n *Namespace) Set(key string, value float64) {
	if _, ok := n.values[key]; !ok {
		n.keys = append(n.keys, key)
	}
	n.values[key] = value
}

// Get returns the value stored under key and whether it was present.
func (n *Namespace) Get(key string) (float64, bool) {
	v, ok := n.values[key]
	return v, ok
}

// Len is the number of distinct keys.
func (n *Namespace) Len() int {
	return len(n.keys)
}

// Keys returns a copy of the keys in insertion order.
func (n *Namespace) Keys() []string {
	out := make([]string, len(n.keys))
	copy(out, n.keys)
	return out
}

// Each calls fn for every entry in insertion order.
func (n *Namespace) Each(fn func(key string, value float64)) {
	for _, k := range n.keys {
		fn(k, n.values[k])
	}
}

// Without returns a copy of the namespace that omits the given keys.  The
// receiver is not modified.
func (n *Namespace) Without(keys ...string) *Namespace {
	skip := make(map[string]bool, len(keys))
	for _, k := range keys {
		skip[k] = true
	}

	out := NewNamespace()
	n.Each(func(k string, v float64) {
		if !skip[k] {
			out.Set(k, v)
		}
	})
	return out
}

// ToMap flattens the namespace into a plain map, dropping the ordering.
func (n *Namespace) ToMap() map[string]float64 {
	out := make(map[string]float64, len(n.values))
	for k, v := range n.values {
		out[k] = v
	}
	return out
}
