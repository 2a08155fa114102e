package aggregate

import "sort"

// Counter counts category occurrences while remembering first-seen key
// order. Chart kinds read it either in that natural order or sorted
// alphabetically.
type Counter struct {
	order  []string
	counts map[string]int
}

func NewCounter() *Counter {
	return &Counter{counts: map[string]int{}}
}

func (c *Counter) Add(key string) {
	if _, ok := c.counts[key]; !ok {
		c.order = append(c.order, key)
	}
	c.counts[key]++
}

func (c *Counter) Get(key string) int {
	return c.counts[key]
}

func (c *Counter) Len() int {
	return len(c.order)
}

// Keys returns the keys in first-seen order.
func (c *Counter) Keys() []string {
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// SortedKeys returns the keys sorted alphabetically.
func (c *Counter) SortedKeys() []string {
	out := c.Keys()
	sort.Strings(out)
	return out
}

// Total is the sum of all counts.
func (c *Counter) Total() int {
	n := 0
	for _, v := range c.counts {
		n += v
	}
	return n
}

// Values returns the counts aligned with the given key order.
func (c *Counter) Values(keys []string) []int {
	out := make([]int, len(keys))
	for i, k := range keys {
		out[i] = c.counts[k]
	}
	return out
}
