/*
Package counter provides a frequency counter that keeps track of how many
times each key has been seen and which key is the mode.
*/
package counter

/*
Counter counts occurrences of comparable keys.

Its Mode method returns the key that first strictly exceeded the running
maximum count as increments arrived. When two keys end up with the same count,
the one that reached it first wins: a later key only replaces the mode by
overtaking it.
*/
type Counter[K comparable] struct {
	counts map[K]int
	keys   []K
	mode   K
	max    int
	total  int
}

/*
New returns an empty counter
*/
func New[K comparable]() *Counter[K] {
	return &Counter[K]{counts: make(map[K]int)}
}

/*
Add takes a key, increments its count and returns the new count.
*/
func (c *Counter[K]) Add(k K) int {
	n, ok := c.counts[k]
	if !ok {
		c.keys = append(c.keys, k)
	}
	n++
	c.counts[k] = n
	c.total++
	if n > c.max {
		c.mode = k
		c.max = n
	}
	return n
}

/*
Get returns the count for the given key, 0 if it has never been added.
*/
func (c *Counter[K]) Get(k K) int {
	return c.counts[k]
}

/*
Mode returns the most frequent key and its count. On an empty counter it
returns the zero value of K and 0.
*/
func (c *Counter[K]) Mode() (K, int) {
	return c.mode, c.max
}

// Len returns the number of distinct keys.
func (c *Counter[K]) Len() int {
	return len(c.keys)
}

// Total returns the sum of all counts.
func (c *Counter[K]) Total() int {
	return c.total
}

/*
Each calls f with every key and its count, in the order keys were first
added.
*/
func (c *Counter[K]) Each(f func(K, int)) {
	for _, k := range c.keys {
		f(k, c.counts[k])
	}
}
