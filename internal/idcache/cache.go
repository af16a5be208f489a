// Package idcache pages through the on-disk ID table using a fixed,
// caller-owned window buffer.
//
// The cache never holds more than len(buf) IDs. A lookup visits every entry
// of the table exactly once: it starts with the window that is currently
// loaded, pages forward to the end of the table and then wraps around to
// index 0, stopping where it began. The window left loaded after a lookup is
// the last one visited, so repeated lookups of nearby records avoid I/O.
package idcache

// Table is the on-disk ID table.
type Table interface {
	// Count returns the number of entries in the table.
	Count() uint32
	// ReadIDs fills dst with the entries starting at start.
	ReadIDs(start uint32, dst []uint32) error
}

// Cache is a window into a Table.
//
// The loaded window is buf[:length] and holds the entries
// [start, start+length). length == 0 means no window is loaded.
// Cache is not safe for concurrent use.
type Cache struct {
	buf    []uint32
	start  uint32
	length uint32
	loads  int
}

// New returns a Cache that pages through buf. buf must not be empty.
func New(buf []uint32) *Cache {
	if len(buf) == 0 {
		panic("idcache: empty window buffer")
	}
	return &Cache{buf: buf}
}

// Capacity returns the window capacity in entries.
func (c *Cache) Capacity() int { return len(c.buf) }

// Window returns the currently loaded window.
func (c *Cache) Window() (start, length uint32) { return c.start, c.length }

// Loads returns the number of windows read from the table so far.
func (c *Cache) Loads() int { return c.loads }

// Reset forgets the loaded window. The next lookup pages from index 0.
func (c *Cache) Reset() {
	c.start, c.length = 0, 0
}

// Appended records that id was appended to the table at index.
//
// When index directly follows the loaded window and the buffer has room,
// the entry is added to the live window instead of invalidating it.
func (c *Cache) Appended(index, id uint32) {
	if c.length == 0 || index != c.start+c.length || int(c.length) >= len(c.buf) {
		return
	}
	c.buf[c.length] = id
	c.length++
}

// Scan calls visit for every entry of t equal to id.
//
// Entries are visited in scan order: first [s, Count()) where s is the start
// of the window loaded on entry, then [0, s) with wrapped set. A failed read
// aborts the scan and resets the cache.
func (c *Cache) Scan(t Table, id uint32, visit func(index uint32, wrapped bool)) error {
	count := t.Count()
	if count == 0 {
		return nil
	}
	if c.length == 0 || c.start+c.length > count {
		if err := c.load(t, 0, count); err != nil {
			return err
		}
	}

	origin := c.start
	end := count
	wrapped := false
	for {
		for i, v := range c.buf[:c.length] {
			if v == id {
				visit(c.start+uint32(i), wrapped)
			}
		}

		next := c.start + c.length
		if next >= end {
			if wrapped || origin == 0 {
				return nil
			}
			wrapped = true
			end = origin
			next = 0
		}
		if err := c.load(t, next, end); err != nil {
			return err
		}
	}
}

// Find writes the indexes of the first len(out) entries equal to id, in
// increasing index order, to out. It returns the total number of matches,
// which exceeds len(out) when the result was truncated. A nil out only
// counts.
func (c *Cache) Find(t Table, id uint32, out []uint32) (int, error) {
	var (
		matched int
		written int // entries of out in use
		front   int // entries of out taken by wrapped matches
	)
	err := c.Scan(t, id, func(index uint32, wrapped bool) {
		matched++
		if !wrapped {
			if written < len(out) {
				out[written] = index
				written++
			}
			return
		}
		// Wrapped matches precede everything found before the wrap.
		if front >= len(out) {
			return
		}
		if written < len(out) {
			written++
		}
		copy(out[front+1:written], out[front:written-1])
		out[front] = index
		front++
	})
	if err != nil {
		return 0, err
	}
	return matched, nil
}

// load reads the window starting at start, clipped to capacity and end.
func (c *Cache) load(t Table, start, end uint32) error {
	n := end - start
	if uint64(n) > uint64(len(c.buf)) {
		n = uint32(len(c.buf))
	}
	if err := t.ReadIDs(start, c.buf[:n]); err != nil {
		c.Reset()
		return err
	}
	c.start, c.length = start, n
	c.loads++
	return nil
}
