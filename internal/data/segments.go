package data

import (
	"fmt"
	"strconv"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/zjrosen/gridline/internal/log"
)

const (
	// segmentTTL bounds how long an untouched segment stays cached.
	segmentTTL = 5 * time.Minute

	// maxResidentSegments triggers neighborhood eviction once exceeded.
	maxResidentSegments = 10

	// neighborhoodRadius is how many segments either side of the
	// current one survive an eviction pass.
	neighborhoodRadius = 2

	// evictionFloor keeps at least this many of the farthest segments
	// resident even during eviction, so small back-and-forth scrolls
	// don't thrash.
	evictionFloor = 5
)

// SegmentCache is a read-through, segment-granular cache over a
// RowSource. Segment size is the engine's loading granularity hint; the
// cache retains the neighborhood of the most recently requested segment
// and evicts the rest under pressure.
type SegmentCache struct {
	source      RowSource
	segmentSize int64
	rows        int64
	cache       *gocache.Cache
}

// NewSegmentCache wraps source with a cache. rows is the total row count
// of the grid, used to truncate the final segment.
func NewSegmentCache(source RowSource, segmentSize, rows int64) *SegmentCache {
	if segmentSize <= 0 {
		segmentSize = 1
	}
	return &SegmentCache{
		source:      source,
		segmentSize: segmentSize,
		rows:        rows,
		cache:       gocache.New(segmentTTL, 2*segmentTTL),
	}
}

// SegmentSize returns the configured segment granularity.
func (c *SegmentCache) SegmentSize() int64 { return c.segmentSize }

// Segment returns the rows of the given segment, loading them from the
// source on a miss.
func (c *SegmentCache) Segment(idx int64) ([]Row, error) {
	key := strconv.FormatInt(idx, 10)
	if v, ok := c.cache.Get(key); ok {
		if rows, ok := v.([]Row); ok {
			return rows, nil
		}
		log.Error(log.CatCache, "wrong type in segment cache", "segment", idx)
	}

	start := idx * c.segmentSize
	count := c.segmentSize
	if c.rows > 0 && start+count > c.rows {
		count = c.rows - start
	}
	if count <= 0 {
		return nil, nil
	}

	rows, err := c.source.FetchRows(start, count)
	if err != nil {
		return nil, fmt.Errorf("loading segment %d: %w", idx, err)
	}
	log.Debug(log.CatCache, "segment loaded", "segment", idx, "rows", len(rows))

	if c.cache.ItemCount() > maxResidentSegments {
		c.evictFarFrom(idx)
	}
	c.cache.Set(key, rows, segmentTTL)
	return rows, nil
}

// Row returns a single row, loading its segment if needed. The second
// return is false when the source produced no data for that index.
func (c *SegmentCache) Row(rowIdx int64) (Row, bool, error) {
	if rowIdx < 0 || (c.rows > 0 && rowIdx >= c.rows) {
		return Row{}, false, nil
	}
	seg, err := c.Segment(rowIdx / c.segmentSize)
	if err != nil {
		return Row{}, false, err
	}
	within := int(rowIdx % c.segmentSize)
	if within >= len(seg) {
		return Row{}, false, nil
	}
	return seg[within], true, nil
}

// Flush drops every cached segment. Called when the underlying dataset
// changes on disk.
func (c *SegmentCache) Flush() {
	c.cache.Flush()
	log.Debug(log.CatCache, "segment cache flushed")
}

// ResidentSegments returns how many segments are currently cached.
func (c *SegmentCache) ResidentSegments() int {
	return c.cache.ItemCount()
}

// evictFarFrom removes segments outside the neighborhood of current,
// keeping the evictionFloor most recently seen candidates resident.
func (c *SegmentCache) evictFarFrom(current int64) {
	var far []string
	for key := range c.cache.Items() {
		idx, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		if idx < current-neighborhoodRadius || idx > current+neighborhoodRadius {
			far = append(far, key)
		}
	}
	if len(far) <= evictionFloor {
		return
	}
	for _, key := range far[:len(far)-evictionFloor] {
		c.cache.Delete(key)
	}
	log.Debug(log.CatCache, "evicted segments", "count", len(far)-evictionFloor, "around", current)
}
