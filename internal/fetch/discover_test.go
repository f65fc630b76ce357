package fetch

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/concord/pkg/types"
)

// fakeFetcher serves a book with a fixed chapter count and a fixed
// number of verses per chapter, recording every probe.
type fakeFetcher struct {
	chapters int
	verses   int
	probes   []int
}

func (f *fakeFetcher) Fetch(book string, chapter int, verses, translation string) (*types.VersePayload, error) {
	f.probes = append(f.probes, chapter)
	if chapter < 1 || chapter > f.chapters {
		return nil, fmt.Errorf("%s %d: not found", book, chapter)
	}
	p := &types.VersePayload{Reference: fmt.Sprintf("%s %d", book, chapter)}
	for v := 1; v <= f.verses; v++ {
		p.Verses = append(p.Verses, types.Verse{BookName: book, Chapter: chapter, Verse: v})
	}
	return p, nil
}

// fakeCache is an in-memory BoundCache with switchable failure modes.
type fakeCache struct {
	chapters map[string]int
	verses   map[string]int
	readErr  error
	writeErr error
}

func newFakeCache() *fakeCache {
	return &fakeCache{chapters: map[string]int{}, verses: map[string]int{}}
}

func (c *fakeCache) MaxChapter(book, translation string) (int, bool, error) {
	if c.readErr != nil {
		return 0, false, c.readErr
	}
	max, ok := c.chapters[book+"/"+translation]
	return max, ok, nil
}

func (c *fakeCache) SetMaxChapter(book, translation string, max int) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.chapters[book+"/"+translation] = max
	return nil
}

func (c *fakeCache) MaxVerse(book string, chapter int, translation string) (int, bool, error) {
	if c.readErr != nil {
		return 0, false, c.readErr
	}
	max, ok := c.verses[fmt.Sprintf("%s/%d/%s", book, chapter, translation)]
	return max, ok, nil
}

func (c *fakeCache) SetMaxVerse(book string, chapter int, translation string, max int) error {
	if c.writeErr != nil {
		return c.writeErr
	}
	c.verses[fmt.Sprintf("%s/%d/%s", book, chapter, translation)] = max
	return nil
}

// testDiscoverer wires a discoverer whose sleeps are recorded instead
// of slept.
func testDiscoverer(fetcher Fetcher, cache BoundCache) (*Discoverer, *int) {
	d := NewDiscoverer(fetcher, cache, time.Second)
	sleeps := 0
	d.sleep = func(time.Duration) { sleeps++ }
	return d, &sleeps
}

func TestMaxChapter(t *testing.T) {
	t.Run("floor then upward search", func(t *testing.T) {
		fetcher := &fakeFetcher{chapters: 21, verses: 5}
		d, sleeps := testDiscoverer(fetcher, newFakeCache())

		max, err := d.MaxChapter("John", "web")
		require.NoError(t, err)
		assert.Equal(t, 21, max)
		// 50 and 30 fail, 20 becomes the floor, then 21 succeeds and 22
		// ends the search.
		assert.Equal(t, []int{50, 30, 20, 21, 22}, fetcher.probes)
		// Two delays between candidates plus one per upward probe.
		assert.Equal(t, 4, *sleeps)
	})

	t.Run("no delay before the first candidate", func(t *testing.T) {
		fetcher := &fakeFetcher{chapters: 66, verses: 5}
		d, sleeps := testDiscoverer(fetcher, newFakeCache())

		_, err := d.MaxChapter("Isaiah", "web")
		require.NoError(t, err)
		assert.Equal(t, 50, fetcher.probes[0])
		// 16 upward probes (51..66 succeed, 67 fails).
		assert.Equal(t, 17, *sleeps)
	})

	t.Run("small book searches one through ten", func(t *testing.T) {
		fetcher := &fakeFetcher{chapters: 3, verses: 5}
		d, _ := testDiscoverer(fetcher, newFakeCache())

		max, err := d.MaxChapter("Jude", "web")
		require.NoError(t, err)
		assert.Equal(t, 3, max)
		assert.Equal(t, []int{50, 30, 20, 10, 1, 2, 3, 4}, fetcher.probes)
	})

	t.Run("cache hit skips probing entirely", func(t *testing.T) {
		fetcher := &fakeFetcher{chapters: 21, verses: 5}
		cache := newFakeCache()
		require.NoError(t, cache.SetMaxChapter("John", "web", 21))
		d, sleeps := testDiscoverer(fetcher, cache)

		max, err := d.MaxChapter("John", "web")
		require.NoError(t, err)
		assert.Equal(t, 21, max)
		assert.Empty(t, fetcher.probes)
		assert.Zero(t, *sleeps)
	})

	t.Run("discovered bound is cached", func(t *testing.T) {
		fetcher := &fakeFetcher{chapters: 21, verses: 5}
		cache := newFakeCache()
		d, _ := testDiscoverer(fetcher, cache)

		_, err := d.MaxChapter("John", "web")
		require.NoError(t, err)
		max, ok, err := cache.MaxChapter("John", "web")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 21, max)
	})

	t.Run("cache read failure falls back to discovery", func(t *testing.T) {
		fetcher := &fakeFetcher{chapters: 21, verses: 5}
		cache := newFakeCache()
		cache.readErr = errors.New("disk on fire")
		d, _ := testDiscoverer(fetcher, cache)

		max, err := d.MaxChapter("John", "web")
		require.NoError(t, err)
		assert.Equal(t, 21, max)
		assert.NotEmpty(t, fetcher.probes)
	})

	t.Run("cache write failure does not fail discovery", func(t *testing.T) {
		fetcher := &fakeFetcher{chapters: 21, verses: 5}
		cache := newFakeCache()
		cache.writeErr = errors.New("disk still on fire")
		d, _ := testDiscoverer(fetcher, cache)

		max, err := d.MaxChapter("John", "web")
		require.NoError(t, err)
		assert.Equal(t, 21, max)
	})

	t.Run("nil cache disables memoization", func(t *testing.T) {
		fetcher := &fakeFetcher{chapters: 21, verses: 5}
		d, _ := testDiscoverer(fetcher, nil)

		max, err := d.MaxChapter("John", "web")
		require.NoError(t, err)
		assert.Equal(t, 21, max)
	})
}

func TestMaxVerse(t *testing.T) {
	t.Run("counts verses of the whole chapter", func(t *testing.T) {
		fetcher := &fakeFetcher{chapters: 21, verses: 36}
		cache := newFakeCache()
		d, sleeps := testDiscoverer(fetcher, cache)

		max, err := d.MaxVerse("John", 3, "web")
		require.NoError(t, err)
		assert.Equal(t, 36, max)
		assert.Equal(t, []int{3}, fetcher.probes)
		// One delay before the single fetch.
		assert.Equal(t, 1, *sleeps)

		cached, ok, err := cache.MaxVerse("John", 3, "web")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, 36, cached)
	})

	t.Run("cache hit skips the fetch", func(t *testing.T) {
		fetcher := &fakeFetcher{chapters: 21, verses: 36}
		cache := newFakeCache()
		require.NoError(t, cache.SetMaxVerse("John", 3, "web", 36))
		d, sleeps := testDiscoverer(fetcher, cache)

		max, err := d.MaxVerse("John", 3, "web")
		require.NoError(t, err)
		assert.Equal(t, 36, max)
		assert.Empty(t, fetcher.probes)
		assert.Zero(t, *sleeps)
	})

	t.Run("fetch failure propagates", func(t *testing.T) {
		fetcher := &fakeFetcher{chapters: 21, verses: 36}
		d, _ := testDiscoverer(fetcher, newFakeCache())

		_, err := d.MaxVerse("John", 99, "web")
		assert.Error(t, err)
	})
}
