package fetch

import (
	"time"

	"github.com/charmbracelet/log"
)

// chapterCandidates is probed in order when discovering a book's
// chapter count. The first candidate with verses becomes the floor for
// the upward search.
var chapterCandidates = []int{50, 30, 20, 10}

// BoundCache memoizes discovered chapter and verse bounds. The store's
// bound cache satisfies this.
type BoundCache interface {
	MaxChapter(book, translation string) (int, bool, error)
	SetMaxChapter(book, translation string, max int) error
	MaxVerse(book string, chapter int, translation string) (int, bool, error)
	SetMaxVerse(book string, chapter int, translation string, max int) error
}

// Discoverer finds the highest chapter and verse numbers of a book by
// probing the fetcher, pacing calls with a fixed delay. Discovered
// bounds are cached; cache failures are logged and discovery proceeds
// without them.
type Discoverer struct {
	fetcher Fetcher
	cache   BoundCache
	delay   time.Duration
	sleep   func(time.Duration)
}

// NewDiscoverer returns a Discoverer pacing probes by delay. cache may
// be nil to disable memoization.
func NewDiscoverer(fetcher Fetcher, cache BoundCache, delay time.Duration) *Discoverer {
	return &Discoverer{fetcher: fetcher, cache: cache, delay: delay, sleep: time.Sleep}
}

// MaxChapter returns the highest chapter number of book that has
// verses in the given translation. A cached bound short-circuits the
// probe sequence entirely.
//
// A failed or empty probe during the upward search ends it; a transient
// fetch failure is indistinguishable from the end of the book, so the
// bound may come out low. The next uncached discovery corrects it.
func (d *Discoverer) MaxChapter(book, translation string) (int, error) {
	if d.cache != nil {
		max, ok, err := d.cache.MaxChapter(book, translation)
		if err != nil {
			log.Warn("chapter bound cache read failed", "book", book, "err", err)
		} else if ok {
			return max, nil
		}
	}

	floor := 0
	for i, candidate := range chapterCandidates {
		if i > 0 {
			d.sleep(d.delay)
		}
		if d.hasVerses(book, candidate, translation) {
			floor = candidate
			break
		}
	}

	var max int
	if floor >= 10 {
		max = floor
		for ch := floor + 1; ; ch++ {
			d.sleep(d.delay)
			if !d.hasVerses(book, ch, translation) {
				break
			}
			max = ch
		}
	} else {
		for ch := 1; ch <= 10; ch++ {
			d.sleep(d.delay)
			if !d.hasVerses(book, ch, translation) {
				break
			}
			max = ch
		}
	}

	if d.cache != nil && max > 0 {
		if err := d.cache.SetMaxChapter(book, translation, max); err != nil {
			log.Warn("chapter bound cache write failed", "book", book, "err", err)
		}
	}
	log.Info("discovered chapter bound", "book", book, "translation", translation, "max", max)
	return max, nil
}

// MaxVerse returns the highest verse number in the given chapter,
// fetching the whole chapter once when the cache misses.
func (d *Discoverer) MaxVerse(book string, chapter int, translation string) (int, error) {
	if d.cache != nil {
		max, ok, err := d.cache.MaxVerse(book, chapter, translation)
		if err != nil {
			log.Warn("verse bound cache read failed", "book", book, "chapter", chapter, "err", err)
		} else if ok {
			return max, nil
		}
	}

	d.sleep(d.delay)
	payload, err := d.fetcher.Fetch(book, chapter, "", translation)
	if err != nil {
		return 0, err
	}

	max := 0
	for _, v := range payload.Verses {
		if v.Verse > max {
			max = v.Verse
		}
	}

	if d.cache != nil && max > 0 {
		if err := d.cache.SetMaxVerse(book, chapter, translation, max); err != nil {
			log.Warn("verse bound cache write failed", "book", book, "chapter", chapter, "err", err)
		}
	}
	return max, nil
}

func (d *Discoverer) hasVerses(book string, chapter int, translation string) bool {
	payload, err := d.fetcher.Fetch(book, chapter, "", translation)
	if err != nil {
		log.Debug("probe failed", "book", book, "chapter", chapter, "err", err)
		return false
	}
	return len(payload.Verses) > 0
}
