// Package history merges reply generations, completed calendar tasks and
// scheduled posts into one feed, newest first, filterable by origin.
package history

import (
	"context"
	"log"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/harrisonrobin/schedalize/pkg/dates"
	"github.com/harrisonrobin/schedalize/pkg/model"
)

// Sources are the three record streams behind the feed.
type Sources interface {
	FetchReplyHistory(ctx context.Context) ([]model.ReplyRecord, error)
	FetchTasks(ctx context.Context, q model.TaskQuery) ([]model.CalendarTask, error)
	FetchScheduledPosts(ctx context.Context) ([]model.ScheduledPost, error)
}

type Aggregator struct {
	src    Sources
	parser DateParser
	now    func() time.Time
	logger *log.Logger

	loading atomic.Bool

	mu       sync.RWMutex
	items    []Item
	loaded   bool
	selected map[ItemType]bool
}

type Option func(*Aggregator)

func WithParser(p DateParser) Option {
	return func(a *Aggregator) { a.parser = p }
}

func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(a *Aggregator) { a.logger = l }
}

// New returns an Aggregator with every type selected.
func New(src Sources, opts ...Option) *Aggregator {
	a := &Aggregator{
		src:      src,
		parser:   dates.NewNormalizer(time.Local),
		now:      time.Now,
		logger:   log.Default(),
		selected: make(map[ItemType]bool, len(AllTypes)),
	}
	for _, t := range AllTypes {
		a.selected[t] = true
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// LoadAll fetches the three sources concurrently and replaces the feed with
// their merged result. A source that fails contributes nothing and is
// logged. If another LoadAll is still running the call returns false
// without fetching.
func (a *Aggregator) LoadAll(ctx context.Context) bool {
	if !a.loading.CompareAndSwap(false, true) {
		return false
	}
	defer a.loading.Store(false)

	var replies, tasks, scheduled []Item
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		replies = a.loadReplies(ctx)
	}()
	go func() {
		defer wg.Done()
		tasks = a.loadTasks(ctx)
	}()
	go func() {
		defer wg.Done()
		scheduled = a.loadScheduled(ctx)
	}()
	wg.Wait()

	items := make([]Item, 0, len(replies)+len(tasks)+len(scheduled))
	items = append(items, replies...)
	items = append(items, tasks...)
	items = append(items, scheduled...)

	a.mu.Lock()
	a.items = items
	a.loaded = true
	a.mu.Unlock()

	a.logger.Printf("[history] loaded %d total items", len(items))
	return true
}

func (a *Aggregator) loadReplies(ctx context.Context) []Item {
	records, err := a.src.FetchReplyHistory(ctx)
	if err != nil {
		a.logger.Printf("[history] failed to load replies: %v", err)
		return nil
	}
	now := a.now()
	items := make([]Item, 0, len(records))
	for _, r := range records {
		items = append(items, FromReply(r, a.parser, now))
	}
	return items
}

func (a *Aggregator) loadTasks(ctx context.Context) []Item {
	records, err := a.src.FetchTasks(ctx, model.TaskQuery{IncludeCompleted: true})
	if err != nil {
		a.logger.Printf("[history] failed to load tasks: %v", err)
		return nil
	}
	now := a.now()
	var items []Item
	for _, t := range records {
		if item, ok := FromTask(t, a.parser, now); ok {
			items = append(items, item)
		}
	}
	return items
}

func (a *Aggregator) loadScheduled(ctx context.Context) []Item {
	records, err := a.src.FetchScheduledPosts(ctx)
	if err != nil {
		a.logger.Printf("[history] failed to load scheduled posts: %v", err)
		return nil
	}
	now := a.now()
	items := make([]Item, 0, len(records))
	for _, p := range records {
		items = append(items, FromScheduled(p, a.parser, now))
	}
	return items
}

// Loading reports whether a LoadAll is in flight.
func (a *Aggregator) Loading() bool {
	return a.loading.Load()
}

// Loaded reports whether at least one LoadAll has finished.
func (a *Aggregator) Loaded() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.loaded
}

// Items returns the merged feed in source order (replies, tasks, scheduled).
func (a *Aggregator) Items() []Item {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return append([]Item(nil), a.items...)
}

// FilteredItems returns items of the selected types, newest first. Items
// with equal CreatedAt keep source order.
func (a *Aggregator) FilteredItems() []Item {
	a.mu.RLock()
	out := make([]Item, 0, len(a.items))
	for _, item := range a.items {
		if a.selected[item.Type()] {
			out = append(out, item)
		}
	}
	a.mu.RUnlock()

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// ToggleFilter flips t in the selected set and returns whether t is now
// selected. The last selected type cannot be removed.
func (a *Aggregator) ToggleFilter(t ItemType) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if !a.selected[t] {
		a.selected[t] = true
		return true
	}
	if a.selectedCount() > 1 {
		delete(a.selected, t)
		return false
	}
	return true
}

// Select replaces the selected set with types. An empty list is ignored.
func (a *Aggregator) Select(types ...ItemType) {
	if len(types) == 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.selected = make(map[ItemType]bool, len(types))
	for _, t := range types {
		a.selected[t] = true
	}
}

func (a *Aggregator) selectedCount() int {
	n := 0
	for _, on := range a.selected {
		if on {
			n++
		}
	}
	return n
}

func (a *Aggregator) IsSelected(t ItemType) bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.selected[t]
}

// Selected lists the selected types in AllTypes order.
func (a *Aggregator) Selected() []ItemType {
	a.mu.RLock()
	defer a.mu.RUnlock()
	var out []ItemType
	for _, t := range AllTypes {
		if a.selected[t] {
			out = append(out, t)
		}
	}
	return out
}

// Counts returns how many items of each type the unfiltered feed holds.
func (a *Aggregator) Counts() map[ItemType]int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	counts := make(map[ItemType]int, len(AllTypes))
	for _, t := range AllTypes {
		counts[t] = 0
	}
	for _, item := range a.items {
		counts[item.Type()]++
	}
	return counts
}
