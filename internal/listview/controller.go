package listview

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/buildory/phodo-admin/internal/models"
)

// Query is the controller's filter state. Fields holds exact-match
// filters keyed by field name; empty values are treated as unset.
type Query struct {
	Page   int
	Limit  int
	Search string
	Fields map[string]string
}

// NewQuery returns the default first-page state.
func NewQuery() Query {
	return Query{
		Page:   models.DefaultPage,
		Limit:  models.DefaultLimit,
		Fields: map[string]string{},
	}
}

// Key canonicalizes the state so that two equal predicates always map
// to the same cache entry regardless of field insertion order.
func (q Query) Key() string {
	names := make([]string, 0, len(q.Fields))
	for name, value := range q.Fields {
		if value != "" {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("page=")
	b.WriteString(strconv.Itoa(q.Page))
	b.WriteString("&limit=")
	b.WriteString(strconv.Itoa(q.Limit))
	if q.Search != "" {
		b.WriteString("&search=")
		b.WriteString(q.Search)
	}
	for _, name := range names {
		b.WriteString("&")
		b.WriteString(name)
		b.WriteString("=")
		b.WriteString(q.Fields[name])
	}
	return b.String()
}

func (q Query) clone() Query {
	fields := make(map[string]string, len(q.Fields))
	for name, value := range q.Fields {
		fields[name] = value
	}
	q.Fields = fields
	return q
}

// FetchFunc issues the actual list query for one filter state.
type FetchFunc[R any] func(ctx context.Context, q Query) (*models.ListResult[R], error)

type cacheEntry[R any] struct {
	result    *models.ListResult[R]
	fetchedAt time.Time
}

// Controller drives a filtered, paginated list view. It keeps a
// per-state result cache with a bounded freshness window and applies
// responses in issue order: a response for a superseded state is
// cached but never displayed.
type Controller[R any] struct {
	mu      sync.Mutex
	fetch   FetchFunc[R]
	ttl     time.Duration
	now     func() time.Time
	state   Query
	seq     uint64
	cache   map[string]cacheEntry[R]
	current *models.ListResult[R]
}

// DefaultFreshness is how long a cached page stays servable without a
// refetch.
const DefaultFreshness = 5 * time.Minute

func NewController[R any](fetch FetchFunc[R], ttl time.Duration) *Controller[R] {
	if ttl <= 0 {
		ttl = DefaultFreshness
	}
	return &Controller[R]{
		fetch: fetch,
		ttl:   ttl,
		now:   time.Now,
		state: NewQuery(),
		cache: map[string]cacheEntry[R]{},
	}
}

// Query returns a copy of the current filter state.
func (c *Controller[R]) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Result returns the last displayed result, nil before the first load.
func (c *Controller[R]) Result() *models.ListResult[R] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// SetSearch updates the search term and reloads from page 1.
func (c *Controller[R]) SetSearch(ctx context.Context, search string) error {
	c.mu.Lock()
	c.state = c.state.clone()
	c.state.Search = search
	c.state.Page = models.DefaultPage
	return c.load(ctx)
}

// SetFilter updates one field filter and reloads from page 1. An empty
// value clears the filter.
func (c *Controller[R]) SetFilter(ctx context.Context, field, value string) error {
	c.mu.Lock()
	c.state = c.state.clone()
	if value == "" {
		delete(c.state.Fields, field)
	} else {
		c.state.Fields[field] = value
	}
	c.state.Page = models.DefaultPage
	return c.load(ctx)
}

// SetPage navigates within the current predicate; it is the one state
// change that does not reset the page.
func (c *Controller[R]) SetPage(ctx context.Context, page int) error {
	c.mu.Lock()
	c.state = c.state.clone()
	c.state.Page = models.NormalizePage(page)
	return c.load(ctx)
}

// SetLimit changes the page size and reloads from page 1.
func (c *Controller[R]) SetLimit(ctx context.Context, limit int) error {
	c.mu.Lock()
	c.state = c.state.clone()
	c.state.Limit = models.NormalizeLimit(limit)
	c.state.Page = models.DefaultPage
	return c.load(ctx)
}

// Refresh reloads the current state, ignoring the cache.
func (c *Controller[R]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	delete(c.cache, c.state.Key())
	return c.load(ctx)
}

// load resolves the current state to a result. Must be entered with
// c.mu held; it releases the lock around the fetch. A fresh cache hit
// costs zero fetches. Responses are applied only when no newer request
// was issued in the meantime.
func (c *Controller[R]) load(ctx context.Context) error {
	state := c.state
	key := state.Key()

	if entry, ok := c.cache[key]; ok && c.now().Sub(entry.fetchedAt) < c.ttl {
		c.current = entry.result
		c.mu.Unlock()
		return nil
	}

	c.seq++
	mySeq := c.seq
	c.mu.Unlock()

	result, err := c.fetch(ctx, state)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		return err
	}

	c.cache[key] = cacheEntry[R]{result: result, fetchedAt: c.now()}

	// Superseded response: keep it cached, never display it.
	if mySeq != c.seq {
		return nil
	}

	c.current = result
	return nil
}
