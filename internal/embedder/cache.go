// ABOUTME: Query-vector cache in front of any embedder
// ABOUTME: In-process LRU with an optional shared tier such as Redis
package embedder

import (
	"container/list"
	"context"
	"io"
	"log"
	"sync"

	"github.com/harper/docqa/internal/util"
)

// VectorCache is a shared cache tier. Misses return ok=false with a nil error.
type VectorCache interface {
	Get(ctx context.Context, key string) ([]float32, bool, error)
	Set(ctx context.Context, key string, vec []float32) error
}

// Cached memoizes EmbedQuery. Document embedding at build time passes straight through.
type Cached struct {
	inner  Embedder
	local  *lru
	shared VectorCache
}

// NewCached wraps inner. capacity <= 0 disables the local tier; shared may be nil.
func NewCached(inner Embedder, capacity int, shared VectorCache) *Cached {
	return &Cached{inner: inner, local: newLRU(capacity), shared: shared}
}

// ModelID returns the wrapped embedder's model id
func (c *Cached) ModelID() string {
	return c.inner.ModelID()
}

// Close releases the shared tier when it holds a connection
func (c *Cached) Close() error {
	if closer, ok := c.shared.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// EmbedDocuments delegates to the wrapped embedder
func (c *Cached) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	return c.inner.EmbedDocuments(ctx, texts)
}

// EmbedQuery consults the local tier, then the shared tier, then the wrapped embedder
func (c *Cached) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	key, err := c.key(text)
	if err != nil {
		return c.inner.EmbedQuery(ctx, text)
	}

	if vec, ok := c.local.Get(key); ok {
		return vec, nil
	}

	if c.shared != nil {
		vec, ok, err := c.shared.Get(ctx, key)
		if err != nil {
			log.Printf("Warning: embedding cache read failed: %v", err)
		} else if ok {
			c.local.Add(key, vec)
			return cloneVec(vec), nil
		}
	}

	vec, err := c.inner.EmbedQuery(ctx, text)
	if err != nil {
		return nil, err
	}

	c.local.Add(key, vec)
	if c.shared != nil {
		if err := c.shared.Set(ctx, key, vec); err != nil {
			log.Printf("Warning: embedding cache write failed: %v", err)
		}
	}
	return cloneVec(vec), nil
}

// key namespaces the query by model so a model change never returns stale vectors.
// The text is hashed exactly as the wrapped embedder receives it.
func (c *Cached) key(text string) (string, error) {
	sum, err := util.HashHex([]byte(c.inner.ModelID() + "\n" + text))
	if err != nil {
		return "", err
	}
	return "docqa:emb:" + sum, nil
}

type lru struct {
	mu    sync.Mutex
	cap   int
	ll    *list.List
	items map[string]*list.Element
}

type lruEntry struct {
	key string
	vec []float32
}

func newLRU(capacity int) *lru {
	if capacity <= 0 {
		return nil
	}
	return &lru{
		cap:   capacity,
		ll:    list.New(),
		items: make(map[string]*list.Element, capacity),
	}
}

func (c *lru) Get(key string) ([]float32, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		return cloneVec(el.Value.(*lruEntry).vec), true
	}
	return nil, false
}

func (c *lru) Add(key string, vec []float32) {
	if c == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		el.Value.(*lruEntry).vec = cloneVec(vec)
		c.ll.MoveToFront(el)
		return
	}
	c.items[key] = c.ll.PushFront(&lruEntry{key: key, vec: cloneVec(vec)})
	if c.ll.Len() > c.cap {
		back := c.ll.Back()
		c.ll.Remove(back)
		delete(c.items, back.Value.(*lruEntry).key)
	}
}

func (c *lru) Len() int {
	if c == nil {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ll.Len()
}

func cloneVec(vec []float32) []float32 {
	if vec == nil {
		return nil
	}
	out := make([]float32, len(vec))
	copy(out, vec)
	return out
}
