package suggest

import (
	"context"
	"runtime"
	"sort"
	"strings"
	"sync"
)

// Directory looks up mention candidates.
type Directory interface {
	// Search returns at most limit users matching query, best first.
	// A limit of 0 or less returns every match.
	Search(ctx context.Context, query string, limit int) ([]User, error)
}

// MemoryOptions configures a MemoryDirectory.
type MemoryOptions struct {
	// CacheSize is the number of cached queries. 0 disables the cache.
	CacheSize int

	// Workers is the number of goroutines scoring users. 0 uses one
	// per CPU.
	Workers int
}

// DefaultMemoryOptions returns the default directory options.
func DefaultMemoryOptions() MemoryOptions {
	return MemoryOptions{CacheSize: 256}
}

// MemoryDirectory is a Directory over a fixed user list. Users match on
// their name or handle. It is safe for concurrent use.
type MemoryDirectory struct {
	mu      sync.RWMutex
	users   []User
	cache   *cache
	workers int
}

// NewMemoryDirectory returns a directory holding users.
func NewMemoryDirectory(opts MemoryOptions, users ...User) *MemoryDirectory {
	d := &MemoryDirectory{
		users:   append([]User(nil), users...),
		workers: opts.Workers,
	}
	if d.workers <= 0 {
		d.workers = runtime.NumCPU()
	}
	if opts.CacheSize > 0 {
		d.cache = newCache(opts.CacheSize)
	}
	return d
}

// Add adds users and clears cached results.
func (d *MemoryDirectory) Add(users ...User) {
	d.mu.Lock()
	d.users = append(d.users, users...)
	d.mu.Unlock()
	if d.cache != nil {
		d.cache.clear()
	}
}

// Len returns the number of users.
func (d *MemoryDirectory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users)
}

// Search implements Directory. Blank queries match nothing.
func (d *MemoryDirectory) Search(ctx context.Context, query string, limit int) ([]User, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil, nil
	}

	results, ok := []match(nil), false
	if d.cache != nil {
		results, ok = d.cache.get(query)
	}
	if !ok {
		var err error
		if results, err = d.match(ctx, []rune(query)); err != nil {
			return nil, err
		}
		if d.cache != nil {
			d.cache.set(query, results)
		}
	}

	if limit > 0 && limit < len(results) {
		results = results[:limit]
	}
	users := make([]User, len(results))
	for i, r := range results {
		users[i] = r.user
	}
	return users, nil
}

// match scores every user in parallel chunks.
func (d *MemoryDirectory) match(ctx context.Context, query []rune) ([]match, error) {
	d.mu.RLock()
	users := d.users
	d.mu.RUnlock()

	chunkSize := max((len(users)+d.workers-1)/d.workers, 10)

	var wg sync.WaitGroup
	chunks := make(chan []match, (len(users)+chunkSize-1)/chunkSize)
	for i := 0; i < len(users); i += chunkSize {
		wg.Add(1)
		go func(chunk []User) {
			defer wg.Done()
			var found []match
			for j, u := range chunk {
				if j%64 == 0 && ctx.Err() != nil {
					return
				}
				s := max(matchText(query, u.Name), matchText(query, u.Handle()))
				if s > 0 {
					found = append(found, match{user: u, score: s})
				}
			}
			chunks <- found
		}(users[i:min(i+chunkSize, len(users))])
	}
	wg.Wait()
	close(chunks)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var results []match
	for chunk := range chunks {
		results = append(results, chunk...)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].score != results[j].score {
			return results[i].score > results[j].score
		}
		return results[i].user.Handle() < results[j].user.Handle()
	})
	return results, nil
}
