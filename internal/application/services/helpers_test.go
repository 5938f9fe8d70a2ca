package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/studio-one/portfolio-api/internal/domain/activity"
	"github.com/studio-one/portfolio-api/internal/domain/repositories"
	schema "github.com/studio-one/portfolio-api/internal/infrastructure/database"
	"github.com/studio-one/portfolio-api/internal/infrastructure/observability/logging"
	"github.com/studio-one/portfolio-api/internal/infrastructure/persistence/database"
)

// fakeClock only moves when told to.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// memObjectStore is an in-memory repositories.ObjectStore. Continuation
// tokens are offsets into the sorted key list.
type memObjectStore struct {
	mu        sync.Mutex
	buckets   map[string]map[string]int64
	listCalls map[string]int
	rmCalls   map[string]int

	listErr   map[string]error
	listErrAt int // fail on this list call number when > 0
	removeErr error
	removeAt  int // fail on this remove call number when > 0
	stuckKeys map[string]bool
	onList    func()
}

func newMemObjectStore() *memObjectStore {
	return &memObjectStore{
		buckets:   map[string]map[string]int64{},
		listCalls: map[string]int{},
		rmCalls:   map[string]int{},
		listErr:   map[string]error{},
		stuckKeys: map[string]bool{},
	}
}

func (m *memObjectStore) seed(bucket string, n int, size int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.buckets[bucket] == nil {
		m.buckets[bucket] = map[string]int64{}
	}
	for i := 0; i < n; i++ {
		m.buckets[bucket][fmt.Sprintf("file-%04d.png", i)] = size
	}
}

func (m *memObjectStore) put(bucket, key string, size int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.buckets[bucket] == nil {
		m.buckets[bucket] = map[string]int64{}
	}
	m.buckets[bucket][key] = size
}

func (m *memObjectStore) count(bucket string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buckets[bucket])
}

func (m *memObjectStore) ListPage(_ context.Context, bucket, token string, limit int) (*repositories.ObjectPage, error) {
	if m.onList != nil {
		m.onList()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls[bucket]++
	if err := m.listErr[bucket]; err != nil && (m.listErrAt == 0 || m.listErrAt == m.listCalls[bucket]) {
		return nil, err
	}

	keys := make([]string, 0, len(m.buckets[bucket]))
	for k := range m.buckets[bucket] {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	offset := 0
	if token != "" {
		offset, _ = strconv.Atoi(token)
	}
	if offset > len(keys) {
		offset = len(keys)
	}
	end := min(offset+limit, len(keys))

	page := &repositories.ObjectPage{}
	for _, k := range keys[offset:end] {
		page.Objects = append(page.Objects, repositories.ObjectInfo{Key: k, Size: m.buckets[bucket][k]})
	}
	if end < len(keys) {
		page.NextToken = strconv.Itoa(end)
	}
	return page, nil
}

func (m *memObjectStore) RemoveObjects(_ context.Context, bucket string, keys []string) ([]repositories.RemoveFailure, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rmCalls[bucket]++
	if m.removeErr != nil && (m.removeAt == 0 || m.removeAt == m.rmCalls[bucket]) {
		return nil, m.removeErr
	}
	var failures []repositories.RemoveFailure
	for _, k := range keys {
		if m.stuckKeys[k] {
			failures = append(failures, repositories.RemoveFailure{Key: k, Code: "AccessDenied", Message: "denied"})
			continue
		}
		delete(m.buckets[bucket], k)
	}
	return failures, nil
}

func (m *memObjectStore) ListBuckets(context.Context) ([]repositories.BucketInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.buckets))
	for name := range m.buckets {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]repositories.BucketInfo, len(names))
	for i, name := range names {
		out[i] = repositories.BucketInfo{Name: name}
	}
	return out, nil
}

// memActivityLog is an in-memory activity.Log that can be made to fail.
type memActivityLog struct {
	mu        sync.Mutex
	entries   []*activity.Entry
	attempts  int
	insertErr error
}

func (l *memActivityLog) Insert(_ context.Context, entry *activity.Entry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attempts++
	if l.insertErr != nil {
		return l.insertErr
	}
	l.entries = append(l.entries, entry)
	return nil
}

func (l *memActivityLog) List(_ context.Context, limit int) ([]*activity.Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]*activity.Entry, 0, len(l.entries))
	for i := len(l.entries) - 1; i >= 0 && (limit <= 0 || len(out) < limit); i-- {
		out = append(out, l.entries[i])
	}
	return out, nil
}

func (l *memActivityLog) Clear(context.Context) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := int64(len(l.entries))
	l.entries = nil
	return n, nil
}

func (l *memActivityLog) snapshot() []*activity.Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*activity.Entry(nil), l.entries...)
}

var errBoom = errors.New("boom")

// newPortfolioDB opens an in-memory database with the full schema and seeds.
func newPortfolioDB(t *testing.T) *database.DB {
	t.Helper()
	db, err := database.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	creator := schema.NewTableCreator()
	require.NoError(t, creator.CreateSchema(db.DB))
	require.NoError(t, creator.SeedInitialContent(db.DB))
	return db
}

func exec(t *testing.T, db *database.DB, query string, args ...any) {
	t.Helper()
	_, err := db.Exec(query, args...)
	require.NoError(t, err)
}

func countRows(t *testing.T, db *database.DB, query string, args ...any) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(query, args...).Scan(&n))
	return n
}

func discardLogger() *logging.ChanneledLogger {
	return logging.NewDiscardLogger()
}
