package cart

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/models"
	"github.com/Ismailjr10/Lera-fashion-ecommerce/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustGet(t *testing.T, r *Registry, visitor string) *Store {
	t.Helper()
	s, err := r.Get(context.Background(), visitor)
	require.NoError(t, err)
	return s
}

func TestRegistryCachesPerVisitor(t *testing.T) {
	r := NewRegistry(storage.NewMemory(), nil, WithClock(fixedNow))
	ctx := context.Background()

	a := mustGet(t, r, "visitor:a")
	assert.Same(t, a, mustGet(t, r, "visitor:a"))
	assert.NotSame(t, a, mustGet(t, r, "user:42"))

	_, _ = a.Add(ctx, abaya(5), 1, "", "")
	assert.Empty(t, mustGet(t, r, "user:42").Items())
	assert.False(t, r.CanWatch())
}

func TestRegistryDoesNotKeepFailedLoad(t *testing.T) {
	ctx := context.Background()
	st := &flakyStore{Store: storage.NewMemory()}
	seed := NewRegistry(st, nil)
	_, _ = mustGet(t, seed, "visitor:a").Add(ctx, abaya(5), 2, "", "")

	r := NewRegistry(st, nil)
	st.failGet.Store(true)
	_, err := r.Get(ctx, "visitor:a")
	require.Error(t, err)

	st.failGet.Store(false)
	assert.Equal(t, 2, mustGet(t, r, "visitor:a").TotalItems())
}

func TestRegistryWatch(t *testing.T) {
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	r := NewRegistry(storage.NewMemory(), storage.NewLocalBroker(), WithClock(fixedNow))
	require.True(t, r.CanWatch())

	snaps, cancel, err := r.Watch(ctx, "visitor:a")
	require.NoError(t, err)
	defer cancel()

	_, err = mustGet(t, r, "visitor:a").Add(ctx, abaya(5), 2, "", "")
	require.NoError(t, err)

	select {
	case snap := <-snaps:
		assert.Equal(t, 2, snap.TotalItems)
		assert.Equal(t, int64(30000), snap.TotalPrice)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot")
	}
}

func TestWatchReloadsForeignWrites(t *testing.T) {
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	st := storage.NewMemory()
	broker := storage.NewLocalBroker()
	local := NewRegistry(st, broker, WithClock(fixedNow))
	other := NewRegistry(st, broker, WithClock(fixedNow))

	snaps, cancel, err := local.Watch(ctx, "user:1")
	require.NoError(t, err)
	defer cancel()

	_, _ = mustGet(t, other, "user:1").Add(ctx, hijab(5), 3, "", "")

	select {
	case snap := <-snaps:
		assert.Equal(t, 3, snap.TotalItems)
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot")
	}
	assert.Equal(t, 3, mustGet(t, local, "user:1").TotalItems())
}

// gatedStore bloque une lecture, une seule fois après arm, jusqu'à release.
type gatedStore struct {
	storage.Store
	armed   atomic.Bool
	entered chan struct{}
	release chan struct{}
}

func (g *gatedStore) Get(ctx context.Context, key string) ([]byte, error) {
	if g.armed.CompareAndSwap(true, false) {
		close(g.entered)
		<-g.release
	}
	return g.Store.Get(ctx, key)
}

func TestWatchReloadDoesNotLoseConcurrentAdd(t *testing.T) {
	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	mem := storage.NewMemory()
	st := &gatedStore{Store: mem, entered: make(chan struct{}), release: make(chan struct{})}
	r := NewRegistry(st, storage.NewLocalBroker())

	_, cancel, err := r.Watch(ctx, "visitor:a")
	require.NoError(t, err)
	defer cancel()
	store := mustGet(t, r, "visitor:a")

	// Le rechargement déclenché par cet ajout reste bloqué en lecture.
	st.armed.Store(true)
	_, err = store.Add(ctx, abaya(5), 1, "", "")
	require.NoError(t, err)
	select {
	case <-st.entered:
	case <-time.After(2 * time.Second):
		t.Fatal("reload never started")
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = store.Add(ctx, hijab(5), 1, "", "")
	}()
	select {
	case <-done:
	case <-time.After(50 * time.Millisecond):
	}
	close(st.release)
	<-done

	kaftan := models.Product{ID: "p3", Name: "Kaftan", Price: 30000, Category: models.CategoryKaftan, StockQuantity: 5}
	_, err = store.Add(ctx, kaftan, 1, "", "")
	require.NoError(t, err)

	fresh, err := NewStore(ctx, mem, "visitor:a")
	require.NoError(t, err)
	var ids []string
	for _, it := range fresh.Items() {
		ids = append(ids, it.Product.ID)
	}
	assert.ElementsMatch(t, []string{"p1", "p2", "p3"}, ids)
}
