package registry

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Harshitk-cp/sibyl/internal/domain"
	"go.uber.org/zap"
)

type stubStore struct{}

func (s *stubStore) Search(ctx context.Context, partition domain.Partition, embedding []float32, opts domain.SearchOpts) ([]domain.RetrievedDocument, error) {
	return nil, nil
}

func (s *stubStore) GetBySourceID(ctx context.Context, sourceID string) (*domain.RetrievedDocument, error) {
	return nil, nil
}

func TestRegistry_ResolvesAliases(t *testing.T) {
	if got := Resolve("immigration"); got != domain.PartitionVisa {
		t.Errorf("expected visa, got %s", got)
	}
	if got := Resolve("vat"); got != domain.PartitionTax {
		t.Errorf("expected tax, got %s", got)
	}
	// Unknown names resolve to themselves
	if got := Resolve("mystery"); got != domain.Partition("mystery") {
		t.Errorf("expected passthrough, got %s", got)
	}
}

func TestRegistry_LazyConnectionCachedByResolvedName(t *testing.T) {
	connects := 0
	r := New(func(p domain.Partition) (domain.DocumentStore, error) {
		connects++
		return &stubStore{}, nil
	}, zap.NewNop())

	h1 := r.Get("visa")
	h2 := r.Get("immigration") // alias of visa
	if h1 == nil || h2 == nil {
		t.Fatal("expected handles")
	}
	if h1 != h2 {
		t.Error("alias should share the cached handle")
	}
	if connects != 1 {
		t.Errorf("expected 1 connection, got %d", connects)
	}
}

func TestRegistry_ConnectionFailureReturnsNil(t *testing.T) {
	r := New(func(p domain.Partition) (domain.DocumentStore, error) {
		return nil, errors.New("backend down")
	}, zap.NewNop())

	if h := r.Get("tax"); h != nil {
		t.Error("expected nil handle on connection failure")
	}
}

func TestRegistry_UnknownPartitionReturnsNil(t *testing.T) {
	r := New(func(p domain.Partition) (domain.DocumentStore, error) {
		return &stubStore{}, nil
	}, zap.NewNop())

	if h := r.Get("not_a_partition"); h != nil {
		t.Error("expected nil handle for unknown partition")
	}
}

func TestRegistry_ListAndInfoAreStatic(t *testing.T) {
	r := New(func(p domain.Partition) (domain.DocumentStore, error) {
		t.Fatal("list/info must not connect")
		return nil, nil
	}, zap.NewNop())

	if len(r.List()) == 0 {
		t.Error("expected partition metadata")
	}

	info, ok := r.Info("prices")
	if !ok {
		t.Fatal("expected pricing info via alias")
	}
	if info.Name != domain.PartitionPricing {
		t.Errorf("expected pricing, got %s", info.Name)
	}

	if _, ok := r.Info("mystery"); ok {
		t.Error("expected no info for unknown partition")
	}
}

func TestRegistry_ConcurrentGet(t *testing.T) {
	r := New(func(p domain.Partition) (domain.DocumentStore, error) {
		return &stubStore{}, nil
	}, zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if h := r.Get("knowledge"); h == nil {
				t.Error("expected handle")
			}
		}()
	}
	wg.Wait()
}
