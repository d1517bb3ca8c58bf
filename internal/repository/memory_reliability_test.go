package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"CoinSentry/internal/domain/models"
)

func TestMemoryStoreRoundTrip(t *testing.T) {
	s := NewMemoryReliabilityStore()
	ctx := context.Background()

	got, err := s.Get(ctx, "binance")
	if err != nil || got != nil {
		t.Fatalf("missing source must be (nil, nil), got (%v, %v)", got, err)
	}

	err = s.Update(ctx, "binance", func(cur *models.SourceReliability) *models.SourceReliability {
		if cur != nil {
			t.Fatalf("first update must see nil, got %+v", cur)
		}
		return &models.SourceReliability{SourceName: "binance", TrustWeight: 0.6, SampleCount: 1, LastUpdated: time.Now()}
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	got, err = s.Get(ctx, "binance")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.TrustWeight != 0.6 || got.SampleCount != 1 {
		t.Fatalf("unexpected row %+v", got)
	}
}

func TestMemoryStoreUpdateSerialized(t *testing.T) {
	s := NewMemoryReliabilityStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.Update(ctx, "src", func(cur *models.SourceReliability) *models.SourceReliability {
				if cur == nil {
					cur = &models.SourceReliability{SourceName: "src"}
				}
				cur.SampleCount++
				return cur
			})
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, "src")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.SampleCount != 50 {
		t.Fatalf("lost updates: want 50 got %d", got.SampleCount)
	}
}

func TestMemoryStoreGetAll(t *testing.T) {
	s := NewMemoryReliabilityStore()
	ctx := context.Background()

	for _, name := range []string{"a", "b", "c"} {
		name := name
		_ = s.Update(ctx, name, func(*models.SourceReliability) *models.SourceReliability {
			return &models.SourceReliability{SourceName: name, TrustWeight: 0.5}
		})
	}

	rows, err := s.GetAll(ctx)
	if err != nil {
		t.Fatalf("getall: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("want 3 rows got %d", len(rows))
	}
}
