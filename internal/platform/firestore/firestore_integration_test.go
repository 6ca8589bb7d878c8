//go:build integration

package firestore_test

import (
	"context"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/firestore"

	pconfig "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/platform/config"
	pfirestore "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/platform/firestore"
)

type sampleEntity struct {
	Name  string `firestore:"name"`
	Count int    `firestore:"count"`
}

func newEmulatorProvider(t *testing.T) *pfirestore.Provider {
	t.Helper()
	host := os.Getenv("FIRESTORE_EMULATOR_HOST")
	if host == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}
	provider := pfirestore.NewProvider(pconfig.FirestoreConfig{ProjectID: "test-project", EmulatorHost: host})
	t.Cleanup(func() { _ = provider.Close() })
	return provider
}

func TestBaseRepositoryAgainstEmulator(t *testing.T) {
	provider := newEmulatorProvider(t)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	repo := pfirestore.NewBaseRepository[sampleEntity](provider, "products/P-1/samples")
	if err := repo.Set(ctx, "sample-1", sampleEntity{Name: "alpha", Count: 1}); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	doc, err := repo.Get(ctx, "sample-1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if doc.Data.Name != "alpha" || doc.Data.Count != 1 || doc.UpdateTime.IsZero() {
		t.Fatalf("unexpected document %#v", doc)
	}

	err = repo.Create(ctx, "sample-1", sampleEntity{Name: "beta"})
	var repoErr *pfirestore.Error
	if !asRepoErr(err, &repoErr) || !repoErr.IsConflict() {
		t.Fatalf("expected conflict on duplicate create, got %v", err)
	}

	_, err = repo.Get(ctx, "missing")
	if !asRepoErr(err, &repoErr) || !repoErr.IsNotFound() {
		t.Fatalf("expected not found, got %v", err)
	}

	docs, err := repo.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.Where("name", "==", "alpha")
	})
	if err != nil || len(docs) != 1 {
		t.Fatalf("expected one queried document, got %d (%v)", len(docs), err)
	}
}

func asRepoErr(err error, target **pfirestore.Error) bool {
	e, ok := err.(*pfirestore.Error)
	if ok {
		*target = e
	}
	return ok
}
