package firestore

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"

	domain "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/domain"
	pfirestore "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/platform/firestore"
	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/repositories"
)

const offerSnapshotsCollection = "offerSnapshots"

// OfferSnapshotRepository keeps the latest offer feed per product, keyed by product id.
type OfferSnapshotRepository struct {
	snapshots *pfirestore.BaseRepository[offerSnapshotDocument]
	ids       *pfirestore.BaseRepository[struct{}]
}

var _ repositories.OfferSnapshotRepository = (*OfferSnapshotRepository)(nil)

// NewOfferSnapshotRepository constructs a Firestore-backed snapshot repository.
func NewOfferSnapshotRepository(provider *pfirestore.Provider) (*OfferSnapshotRepository, error) {
	if provider == nil {
		return nil, errors.New("offer snapshot repository requires firestore provider")
	}
	return &OfferSnapshotRepository{
		snapshots: pfirestore.NewBaseRepository[offerSnapshotDocument](provider, offerSnapshotsCollection),
		ids:       pfirestore.NewBaseRepository[struct{}](provider, offerSnapshotsCollection),
	}, nil
}

func (r *OfferSnapshotRepository) Get(ctx context.Context, productID string) (domain.OfferSnapshot, error) {
	doc, err := r.snapshots.Get(ctx, strings.TrimSpace(productID))
	if err != nil {
		return domain.OfferSnapshot{}, err
	}
	snapshot := offerSnapshotFromDocument(doc.Data)
	if snapshot.ProductID == "" {
		snapshot.ProductID = doc.ID
	}
	return snapshot, nil
}

func (r *OfferSnapshotRepository) Save(ctx context.Context, snapshot domain.OfferSnapshot) error {
	return r.snapshots.Set(ctx, strings.TrimSpace(snapshot.ProductID), offerSnapshotToDocument(snapshot))
}

// ListProductIDs returns up to limit product ids in document id order. A non-positive limit lists all.
func (r *OfferSnapshotRepository) ListProductIDs(ctx context.Context, limit int) ([]string, error) {
	docs, err := r.ids.Query(ctx, func(q firestore.Query) firestore.Query {
		q = q.Select().OrderBy(firestore.DocumentID, firestore.Asc)
		if limit > 0 {
			q = q.Limit(limit)
		}
		return q
	})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	return ids, nil
}
