package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/firestore"

	domain "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/domain"
	pfirestore "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/platform/firestore"
	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/repositories"
)

const (
	decisionAuditsCollection = "decisionAudits"
	defaultAuditListLimit    = 20
)

// DecisionAuditRepository appends one document per repriced product and run.
type DecisionAuditRepository struct {
	base *pfirestore.BaseRepository[decisionAuditDocument]
}

var _ repositories.DecisionAuditRepository = (*DecisionAuditRepository)(nil)

// NewDecisionAuditRepository constructs a Firestore-backed audit repository.
func NewDecisionAuditRepository(provider *pfirestore.Provider) (*DecisionAuditRepository, error) {
	if provider == nil {
		return nil, errors.New("decision audit repository requires firestore provider")
	}
	return &DecisionAuditRepository{
		base: pfirestore.NewBaseRepository[decisionAuditDocument](provider, decisionAuditsCollection),
	}, nil
}

// Insert creates the audit document. Audits are append-only so an existing id is a conflict.
func (r *DecisionAuditRepository) Insert(ctx context.Context, audit domain.DecisionAudit) error {
	id := strings.TrimSpace(audit.ID)
	if id == "" {
		return fmt.Errorf("decision audit repository: audit id is required")
	}
	return r.base.Create(ctx, id, decisionAuditToDocument(audit))
}

// ListByProduct returns the latest audits for the product, newest first.
func (r *DecisionAuditRepository) ListByProduct(ctx context.Context, productID string, limit int) ([]domain.DecisionAudit, error) {
	if limit <= 0 {
		limit = defaultAuditListLimit
	}
	docs, err := r.base.Query(ctx, func(q firestore.Query) firestore.Query {
		return q.Where("productId", "==", strings.TrimSpace(productID)).
			OrderBy("recordedAt", firestore.Desc).
			Limit(limit)
	})
	if err != nil {
		return nil, err
	}
	audits := make([]domain.DecisionAudit, 0, len(docs))
	for _, doc := range docs {
		audits = append(audits, decisionAuditFromDocument(doc.ID, doc.Data))
	}
	return audits, nil
}
