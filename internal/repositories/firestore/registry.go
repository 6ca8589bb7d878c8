package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/api/iterator"

	pfirestore "github.com/Frontier-Dental/repricer-monorepo-sub006/internal/platform/firestore"
	"github.com/Frontier-Dental/repricer-monorepo-sub006/internal/repositories"
)

// Registry wires every Firestore repository onto one shared provider.
type Registry struct {
	provider  *pfirestore.Provider
	settings  *VendorSettingRepository
	snapshots *OfferSnapshotRepository
	audits    *DecisionAuditRepository
	health    repositories.HealthRepository
}

var _ repositories.Registry = (*Registry)(nil)

// NewRegistry builds the repositories. extraChecks join the Firestore readiness probe.
func NewRegistry(provider *pfirestore.Provider, extraChecks ...repositories.DependencyCheck) (*Registry, error) {
	if provider == nil {
		return nil, errors.New("firestore registry requires provider")
	}
	settings, err := NewVendorSettingRepository(provider)
	if err != nil {
		return nil, err
	}
	snapshots, err := NewOfferSnapshotRepository(provider)
	if err != nil {
		return nil, err
	}
	audits, err := NewDecisionAuditRepository(provider)
	if err != nil {
		return nil, err
	}

	checks := append([]repositories.DependencyCheck{{
		Name:    "firestore",
		Timeout: 2 * time.Second,
		Check:   pingFirestore(provider),
	}}, extraChecks...)
	health, err := repositories.NewDependencyHealthRepository(checks)
	if err != nil {
		return nil, fmt.Errorf("firestore registry: %w", err)
	}

	return &Registry{
		provider:  provider,
		settings:  settings,
		snapshots: snapshots,
		audits:    audits,
		health:    health,
	}, nil
}

func pingFirestore(provider *pfirestore.Provider) func(context.Context) error {
	return func(ctx context.Context) error {
		client, err := provider.Client(ctx)
		if err != nil {
			return err
		}
		iter := client.Collection(offerSnapshotsCollection).Select().Limit(1).Documents(ctx)
		defer iter.Stop()
		if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
			return pfirestore.WrapError("firestore.ping", err)
		}
		return nil
	}
}

func (r *Registry) Close(context.Context) error { return r.provider.Close() }

func (r *Registry) VendorSettings() repositories.VendorSettingRepository { return r.settings }

func (r *Registry) OfferSnapshots() repositories.OfferSnapshotRepository { return r.snapshots }

func (r *Registry) DecisionAudits() repositories.DecisionAuditRepository { return r.audits }

func (r *Registry) Health() repositories.HealthRepository { return r.health }
