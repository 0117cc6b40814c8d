package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"guesense/internal/merchant/models"
	"guesense/internal/platform/metrics"
	id "guesense/pkg/domain"
	dErrors "guesense/pkg/domain-errors"
	"guesense/pkg/pagination"
	"guesense/pkg/platform/sentinel"
	"guesense/pkg/requestcontext"
)

const (
	// Default page sizes differ between the two list endpoints on purpose:
	// the available list feeds a small picker widget, the registered list
	// a wider table.
	defaultAvailableLimit  = 5
	defaultRegisteredLimit = 6

	// bulkConcurrency bounds the fan-out of best-effort bulk registration.
	bulkConcurrency = 4
)

//go:generate mockgen -source=service.go -destination=mocks/mocks.go -package=mocks

type RegistryStore interface {
	Create(ctx context.Context, entry *models.RegistryEntry) error
	FindByID(ctx context.Context, registryID id.RegistryID) (*models.RegistryEntry, error)
	FindActiveByMerchant(ctx context.Context, merchantID id.MerchantID) (*models.RegistryEntry, error)
	Update(ctx context.Context, registryID id.RegistryID, patch models.RegistryPatch) error
	Delete(ctx context.Context, registryID id.RegistryID) error
	ListIndividual(ctx context.Context, filter pagination.Filter) ([]models.MerchantWithRegistry, error)
	CountIndividual(ctx context.Context, filter pagination.Filter) (int, error)
}

type CatalogReader interface {
	ListAvailable(ctx context.Context, filter pagination.Filter) ([]models.Merchant, error)
	FindByID(ctx context.Context, merchantID id.MerchantID) (*models.Merchant, error)
}

// RegisteredPage is the paginated view of individually registered
// merchants.
type RegisteredPage struct {
	Merchants  []models.MerchantWithRegistry `json:"merchants"`
	Pagination pagination.Page               `json:"pagination"`
}

// Service orchestrates merchant registration. It keeps orchestration out
// of handlers and domain logic thin.
type Service struct {
	registry RegistryStore
	catalog  CatalogReader
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// New constructs a Service.
func New(registry RegistryStore, catalog CatalogReader, opts ...Option) *Service {
	s := &Service{registry: registry, catalog: catalog, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListAvailable returns catalog merchants with no active registration.
func (s *Service) ListAvailable(ctx context.Context, filter pagination.Filter) ([]models.Merchant, error) {
	filter = filter.WithDefaults(defaultAvailableLimit)

	merchants, err := s.catalog.ListAvailable(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list available merchants")
	}
	return merchants, nil
}

// ListRegistered returns merchants registered individually, outside any
// group, with catalog fields joined in.
func (s *Service) ListRegistered(ctx context.Context, filter pagination.Filter) (*RegisteredPage, error) {
	filter = filter.WithDefaults(defaultRegisteredLimit)

	merchants, err := s.registry.ListIndividual(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list registered merchants")
	}
	total, err := s.registry.CountIndividual(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count registered merchants")
	}
	return &RegisteredPage{
		Merchants:  merchants,
		Pagination: pagination.Compute(total, filter.Limit, filter.Offset),
	}, nil
}

// BulkRegister registers merchants individually, best effort: items
// succeed or fail independently and the batch is never aborted by a bad
// item. Only an empty batch is rejected outright.
func (s *Service) BulkRegister(ctx context.Context, registrations []models.Registration) (*models.BulkResult, error) {
	if len(registrations) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "at least one registration is required")
	}

	var (
		mu     sync.Mutex
		result = models.BulkResult{
			TotalCount: len(registrations),
			Failed:     []models.BulkFailure{},
		}
		// failures keyed by input position so reporting order is stable
		// regardless of goroutine scheduling.
		failures = make([]*models.BulkFailure, len(registrations))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkConcurrency)

	for i, registration := range registrations {
		g.Go(func() error {
			if err := s.registerOne(gctx, registration); err != nil {
				s.countBulkFailure("register")
				failures[i] = &models.BulkFailure{Code: registration.Code, Error: err.Error()}
				return nil
			}
			mu.Lock()
			result.SuccessCount++
			mu.Unlock()
			if s.metrics != nil {
				s.metrics.MerchantsRegistered.Inc()
			}
			return nil
		})
	}
	// Workers never return errors; Wait only synchronizes.
	_ = g.Wait()

	for _, failure := range failures {
		if failure != nil {
			result.Failed = append(result.Failed, *failure)
		}
	}

	s.logger.InfoContext(ctx, "bulk merchant registration finished",
		"total", result.TotalCount,
		"succeeded", result.SuccessCount,
		"failed", len(result.Failed))
	return &result, nil
}

func (s *Service) registerOne(ctx context.Context, registration models.Registration) error {
	if err := registration.Validate(); err != nil {
		return err
	}

	if _, err := s.registry.FindActiveByMerchant(ctx, registration.MerchantID); err == nil {
		return dErrors.New(dErrors.CodeConflict, "merchant is already registered")
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing registration")
	}

	merchant, err := s.catalog.FindByID(ctx, registration.MerchantID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "merchant does not exist in the catalog")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to look up merchant")
	}
	if !merchant.Active {
		return dErrors.New(dErrors.CodeValidation, "merchant is inactive in the catalog")
	}

	entry, err := models.NewRegistryEntry(registration.MerchantID, registration.Code, nil, false, requestcontext.Now(ctx))
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return dErrors.New(dErrors.CodeValidation, err.Error())
		}
		return err
	}

	if err := s.registry.Create(ctx, entry); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return dErrors.New(dErrors.CodeConflict, "merchant is already registered")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to register merchant")
	}
	return nil
}

// Update patches a registry entry. Missing entries map to the
// not_registered code so callers can tell "never registered" apart from
// other lookup failures.
func (s *Service) Update(ctx context.Context, registryID id.RegistryID, patch models.RegistryPatch) (*models.RegistryEntry, error) {
	if !registryID.Valid() {
		return nil, dErrors.New(dErrors.CodeValidation, "registry id must be a positive integer")
	}
	if patch.IsEmpty() {
		return nil, dErrors.New(dErrors.CodeValidation, "at least one field must be provided")
	}
	if patch.GroupID != nil && !patch.GroupID.Valid() {
		return nil, dErrors.New(dErrors.CodeValidation, "group id must be a positive integer")
	}

	entry, err := s.registry.FindByID(ctx, registryID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotRegistered, "merchant is not registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load registry entry")
	}

	if patch.Status != nil && !entry.Status.CanTransitionTo(*patch.Status) {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "cannot transition from %s to %s", entry.Status, *patch.Status)
	}

	if err := s.registry.Update(ctx, registryID, patch); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotRegistered, "merchant is not registered")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update registry entry")
	}

	updated, err := s.registry.FindByID(ctx, registryID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to reload registry entry")
	}
	return updated, nil
}

// Remove hard-deletes a registry entry. A missing entry is treated as
// success so retries of an already-applied removal stay safe.
func (s *Service) Remove(ctx context.Context, registryID id.RegistryID) error {
	if !registryID.Valid() {
		return dErrors.New(dErrors.CodeValidation, "registry id must be a positive integer")
	}

	if err := s.registry.Delete(ctx, registryID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove registry entry")
	}

	s.logger.InfoContext(ctx, "registry entry removed", "registry_id", registryID)
	return nil
}

func (s *Service) countBulkFailure(operation string) {
	if s.metrics != nil {
		s.metrics.BulkItemFailures.WithLabelValues(operation).Inc()
	}
}
