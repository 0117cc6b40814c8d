package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"guesense/internal/group/models"
	groupstore "guesense/internal/group/store/group"
	merchantmodels "guesense/internal/merchant/models"
	"guesense/internal/platform/metrics"
	id "guesense/pkg/domain"
	dErrors "guesense/pkg/domain-errors"
	"guesense/pkg/pagination"
	"guesense/pkg/platform/sentinel"
	"guesense/pkg/requestcontext"
)

const (
	defaultGroupsLimit = 6

	// memberConcurrency bounds the fan-out of best-effort member addition.
	memberConcurrency = 4
)

type GroupStore interface {
	FindByID(ctx context.Context, groupID id.GroupID) (*models.Group, error)
	List(ctx context.Context, filter pagination.Filter) ([]models.GroupSummary, error)
	Count(ctx context.Context, filter pagination.Filter) (int, error)
	Members(ctx context.Context, groupID id.GroupID) ([]models.GroupMember, error)
	IsMember(ctx context.Context, groupID id.GroupID, merchantID id.MerchantID) (bool, error)
	AssignMember(ctx context.Context, groupID id.GroupID, merchantID id.MerchantID) error
	Update(ctx context.Context, groupID id.GroupID, patch models.GroupPatch) error
	CreateWithMembers(ctx context.Context, group *models.Group, members []groupstore.MemberInput, sourceMerchantID *id.MerchantID) (*models.CreateGroupResult, error)
	SetTemplateSource(ctx context.Context, groupID id.GroupID, merchantID id.MerchantID) error
	Delete(ctx context.Context, groupID id.GroupID) error
	RemoveMember(ctx context.Context, groupID id.GroupID, merchantID id.MerchantID) error
}

type RegistryStore interface {
	Create(ctx context.Context, entry *merchantmodels.RegistryEntry) error
	FindActiveByMerchant(ctx context.Context, merchantID id.MerchantID) (*merchantmodels.RegistryEntry, error)
}

// GroupsPage is the paginated list-view of groups.
type GroupsPage struct {
	Groups     []models.GroupSummary `json:"groups"`
	Pagination pagination.Page       `json:"pagination"`
}

// Service orchestrates group lifecycle and membership. Multi-row writes
// are delegated to the store's transactional operations; this layer owns
// the validations that must hold before any row is touched.
type Service struct {
	groups   GroupStore
	registry RegistryStore
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
func New(groups GroupStore, registry RegistryStore, opts ...Option) *Service {
	s := &Service{groups: groups, registry: registry, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// List returns active groups with recomputed member counts.
func (s *Service) List(ctx context.Context, filter pagination.Filter) (*GroupsPage, error) {
	filter = filter.WithDefaults(defaultGroupsLimit)

	groups, err := s.groups.List(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list groups")
	}
	total, err := s.groups.Count(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count groups")
	}
	return &GroupsPage{
		Groups:     groups,
		Pagination: pagination.Compute(total, filter.Limit, filter.Offset),
	}, nil
}

// GetWithMembers returns a group and its active members, source first.
func (s *Service) GetWithMembers(ctx context.Context, groupID id.GroupID) (*models.GroupWithMembers, error) {
	group, err := s.findGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}

	members, err := s.groups.Members(ctx, groupID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load group members")
	}
	return &models.GroupWithMembers{
		Group:        *group,
		MembersCount: len(members),
		Members:      members,
	}, nil
}

// CreateWithMembers creates a group and its initial members in one
// transaction. Individual members may fail without failing the create,
// but a create where no member survives is rolled back entirely: a group
// with zero members is not a valid end state.
func (s *Service) CreateWithMembers(ctx context.Context, name string, members []merchantmodels.Registration, sourceMerchantID *id.MerchantID) (*models.CreateGroupResult, error) {
	group, err := models.NewGroup(name, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "a group needs at least one member")
	}
	if sourceMerchantID != nil {
		if !sourceMerchantID.Valid() {
			return nil, dErrors.New(dErrors.CodeValidation, "source merchant id must be a positive integer")
		}
		found := false
		for _, member := range members {
			if member.MerchantID == *sourceMerchantID {
				found = true
				break
			}
		}
		if !found {
			return nil, dErrors.New(dErrors.CodeValidation, "source merchant must be one of the submitted members")
		}
	}

	// Pre-store screening: bad ids, duplicate rows in the batch, and
	// merchants already registered fail their slot here, before the
	// transaction opens. The store's unique indexes remain the backstop
	// for races that slip past this check.
	var (
		candidates  []groupstore.MemberInput
		prefailures []merchantmodels.BulkFailure
		seen        = make(map[id.MerchantID]bool, len(members))
	)
	for _, member := range members {
		if err := member.Validate(); err != nil {
			prefailures = append(prefailures, merchantmodels.BulkFailure{Code: member.Code, Error: err.Error()})
			continue
		}
		if seen[member.MerchantID] {
			prefailures = append(prefailures, merchantmodels.BulkFailure{Code: member.Code, Error: "duplicate merchant in request"})
			continue
		}
		seen[member.MerchantID] = true

		if _, err := s.registry.FindActiveByMerchant(ctx, member.MerchantID); err == nil {
			prefailures = append(prefailures, merchantmodels.BulkFailure{Code: member.Code, Error: "merchant is already registered"})
			continue
		} else if !errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing registration")
		}
		candidates = append(candidates, groupstore.MemberInput{MerchantID: member.MerchantID, Code: member.Code})
	}

	if len(candidates) == 0 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "no members were successfully added to the group")
	}

	result, err := s.groups.CreateWithMembers(ctx, group, candidates, sourceMerchantID)
	if err != nil {
		if errors.Is(err, sentinel.ErrInvalidState) {
			return nil, dErrors.New(dErrors.CodeInvariantViolation, "no members were successfully added to the group")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to create group")
	}

	result.MembersTotalCount = len(members)
	result.MembersFailed = append(prefailures, result.MembersFailed...)
	for range result.MembersFailed {
		s.countBulkFailure("group_create_member")
	}

	if s.metrics != nil {
		s.metrics.GroupsCreated.Inc()
		s.metrics.MembersAdded.Add(float64(result.MembersSuccessCount))
		if result.SourceSet {
			s.metrics.SourceAssigned.Inc()
		}
	}
	s.logger.InfoContext(ctx, "group created",
		"group_id", result.GroupID,
		"members_total", result.MembersTotalCount,
		"members_succeeded", result.MembersSuccessCount)
	return result, nil
}

// Update patches an active group's name or status.
func (s *Service) Update(ctx context.Context, groupID id.GroupID, patch models.GroupPatch) (*models.Group, error) {
	if patch.Name == nil && patch.Status == nil {
		return nil, dErrors.New(dErrors.CodeValidation, "at least one field must be provided")
	}
	if patch.Name != nil {
		if err := models.ValidateName(*patch.Name); err != nil {
			return nil, err
		}
	}

	group, err := s.findGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if patch.Status != nil && !group.Status.CanTransitionTo(*patch.Status) {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "cannot transition from %s to %s", group.Status, *patch.Status)
	}

	if err := s.groups.Update(ctx, groupID, patch); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "group not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to update group")
	}

	if patch.Name != nil {
		group.Name = *patch.Name
	}
	if patch.Status != nil {
		group.Status = *patch.Status
	}
	group.UpdatedAt = requestcontext.Now(ctx)
	return group, nil
}

// Delete removes a group: every member row is deactivated and the group
// row deleted, atomically.
func (s *Service) Delete(ctx context.Context, groupID id.GroupID) error {
	if _, err := s.findGroup(ctx, groupID); err != nil {
		return err
	}

	if err := s.groups.Delete(ctx, groupID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "group not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete group")
	}

	if s.metrics != nil {
		s.metrics.GroupsDeleted.Inc()
	}
	s.logger.InfoContext(ctx, "group deleted", "group_id", groupID)
	return nil
}

// AddMembers adds merchants to an existing group, best effort. Merchants
// without a registration are registered on the fly; merchants already
// registered elsewhere are moved into the group.
func (s *Service) AddMembers(ctx context.Context, groupID id.GroupID, members []merchantmodels.Registration) (*merchantmodels.BulkResult, error) {
	if len(members) == 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "at least one member is required")
	}
	if _, err := s.findGroup(ctx, groupID); err != nil {
		return nil, err
	}

	var (
		mu     sync.Mutex
		result = merchantmodels.BulkResult{
			TotalCount: len(members),
			Failed:     []merchantmodels.BulkFailure{},
		}
		failures = make([]*merchantmodels.BulkFailure, len(members))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(memberConcurrency)

	for i, member := range members {
		g.Go(func() error {
			if err := s.addOne(gctx, groupID, member); err != nil {
				s.countBulkFailure("group_add_member")
				failures[i] = &merchantmodels.BulkFailure{Code: member.Code, Error: err.Error()}
				return nil
			}
			mu.Lock()
			result.SuccessCount++
			mu.Unlock()
			if s.metrics != nil {
				s.metrics.MembersAdded.Inc()
			}
			return nil
		})
	}
	_ = g.Wait()

	for _, failure := range failures {
		if failure != nil {
			result.Failed = append(result.Failed, *failure)
		}
	}

	s.logger.InfoContext(ctx, "group member addition finished",
		"group_id", groupID,
		"total", result.TotalCount,
		"succeeded", result.SuccessCount,
		"failed", len(result.Failed))
	return &result, nil
}

func (s *Service) addOne(ctx context.Context, groupID id.GroupID, member merchantmodels.Registration) error {
	if err := member.Validate(); err != nil {
		return err
	}

	isMember, err := s.groups.IsMember(ctx, groupID, member.MerchantID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check membership")
	}
	if isMember {
		return dErrors.New(dErrors.CodeConflict, "merchant is already a member of this group")
	}

	_, err = s.registry.FindActiveByMerchant(ctx, member.MerchantID)
	switch {
	case err == nil:
		// Registered elsewhere (individually or in another group); move
		// the existing entry into this group.
		if err := s.groups.AssignMember(ctx, groupID, member.MerchantID); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				return dErrors.New(dErrors.CodeConflict, "merchant is already a member of this group")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to assign merchant to group")
		}
		return nil
	case errors.Is(err, sentinel.ErrNotFound):
		gid := groupID
		entry, err := merchantmodels.NewRegistryEntry(member.MerchantID, member.Code, &gid, false, requestcontext.Now(ctx))
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
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to register merchant into group")
		}
		return nil
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check existing registration")
	}
}

// RemoveMember soft-deletes a membership. Removing a merchant who is no
// longer an active member succeeds without effect.
func (s *Service) RemoveMember(ctx context.Context, groupID id.GroupID, merchantID id.MerchantID) error {
	if !merchantID.Valid() {
		return dErrors.New(dErrors.CodeValidation, "merchant id must be a positive integer")
	}
	if _, err := s.findGroup(ctx, groupID); err != nil {
		return err
	}

	if err := s.groups.RemoveMember(ctx, groupID, merchantID); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to remove group member")
	}
	return nil
}

// SetTemplateSource designates one active member as the group's template
// source. Exactly one member per group carries the mark afterwards.
func (s *Service) SetTemplateSource(ctx context.Context, groupID id.GroupID, merchantID id.MerchantID) error {
	if !merchantID.Valid() {
		return dErrors.New(dErrors.CodeValidation, "merchant id must be a positive integer")
	}
	if _, err := s.findGroup(ctx, groupID); err != nil {
		return err
	}

	isMember, err := s.groups.IsMember(ctx, groupID, merchantID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check membership")
	}
	if !isMember {
		return dErrors.New(dErrors.CodeNotAMember, "merchant is not an active member of this group")
	}

	if err := s.groups.SetTemplateSource(ctx, groupID, merchantID); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotAMember, "merchant is not an active member of this group")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to set template source")
	}

	if s.metrics != nil {
		s.metrics.SourceAssigned.Inc()
	}
	s.logger.InfoContext(ctx, "template source assigned",
		"group_id", groupID,
		"merchant_id", merchantID)
	return nil
}

func (s *Service) findGroup(ctx context.Context, groupID id.GroupID) (*models.Group, error) {
	if !groupID.Valid() {
		return nil, dErrors.New(dErrors.CodeValidation, "group id must be a positive integer")
	}
	group, err := s.groups.FindByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "group not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load group")
	}
	return group, nil
}

func (s *Service) countBulkFailure(operation string) {
	if s.metrics != nil {
		s.metrics.BulkItemFailures.WithLabelValues(operation).Inc()
	}
}
