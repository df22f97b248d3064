package service

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/app"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/db"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/repository"
	"github.com/google/uuid"
)

type confirmedFellingService struct {
	deps
}

func NewConfirmedFellingAndRestockingService(repos repository.Set, uow db.UnitOfWork, opts ...Option) ConfirmedFellingAndRestockingService {
	return &confirmedFellingService{deps: newDeps(repos, uow, opts)}
}

func newID() string { return uuid.New().String() }

func (s *confirmedFellingService) ConvertProposedToConfirmed(ctx context.Context, user domain.UserAccessModel, applicationID string) (confirmed []domain.ConfirmedFellingDetail, err error) {
	fields := map[string]any{"application_id": applicationID}
	defer finishUseCase(ctx, s.observer, UseCaseConvertProposedToConfirmed, time.Now(), fields, &err)

	err = s.withinTx(ctx, func(ctx context.Context, repos repository.Set) error {
		a, err := loadApplication(ctx, repos.Applications, applicationID)
		if err != nil {
			return err
		}
		if err := requireOwnerAccess(user, a); err != nil {
			return err
		}
		linked, submitted, err := loadPropertyTrees(ctx, repos, applicationID)
		if err != nil {
			return err
		}

		resolve := domain.ResolverFor(submitted)
		confirmed = make([]domain.ConfirmedFellingDetail, 0, len(linked.ProposedFellingDetails))
		for _, p := range linked.ProposedFellingDetails {
			c, err := domain.ConfirmFellingDetail(p, resolve, newID)
			if err != nil {
				return compartmentError(err)
			}
			confirmed = append(confirmed, c)
		}

		if err := repos.ConfirmedFelling.DeleteByApplication(ctx, applicationID); err != nil {
			return err
		}
		for i := range confirmed {
			if err := repos.ConfirmedFelling.Create(ctx, &confirmed[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	fields["confirmed"] = len(confirmed)
	s.publish(ctx, domain.AuditEvent{
		ApplicationID: applicationID,
		ActorID:       user.UserID,
		Name:          domain.AuditConvertedProposedToConfirmed,
		Source:        domain.SourceFor(user),
		OccurredAt:    s.clock.Now(),
		Detail:        map[string]string{"confirmed_felling_details": strconv.Itoa(len(confirmed))},
	})
	return confirmed, nil
}

func (s *confirmedFellingService) GetAmendedProperties(ctx context.Context, applicationID string) (amended []app.AmendedProperties, err error) {
	defer finishUseCase(ctx, s.observer, UseCaseGetAmendedProperties, time.Now(), map[string]any{"application_id": applicationID}, &err)

	if _, err = loadApplication(ctx, s.repos.Applications, applicationID); err != nil {
		return nil, err
	}
	linked, err := s.repos.ProposedFelling.GetByApplicationID(ctx, applicationID)
	if isNotFound(err) {
		return nil, app.NewError(app.ErrNotFound, "no proposed felling for application "+applicationID, err)
	}
	if err != nil {
		return nil, err
	}
	confirmed, err := s.repos.ConfirmedFelling.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	for _, c := range confirmed {
		if c.ProposedFellingDetailID == nil {
			continue
		}
		p, ok := linked.FindProposedFellingDetail(*c.ProposedFellingDetailID)
		if !ok {
			continue
		}
		amended = append(amended, amendedProperties(linked, p, c))
	}
	return amended, nil
}

func amendedProperties(linked *domain.LinkedPropertyProfile, p domain.ProposedFellingDetail, c domain.ConfirmedFellingDetail) app.AmendedProperties {
	result := app.AmendedProperties{
		ConfirmedFellingDetailID: c.ID,
		ProposedFellingDetailID:  c.ProposedFellingDetailID,
		Felling:                  domain.AmendedFellingProperties(p, c),
		Restocking:               map[string]map[string]string{},
	}
	for _, r := range c.ConfirmedRestockingDetails {
		if r.ProposedRestockingDetailID == nil {
			continue
		}
		pr, ok := linked.FindProposedRestockingDetail(*r.ProposedRestockingDetailID)
		if !ok {
			continue
		}
		if changes := domain.AmendedRestockingProperties(pr, r); len(changes) > 0 {
			result.Restocking[r.ID] = changes
		}
	}
	return result
}

func (s *confirmedFellingService) RevertConfirmedFellingDetailAmendments(ctx context.Context, user domain.UserAccessModel, applicationID, proposedFellingDetailID string) (reverted *domain.ConfirmedFellingDetail, err error) {
	fields := map[string]any{"application_id": applicationID, "proposed_felling_detail_id": proposedFellingDetailID}
	defer finishUseCase(ctx, s.observer, UseCaseRevertConfirmedFelling, time.Now(), fields, &err)

	var recreated bool
	err = s.withinTx(ctx, func(ctx context.Context, repos repository.Set) error {
		if _, err := loadApplication(ctx, repos.Applications, applicationID); err != nil {
			return err
		}
		if err := requireAmendEligible(ctx, repos, user, applicationID); err != nil {
			return err
		}
		linked, submitted, err := loadPropertyTrees(ctx, repos, applicationID)
		if err != nil {
			return err
		}
		proposed, ok := linked.FindProposedFellingDetail(proposedFellingDetailID)
		if !ok {
			return app.Errorf(app.ErrNotFound, "proposed felling detail %s not found", proposedFellingDetailID)
		}
		resolve := domain.ResolverFor(submitted)

		existing, err := repos.ConfirmedFelling.GetByProposedFellingDetailID(ctx, applicationID, proposedFellingDetailID)
		if isNotFound(err) {
			c, err := domain.ConfirmFellingDetail(proposed, resolve, newID)
			if err != nil {
				return compartmentError(err)
			}
			recreated = true
			reverted = &c
			return repos.ConfirmedFelling.Create(ctx, reverted)
		}
		if err != nil {
			return err
		}
		if err := existing.ApplyProposed(proposed, resolve, newID); err != nil {
			return compartmentError(err)
		}
		reverted = existing
		return repos.ConfirmedFelling.Replace(ctx, reverted)
	})
	if err != nil {
		return nil, err
	}

	fields["recreated"] = recreated
	s.publish(ctx, domain.AuditEvent{
		ApplicationID: applicationID,
		ActorID:       user.UserID,
		Name:          domain.AuditConfirmedFellingReverted,
		Source:        domain.SourceFor(user),
		OccurredAt:    s.clock.Now(),
		Detail: map[string]string{
			"confirmed_felling_detail_id": reverted.ID,
			"proposed_felling_detail_id":  proposedFellingDetailID,
			"recreated":                   formatYesNo(recreated),
		},
	})
	return reverted, nil
}

func (s *confirmedFellingService) UpdateConfirmedFellingDetail(ctx context.Context, user domain.UserAccessModel, applicationID string, detail domain.ConfirmedFellingDetail) (amended *app.AmendedProperties, err error) {
	fields := map[string]any{"application_id": applicationID, "confirmed_felling_detail_id": detail.ID}
	defer finishUseCase(ctx, s.observer, UseCaseUpdateConfirmedFelling, time.Now(), fields, &err)

	if err = validateConfirmedFelling(detail); err != nil {
		return nil, err
	}

	err = s.withinTx(ctx, func(ctx context.Context, repos repository.Set) error {
		if _, err := loadApplication(ctx, repos.Applications, applicationID); err != nil {
			return err
		}
		if err := requireAmendEligible(ctx, repos, user, applicationID); err != nil {
			return err
		}
		linked, submitted, err := loadPropertyTrees(ctx, repos, applicationID)
		if err != nil {
			return err
		}

		existing, err := findConfirmed(ctx, repos, applicationID, detail.ID)
		if err != nil {
			return err
		}
		if err := requireCompartments(submitted, detail); err != nil {
			return err
		}

		detail.ProposedFellingDetailID = existing.ProposedFellingDetailID
		assignChildIDs(&detail)
		if err := repos.ConfirmedFelling.Replace(ctx, &detail); err != nil {
			return err
		}

		result := app.AmendedProperties{ConfirmedFellingDetailID: detail.ID}
		if detail.ProposedFellingDetailID != nil {
			if p, ok := linked.FindProposedFellingDetail(*detail.ProposedFellingDetailID); ok {
				result = amendedProperties(linked, p, detail)
			}
		}
		amended = &result
		return nil
	})
	if err != nil {
		return nil, err
	}

	event := domain.AuditEvent{
		ApplicationID: applicationID,
		ActorID:       user.UserID,
		Name:          domain.AuditConfirmedFellingUpdated,
		Source:        domain.SourceFor(user),
		OccurredAt:    s.clock.Now(),
		Detail:        map[string]string{"confirmed_felling_detail_id": detail.ID},
	}
	for k, v := range amended.Felling {
		event.Detail[k] = v
	}
	s.publish(ctx, event)
	return amended, nil
}

func (s *confirmedFellingService) ListConfirmed(ctx context.Context, applicationID string) (confirmed []domain.ConfirmedFellingDetail, err error) {
	defer finishUseCase(ctx, s.observer, UseCaseListConfirmedFelling, time.Now(), map[string]any{"application_id": applicationID}, &err)

	if _, err = loadApplication(ctx, s.repos.Applications, applicationID); err != nil {
		return nil, err
	}
	return s.repos.ConfirmedFelling.ListByApplication(ctx, applicationID)
}

func loadPropertyTrees(ctx context.Context, repos repository.Set, applicationID string) (*domain.LinkedPropertyProfile, *domain.SubmittedPropertyProfile, error) {
	linked, err := repos.ProposedFelling.GetByApplicationID(ctx, applicationID)
	if isNotFound(err) {
		return nil, nil, app.NewError(app.ErrNotFound, "no proposed felling for application "+applicationID, err)
	}
	if err != nil {
		return nil, nil, err
	}
	submitted, err := repos.SubmittedProperties.GetByApplicationID(ctx, applicationID)
	if isNotFound(err) {
		return nil, nil, app.NewError(app.ErrNotFound, "no submitted property profile for application "+applicationID, err)
	}
	if err != nil {
		return nil, nil, err
	}
	if len(submitted.Compartments) == 0 {
		return nil, nil, app.Errorf(app.ErrNotFound, "submitted property profile for application %s has no compartments", applicationID)
	}
	return linked, submitted, nil
}

func requireAmendEligible(ctx context.Context, repos repository.Set, user domain.UserAccessModel, applicationID string) error {
	assignees, err := repos.AssigneeHistories.ListByApplication(ctx, applicationID)
	if err != nil {
		return err
	}
	if !domain.IsActiveAssignee(assignees, user.UserID, domain.AmendEligibleRoles...) {
		return app.Errorf(app.ErrUnauthorized, "user %s may not amend application %s", user.UserID, applicationID)
	}
	return nil
}

func findConfirmed(ctx context.Context, repos repository.Set, applicationID, id string) (*domain.ConfirmedFellingDetail, error) {
	all, err := repos.ConfirmedFelling.ListByApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, app.Errorf(app.ErrNotFound, "confirmed felling detail %s not found on application %s", id, applicationID)
}

func requireCompartments(submitted *domain.SubmittedPropertyProfile, d domain.ConfirmedFellingDetail) error {
	known := make(map[string]bool, len(submitted.Compartments))
	for _, c := range submitted.Compartments {
		known[c.ID] = true
	}
	if !known[d.SubmittedCompartmentID] {
		return app.Errorf(app.ErrNotFound, "compartment %s not found", d.SubmittedCompartmentID)
	}
	for _, r := range d.ConfirmedRestockingDetails {
		if !known[r.SubmittedCompartmentID] {
			return app.Errorf(app.ErrNotFound, "compartment %s not found", r.SubmittedCompartmentID)
		}
	}
	return nil
}

func validateConfirmedFelling(d domain.ConfirmedFellingDetail) error {
	if d.ID == "" {
		return app.Errorf(app.ErrValidation, "confirmed felling detail id is required")
	}
	if d.AreaToBeFelled < 0 || d.EstimatedTotalFellingVolume < 0 {
		return app.Errorf(app.ErrValidation, "area and volume must not be negative")
	}
	if d.NumberOfTrees != nil && *d.NumberOfTrees < 0 {
		return app.Errorf(app.ErrValidation, "number of trees must not be negative")
	}
	for _, r := range d.ConfirmedRestockingDetails {
		if r.Area < 0 {
			return app.Errorf(app.ErrValidation, "restocking area must not be negative")
		}
		var total float64
		for _, sp := range r.ConfirmedRestockingSpecies {
			if sp.Percentage < 0 || sp.Percentage > 100 {
				return app.Errorf(app.ErrValidation, "species percentage %v out of range", sp.Percentage)
			}
			total += sp.Percentage
		}
		if total > 100 {
			return app.Errorf(app.ErrValidation, "restocking species percentages total %v", total)
		}
	}
	return nil
}

func assignChildIDs(d *domain.ConfirmedFellingDetail) {
	for i := range d.ConfirmedFellingSpecies {
		if d.ConfirmedFellingSpecies[i].ID == "" {
			d.ConfirmedFellingSpecies[i].ID = newID()
		}
	}
	for i := range d.ConfirmedRestockingDetails {
		r := &d.ConfirmedRestockingDetails[i]
		if r.ID == "" {
			r.ID = newID()
		}
		r.ConfirmedFellingDetailID = d.ID
		for j := range r.ConfirmedRestockingSpecies {
			if r.ConfirmedRestockingSpecies[j].ID == "" {
				r.ConfirmedRestockingSpecies[j].ID = newID()
			}
		}
	}
}

func compartmentError(err error) error {
	if errors.Is(err, domain.ErrCompartmentNotFound) {
		return app.NewError(app.ErrNotFound, "compartment not found", err)
	}
	return err
}
