package service

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/app"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/audit"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/clock"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/db"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/domain"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/notify"
	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/repository"
)

// deps is shared by every service implementation.
type deps struct {
	repos    repository.Set
	txRepos  func(tx db.DBTX) repository.Set
	uow      db.UnitOfWork
	clock    clock.Clock
	audit    audit.Publisher
	notifier notify.Notifier
	logger   *slog.Logger
	observer UseCaseObserver
}

type Option func(*deps)

func WithClock(c clock.Clock) Option {
	return func(d *deps) {
		d.clock = c
	}
}

func WithAuditPublisher(p audit.Publisher) Option {
	return func(d *deps) {
		d.audit = p
	}
}

func WithNotifier(n notify.Notifier) Option {
	return func(d *deps) {
		d.notifier = n
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(d *deps) {
		d.logger = l
	}
}

func WithObservers(observers ...UseCaseObserver) Option {
	return func(d *deps) {
		d.observer = useCaseObserverOrNoop(observers)
	}
}

func newDeps(repos repository.Set, uow db.UnitOfWork, opts []Option) deps {
	d := deps{
		repos:    repos,
		txRepos:  repository.NewSQLiteSet,
		uow:      uow,
		clock:    clock.Real(),
		audit:    audit.NoopPublisher{},
		observer: NoopUseCaseObserver{},
	}
	for _, opt := range opts {
		opt(&d)
	}
	if d.logger == nil {
		d.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if d.notifier == nil {
		d.notifier = notify.NewLogNotifier(d.logger)
	}
	return d
}

func (d deps) publish(ctx context.Context, event domain.AuditEvent) {
	audit.Emit(ctx, d.audit, d.logger, event)
}

func (d deps) withinTx(ctx context.Context, fn func(ctx context.Context, repos repository.Set) error) error {
	return d.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		return fn(ctx, d.txRepos(tx))
	})
}

func loadApplication(ctx context.Context, apps repository.ApplicationRepo, id string) (*domain.FellingLicenceApplication, error) {
	if id == "" {
		return nil, app.Errorf(app.ErrValidation, "application id is required")
	}
	a, err := apps.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, app.NewError(app.ErrNotFound, "application "+id+" not found", err)
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func requireOwnerAccess(user domain.UserAccessModel, a *domain.FellingLicenceApplication) error {
	if !user.CanAccessWoodlandOwner(a.WoodlandOwnerID) {
		return app.Errorf(app.ErrUnauthorized, "user %s cannot access woodland owner %s", user.UserID, a.WoodlandOwnerID)
	}
	return nil
}

func requireLatestStatus(histories []domain.StatusHistory, want domain.FellingLicenceStatus) error {
	current := domain.StatusDraft
	if latest, ok := domain.LatestStatus(histories); ok {
		current = latest.Status
	}
	if current != want {
		return app.Errorf(app.ErrInvalidState, "application is in %s, expected %s", current, want)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
