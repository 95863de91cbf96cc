// Copyright (c) 2026 WhatsChannel Console. All rights reserved.
// Author: fndrorato

package product

import (
	"context"
	"log/slog"
	"sync"

	"github.com/fndrorato/webscrap-ia/internal/catalog"
	"github.com/fndrorato/webscrap-ia/internal/collection"
	"github.com/fndrorato/webscrap-ia/internal/platform/apperr"
	"github.com/fndrorato/webscrap-ia/internal/platform/validate"
	"github.com/fndrorato/webscrap-ia/internal/view"
)

// CatalogSource supplies the active catalog used to check approvals.
type CatalogSource interface {
	Catalog() (*catalog.Catalog, bool)
}

// # View

// View is one moderation list, bound to a status while mounted.
type View struct {
	repository Repository
	catalogs   CatalogSource
	logger     *slog.Logger

	lifecycle view.Lifecycle
	products  *collection.Collection[Product]

	mu     sync.RWMutex
	status Status
}

// NewView constructs an unmounted [View].
func NewView(repository Repository, catalogs CatalogSource, logger *slog.Logger) *View {
	return &View{
		repository: repository,
		catalogs:   catalogs,
		logger:     logger,
		products:   collection.New(func(p Product) int { return p.ID }),
		status:     StatusPending,
	}
}

/*
Mount binds the view to status and fetches its listings.

Returns:
  - error: *apperr.AppError when the fetch fails (the view keeps the message)
*/
func (v *View) Mount(ctx context.Context, status Status) error {
	if !status.Valid() {
		return validate.RequiredError(FieldStatus, "Must be 0, 1 or 2")
	}

	v.mu.Lock()
	v.status = status
	epoch := v.lifecycle.Mount()
	v.mu.Unlock()

	v.products.Replace(nil)
	return v.refresh(ctx, epoch, status)
}

// Ensure mounts the view on status unless it is already showing it.
func (v *View) Ensure(ctx context.Context, status Status) error {
	if v.lifecycle.Mounted() && v.Status() == status {
		return nil
	}
	return v.Mount(ctx, status)
}

// Unmount discards the listings. Responses still in flight are ignored.
func (v *View) Unmount() {
	v.lifecycle.Unmount()
	v.products.Replace(nil)
}

// Status returns the moderation state the view is bound to.
func (v *View) Status() Status {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.status
}

func (v *View) refresh(ctx context.Context, epoch uint64, status Status) error {
	done := v.lifecycle.Begin(epoch)
	defer done()

	products, err := v.repository.ListByStatus(ctx, status)
	if !v.lifecycle.Current(epoch) {
		v.logger.Debug("product_view_stale_response", slog.Uint64("epoch", epoch))
		return nil
	}
	if err != nil {
		return v.lifecycle.Fail(epoch, err)
	}

	if dropped := v.products.Replace(products); len(dropped) > 0 {
		v.logger.Warn("product_duplicate_ids_dropped", slog.Any("ids", dropped))
	}
	v.lifecycle.Clear(epoch)
	return nil
}

// # Moderation

/*
Approve moves a listing to approved with the chosen classification.

The selection is checked against the active catalog before anything is sent.
The local row is patched only after the backend confirms.

Parameters:
  - ctx: context.Context
  - id: int (Product ID)
  - selection: catalog.Selection (supplier required)

Returns:
  - *UpdateResult: Backend message and export report
  - error: Validation, NotFound, transport or server-reported failures
*/
func (v *View) Approve(ctx context.Context, id int, selection catalog.Selection) (*UpdateResult, error) {
	epoch, _ := v.lifecycle.Epoch()

	active, _ := v.catalogs.Catalog()
	if err := active.CheckSelection(selection); err != nil {
		return nil, v.lifecycle.Fail(epoch, err)
	}

	return v.change(ctx, epoch, StatusChange{
		ID:              id,
		Status:          StatusApproved,
		SupplierCode:    selection.SupplierCode,
		BrandCode:       selection.BrandCode,
		CategoryCode:    selection.CategoryCode,
		SubcategoryCode: selection.SubcategoryCode,
	})
}

// Decline moves a listing to declined. The local row is patched only after the backend confirms.
func (v *View) Decline(ctx context.Context, id int) (*UpdateResult, error) {
	epoch, _ := v.lifecycle.Epoch()
	return v.change(ctx, epoch, StatusChange{ID: id, Status: StatusDeclined})
}

func (v *View) change(ctx context.Context, epoch uint64, change StatusChange) (*UpdateResult, error) {
	if _, ok := v.products.Get(change.ID); !ok {
		return nil, v.lifecycle.Fail(epoch, apperr.NotFound("Product"))
	}

	done := v.lifecycle.Begin(epoch)
	result, err := v.repository.UpdateStatus(ctx, change)
	done()

	if err != nil {
		return nil, v.lifecycle.Fail(epoch, err)
	}
	if !v.lifecycle.Current(epoch) {
		return result, nil
	}

	v.products.Patch(change.ID, func(p *Product) { p.Status = change.Status })
	v.lifecycle.Clear(epoch)

	logger := v.logger.With(slog.Int("product_id", change.ID), slog.String("status", change.Status.String()))
	if result.Warning != "" {
		logger.Warn("product_status_updated_with_warning", slog.String("warning", result.Warning))
	} else {
		logger.Info("product_status_updated")
	}
	return result, nil
}

// # Reads

// Rendered is the view state plus the status it is bound to.
type Rendered struct {
	view.State[Product]
	Status Status `json:"status"`
}

// State returns the rendered list.
func (v *View) State() Rendered {
	return Rendered{
		State:  view.Render(&v.lifecycle, v.products.Snapshot()),
		Status: v.Status(),
	}
}

// Get returns one listing by id.
func (v *View) Get(id int) (Product, bool) {
	return v.products.Get(id)
}

// Error returns the message of the last failed operation.
func (v *View) Error() string {
	return v.lifecycle.Error()
}
