package application

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/sebuszqo/PocketLedger/internal/ledger/domain"
	ledgerErrors "github.com/sebuszqo/PocketLedger/internal/ledger/errors"
)

type CategoryService struct {
	store  domain.RecordStore
	logger *slog.Logger
}

func NewCategoryService(store domain.RecordStore, logger *slog.Logger) *CategoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CategoryService{store: store, logger: logger.With("service", "category")}
}

// ListCategories returns the caller's categories sorted by name.
func (s *CategoryService) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	return listCategories(ctx, s.store, domain.Filter{"user_id": userID})
}

func (s *CategoryService) GetCategory(ctx context.Context, userID string, categoryID uuid.UUID) (*domain.Category, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	return loadCategory(ctx, s.store, userID, categoryID)
}

// CreateCategory stores a new category. A child created under a parent takes
// the parent's color whatever color was supplied.
func (s *CategoryService) CreateCategory(ctx context.Context, userID string, in domain.CategoryInput) (*domain.Category, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var created *domain.Category
	err := s.store.RunAtomic(ctx, func(tx domain.RecordTx) error {
		var color string
		if in.Color != nil {
			color = *in.Color
		}
		if in.Type == domain.CategoryTypeChild && in.ParentID != nil {
			parent, err := loadParent(ctx, tx, userID, *in.ParentID, uuid.Nil)
			if err != nil {
				return err
			}
			color = parent.Color
		}

		rec, err := tx.InsertRecord(ctx, domain.TableCategories, domain.Record{
			"user_id":   userID,
			"name":      in.Name,
			"color":     color,
			"type":      string(in.Type),
			"parent_id": domain.UUIDValue(in.ParentID),
		})
		if err != nil {
			return err
		}
		if created, err = domain.CategoryFromRecord(rec); err != nil {
			return ledgerErrors.NewStoreFailure("decode category", err)
		}
		return nil
	})
	if err != nil {
		logRejection(s.logger, "Category creation rejected", err, "name", in.Name)
		return nil, err
	}
	s.logger.Info("Category created", "category_id", created.ID, "type", created.Type)
	return created, nil
}

// UpdateCategory applies a partial update.
//
// Re-parenting a child copies the new parent's color. A color change on a
// parent is written to all of its children in the same unit. A child that has
// a parent keeps the parent's color.
func (s *CategoryService) UpdateCategory(ctx context.Context, userID string, categoryID uuid.UUID, update domain.CategoryUpdate) (*domain.Category, error) {
	if err := requireCaller(userID); err != nil {
		return nil, err
	}
	if err := update.Validate(); err != nil {
		return nil, err
	}

	var updated *domain.Category
	var propagated int
	err := s.store.RunAtomic(ctx, func(tx domain.RecordTx) error {
		category, err := loadCategory(ctx, tx, userID, categoryID)
		if err != nil {
			return err
		}

		fields := domain.Record{}
		if update.Name != nil {
			fields["name"] = *update.Name
		}

		switch {
		case update.ParentID.IsSet():
			if category.Type != domain.CategoryTypeChild {
				return ledgerErrors.NewValidationError("Parent categories cannot have a parent")
			}
			if parentID, ok := update.ParentID.Get(); ok {
				parent, err := loadParent(ctx, tx, userID, parentID, categoryID)
				if err != nil {
					return err
				}
				fields["parent_id"] = parentID.String()
				fields["color"] = parent.Color
			} else {
				fields["parent_id"] = nil
				if update.Color != nil {
					fields["color"] = *update.Color
				}
			}
		case update.Color != nil && category.HasParent():
			// the parent's color wins
		case update.Color != nil:
			fields["color"] = *update.Color
			if category.Type == domain.CategoryTypeParent {
				if propagated, err = tx.UpdateWhere(ctx, domain.TableCategories,
					domain.Filter{"parent_id": categoryID.String()},
					domain.Record{"color": *update.Color}); err != nil {
					return err
				}
			}
		}

		rec, err := tx.UpdateRecord(ctx, domain.TableCategories, categoryID.String(), fields)
		if err != nil {
			return err
		}
		if updated, err = domain.CategoryFromRecord(rec); err != nil {
			return ledgerErrors.NewStoreFailure("decode category", err)
		}
		return nil
	})
	if err != nil {
		logRejection(s.logger, "Category update rejected", err, "category_id", categoryID)
		return nil, err
	}
	s.logger.Info("Category updated", "category_id", categoryID, "children_recolored", propagated)
	return updated, nil
}

// DeleteCategory removes a category and, for a parent, all of its children.
// Nothing is deleted while a transaction references any of them.
func (s *CategoryService) DeleteCategory(ctx context.Context, userID string, categoryID uuid.UUID) error {
	if err := requireCaller(userID); err != nil {
		return err
	}

	var children int
	err := s.store.RunAtomic(ctx, func(tx domain.RecordTx) error {
		category, err := loadCategory(ctx, tx, userID, categoryID)
		if err != nil {
			return err
		}
		block, err := deletionBlock(ctx, tx, category)
		if err != nil {
			return err
		}
		if block != nil {
			return block
		}

		if category.Type == domain.CategoryTypeParent {
			if children, err = tx.DeleteWhere(ctx, domain.TableCategories, domain.Filter{"parent_id": categoryID.String()}); err != nil {
				return err
			}
		}
		return tx.DeleteRecord(ctx, domain.TableCategories, categoryID.String())
	})
	if err != nil {
		logRejection(s.logger, "Category deletion rejected", err, "category_id", categoryID)
		return err
	}
	s.logger.Info("Category deleted", "category_id", categoryID, "children_deleted", children)
	return nil
}

// IsDeletable reports whether no transaction references the category or, for
// a parent, any of its children.
func (s *CategoryService) IsDeletable(ctx context.Context, userID string, categoryID uuid.UUID) (bool, error) {
	if err := requireCaller(userID); err != nil {
		return false, err
	}
	category, err := loadCategory(ctx, s.store, userID, categoryID)
	if err != nil {
		return false, err
	}
	block, err := deletionBlock(ctx, s.store, category)
	if err != nil {
		return false, err
	}
	return block == nil, nil
}

// deletionBlock returns the reference that prevents deleting category, or nil.
// The category itself is checked before its children.
func deletionBlock(ctx context.Context, r domain.RecordReader, category *domain.Category) (*ledgerErrors.ReferentialBlock, error) {
	count, err := r.CountReferencing(ctx, domain.TableTransactions, "category_id", category.ID.String())
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return &ledgerErrors.ReferentialBlock{Entity: "category", ID: category.ID.String(), Side: ledgerErrors.SideSelf, Count: count}, nil
	}
	if category.Type != domain.CategoryTypeParent {
		return nil, nil
	}

	children, err := listCategories(ctx, r, domain.Filter{"parent_id": category.ID.String()})
	if err != nil {
		return nil, err
	}
	total := 0
	for _, child := range children {
		n, err := r.CountReferencing(ctx, domain.TableTransactions, "category_id", child.ID.String())
		if err != nil {
			return nil, err
		}
		total += n
	}
	if total > 0 {
		return &ledgerErrors.ReferentialBlock{Entity: "category", ID: category.ID.String(), Side: ledgerErrors.SideChild, Count: total}, nil
	}
	return nil, nil
}

// loadParent resolves parentID to one of the caller's parent categories.
// self is the category being updated and may not become its own parent.
func loadParent(ctx context.Context, r domain.RecordReader, userID string, parentID, self uuid.UUID) (*domain.Category, error) {
	if parentID == self {
		return nil, ledgerErrors.ErrInvalidParent
	}
	parent, err := loadCategory(ctx, r, userID, parentID)
	if err != nil {
		if ledgerErrors.IsNotFound(err) {
			return nil, ledgerErrors.ErrInvalidParent
		}
		return nil, err
	}
	if parent.Type != domain.CategoryTypeParent {
		return nil, ledgerErrors.ErrInvalidParent
	}
	return parent, nil
}
