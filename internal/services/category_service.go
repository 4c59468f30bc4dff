package services

import (
	"errors"
	"regexp"
	"strings"

	"gorm.io/gorm"

	apperrors "centsible/internal/errors"
	"centsible/internal/models"
)

// categoryService handles category-related business logic.
type categoryService struct {
	db *gorm.DB
}

// NewCategoryService creates a new CategoryServicer.
func NewCategoryService(db *gorm.DB) CategoryServicer {
	return &categoryService{db: db}
}

var nonSlugChars = regexp.MustCompile(`[^A-Z0-9]+`)

// categorySlug derives the semantic ID for a custom category from its display
// name: "Pet Supplies" -> "CUSTOM_PET_SUPPLIES".
func categorySlug(name string) string {
	slug := nonSlugChars.ReplaceAllString(strings.ToUpper(name), "_")
	return models.CustomCategoryPrefix + strings.Trim(slug, "_")
}

// SeedDefaults inserts the built-in category taxonomy, skipping rows that
// already exist. Safe to run on every startup.
func (s *categoryService) SeedDefaults() error {
	for _, c := range models.DefaultCategories() {
		category := c
		if err := s.db.Where("id = ?", category.ID).FirstOrCreate(&category).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}
	return nil
}

// GetCategories returns the full category list. The taxonomy is small enough
// that clients always want all of it (pickers, dashboards), so this endpoint
// is not paginated.
func (s *categoryService) GetCategories() ([]models.Category, error) {
	var categories []models.Category
	if err := s.db.Order("id").Find(&categories).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return categories, nil
}

// GetCategoryByID returns a category with its children preloaded.
func (s *categoryService) GetCategoryByID(categoryID string) (*models.Category, error) {
	var category models.Category
	if err := s.db.Preload("Children").Where("id = ?", categoryID).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrCategoryNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &category, nil
}

// CreateCategory creates a custom category. The ID is derived from the name;
// a parent, when given, must itself be a root category so the hierarchy never
// exceeds two levels.
func (s *categoryService) CreateCategory(name string, parentID *string, isIncome *bool, isHidden, isRollover bool) (*models.Category, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name is required")
	}

	id := categorySlug(name)
	if id == models.CustomCategoryPrefix {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category name must contain letters or digits")
	}

	var count int64
	s.db.Model(&models.Category{}).Where("id = ?", id).Count(&count)
	if count > 0 {
		return nil, apperrors.ErrDuplicateCategory
	}

	if parentID != nil {
		var parent models.Category
		if err := s.db.Where("id = ?", *parentID).First(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if parent.ParentID != nil {
			return nil, apperrors.ErrCategoryDepth
		}
	}

	category := &models.Category{
		ID:         id,
		Name:       name,
		ParentID:   parentID,
		IsCustom:   true,
		IsHidden:   isHidden,
		IsRollover: isRollover,
		IsIncome:   isIncome,
	}

	if err := s.db.Create(category).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	return category, nil
}

// UpdateCategory updates a category's mutable fields. Reparenting follows the
// same two-level rule as creation: the new parent must be a root, and a
// category that has children of its own cannot become a child.
func (s *categoryService) UpdateCategory(categoryID string, name string, parentID *string, isIncome, isHidden, isRollover *bool) (*models.Category, error) {
	category, err := s.GetCategoryByID(categoryID)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if name != "" {
		updates["name"] = name
	}
	if isIncome != nil {
		updates["is_income"] = *isIncome
	}
	if isHidden != nil {
		updates["is_hidden"] = *isHidden
	}
	if isRollover != nil {
		updates["is_rollover"] = *isRollover
	}

	if parentID != nil {
		if *parentID == categoryID {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "category cannot be its own parent")
		}
		if len(category.Children) > 0 {
			return nil, apperrors.ErrCategoryDepth
		}
		var parent models.Category
		if err := s.db.Where("id = ?", *parentID).First(&parent).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrCategoryNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if parent.ParentID != nil {
			return nil, apperrors.ErrCategoryDepth
		}
		updates["parent_id"] = *parentID
	}

	if len(updates) > 0 {
		if err := s.db.Model(category).Updates(updates).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
	}

	return category, nil
}

// DeleteCategory soft-deletes a custom category. Built-in categories and
// categories still referenced by children, budgets, or transactions cannot
// be deleted.
func (s *categoryService) DeleteCategory(categoryID string) error {
	category, err := s.GetCategoryByID(categoryID)
	if err != nil {
		return err
	}

	if !category.IsCustom {
		return apperrors.ErrCategoryNotCustom
	}
	if len(category.Children) > 0 {
		return apperrors.ErrCategoryHasChildren
	}

	var budgets int64
	if err := s.db.Model(&models.MonthlyBudget{}).Where("category_id = ?", categoryID).Count(&budgets).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	var transactions int64
	if err := s.db.Model(&models.Transaction{}).Where("category_id = ?", categoryID).Count(&transactions).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	if budgets > 0 || transactions > 0 {
		return apperrors.ErrCategoryInUse
	}

	if err := s.db.Delete(category).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
