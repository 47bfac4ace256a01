package repository

import (
	"fmt"
	"time"

	"github.com/mkrajewski/task-manager-api/internal/database"
	"github.com/mkrajewski/task-manager-api/internal/models"
	"github.com/mkrajewski/task-manager-api/internal/utils"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task; subtask, tag and collaborator rows present on
// the struct are created with it.
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindOwned finds a task by ID belonging to the owner, with relations.
// A task owned by someone else is indistinguishable from a missing one.
func (r *GormTaskRepository) FindOwned(ownerID, taskID uint64) (*models.Task, error) {
	var task models.Task
	err := r.db.
		Preload("Subtasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("subtasks.position ASC")
		}).
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("task_tags.position ASC")
		}).
		Preload("Collaborators", func(db *gorm.DB) *gorm.DB {
			return db.Order("task_collaborators.position ASC")
		}).
		Where("id = ? AND owner_id = ?", taskID, ownerID).
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves the owner's tasks matching the filter
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, error) {
	query := r.db.Model(&models.Task{}).Where("tasks.owner_id = ?", filter.OwnerID)

	if filter.Completed != nil {
		query = query.Where("tasks.completed = ?", *filter.Completed)
	}
	if filter.Tag != "" {
		tagSubQuery := r.db.Model(&models.TaskTag{}).
			Select("1").
			Where("task_tags.task_id = tasks.id").
			Where("task_tags.name = ?", filter.Tag)
		query = query.Where("EXISTS (?)", tagSubQuery)
	}

	if filter.SortColumn != "" {
		direction := "ASC"
		if filter.SortDesc {
			direction = "DESC"
		}
		query = query.Order(fmt.Sprintf("tasks.%s %s", filter.SortColumn, direction))
	}

	query = query.Scopes(database.LimitSkip(utils.ListParams{
		Limit: filter.Limit,
		Skip:  filter.Skip,
	}))

	var tasks []models.Task
	err := query.
		Preload("Subtasks", func(db *gorm.DB) *gorm.DB {
			return db.Order("subtasks.position ASC")
		}).
		Preload("Tags", func(db *gorm.DB) *gorm.DB {
			return db.Order("task_tags.position ASC")
		}).
		Preload("Collaborators", func(db *gorm.DB) *gorm.DB {
			return db.Order("task_collaborators.position ASC")
		}).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}

	return tasks, nil
}

// Update saves task fields; when replaceTags is set the stored tag rows are
// replaced with task.Tags in the same transaction.
func (r *GormTaskRepository) Update(task *models.Task, replaceTags bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(task).Error; err != nil {
			return err
		}

		if replaceTags {
			if err := tx.Where("task_id = ?", task.ID).Delete(&models.TaskTag{}).Error; err != nil {
				return err
			}
			if len(task.Tags) > 0 {
				for i := range task.Tags {
					task.Tags[i].ID = 0
					task.Tags[i].TaskID = task.ID
				}
				if err := tx.Create(&task.Tags).Error; err != nil {
					return err
				}
			}
		}

		return nil
	})
}

// DeleteOwned atomically finds and deletes an owned task, returning it
func (r *GormTaskRepository) DeleteOwned(ownerID, taskID uint64) (*models.Task, error) {
	var task models.Task

	err := r.db.Transaction(func(tx *gorm.DB) error {
		err := tx.
			Preload("Subtasks", func(db *gorm.DB) *gorm.DB {
				return db.Order("subtasks.position ASC")
			}).
			Preload("Tags", func(db *gorm.DB) *gorm.DB {
				return db.Order("task_tags.position ASC")
			}).
			Preload("Collaborators", func(db *gorm.DB) *gorm.DB {
				return db.Order("task_collaborators.position ASC")
			}).
			Where("id = ? AND owner_id = ?", taskID, ownerID).
			First(&task).Error
		if err != nil {
			return err
		}

		if err := tx.Where("task_id = ?", taskID).Delete(&models.Subtask{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskTag{}).Error; err != nil {
			return err
		}
		if err := tx.Where("task_id = ?", taskID).Delete(&models.TaskCollaborator{}).Error; err != nil {
			return err
		}

		return tx.Delete(&models.Task{}, taskID).Error
	})
	if err != nil {
		return nil, err
	}

	return &task, nil
}

// ListDueBetween returns tasks of all owners with a deadline in [from, to)
func (r *GormTaskRepository) ListDueBetween(from, to time.Time) ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Preload("Owner").
		Where("deadline >= ? AND deadline < ?", from, to).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}
