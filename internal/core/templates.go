package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/davri/kardo/internal/db"
	"github.com/davri/kardo/internal/model"
	"github.com/google/uuid"
)

var (
	// ErrTemplateNotFound is returned when a template id does not exist
	ErrTemplateNotFound = errors.New("template not found")
	// ErrMalformedTemplate is returned when an import payload cannot be
	// parsed or fails shape checks
	ErrMalformedTemplate = errors.New("malformed template")
)

// TemplateStore owns board templates. Default templates are seeded at
// construction and always present; persisted custom templates are merged
// in by id and can never shadow or duplicate a default.
type TemplateStore struct {
	mu        sync.Mutex
	templates []model.BoardTemplate
	favorites map[string]bool
	boards    *BoardStore
	ledger    Ledger
	logger    *slog.Logger
	now       func() time.Time
}

// NewTemplateStore seeds the defaults and merges persisted custom
// templates on top.
func NewTemplateStore(boards *BoardStore, ledger Ledger, logger *slog.Logger) *TemplateStore {
	s := &TemplateStore{
		templates: defaultTemplates(),
		favorites: make(map[string]bool),
		boards:    boards,
		ledger:    ledger,
		logger:    logger,
		now:       time.Now,
	}

	if ledger != nil {
		var custom []model.BoardTemplate
		if _, err := ledger.Get(db.KeyTemplates, &custom); err != nil && logger != nil {
			logger.Warn("template snapshot load failed", slog.String("error", err.Error()))
		}
		for _, t := range custom {
			if s.index(t.ID) < 0 {
				t.IsDefault = false
				s.templates = append(s.templates, t)
			}
		}

		var favs []string
		if _, err := ledger.Get(db.KeyFavoriteTemplates, &favs); err != nil && logger != nil {
			logger.Warn("favorite-templates snapshot load failed", slog.String("error", err.Error()))
		}
		for _, id := range favs {
			s.favorites[id] = true
		}
	}

	return s
}

// Templates returns a copy of the template collection
func (s *TemplateStore) Templates() []model.BoardTemplate {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.BoardTemplate, len(s.templates))
	copy(out, s.templates)
	return out
}

// GetTemplate returns a copy of the template, or nil if unknown
func (s *TemplateStore) GetTemplate(id string) *model.BoardTemplate {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.index(id)
	if idx < 0 {
		return nil
	}
	t := s.templates[idx]
	return &t
}

// CreateBoardFromTemplate materializes a board from the template's
// metadata, optionally overriding the name, and bumps the template's usage
// count. Seed tasks are not copied into the new board.
func (s *TemplateStore) CreateBoardFromTemplate(templateID, boardName string) (model.Board, error) {
	s.mu.Lock()
	idx := s.index(templateID)
	if idx < 0 {
		s.mu.Unlock()
		return model.Board{}, fmt.Errorf("%w: %s", ErrTemplateNotFound, templateID)
	}
	tpl := s.templates[idx]
	s.templates[idx].UsageCount++
	s.persistTemplates()
	s.mu.Unlock()

	name := boardName
	if name == "" {
		name = tpl.Name
	}
	columns := make([]model.Column, len(tpl.Columns))
	for i, col := range tpl.Columns {
		columns[i] = model.Column{
			ID:     uuid.New().String(),
			Title:  col.Title,
			Status: col.Status,
		}
	}
	return s.boards.AddBoard(BoardInput{
		Name:        name,
		Description: tpl.Description,
		Color:       tpl.Color,
		Columns:     columns,
	}), nil
}

// ExportTemplate serializes a template with identity fields stripped so it
// can be re-imported as a fresh custom template.
func (s *TemplateStore) ExportTemplate(id string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.index(id)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, id)
	}
	t := s.templates[idx]

	return json.MarshalIndent(model.TemplateExport{
		Name:        t.Name,
		Description: t.Description,
		Category:    t.Category,
		Color:       t.Color,
		Columns:     t.Columns,
	}, "", "  ")
}

// ImportTemplate parses an exported payload and adds it as a new custom
// template with a fresh id and usage count zero. Parse or shape failures
// leave the store untouched.
func (s *TemplateStore) ImportTemplate(raw []byte) (model.BoardTemplate, error) {
	var export model.TemplateExport
	if err := json.Unmarshal(raw, &export); err != nil {
		return model.BoardTemplate{}, fmt.Errorf("%w: %v", ErrMalformedTemplate, err)
	}
	if export.Name == "" || len(export.Columns) == 0 {
		return model.BoardTemplate{}, fmt.Errorf("%w: name and columns are required", ErrMalformedTemplate)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tpl := model.BoardTemplate{
		ID:          uuid.New().String(),
		Name:        export.Name,
		Description: export.Description,
		Category:    export.Category,
		Color:       export.Color,
		Columns:     export.Columns,
		CreatedAt:   s.now(),
	}
	s.templates = append(s.templates, tpl)
	s.persistTemplates()
	return tpl, nil
}

// DeleteTemplate removes a custom template and scrubs it from the
// favorites set. Default templates are immortal; deleting one is a silent
// no-op.
func (s *TemplateStore) DeleteTemplate(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.index(id)
	if idx < 0 || s.templates[idx].IsDefault {
		return
	}
	s.templates = append(s.templates[:idx], s.templates[idx+1:]...)
	delete(s.favorites, id)
	s.persistTemplates()
	s.persistFavorites()
}

// UpdateTemplate merges a patch into a custom template. Defaults and
// unknown ids are no-ops.
func (s *TemplateStore) UpdateTemplate(id string, patch model.TemplatePatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.index(id)
	if idx < 0 || s.templates[idx].IsDefault {
		return
	}
	t := &s.templates[idx]
	if patch.Name != nil && *patch.Name != "" {
		t.Name = *patch.Name
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Category != nil {
		t.Category = *patch.Category
	}
	if patch.Color != nil {
		t.Color = *patch.Color
	}
	s.persistTemplates()
}

// ToggleFavoriteTemplate flips favorite membership; defaults can be
// favorited like any other template.
func (s *TemplateStore) ToggleFavoriteTemplate(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.index(id) < 0 {
		return
	}
	if s.favorites[id] {
		delete(s.favorites, id)
	} else {
		s.favorites[id] = true
	}
	s.persistFavorites()
}

// FavoriteTemplates returns the favorited template ids
func (s *TemplateStore) FavoriteTemplates() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.favorites))
	for id := range s.favorites {
		ids = append(ids, id)
	}
	return ids
}

func (s *TemplateStore) index(id string) int {
	for i := range s.templates {
		if s.templates[i].ID == id {
			return i
		}
	}
	return -1
}

// persistTemplates writes the custom templates only; defaults are code and
// get merged back at load.
func (s *TemplateStore) persistTemplates() {
	var custom []model.BoardTemplate
	for _, t := range s.templates {
		if !t.IsDefault {
			custom = append(custom, t)
		}
	}
	persist(s.ledger, s.logger, db.KeyTemplates, custom)
}

func (s *TemplateStore) persistFavorites() {
	ids := make([]string, 0, len(s.favorites))
	for id := range s.favorites {
		ids = append(ids, id)
	}
	persist(s.ledger, s.logger, db.KeyFavoriteTemplates, ids)
}

// defaultTemplates are the seed templates shipped with the system. Their
// ids are stable so persisted favorites survive restarts.
func defaultTemplates() []model.BoardTemplate {
	return []model.BoardTemplate{
		{
			ID:          "tpl-kanban",
			Name:        "Simple Kanban",
			Description: "A three-lane board for everyday work",
			Category:    "General",
			Color:       "#3b82f6",
			IsDefault:   true,
			Columns: []model.ColumnTemplate{
				{Title: "To Do", Status: model.StatusTodo, Tasks: []model.TaskTemplate{
					{Title: "Plan the week", Priority: model.PriorityMedium},
				}},
				{Title: "In Progress", Status: model.StatusDoing},
				{Title: "Done", Status: model.StatusDone},
			},
		},
		{
			ID:          "tpl-sprint",
			Name:        "Sprint Board",
			Description: "Backlog-driven board for a development sprint",
			Category:    "Software",
			Color:       "#a855f7",
			IsDefault:   true,
			Columns: []model.ColumnTemplate{
				{Title: "Backlog", Status: model.StatusTodo, Tasks: []model.TaskTemplate{
					{Title: "Groom the backlog", Priority: model.PriorityHigh, Tags: []string{"planning"}},
					{Title: "Write sprint goal", Priority: model.PriorityMedium},
				}},
				{Title: "Doing", Status: model.StatusDoing},
				{Title: "Review", Status: model.StatusDoing},
				{Title: "Shipped", Status: model.StatusDone},
			},
		},
		{
			ID:          "tpl-chores",
			Name:        "Household Chores",
			Description: "Recurring chores with point rewards",
			Category:    "Home",
			Color:       "#22c55e",
			IsDefault:   true,
			Columns: []model.ColumnTemplate{
				{Title: "This Week", Status: model.StatusTodo, Tasks: []model.TaskTemplate{
					{Title: "Water the plants", Priority: model.PriorityLow, Labels: []string{"green"}},
					{Title: "Deep clean kitchen", Priority: model.PriorityHigh},
				}},
				{Title: "Doing", Status: model.StatusDoing},
				{Title: "Done", Status: model.StatusDone},
			},
		},
	}
}
