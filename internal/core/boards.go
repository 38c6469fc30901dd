package core

import (
	"log/slog"
	"sync"
	"time"

	"github.com/davri/kardo/internal/db"
	"github.com/davri/kardo/internal/model"
	"github.com/google/uuid"
)

// BoardInput carries the fields a caller supplies when creating a board.
// Columns are optional; the default three-lane layout is used when empty.
type BoardInput struct {
	Name        string
	Description string
	Color       string
	Columns     []model.Column
}

// BoardStore owns the board collection and the current-board pointer.
// Invariants: the collection never drops below one board, and the default
// board can never be deleted. Every mutating call re-checks them before
// touching state.
type BoardStore struct {
	mu        sync.Mutex
	boards    []model.Board
	currentID string
	favorites map[string]bool
	ledger    Ledger
	logger    *slog.Logger
	now       func() time.Time
}

// NewBoardStore hydrates a board store from the ledger, seeding the
// always-present default board when nothing was persisted yet.
func NewBoardStore(ledger Ledger, logger *slog.Logger) *BoardStore {
	s := &BoardStore{
		favorites: make(map[string]bool),
		ledger:    ledger,
		logger:    logger,
		now:       time.Now,
	}

	if ledger != nil {
		if _, err := ledger.Get(db.KeyBoards, &s.boards); err != nil && logger != nil {
			logger.Warn("board snapshot load failed", slog.String("error", err.Error()))
		}
		if _, err := ledger.Get(db.KeyCurrentBoard, &s.currentID); err != nil && logger != nil {
			logger.Warn("current-board snapshot load failed", slog.String("error", err.Error()))
		}
		var favs []string
		if _, err := ledger.Get(db.KeyFavoriteBoards, &favs); err != nil && logger != nil {
			logger.Warn("favorite-boards snapshot load failed", slog.String("error", err.Error()))
		}
		for _, id := range favs {
			s.favorites[id] = true
		}
	}

	if len(s.boards) == 0 {
		now := s.now()
		s.boards = []model.Board{{
			ID:        uuid.New().String(),
			Name:      "Personal",
			Color:     "#3b82f6",
			IsDefault: true,
			Columns:   model.DefaultColumns(func() string { return uuid.New().String() }),
			CreatedAt: now,
			UpdatedAt: now,
		}}
		s.persistBoards()
	}
	if s.indexOf(s.currentID) < 0 {
		s.currentID = s.boards[0].ID
		persist(s.ledger, s.logger, db.KeyCurrentBoard, s.currentID)
	}

	return s
}

// AddBoard assigns identity and timestamps and appends the board. The new
// board is not auto-selected as current.
func (s *BoardStore) AddBoard(input BoardInput) model.Board {
	s.mu.Lock()
	defer s.mu.Unlock()

	columns := input.Columns
	if len(columns) == 0 {
		columns = model.DefaultColumns(func() string { return uuid.New().String() })
	}

	now := s.now()
	board := model.Board{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
		Color:       input.Color,
		Columns:     columns,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.boards = append(s.boards, board)
	s.persistBoards()
	return board
}

// UpdateBoard merges a patch and refreshes updatedAt. Unknown ids are a
// no-op.
func (s *BoardStore) UpdateBoard(id string, patch model.BoardPatch) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return
	}
	board := &s.boards[idx]
	if patch.Name != nil && *patch.Name != "" {
		board.Name = *patch.Name
	}
	if patch.Description != nil {
		board.Description = *patch.Description
	}
	if patch.Color != nil {
		board.Color = *patch.Color
	}
	board.UpdatedAt = s.now()
	s.persistBoards()
}

// DeleteBoard removes a board unless it is the default or the last one
// left; those attempts are silently declined. When the current board is
// deleted the pointer falls back to the first remaining board.
func (s *BoardStore) DeleteBoard(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.boards) <= 1 {
		return
	}
	idx := s.indexOf(id)
	if idx < 0 || s.boards[idx].IsDefault {
		return
	}

	s.boards = append(s.boards[:idx], s.boards[idx+1:]...)
	delete(s.favorites, id)
	if s.currentID == id {
		s.currentID = s.boards[0].ID
		persist(s.ledger, s.logger, db.KeyCurrentBoard, s.currentID)
	}
	s.persistBoards()
	s.persistFavorites()
}

// SetCurrentBoard switches the current-board pointer; unknown ids are a
// no-op. The selection is persisted for session continuity.
func (s *BoardStore) SetCurrentBoard(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) < 0 {
		return
	}
	s.currentID = id
	persist(s.ledger, s.logger, db.KeyCurrentBoard, s.currentID)
}

// CurrentBoard returns a copy of the currently selected board
func (s *BoardStore) CurrentBoard() model.Board {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(s.currentID)
	if idx < 0 {
		idx = 0
	}
	return s.boards[idx]
}

// GetBoard returns a copy of the board, or nil if unknown
func (s *BoardStore) GetBoard(id string) *model.Board {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(id)
	if idx < 0 {
		return nil
	}
	board := s.boards[idx]
	return &board
}

// Boards returns a copy of the board collection
func (s *BoardStore) Boards() []model.Board {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Board, len(s.boards))
	copy(out, s.boards)
	return out
}

// boardIDs returns the set of live board ids
func (s *BoardStore) boardIDs() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make(map[string]bool, len(s.boards))
	for _, b := range s.boards {
		ids[b.ID] = true
	}
	return ids
}

// ToggleFavoriteBoard flips the board's membership in the favorites set
func (s *BoardStore) ToggleFavoriteBoard(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.indexOf(id) < 0 {
		return
	}
	if s.favorites[id] {
		delete(s.favorites, id)
	} else {
		s.favorites[id] = true
	}
	s.persistFavorites()
}

// FavoriteBoards returns the favorited board ids
func (s *BoardStore) FavoriteBoards() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favoriteIDs()
}

// AddColumn appends a display lane to a board. More than three columns are
// allowed and several columns may map onto the same status.
func (s *BoardStore) AddColumn(boardID, title string, status model.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(boardID)
	if idx < 0 {
		return
	}
	s.boards[idx].Columns = append(s.boards[idx].Columns, model.Column{
		ID:     uuid.New().String(),
		Title:  title,
		Status: status,
	})
	s.boards[idx].UpdatedAt = s.now()
	s.persistBoards()
}

// RenameColumn updates a column title
func (s *BoardStore) RenameColumn(boardID, columnID, title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(boardID)
	if idx < 0 || title == "" {
		return
	}
	for i := range s.boards[idx].Columns {
		if s.boards[idx].Columns[i].ID == columnID {
			s.boards[idx].Columns[i].Title = title
			s.boards[idx].UpdatedAt = s.now()
			s.persistBoards()
			return
		}
	}
}

// DeleteColumn removes a column from a board. Tasks keep their status; a
// column is display grouping only.
func (s *BoardStore) DeleteColumn(boardID, columnID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOf(boardID)
	if idx < 0 {
		return
	}
	cols := s.boards[idx].Columns
	for i := range cols {
		if cols[i].ID == columnID {
			s.boards[idx].Columns = append(cols[:i], cols[i+1:]...)
			s.boards[idx].UpdatedAt = s.now()
			s.persistBoards()
			return
		}
	}
}

func (s *BoardStore) indexOf(id string) int {
	for i := range s.boards {
		if s.boards[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *BoardStore) favoriteIDs() []string {
	ids := make([]string, 0, len(s.favorites))
	for id := range s.favorites {
		ids = append(ids, id)
	}
	return ids
}

func (s *BoardStore) persistBoards() {
	persist(s.ledger, s.logger, db.KeyBoards, s.boards)
}

func (s *BoardStore) persistFavorites() {
	persist(s.ledger, s.logger, db.KeyFavoriteBoards, s.favoriteIDs())
}
