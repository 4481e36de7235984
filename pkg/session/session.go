// Package session owns the dashboard edit session: edit-mode lifecycle,
// undo/redo history of board snapshots, dirty-state tracking, save/cancel
// orchestration, the narrow-layout linkage transition, and the optimistic
// suppression window that keeps stale live data from clobbering fresh local
// mutations.
package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/semaphore"

	"dashgrid/pkg/grid"
	"dashgrid/pkg/model"
)

// State is the session lifecycle state.
type State int

const (
	// StateViewing means no edit session is active; the board is read-only.
	StateViewing State = iota
	// StateEditing means the session owns the board and accepts mutations.
	StateEditing
)

// String returns the human-readable state name.
func (s State) String() string {
	if s == StateEditing {
		return "editing"
	}
	return "viewing"
}

var (
	// ErrNotEditing is returned by mutations outside an active edit session.
	ErrNotEditing = errors.New("no active edit session")
	// ErrSaveInFlight is returned when a save is requested while another is
	// still outstanding.
	ErrSaveInFlight = errors.New("save already in flight")
	// ErrUnlinkRequired is returned when a narrow-layout edit is attempted
	// while the narrow layout is still linked to the wide one. The caller
	// must confirm the unlink and retry.
	ErrUnlinkRequired = errors.New("narrow layout is linked; unlink required")
	// ErrUnknownWidget is returned when a mutation targets a missing widget.
	ErrUnknownWidget = errors.New("unknown widget")
)

// Store persists boards. The session only writes through it on explicit save.
type Store interface {
	LoadAll(ctx context.Context) (model.Board, error)
	SaveAll(ctx context.Context, board model.Board) error
}

// Observers are the typed callbacks the session notifies. All fields are
// optional; the dependencies stay visible in the constructor instead of
// hiding behind an ambient event bus.
type Observers struct {
	// OnError reports a user-visible failure (title, message).
	OnError func(title, message string)
	// OnBoardChanged fires after any change to the live board.
	OnBoardChanged func()
	// OnModeChanged fires when the session enters or leaves edit mode.
	OnModeChanged func(editing bool)
}

// Session is the single active edit session for one dashboard. It is not
// safe for concurrent use except where noted; the system is event-driven and
// serializes onto one logical thread of control.
type Session struct {
	store Store
	defs  grid.TypeDefaults
	obs   Observers

	board     model.Board
	persisted model.Board

	state   State
	dirty   bool
	history []model.Board
	cursor  int
	mutSeq  int

	saveGate *semaphore.Weighted

	suppress *suppressGate
}

// New creates a session over the given persisted board. The board passed in
// becomes the externally-persisted baseline that cancel restores.
func New(st Store, defs grid.TypeDefaults, board model.Board, opts ...Option) *Session {
	if !board.Linkage.IsValid() {
		board.Linkage = model.LinkageLinked
	}
	s := &Session{
		store:     st,
		defs:      defs,
		board:     board.Clone(),
		persisted: board.Clone(),
		state:     StateViewing,
		saveGate:  semaphore.NewWeighted(1),
	}
	s.suppress = newSuppressGate(defaultSuppressWindow, realClock{})
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Option configures a Session at construction.
type Option func(*Session)

// WithObservers installs the session's notification callbacks.
func WithObservers(obs Observers) Option {
	return func(s *Session) { s.obs = obs }
}

// WithClock injects the suppression-window clock. Tests use a fake.
func WithClock(c Clock) Option {
	return func(s *Session) { s.suppress.clock = c }
}

// WithSuppressWindow overrides the suppression window width.
func WithSuppressWindow(w time.Duration) Option {
	return func(s *Session) { s.suppress.window = w }
}

// Board returns the live board. Callers must not retain the slice across
// mutations.
func (s *Session) Board() model.Board { return s.board }

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Editing reports whether an edit session is active.
func (s *Session) Editing() bool { return s.state == StateEditing }

// Dirty reports whether unsaved mutations exist.
func (s *Session) Dirty() bool { return s.dirty }

// Linkage returns the narrow-mode linkage flag of the live board.
func (s *Session) Linkage() model.Linkage { return s.board.Linkage }

// EnterEdit starts an edit session. The current board becomes history entry
// zero. Entering twice is a no-op.
func (s *Session) EnterEdit() {
	if s.state == StateEditing {
		return
	}
	s.state = StateEditing
	s.dirty = false
	s.history = []model.Board{s.board.Clone()}
	s.cursor = 0
	if s.obs.OnModeChanged != nil {
		s.obs.OnModeChanged(true)
	}
}

// ToggleEdit enters edit mode, or cancels out of it if already editing.
func (s *Session) ToggleEdit() {
	if s.state == StateEditing {
		s.Cancel()
		return
	}
	s.EnterEdit()
}

// Cancel discards every in-session mutation, restores the last persisted
// snapshot, and returns to viewing.
func (s *Session) Cancel() {
	if s.state != StateEditing {
		return
	}
	s.board = s.persisted.Clone()
	s.history = nil
	s.cursor = 0
	s.dirty = false
	s.state = StateViewing
	if s.obs.OnModeChanged != nil {
		s.obs.OnModeChanged(false)
	}
	if s.obs.OnBoardChanged != nil {
		s.obs.OnBoardChanged()
	}
}

// SaveAttempt is one outstanding persistence attempt. BeginSave mints it on
// the event loop, Persist may run on any goroutine, and CompleteSave applies
// the outcome back on the event loop.
type SaveAttempt struct {
	store    Store
	snapshot model.Board
	seq      int
}

// Persist writes the attempt's snapshot to the store. It touches no session
// state, so callers may run it off the event loop while the session keeps
// accepting mutations.
func (a *SaveAttempt) Persist(ctx context.Context) error {
	return a.store.SaveAll(ctx, a.snapshot)
}

// BeginSave snapshots the current board for persistence. While linked, the
// narrow layout is re-derived into the snapshot first, so the stored narrow
// arrangement can never drift from its source; the live board is left
// exactly as the user last saw it.
//
// Only one attempt may be outstanding; a second call before CompleteSave
// returns ErrSaveInFlight.
func (s *Session) BeginSave() (*SaveAttempt, error) {
	if s.state != StateEditing {
		return nil, ErrNotEditing
	}
	if !s.saveGate.TryAcquire(1) {
		return nil, ErrSaveInFlight
	}

	snapshot := s.board.Clone()
	if snapshot.Linkage == model.LinkageLinked {
		derived := grid.DeriveNarrow(snapshot.Widgets, s.defs)
		grid.ApplyNarrow(snapshot.Widgets, derived)
	}
	return &SaveAttempt{store: s.store, snapshot: snapshot, seq: s.mutSeq}, nil
}

// CompleteSave releases the save gate and applies the attempt's outcome. On
// failure the session stays in editing with its dirty flag and history
// intact, and the error observer fires exactly once. On success the snapshot
// becomes the persisted baseline; the session ends only if no further
// mutations landed while the write was in flight, otherwise it stays open
// with the newer edits still unsaved.
func (s *Session) CompleteSave(a *SaveAttempt, err error) error {
	s.saveGate.Release(1)
	if err != nil {
		if s.obs.OnError != nil {
			s.obs.OnError("Save failed", err.Error())
		}
		return fmt.Errorf("save board: %w", err)
	}

	s.persisted = a.snapshot
	s.suppress.mark()
	if s.state != StateEditing || s.mutSeq != a.seq {
		return nil
	}
	s.board = a.snapshot.Clone()
	s.dirty = false
	s.history = nil
	s.cursor = 0
	s.state = StateViewing
	if s.obs.OnModeChanged != nil {
		s.obs.OnModeChanged(false)
	}
	return nil
}

// Save persists the current board synchronously. UI callers that must not
// block their event loop use the BeginSave/Persist/CompleteSave split
// instead.
func (s *Session) Save(ctx context.Context) error {
	a, err := s.BeginSave()
	if err != nil {
		return err
	}
	return s.CompleteSave(a, a.Persist(ctx))
}

// push records the live board as the newest history entry, truncating any
// redo tail past the cursor. Every mutation goes through here, so every
// mutation also opens the suppression window.
func (s *Session) push() {
	s.history = append(s.history[:s.cursor+1], s.board.Clone())
	s.cursor = len(s.history) - 1
	s.dirty = true
	s.mutSeq++
	s.suppress.mark()
	if s.obs.OnBoardChanged != nil {
		s.obs.OnBoardChanged()
	}
}

// CanUndo reports whether an undo step exists.
func (s *Session) CanUndo() bool {
	return s.state == StateEditing && s.cursor > 0
}

// CanRedo reports whether a redo step exists.
func (s *Session) CanRedo() bool {
	return s.state == StateEditing && s.cursor < len(s.history)-1
}

// Undo steps the cursor back one snapshot and restores it into the live
// board. History itself is never mutated by a restore.
func (s *Session) Undo() {
	if !s.CanUndo() {
		return
	}
	s.cursor--
	s.board = s.history[s.cursor].Clone()
	s.dirty = s.cursor != 0
	s.mutSeq++
	if s.obs.OnBoardChanged != nil {
		s.obs.OnBoardChanged()
	}
}

// Redo steps the cursor forward one snapshot.
func (s *Session) Redo() {
	if !s.CanRedo() {
		return
	}
	s.cursor++
	s.board = s.history[s.cursor].Clone()
	s.dirty = true
	s.mutSeq++
	if s.obs.OnBoardChanged != nil {
		s.obs.OnBoardChanged()
	}
}

// guardNarrow enforces the unlink transition: editing the narrow layout
// while it is still auto-derived needs explicit confirmation first.
func (s *Session) guardNarrow(b grid.Breakpoint) error {
	if b == grid.Narrow && s.board.Linkage == model.LinkageLinked {
		return ErrUnlinkRequired
	}
	return nil
}

// Unlink switches the narrow layout to independent maintenance. From this
// point derivation no longer runs on save. Callers confirm with the user
// before invoking it.
func (s *Session) Unlink() error {
	if s.state != StateEditing {
		return ErrNotEditing
	}
	if s.board.Linkage == model.LinkageIndependent {
		return nil
	}
	// Materialize the current derivation so the user starts hand-editing
	// from what they were looking at.
	derived := grid.DeriveNarrow(s.board.Widgets, s.defs)
	grid.ApplyNarrow(s.board.Widgets, derived)
	s.board.Linkage = model.LinkageIndependent
	s.push()
	return nil
}

// Relink re-derives the narrow layout from the wide one and resumes
// automatic derivation on save.
func (s *Session) Relink() error {
	if s.state != StateEditing {
		return ErrNotEditing
	}
	derived := grid.DeriveNarrow(s.board.Widgets, s.defs)
	grid.ApplyNarrow(s.board.Widgets, derived)
	s.board.Linkage = model.LinkageLinked
	s.push()
	return nil
}

// MoveWidget sets a widget's position for one breakpoint, clamped into the
// grid. Out-of-range positions are expected interactive feedback, never an
// error.
func (s *Session) MoveWidget(id string, b grid.Breakpoint, x, y int) error {
	if s.state != StateEditing {
		return ErrNotEditing
	}
	if err := s.guardNarrow(b); err != nil {
		return err
	}
	w := s.board.Find(id)
	if w == nil {
		return fmt.Errorf("%w: %s", ErrUnknownWidget, id)
	}
	layout := s.layoutFor(w, b)
	cols := grid.Columns(b)
	if x < 0 {
		x = 0
	}
	if x+layout.W > cols {
		x = cols - layout.W
	}
	if y < 0 {
		y = 0
	}
	layout.X, layout.Y = x, y
	s.setLayout(w, b, layout)
	s.push()
	return nil
}

// ResizeWidget sets a widget's size for one breakpoint, clamped to the
// type's scaled constraint and the grid's right edge. Growing past the right
// edge pulls X left just enough to stay in bounds.
func (s *Session) ResizeWidget(id string, b grid.Breakpoint, w, h int) error {
	if s.state != StateEditing {
		return ErrNotEditing
	}
	if err := s.guardNarrow(b); err != nil {
		return err
	}
	wd := s.board.Find(id)
	if wd == nil {
		return fmt.Errorf("%w: %s", ErrUnknownWidget, id)
	}

	con := grid.DefaultConstraint(b)
	if tc, ok := s.defs.TypeConstraint(wd.Type); ok {
		con = grid.ScaleConstraint(tc, b)
	}
	w, h = con.ClampSize(w, h)

	layout := s.layoutFor(wd, b)
	cols := grid.Columns(b)
	if w > cols {
		w = cols
	}
	layout.W, layout.H = w, h
	if layout.X+layout.W > cols {
		layout.X = cols - layout.W
	}
	s.setLayout(wd, b, layout)
	s.push()
	return nil
}

// SetLayout replaces a widget's full geometry for one breakpoint. Used by
// the manual reposition editor; the same clamping as move+resize applies.
func (s *Session) SetLayout(id string, b grid.Breakpoint, layout model.Layout) error {
	if s.state != StateEditing {
		return ErrNotEditing
	}
	if err := s.guardNarrow(b); err != nil {
		return err
	}
	w := s.board.Find(id)
	if w == nil {
		return fmt.Errorf("%w: %s", ErrUnknownWidget, id)
	}

	con := grid.DefaultConstraint(b)
	if tc, ok := s.defs.TypeConstraint(w.Type); ok {
		con = grid.ScaleConstraint(tc, b)
	}
	layout.W, layout.H = con.ClampSize(layout.W, layout.H)

	cols := grid.Columns(b)
	if layout.W > cols {
		layout.W = cols
	}
	if layout.X < 0 {
		layout.X = 0
	}
	if layout.X+layout.W > cols {
		layout.X = cols - layout.W
	}
	if layout.Y < 0 {
		layout.Y = 0
	}
	s.setLayout(w, b, layout)
	s.push()
	return nil
}

// AddWidget appends a new widget to the board. IDs are unique; an add under
// an existing ID is rejected.
func (s *Session) AddWidget(w model.Widget) error {
	if s.state != StateEditing {
		return ErrNotEditing
	}
	if s.board.Find(w.ID) != nil {
		return fmt.Errorf("widget %s already exists", w.ID)
	}
	if err := w.Validate(grid.Columns(grid.Wide)); err != nil {
		return err
	}
	s.board.Widgets = append(s.board.Widgets, w.Clone())
	s.push()
	return nil
}

// DeleteWidget removes a widget from the board.
func (s *Session) DeleteWidget(id string) error {
	if s.state != StateEditing {
		return ErrNotEditing
	}
	if !s.board.Remove(id) {
		return fmt.Errorf("%w: %s", ErrUnknownWidget, id)
	}
	s.push()
	return nil
}

// DuplicateWidget clones a widget under a new ID, offset one row below the
// original so the copy is visible immediately.
func (s *Session) DuplicateWidget(id, newID string) error {
	if s.state != StateEditing {
		return ErrNotEditing
	}
	src := s.board.Find(id)
	if src == nil {
		return fmt.Errorf("%w: %s", ErrUnknownWidget, id)
	}
	dup := src.Clone()
	dup.ID = newID
	dup.Wide.Y = src.Wide.Y + src.Wide.H
	dup.Narrow = nil
	s.board.Widgets = append(s.board.Widgets, dup)
	s.push()
	return nil
}

// UpdateConfig replaces a widget's configuration.
func (s *Session) UpdateConfig(id string, cfg model.WidgetConfig) error {
	if s.state != StateEditing {
		return ErrNotEditing
	}
	w := s.board.Find(id)
	if w == nil {
		return fmt.Errorf("%w: %s", ErrUnknownWidget, id)
	}
	w.Config = cfg
	s.push()
	return nil
}

// MarkLocalAction opens the optimistic suppression window: live-data pushes
// arriving before it closes are dropped, so a stale read cannot clobber a
// mutation the local action already applied.
func (s *Session) MarkLocalAction() {
	s.suppress.mark()
}

// ShouldApplyLiveData reports whether a live-data push arriving now should
// be applied. Dropped pushes are routine, not errors; nothing is logged.
func (s *Session) ShouldApplyLiveData() bool {
	return s.suppress.open()
}

// ReplaceBoard swaps in an externally-loaded board while viewing. Refused
// during an edit session: the session exclusively owns the widget set.
func (s *Session) ReplaceBoard(b model.Board) {
	if s.state == StateEditing {
		log.Printf("Warning: dropping external board update during edit session")
		return
	}
	s.board = b.Clone()
	s.persisted = b.Clone()
	if s.obs.OnBoardChanged != nil {
		s.obs.OnBoardChanged()
	}
}

func (s *Session) layoutFor(w *model.Widget, b grid.Breakpoint) model.Layout {
	if b == grid.Narrow && w.Narrow != nil {
		return *w.Narrow
	}
	return w.Wide
}

func (s *Session) setLayout(w *model.Widget, b grid.Breakpoint, l model.Layout) {
	if b == grid.Narrow {
		v := l
		w.Narrow = &v
		return
	}
	w.Wide = l
}
