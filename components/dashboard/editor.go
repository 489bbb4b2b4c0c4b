package dashboard

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrSaveInProgress is returned when Save is called while a previous save is pending.
	ErrSaveInProgress = errors.New("dashboard: a save is already in progress")
	// ErrEditorClosed is returned by Save once the editor has been torn down.
	ErrEditorClosed = errors.New("dashboard: editor is closed")
	errMissingSaver = errors.New("dashboard: editor has no save function")
)

// SaveFunc commits a normalized preference list and returns what was stored.
type SaveFunc func(ctx context.Context, classroomID string, prefs []WidgetPreference) ([]WidgetPreference, error)

// Editor is the per-classroom layout view-model. It keeps the committed
// (stored) list apart from the in-progress draft; only Save moves the draft
// into storage.
type Editor struct {
	mu          sync.Mutex
	classroomID string
	defs        []WidgetDefinition
	save        SaveFunc
	drag        *DragController

	stored     []WidgetPreference
	draft      []WidgetPreference
	editing    bool
	saving     bool
	closed     bool
	pickerOpen bool
	lastErr    error
}

// NewEditor builds an editor from already resolved stored preferences.
func NewEditor(classroomID string, defs []WidgetDefinition, stored []WidgetPreference, save SaveFunc) *Editor {
	defs = append([]WidgetDefinition(nil), defs...)
	sortDefinitions(defs)
	stored = Normalize(stored)
	return &Editor{
		classroomID: classroomID,
		defs:        defs,
		save:        save,
		drag:        NewDragController(DefaultActivationDistance),
		stored:      stored,
		draft:       clonePreferences(stored),
	}
}

// ClassroomID returns the classroom the editor is bound to.
func (e *Editor) ClassroomID() string {
	return e.classroomID
}

// Draft returns a copy of the current draft.
func (e *Editor) Draft() []WidgetPreference {
	e.mu.Lock()
	defer e.mu.Unlock()
	return clonePreferences(e.draft)
}

// Stored returns a copy of the last committed list.
func (e *Editor) Stored() []WidgetPreference {
	e.mu.Lock()
	defer e.mu.Unlock()
	return clonePreferences(e.stored)
}

// Visible returns the visible draft widgets with display metadata, in order.
func (e *Editor) Visible() []ResolvedWidgetPreference {
	e.mu.Lock()
	defer e.mu.Unlock()
	visible, _ := splitByVisibility(e.draft)
	return ResolveWith(e.defs, visible)
}

// Available lists hidden draft widgets, i.e. what the "add widget" picker may offer.
func (e *Editor) Available() []ResolvedWidgetPreference {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, hidden := splitByVisibility(e.draft)
	return ResolveWith(e.defs, hidden)
}

// Editing reports whether edit mode is active.
func (e *Editor) Editing() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.editing
}

// Saving reports whether a save is in flight.
func (e *Editor) Saving() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saving
}

// LastError returns the most recent save failure, cleared by the next successful save.
func (e *Editor) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

// BeginEdit enters edit mode with a fresh draft copied from stored.
func (e *Editor) BeginEdit() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return false
	}
	if !e.editing {
		e.draft = clonePreferences(e.stored)
		e.editing = true
	}
	return true
}

// CancelEdit discards the draft and leaves edit mode.
func (e *Editor) CancelEdit() {
	e.drag.Cancel()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.draft = clonePreferences(e.stored)
	e.editing = false
	e.pickerOpen = false
	e.lastErr = nil
}

// Hide marks the widget hidden in the draft.
func (e *Editor) Hide(widgetID string) bool {
	return e.setVisibility(widgetID, false)
}

// Show makes a hidden widget visible, appending it after the visible widgets.
// The picker closes automatically once nothing is left to add.
func (e *Editor) Show(widgetID string) bool {
	return e.setVisibility(widgetID, true)
}

func (e *Editor) setVisibility(widgetID string, visible bool) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mutableLocked() {
		return false
	}
	idx := indexOfWidget(e.draft, widgetID)
	if idx < 0 || e.draft[idx].IsVisible == visible {
		return false
	}
	next := clonePreferences(e.draft)
	next[idx].IsVisible = visible
	if visible {
		next[idx].Order = maxOrder(next) + 1
	}
	e.setDraftLocked(Resequence(next))
	return true
}

// RestoreDefaults replaces the draft with registry defaults. Nothing is persisted.
func (e *Editor) RestoreDefaults() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mutableLocked() {
		return false
	}
	e.setDraftLocked(Resequence(DefaultPreferences(e.defs)))
	return true
}

// mutableLocked reports whether the draft may change. The draft is frozen
// while a save is in flight so the committed snapshot stays what the user sees.
func (e *Editor) mutableLocked() bool {
	return e.editing && !e.saving && !e.closed
}

// setDraftLocked swaps the draft and closes the picker once nothing is hidden.
func (e *Editor) setDraftLocked(draft []WidgetPreference) {
	e.draft = draft
	if _, hidden := splitByVisibility(e.draft); len(hidden) == 0 {
		e.pickerOpen = false
	}
}

// Move places activeID at overID's slot within the visible draft widgets.
func (e *Editor) Move(activeID, overID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mutableLocked() {
		return false
	}
	next, changed := MoveVisible(e.draft, activeID, overID)
	if changed {
		e.draft = next
	}
	return changed
}

// OpenPicker opens the add-widget picker when there is something to add.
func (e *Editor) OpenPicker() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, hidden := splitByVisibility(e.draft)
	e.pickerOpen = e.mutableLocked() && len(hidden) > 0
	return e.pickerOpen
}

// ClosePicker closes the add-widget picker.
func (e *Editor) ClosePicker() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pickerOpen = false
}

// PickerOpen reports whether the add-widget picker is open.
func (e *Editor) PickerOpen() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pickerOpen
}

// HasChanges reports whether the draft differs from stored.
func (e *Editor) HasChanges() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return HasChanges(e.draft, e.stored)
}

// CanSave reports whether the save action should be enabled.
func (e *Editor) CanSave() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.editing && !e.saving && !e.closed && HasChanges(e.draft, e.stored)
}

// Save commits the draft. Only one save may be in flight and the draft is
// read-only until it settles. On failure the draft and edit mode are kept so
// the user can retry; on success edit mode closes. Results arriving after
// Close are discarded.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	switch {
	case e.closed:
		e.mu.Unlock()
		return ErrEditorClosed
	case e.saving:
		e.mu.Unlock()
		return ErrSaveInProgress
	case e.save == nil:
		e.mu.Unlock()
		return errMissingSaver
	}
	if !HasChanges(e.draft, e.stored) {
		e.editing = false
		e.pickerOpen = false
		e.mu.Unlock()
		return nil
	}
	snapshot := Normalize(e.draft)
	e.saving = true
	e.mu.Unlock()

	committed, err := e.save(ctx, e.classroomID, snapshot)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.saving = false
	if e.closed {
		return nil
	}
	if err != nil {
		e.lastErr = err
		return err
	}
	if committed == nil {
		committed = snapshot
	}
	e.stored = Normalize(committed)
	e.draft = clonePreferences(e.stored)
	e.editing = false
	e.pickerOpen = false
	e.lastErr = nil
	return nil
}

// ApplyRemote merges a pushed stored list. The draft follows only when the
// editor is not in edit mode so in-progress edits are never clobbered.
func (e *Editor) ApplyRemote(stored []StoredPreference) {
	resolved := ResolvePreferences(e.defs, stored)
	prefs := make([]WidgetPreference, len(resolved))
	for i, r := range resolved {
		prefs[i] = r.WidgetPreference
	}
	prefs = Normalize(prefs)

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return
	}
	e.stored = prefs
	if !e.editing {
		e.draft = clonePreferences(prefs)
	}
}

// ApplyEvent feeds a broadcast PreferenceEvent for this classroom into ApplyRemote.
func (e *Editor) ApplyEvent(event PreferenceEvent) bool {
	if event.ClassroomID != e.classroomID || event.Preferences == nil {
		return false
	}
	e.ApplyRemote(StoredFrom(event.Preferences))
	return true
}

// Close tears the editor down; pending save results are ignored afterwards.
func (e *Editor) Close() {
	e.drag.Cancel()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.closed = true
	e.editing = false
	e.pickerOpen = false
}

// PointerDown starts a pointer drag on a visible widget while editing.
func (e *Editor) PointerDown(widgetID string, x, y float64) bool {
	return e.drag.PointerDown(widgetID, x, y, e.canMutate())
}

// PointerMove forwards pointer travel to the drag controller.
func (e *Editor) PointerMove(x, y float64) bool {
	return e.drag.PointerMove(x, y)
}

// Hover records the current drop target.
func (e *Editor) Hover(overID string) {
	e.drag.Hover(overID)
}

// DropIndicator reports where the dragged widget would land.
func (e *Editor) DropIndicator() (string, DropPlacement) {
	return e.drag.Indicator(e.Draft())
}

// DragPhase exposes the current gesture phase.
func (e *Editor) DragPhase() DragPhase {
	return e.drag.Phase()
}

// Drop ends the pointer gesture and applies the move to the draft.
func (e *Editor) Drop() bool {
	next, changed := e.drag.Drop(e.Draft())
	return e.commitDraft(next, changed)
}

// KeyDown drives keyboard reordering of the focused widget.
func (e *Editor) KeyDown(focusedID string, key Key) bool {
	next, changed := e.drag.KeyDown(focusedID, key, e.Draft(), e.canMutate())
	return e.commitDraft(next, changed)
}

func (e *Editor) commitDraft(next []WidgetPreference, changed bool) bool {
	if !changed {
		return false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.mutableLocked() {
		return false
	}
	e.draft = next
	return true
}

func (e *Editor) canMutate() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mutableLocked()
}

func maxOrder(prefs []WidgetPreference) int {
	max := 0
	for _, p := range prefs {
		if p.Order > max {
			max = p.Order
		}
	}
	return max
}

func clonePreferences(prefs []WidgetPreference) []WidgetPreference {
	out := make([]WidgetPreference, len(prefs))
	for i, p := range prefs {
		p.Settings = cloneSettings(p.Settings)
		out[i] = p
	}
	return out
}
