package schedule

import "errors"

// Editor models the add/edit schedule interaction:
// Closed → OpenForNew(date) or OpenForEdit(date, index) → Submitted → Closed.
// Opening for a new entry resets all transient form fields; only an explicit
// edit action pre-populates them. Closing discards in-progress edits
// silently; there is no dirty-state warning.

type EditorState int

const (
	EditorClosed EditorState = iota
	EditorOpenForNew
	EditorOpenForEdit
)

var errEditorClosed = errors.New("editor is not open")

type EditorForm struct {
	Title       string
	Description string
	StartTime   string
	EndTime     string
	Color       string
}

type Editor struct {
	state EditorState
	date  DateKey
	index int
	form  EditorForm
}

func NewEditor() *Editor {
	return &Editor{}
}

func (ed *Editor) State() EditorState { return ed.state }
func (ed *Editor) Date() DateKey      { return ed.date }
func (ed *Editor) Index() int         { return ed.index }
func (ed *Editor) Form() EditorForm   { return ed.form }

// OpenNew opens the editor for a new entry on the date. The form always
// starts empty, even when the date already has entries.
func (ed *Editor) OpenNew(date DateKey) {
	ed.state = EditorOpenForNew
	ed.date = date
	ed.index = -1
	ed.form = EditorForm{}
}

// OpenEdit opens the editor on an existing entry and populates the form
// from its current values.
func (ed *Editor) OpenEdit(date DateKey, index int, e Entry, color string) {
	ed.state = EditorOpenForEdit
	ed.date = date
	ed.index = index
	ed.form = EditorForm{
		Title:       e.Title,
		Description: e.Memo.Text,
		StartTime:   e.Memo.Start,
		EndTime:     e.Memo.End,
		Color:       color,
	}
}

func (ed *Editor) SetForm(form EditorForm) {
	ed.form = form
}

// Submit applies the form to the planner (append for new, overwrite in place
// for edit) and closes the editor.
func (ed *Editor) Submit(p *Planner) error {
	entry := Entry{
		Title: ed.form.Title,
		Memo:  Memo{Start: ed.form.StartTime, End: ed.form.EndTime, Text: ed.form.Description},
	}

	switch ed.state {
	case EditorOpenForNew:
		p.AddEntry(ed.date, entry)
	case EditorOpenForEdit:
		if err := p.UpdateEntry(ed.date, ed.index, entry); err != nil {
			return err
		}
	default:
		return errEditorClosed
	}

	if ed.form.Color != "" {
		p.SetColor(ed.date, ed.form.Color)
	}
	ed.Close()
	return nil
}

// Close discards any in-progress edits.
func (ed *Editor) Close() {
	*ed = Editor{}
}
