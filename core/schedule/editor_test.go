package schedule

import "testing"

func TestEditorOpenNewResetsForm(t *testing.T) {
	ed := NewEditor()
	ed.OpenNew("2026-03-02")
	ed.SetForm(EditorForm{Title: "leftover", Color: "#ff0000"})
	ed.Close()

	// opening for a new entry always starts from a clean form
	ed.OpenNew("2026-03-03")
	if ed.State() != EditorOpenForNew {
		t.Errorf("State() = %v; want EditorOpenForNew", ed.State())
	}
	if ed.Form() != (EditorForm{}) {
		t.Errorf("Form() = %+v; want empty", ed.Form())
	}
	if ed.Date() != "2026-03-03" {
		t.Errorf("Date() = %s", ed.Date())
	}
}

func TestEditorOpenEditPopulatesForm(t *testing.T) {
	ed := NewEditor()
	e := Entry{Title: "중간고사", Memo: Memo{Start: "09:00", End: "12:00", Text: "국어"}}
	ed.OpenEdit("2026-04-20", 1, e, "#112233")

	want := EditorForm{Title: "중간고사", Description: "국어", StartTime: "09:00", EndTime: "12:00", Color: "#112233"}
	if ed.Form() != want {
		t.Errorf("Form() = %+v; want %+v", ed.Form(), want)
	}
	if ed.Index() != 1 {
		t.Errorf("Index() = %d; want 1", ed.Index())
	}
}

func TestEditorSubmitNew(t *testing.T) {
	p := NewPlanner()
	ed := NewEditor()
	ed.OpenNew("2026-05-05")
	ed.SetForm(EditorForm{Title: "소풍", StartTime: "10:00", Color: "#00ff00"})

	if err := ed.Submit(p); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	entries := p.Entries("2026-05-05")
	if len(entries) != 1 || entries[0].Title != "소풍" || entries[0].Memo.Start != "10:00" {
		t.Errorf("Entries() = %+v", entries)
	}
	if p.Color("2026-05-05") != "#00ff00" {
		t.Errorf("Color() = %q", p.Color("2026-05-05"))
	}
	if ed.State() != EditorClosed {
		t.Errorf("State() after submit = %v; want EditorClosed", ed.State())
	}
}

func TestEditorSubmitEdit(t *testing.T) {
	p := NewPlanner()
	p.AddEntry("2026-05-05", Entry{Title: "old"})

	ed := NewEditor()
	ed.OpenEdit("2026-05-05", 0, p.Entries("2026-05-05")[0], "")
	form := ed.Form()
	form.Title = "new"
	ed.SetForm(form)

	if err := ed.Submit(p); err != nil {
		t.Fatalf("Submit() failed: %v", err)
	}
	if got := p.Title("2026-05-05"); got != "new" {
		t.Errorf("Title() = %q; want %q", got, "new")
	}
}

func TestEditorSubmitClosed(t *testing.T) {
	p := NewPlanner()
	ed := NewEditor()
	if err := ed.Submit(p); err == nil {
		t.Error("Submit() on a closed editor should fail")
	}
}

func TestEditorCloseDiscards(t *testing.T) {
	p := NewPlanner()
	ed := NewEditor()
	ed.OpenNew("2026-06-01")
	ed.SetForm(EditorForm{Title: "drafted"})
	ed.Close()

	if len(p.Entries("2026-06-01")) != 0 {
		t.Error("Close() must not apply the form")
	}
	if ed.State() != EditorClosed {
		t.Errorf("State() = %v; want EditorClosed", ed.State())
	}
}
