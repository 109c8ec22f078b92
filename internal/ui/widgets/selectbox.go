// Package widgets provides the custom Fyne widgets used by the PrintQuote
// screens.
package widgets

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
)

// menuGap is the vertical gap between the trigger and its menu, in device
// independent pixels.
const menuGap = 8

// openMenuBox is the SelectBox whose menu is currently on the overlay. At
// most one menu is open at a time: the popup backdrop swallows the tap that
// would open another.
var openMenuBox *SelectBox

// NewMenuAwareVScroll wraps content in a vertical scroll container that
// keeps any open SelectBox menu anchored to its trigger while the content
// moves underneath.
func NewMenuAwareVScroll(content fyne.CanvasObject) *container.Scroll {
	sc := container.NewVScroll(content)
	sc.OnScrolled = func(fyne.Position) {
		if b := openMenuBox; b != nil && b.menuOpen() {
			b.syncPosition()
		}
	}
	return sc
}

// SelectOption is one choice of a SelectBox. Values are always strings; the
// committed value is communicated as-is.
type SelectOption struct {
	Value string
	Label string
}

// SelectBox is a single-select control whose menu is rendered on the window
// overlay, anchored below the trigger, so it escapes clipping containers.
// It supports full keyboard navigation: arrows move a circular highlight,
// Enter commits, Escape closes without committing.
type SelectBox struct {
	widget.BaseWidget

	PlaceHolder string
	OnChanged   func(string)

	options     []SelectOption
	selected    string
	highlighted int
	popup       *widget.PopUp
	rows        []*optionRow
	menuAnchor  fyne.Position
	focused     bool
}

// NewSelectBox creates a closed SelectBox with the given placeholder.
func NewSelectBox(placeholder string, changed func(string)) *SelectBox {
	s := &SelectBox{
		PlaceHolder: placeholder,
		OnChanged:   changed,
		highlighted: -1,
	}
	s.ExtendBaseWidget(s)
	return s
}

// SetOptions replaces the option list. The current value is kept; if it no
// longer matches any option the trigger falls back to the placeholder.
func (s *SelectBox) SetOptions(opts []SelectOption) {
	s.options = opts
	if s.menuOpen() {
		s.closeMenu()
	}
	s.Refresh()
}

// Options returns the current option list.
func (s *SelectBox) Options() []SelectOption { return s.options }

// Selected returns the committed value.
func (s *SelectBox) Selected() string { return s.selected }

// HasSelection reports whether the committed value matches one of the
// current options. A value left over from a previous option list does not
// count.
func (s *SelectBox) HasSelection() bool { return s.selectedIndex() >= 0 }

// SetSelected programmatically commits a value, firing OnChanged when it
// changes.
func (s *SelectBox) SetSelected(value string) {
	if s.selected == value {
		return
	}
	s.selected = value
	s.Refresh()
	if s.OnChanged != nil {
		s.OnChanged(value)
	}
}

// ClearSelected resets the control to its placeholder without firing
// OnChanged.
func (s *SelectBox) ClearSelected() {
	s.selected = ""
	s.Refresh()
}

// selectedIndex returns the index of the committed value, or -1 when the
// value matches no option.
func (s *SelectBox) selectedIndex() int {
	for i, opt := range s.options {
		if opt.Value == s.selected {
			return i
		}
	}
	return -1
}

// selectedLabel returns the label shown on the trigger.
func (s *SelectBox) selectedLabel() string {
	if i := s.selectedIndex(); i >= 0 {
		return s.options[i].Label
	}
	return ""
}

// menuOpen reports whether the menu is showing. A tap on the popup backdrop
// hides it without going through closeMenu, so the dismissed popup is
// dropped here instead of being retained until the next open.
func (s *SelectBox) menuOpen() bool {
	if s.popup != nil && !s.popup.Visible() {
		s.popup = nil
		s.rows = nil
		if openMenuBox == s {
			openMenuBox = nil
		}
	}
	return s.popup != nil
}

// Tapped toggles the menu.
func (s *SelectBox) Tapped(*fyne.PointEvent) {
	if s.menuOpen() {
		s.closeMenu()
		return
	}
	s.requestFocus()
	s.openMenu()
}

// openMenu builds the option rows and shows them on the canvas overlay,
// anchored below the trigger. The highlight is seeded from the committed
// value. Position is recomputed on every open.
func (s *SelectBox) openMenu() {
	c := fyne.CurrentApp().Driver().CanvasForObject(s)
	if c == nil {
		return
	}
	s.highlighted = s.selectedIndex()

	s.rows = make([]*optionRow, len(s.options))
	objects := make([]fyne.CanvasObject, len(s.options))
	for i, opt := range s.options {
		row := newOptionRow(s, i, opt.Label)
		row.highlighted = i == s.highlighted
		s.rows[i] = row
		objects[i] = row
	}
	box := container.NewVBox(objects...)

	s.popup = widget.NewPopUp(box, c)
	s.popup.Resize(fyne.NewSize(
		fyne.Max(s.Size().Width, box.MinSize().Width),
		box.MinSize().Height,
	))
	openMenuBox = s
	s.syncPosition()
}

// syncPosition repositions the open menu below the trigger. It runs on every
// open and again whenever the trigger's absolute position changes.
func (s *SelectBox) syncPosition() {
	if s.popup == nil {
		return
	}
	pos := fyne.CurrentApp().Driver().AbsolutePositionForObject(s)
	s.menuAnchor = pos.Add(fyne.NewPos(0, s.Size().Height+menuGap))
	s.popup.ShowAtPosition(s.menuAnchor)
}

// closeMenu hides the menu without changing the value and returns focus to
// the trigger.
func (s *SelectBox) closeMenu() {
	if s.popup != nil {
		s.popup.Hide()
		s.popup = nil
		s.rows = nil
	}
	if openMenuBox == s {
		openMenuBox = nil
	}
	s.requestFocus()
}

// commit selects the option at idx, closes the menu and notifies OnChanged.
func (s *SelectBox) commit(idx int) {
	if idx < 0 || idx >= len(s.options) {
		return
	}
	value := s.options[idx].Value
	s.closeMenu()
	s.selected = value
	s.Refresh()
	if s.OnChanged != nil {
		s.OnChanged(value)
	}
}

// setHighlight moves the highlight to idx (pointer hover and keyboard share
// this path).
func (s *SelectBox) setHighlight(idx int) {
	if idx == s.highlighted {
		return
	}
	s.highlighted = idx
	for i, row := range s.rows {
		want := i == idx
		if row.highlighted != want {
			row.highlighted = want
			row.Refresh()
		}
	}
}

// moveHighlight steps the highlight circularly by delta.
func (s *SelectBox) moveHighlight(delta int) {
	n := len(s.options)
	if n == 0 {
		return
	}
	idx := s.highlighted + delta
	switch {
	case s.highlighted < 0 && delta > 0:
		idx = 0
	case s.highlighted < 0 && delta < 0:
		idx = n - 1
	case idx >= n:
		idx = 0
	case idx < 0:
		idx = n - 1
	}
	s.setHighlight(idx)
}

func (s *SelectBox) requestFocus() {
	if c := fyne.CurrentApp().Driver().CanvasForObject(s); c != nil {
		c.Focus(s)
	}
}

// FocusGained implements fyne.Focusable.
func (s *SelectBox) FocusGained() {
	s.focused = true
	s.Refresh()
}

// FocusLost implements fyne.Focusable.
func (s *SelectBox) FocusLost() {
	s.focused = false
	s.Refresh()
}

// TypedRune implements fyne.Focusable.
func (s *SelectBox) TypedRune(rune) {}

// TypedKey implements keyboard navigation.
func (s *SelectBox) TypedKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeyDown:
		if !s.menuOpen() {
			s.openMenu()
		}
		s.moveHighlight(1)
	case fyne.KeyUp:
		if !s.menuOpen() {
			s.openMenu()
		}
		s.moveHighlight(-1)
	case fyne.KeyReturn, fyne.KeyEnter:
		if s.menuOpen() {
			s.commit(s.highlighted)
		} else {
			s.openMenu()
		}
	case fyne.KeySpace:
		if !s.menuOpen() {
			s.openMenu()
		}
	case fyne.KeyEscape:
		if s.menuOpen() {
			s.closeMenu()
		}
	}
}

// Resize keeps the open menu glued to the trigger when layout changes.
func (s *SelectBox) Resize(size fyne.Size) {
	s.BaseWidget.Resize(size)
	if s.menuOpen() {
		s.syncPosition()
	}
}

// Move keeps the open menu glued to the trigger when it is relocated.
func (s *SelectBox) Move(pos fyne.Position) {
	s.BaseWidget.Move(pos)
	if s.menuOpen() {
		s.syncPosition()
	}
}

func (s *SelectBox) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(theme.Color(theme.ColorNameInputBackground))
	bg.CornerRadius = theme.InputRadiusSize()
	border := canvas.NewRectangle(color.Transparent)
	border.CornerRadius = theme.InputRadiusSize()
	border.StrokeWidth = 1
	label := canvas.NewText("", theme.Color(theme.ColorNameForeground))
	icon := canvas.NewImageFromResource(theme.MenuDropDownIcon())
	r := &selectBoxRenderer{
		box:    s,
		bg:     bg,
		border: border,
		label:  label,
		icon:   icon,
	}
	r.Refresh()
	return r
}

type selectBoxRenderer struct {
	box    *SelectBox
	bg     *canvas.Rectangle
	border *canvas.Rectangle
	label  *canvas.Text
	icon   *canvas.Image
}

func (r *selectBoxRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.border.Resize(size)

	iconSize := theme.IconInlineSize()
	r.icon.Resize(fyne.NewSize(iconSize, iconSize))
	r.icon.Move(fyne.NewPos(size.Width-iconSize-theme.InnerPadding(), (size.Height-iconSize)/2))

	textHeight := r.label.MinSize().Height
	r.label.Move(fyne.NewPos(theme.InnerPadding(), (size.Height-textHeight)/2))
	r.label.Resize(fyne.NewSize(size.Width-iconSize-3*theme.InnerPadding(), textHeight))
}

func (r *selectBoxRenderer) MinSize() fyne.Size {
	textMin := fyne.MeasureText(r.displayText(), theme.TextSize(), fyne.TextStyle{})
	w := textMin.Width + theme.IconInlineSize() + 3*theme.InnerPadding()
	h := textMin.Height + 2*theme.InnerPadding()
	return fyne.NewSize(fyne.Max(w, 120), h)
}

func (r *selectBoxRenderer) displayText() string {
	if l := r.box.selectedLabel(); l != "" {
		return l
	}
	return r.box.PlaceHolder
}

func (r *selectBoxRenderer) Refresh() {
	r.bg.FillColor = theme.Color(theme.ColorNameInputBackground)
	if r.box.focused {
		r.border.StrokeColor = theme.Color(theme.ColorNamePrimary)
	} else {
		r.border.StrokeColor = theme.Color(theme.ColorNameInputBorder)
	}

	r.label.Text = r.displayText()
	if r.box.selectedLabel() != "" {
		r.label.Color = theme.Color(theme.ColorNameForeground)
	} else {
		r.label.Color = theme.Color(theme.ColorNamePlaceHolder)
	}
	r.label.TextSize = theme.TextSize()

	r.bg.Refresh()
	r.border.Refresh()
	r.label.Refresh()
	r.icon.Refresh()
}

func (r *selectBoxRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.bg, r.border, r.label, r.icon}
}

func (r *selectBoxRenderer) Destroy() {}

// optionRow is one entry of the open menu: tappable to commit, hoverable to
// move the highlight.
type optionRow struct {
	widget.BaseWidget
	parent      *SelectBox
	index       int
	text        string
	highlighted bool
}

func newOptionRow(parent *SelectBox, index int, text string) *optionRow {
	r := &optionRow{parent: parent, index: index, text: text}
	r.ExtendBaseWidget(r)
	return r
}

// Tapped commits this row's option.
func (r *optionRow) Tapped(*fyne.PointEvent) {
	r.parent.commit(r.index)
}

// MouseIn implements desktop.Hoverable: hover moves the highlight.
func (r *optionRow) MouseIn(*desktop.MouseEvent) {
	r.parent.setHighlight(r.index)
}

func (r *optionRow) MouseMoved(*desktop.MouseEvent) {}

func (r *optionRow) MouseOut() {}

func (r *optionRow) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.Transparent)
	label := canvas.NewText(r.text, theme.Color(theme.ColorNameForeground))
	rr := &optionRowRenderer{row: r, bg: bg, label: label}
	rr.Refresh()
	return rr
}

type optionRowRenderer struct {
	row   *optionRow
	bg    *canvas.Rectangle
	label *canvas.Text
}

func (r *optionRowRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	textHeight := r.label.MinSize().Height
	r.label.Move(fyne.NewPos(theme.InnerPadding(), (size.Height-textHeight)/2))
}

func (r *optionRowRenderer) MinSize() fyne.Size {
	textMin := fyne.MeasureText(r.row.text, theme.TextSize(), fyne.TextStyle{})
	return fyne.NewSize(textMin.Width+2*theme.InnerPadding(), textMin.Height+2*theme.InnerPadding())
}

func (r *optionRowRenderer) Refresh() {
	if r.row.highlighted {
		r.bg.FillColor = theme.Color(theme.ColorNameHover)
	} else {
		r.bg.FillColor = color.Transparent
	}
	r.label.Text = r.row.text
	r.label.TextSize = theme.TextSize()
	r.bg.Refresh()
	r.label.Refresh()
}

func (r *optionRowRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.bg, r.label}
}

func (r *optionRowRenderer) Destroy() {}
