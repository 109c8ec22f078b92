package ui

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ba4b0d/printquote/internal/catalog"
	"github.com/ba4b0d/printquote/internal/pricing"
	"github.com/ba4b0d/printquote/internal/quote"
	"github.com/ba4b0d/printquote/internal/ui/widgets"
)

// staffScreen is the counter-side workspace: manual quoting from known
// figures, upload quoting with real quantities, the full cost breakdown,
// and the saved quote history.
type staffScreen struct {
	app *App

	materialSelect *widgets.SelectBox
	machineSelect  *widgets.SelectBox

	qtyEntry     *widget.Entry
	gramsEntry   *widget.Entry
	minutesEntry *widget.Entry
	postProEntry *widget.Entry
	extrasEntry  *widget.Entry

	qualitySelect *widgets.SelectBox
	fileName      string
	fileData      []byte
	fileBtn       *widget.Button

	progress  *widget.ProgressBar
	statusLbl *widget.Label

	breakdownBox *fyne.Container
	saveBtn      *widget.Button

	manualBtn *widget.Button
	uploadBtn *widget.Button

	historyBox *fyne.Container
	banner     *fyne.Container

	lastState pricing.State
}

func newStaffScreen(a *App) *staffScreen {
	return &staffScreen{app: a}
}

func (s *staffScreen) build() fyne.CanvasObject {
	s.materialSelect = widgets.NewSelectBox("Material...", func(string) { s.refreshSubmitState() })
	s.machineSelect = widgets.NewSelectBox("Printer...", func(string) { s.refreshSubmitState() })

	s.qtyEntry = widget.NewEntry()
	s.qtyEntry.SetText("1")
	s.qtyEntry.OnChanged = func(string) { s.refreshSubmitState() }
	s.gramsEntry = widget.NewEntry()
	s.gramsEntry.SetPlaceHolder("Filament per unit (g)")
	s.gramsEntry.OnChanged = func(string) { s.refreshSubmitState() }
	s.minutesEntry = widget.NewEntry()
	s.minutesEntry.SetPlaceHolder("Print time per unit (min)")
	s.minutesEntry.OnChanged = func(string) { s.refreshSubmitState() }
	s.postProEntry = widget.NewEntry()
	s.postProEntry.SetText("0")
	s.extrasEntry = widget.NewEntry()
	s.extrasEntry.SetText("0")

	s.qualitySelect = widgets.NewSelectBox("Quality...", func(string) { s.refreshSubmitState() })
	s.qualitySelect.SetOptions(qualityLevels)
	s.qualitySelect.SetSelected(s.app.config.DefaultQuality)

	s.fileBtn = widget.NewButtonWithIcon("Choose model file...", theme.FolderOpenIcon(), func() {
		s.pickFile()
	})

	s.manualBtn = widget.NewButtonWithIcon("Price Manually", theme.ConfirmIcon(), func() {
		s.submitManual()
	})
	s.uploadBtn = widget.NewButtonWithIcon("Estimate & Price Upload", theme.UploadIcon(), func() {
		s.submitUpload()
	})
	s.refreshSubmitState()

	s.progress = widget.NewProgressBar()
	s.progress.Max = 100
	s.statusLbl = widget.NewLabel("")
	s.statusLbl.Wrapping = fyne.TextWrapWord

	s.breakdownBox = container.NewVBox()
	s.saveBtn = widget.NewButtonWithIcon("Save Quote", theme.DocumentSaveIcon(), func() {
		s.saveQuote()
	})
	s.saveBtn.Disable()

	s.historyBox = container.NewVBox()
	s.refreshHistoryList()

	s.banner = container.NewVBox()
	s.catalogChanged()

	jobCard := widget.NewCard("Job", "", container.NewGridWithColumns(2,
		widget.NewLabel("Material"), s.materialSelect,
		widget.NewLabel("Printer"), s.machineSelect,
		widget.NewLabel("Quantity"), s.qtyEntry,
		widget.NewLabel("Post-processing (h)"), s.postProEntry,
		widget.NewLabel("Extras (Toman)"), s.extrasEntry,
	))

	manualTab := container.NewTabItem("Manual", container.NewVBox(
		container.NewGridWithColumns(2,
			widget.NewLabel("Filament (g / unit)"), s.gramsEntry,
			widget.NewLabel("Print time (min / unit)"), s.minutesEntry,
		),
		s.manualBtn,
	))
	uploadTab := container.NewTabItem("Upload", container.NewVBox(
		s.fileBtn,
		container.NewGridWithColumns(2,
			widget.NewLabel("Quality"), s.qualitySelect,
		),
		s.uploadBtn,
	))
	pathTabs := container.NewAppTabs(manualTab, uploadTab)

	resultCard := widget.NewCard("Breakdown", "", container.NewVBox(
		s.progress,
		s.statusLbl,
		s.breakdownBox,
		s.saveBtn,
	))

	historyCard := widget.NewCard("Saved Quotes", "", container.NewVBox(
		container.NewHBox(
			layout.NewSpacer(),
			widget.NewButtonWithIcon("Export to Excel", theme.FileIcon(), func() {
				s.app.exportHistoryXLSX()
			}),
		),
		s.historyBox,
	))

	logoutBtn := widget.NewButtonWithIcon("Sign Out", theme.LogoutIcon(), func() {
		s.app.logout()
	})

	left := container.NewVBox(s.banner, jobCard, pathTabs, resultCard)
	right := container.NewVBox(historyCard, logoutBtn)

	split := container.NewHSplit(widgets.NewMenuAwareVScroll(left), container.NewVScroll(right))
	split.SetOffset(0.55)
	return split
}

// catalogChanged repopulates the pickers from the unmerged staff catalog.
// Staff see every raw group, including sub-variants the public view folds
// together, so option labels keep their source group name as a prefix.
func (s *staffScreen) catalogChanged() {
	if s.banner == nil {
		return
	}
	s.banner.RemoveAll()
	if b := s.app.catalogBanner(); b != nil {
		s.banner.Add(b)
	}
	s.banner.Refresh()

	var opts []widgets.SelectOption
	for _, f := range s.app.rawFamilies {
		for _, o := range f.Options {
			opts = append(opts, widgets.SelectOption{
				Value: o.ID,
				Label: fmt.Sprintf("%s — %s", f.Name, catalog.DisplayLabel(o, f.Key)),
			})
		}
	}
	s.materialSelect.SetOptions(opts)

	var machineOpts []widgets.SelectOption
	for _, m := range s.app.machineOptions() {
		machineOpts = append(machineOpts, widgets.SelectOption{Value: m.ID, Label: m.Name})
	}
	s.machineSelect.SetOptions(machineOpts)
}

func (s *staffScreen) pickFile() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		data, err := io.ReadAll(reader)
		if err != nil {
			dialog.ShowError(fmt.Errorf("could not read model file: %w", err), s.app.window)
			return
		}
		s.fileName = reader.URI().Name()
		s.fileData = data
		s.fileBtn.SetText(s.fileName)
		s.refreshSubmitState()
	}, s.app.window)
}

func (s *staffScreen) parsedQty() int {
	n, err := strconv.Atoi(s.qtyEntry.Text)
	if err != nil {
		return 0
	}
	return n
}

func parseFloatField(e *widget.Entry) float64 {
	v, err := strconv.ParseFloat(e.Text, 64)
	if err != nil {
		return 0
	}
	return v
}

// manualReady reports whether the manual path has a priceable job: a
// material, a printer, a positive quantity and nonzero per-unit figures.
func (s *staffScreen) manualReady() bool {
	return s.materialSelect.HasSelection() &&
		s.machineSelect.HasSelection() &&
		s.parsedQty() >= 1 &&
		parseFloatField(s.gramsEntry) > 0 &&
		parseFloatField(s.minutesEntry) > 0
}

// uploadReady reports whether the upload path has a model file and a
// complete job description.
func (s *staffScreen) uploadReady() bool {
	return s.fileData != nil &&
		s.materialSelect.HasSelection() &&
		s.machineSelect.HasSelection() &&
		s.qualitySelect.HasSelection() &&
		s.parsedQty() >= 1
}

// refreshSubmitState enables each submission path only when its inputs are
// complete and no request is in flight.
func (s *staffScreen) refreshSubmitState() {
	if s.manualBtn == nil {
		return
	}
	busy := s.lastState.InFlight()
	if !busy && s.manualReady() {
		s.manualBtn.Enable()
	} else {
		s.manualBtn.Disable()
	}
	if !busy && s.uploadReady() {
		s.uploadBtn.Enable()
	} else {
		s.uploadBtn.Disable()
	}
}

func (s *staffScreen) submitManual() {
	job := pricing.ManualJob{
		MaterialID:   s.materialSelect.Selected(),
		MachineID:    s.machineSelect.Selected(),
		Qty:          s.parsedQty(),
		Grams:        parseFloatField(s.gramsEntry),
		Minutes:      parseFloatField(s.minutesEntry),
		PostProHours: parseFloatField(s.postProEntry),
		Extras:       parseFloatField(s.extrasEntry),
	}
	if err := s.app.orch.SubmitManual(context.Background(), job); err != nil {
		dialog.ShowError(err, s.app.window)
	}
}

func (s *staffScreen) submitUpload() {
	job := pricing.UploadJob{
		FileName:     s.fileName,
		MaterialID:   s.materialSelect.Selected(),
		MachineID:    s.machineSelect.Selected(),
		Quality:      s.qualitySelect.Selected(),
		Qty:          s.parsedQty(),
		Surface:      pricing.SurfaceStaff,
		PostProHours: parseFloatField(s.postProEntry),
		Extras:       parseFloatField(s.extrasEntry),
	}
	if s.fileData != nil {
		job.File = bytes.NewReader(s.fileData)
	}
	if err := s.app.orch.SubmitUpload(context.Background(), job); err != nil {
		dialog.ShowError(err, s.app.window)
	}
}

// apply renders a pricing session state onto the workspace. Before the
// first sign-in the workspace has no widgets yet; only the state is kept.
func (s *staffScreen) apply(st pricing.State) {
	s.lastState = st
	if s.progress == nil {
		return
	}
	s.progress.SetValue(float64(st.Progress))

	switch st.Phase {
	case pricing.PhaseIdle:
		s.statusLbl.SetText("")
	case pricing.PhaseEstimating:
		s.statusLbl.SetText("Estimating model...")
	case pricing.PhaseEstimated, pricing.PhasePricing:
		s.statusLbl.SetText("Pricing...")
	case pricing.PhasePriced:
		s.statusLbl.SetText("")
	case pricing.PhaseFailed:
		s.statusLbl.SetText(st.Err)
	}

	s.refreshBreakdown(st)

	s.refreshSubmitState()
	if st.Phase == pricing.PhasePriced && st.Breakdown != nil {
		s.saveBtn.Enable()
	} else {
		s.saveBtn.Disable()
	}
}

func (s *staffScreen) refreshBreakdown(st pricing.State) {
	s.breakdownBox.RemoveAll()

	if st.Estimate != nil {
		e := st.Estimate
		s.breakdownBox.Add(widget.NewLabel(fmt.Sprintf(
			"Volume %.1f cm³ · BBox %.0f×%.0f×%.0f mm · %.1f g · %s per unit",
			e.VolumeCm3, e.BBoxMM.X, e.BBoxMM.Y, e.BBoxMM.Z,
			e.EstimatedGrams, quote.FormatDuration(e.EstimatedMinutes))))
		for _, w := range e.Warnings {
			warn := widget.NewLabel("⚠ " + w)
			warn.Wrapping = fyne.TextWrapWord
			s.breakdownBox.Add(warn)
		}
		s.breakdownBox.Add(widget.NewSeparator())
	}

	if st.Breakdown != nil {
		for _, line := range st.Breakdown.Lines() {
			s.breakdownBox.Add(container.NewHBox(
				widget.NewLabel(line.Name),
				layout.NewSpacer(),
				widget.NewLabel(quote.FormatToman(line.Amount)),
			))
		}
		s.breakdownBox.Add(widget.NewSeparator())
		s.breakdownBox.Add(container.NewHBox(
			widget.NewLabelWithStyle("Total", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			layout.NewSpacer(),
			widget.NewLabelWithStyle(quote.FormatToman(st.Breakdown.Total), fyne.TextAlignTrailing, fyne.TextStyle{Bold: true}),
		))
	}

	s.breakdownBox.Refresh()
}

// saveQuote stamps the displayed breakdown into the persistent history.
func (s *staffScreen) saveQuote() {
	st := s.lastState
	if st.Phase != pricing.PhasePriced || st.Breakdown == nil {
		return
	}

	materialID := s.materialSelect.Selected()
	materialLabel := materialID
	if opt, ok := catalog.FindOption(s.app.rawFamilies, materialID); ok {
		materialLabel = catalog.DisplayLabel(opt, "")
	}

	req := quote.Request{
		MaterialID:       materialID,
		MachineID:        s.machineSelect.Selected(),
		Qty:              s.parsedQty(),
		PostProHours:     parseFloatField(s.postProEntry),
		Extras:           parseFloatField(s.extrasEntry),
		FilamentGrams:    parseFloatField(s.gramsEntry),
		PrintTimeMinutes: parseFloatField(s.minutesEntry),
	}
	if st.Estimate != nil {
		req.FilamentGrams = st.Estimate.EstimatedGrams
		req.PrintTimeMinutes = st.Estimate.EstimatedMinutes
	}

	rec := quote.NewRecord(req, *st.Breakdown, materialLabel, s.app.machineName(req.MachineID))
	s.app.saveRecord(rec)
}

// historyChanged re-renders the saved quote list.
func (s *staffScreen) historyChanged() {
	if s.historyBox != nil {
		s.refreshHistoryList()
	}
}

func (s *staffScreen) refreshHistoryList() {
	s.historyBox.RemoveAll()

	if len(s.app.history) == 0 {
		s.historyBox.Add(widget.NewLabel("No saved quotes yet."))
		s.historyBox.Refresh()
		return
	}

	for _, rec := range s.app.history {
		rec := rec
		line := fmt.Sprintf("%s · %s · %s ×%d · %s",
			rec.ID,
			rec.CreatedAt.Format("01-02 15:04"),
			rec.MaterialLabel,
			rec.Request.Qty,
			quote.FormatToman(rec.Breakdown.Total))
		s.historyBox.Add(container.NewHBox(
			widget.NewLabel(line),
			layout.NewSpacer(),
			newIconButtonWithTooltip(theme.DocumentIcon(), "Export as PDF", func() {
				s.app.exportRecordPDF(rec)
			}),
		))
	}
	s.historyBox.Refresh()
}
