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
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/ba4b0d/printquote/internal/catalog"
	"github.com/ba4b0d/printquote/internal/pricing"
	"github.com/ba4b0d/printquote/internal/quote"
	"github.com/ba4b0d/printquote/internal/ui/widgets"
)

// qualityLevels are the print quality presets offered by the estimator.
var qualityLevels = []widgets.SelectOption{
	{Value: "draft", Label: "Draft (0.3 mm)"},
	{Value: "normal", Label: "Normal (0.2 mm)"},
	{Value: "fine", Label: "Fine (0.1 mm)"},
}

// publicScreen is the customer-facing upload-and-quote surface. Quantity
// here only scales the displayed filament and duration hints; the service
// is always asked to price a single unit.
type publicScreen struct {
	app *App

	familySelect   *widgets.SelectBox
	materialSelect *widgets.SelectBox
	qualitySelect  *widgets.SelectBox
	machineSelect  *widgets.SelectBox

	fileName string
	fileData []byte
	fileBtn  *widget.Button

	qtyEntry  *widget.Entry
	hintLabel *widget.Label

	progress  *widget.ProgressBar
	statusLbl *widget.Label
	totalLbl  *widget.Label
	submitBtn *widget.Button

	banner *fyne.Container

	inFlight     bool
	lastEstimate *quote.Estimate
}

func newPublicScreen(a *App) *publicScreen {
	return &publicScreen{app: a}
}

func (p *publicScreen) build() fyne.CanvasObject {
	p.familySelect = widgets.NewSelectBox("Material family...", func(string) {
		p.refreshMaterialOptions()
		p.refreshSubmitState()
	})
	p.materialSelect = widgets.NewSelectBox("Color / finish...", func(string) { p.refreshSubmitState() })
	p.qualitySelect = widgets.NewSelectBox("Quality...", func(string) { p.refreshSubmitState() })
	p.qualitySelect.SetOptions(qualityLevels)
	p.qualitySelect.SetSelected(p.app.config.DefaultQuality)
	p.machineSelect = widgets.NewSelectBox("Printer...", func(string) { p.refreshSubmitState() })

	p.fileBtn = widget.NewButtonWithIcon("Choose model file...", theme.FolderOpenIcon(), func() {
		p.pickFile()
	})

	p.qtyEntry = widget.NewEntry()
	p.qtyEntry.SetText("1")
	p.qtyEntry.OnChanged = func(string) { p.refreshHints() }

	p.hintLabel = widget.NewLabel("")

	p.progress = widget.NewProgressBar()
	p.progress.Max = 100
	p.statusLbl = widget.NewLabel("")
	p.statusLbl.Wrapping = fyne.TextWrapWord
	p.totalLbl = widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})

	p.submitBtn = widget.NewButtonWithIcon("Get Quote", theme.ConfirmIcon(), func() {
		p.submit()
	})
	p.submitBtn.Importance = widget.HighImportance
	p.refreshSubmitState()

	p.banner = container.NewVBox()
	p.catalogChanged()

	form := widget.NewCard("Print Job", "", container.NewVBox(
		p.fileBtn,
		container.NewGridWithColumns(2,
			widget.NewLabel("Material"), p.familySelect,
			widget.NewLabel("Color / finish"), p.materialSelect,
			widget.NewLabel("Quality"), p.qualitySelect,
			widget.NewLabel("Printer"), p.machineSelect,
			widget.NewLabel("Quantity"), p.qtyEntry,
		),
		p.hintLabel,
	))

	result := widget.NewCard("Quote", "", container.NewVBox(
		p.progress,
		p.statusLbl,
		p.totalLbl,
	))

	return widgets.NewMenuAwareVScroll(container.NewVBox(
		p.banner,
		form,
		p.submitBtn,
		result,
	))
}

// catalogChanged repopulates the pickers from the app's catalog state.
func (p *publicScreen) catalogChanged() {
	if p.banner == nil {
		return
	}
	p.banner.RemoveAll()
	if b := p.app.catalogBanner(); b != nil {
		p.banner.Add(b)
	}
	p.banner.Refresh()

	var familyOpts []widgets.SelectOption
	for _, f := range p.app.families {
		familyOpts = append(familyOpts, widgets.SelectOption{Value: f.Key, Label: f.Name})
	}
	p.familySelect.SetOptions(familyOpts)
	p.refreshMaterialOptions()

	var machineOpts []widgets.SelectOption
	for _, m := range p.app.machineOptions() {
		machineOpts = append(machineOpts, widgets.SelectOption{Value: m.ID, Label: m.Name})
	}
	p.machineSelect.SetOptions(machineOpts)
	if p.machineSelect.Selected() == "" && p.app.config.LastMachineID != "" {
		p.machineSelect.SetSelected(p.app.config.LastMachineID)
	}
}

func (p *publicScreen) refreshMaterialOptions() {
	key := p.familySelect.Selected()
	var opts []widgets.SelectOption
	for _, f := range p.app.families {
		if f.Key != key {
			continue
		}
		for _, o := range f.Options {
			opts = append(opts, widgets.SelectOption{
				Value: o.ID,
				Label: catalog.DisplayLabel(o, f.Key),
			})
		}
	}
	p.materialSelect.SetOptions(opts)
}

func (p *publicScreen) pickFile() {
	dialog.ShowFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		defer reader.Close()
		data, err := io.ReadAll(reader)
		if err != nil {
			dialog.ShowError(fmt.Errorf("could not read model file: %w", err), p.app.window)
			return
		}
		p.fileName = reader.URI().Name()
		p.fileData = data
		p.fileBtn.SetText(p.fileName)
		p.refreshHints()
		p.refreshSubmitState()
	}, p.app.window)
}

// inputsComplete reports whether the form holds everything a quote request
// needs: a model file, a material, a quality and a printer.
func (p *publicScreen) inputsComplete() bool {
	return p.fileData != nil &&
		p.materialSelect.HasSelection() &&
		p.qualitySelect.HasSelection() &&
		p.machineSelect.HasSelection()
}

// refreshSubmitState enables the submit button only for a complete form
// with no request in flight.
func (p *publicScreen) refreshSubmitState() {
	if p.submitBtn == nil {
		return
	}
	if p.inFlight || !p.inputsComplete() {
		p.submitBtn.Disable()
	} else {
		p.submitBtn.Enable()
	}
}

// displayQty parses the quantity entry for display scaling, clamping
// nonsense to a single unit.
func (p *publicScreen) displayQty() int {
	n, err := strconv.Atoi(p.qtyEntry.Text)
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// refreshHints updates the aggregate filament/duration line under the form.
func (p *publicScreen) refreshHints() {
	if p.lastEstimate == nil {
		p.hintLabel.SetText("")
		return
	}
	qty := p.displayQty()
	grams := quote.AggregateGrams(p.lastEstimate.EstimatedGrams, qty)
	minutes := quote.AggregateMinutes(p.lastEstimate.EstimatedMinutes, qty)
	p.hintLabel.SetText(fmt.Sprintf("~%.0f g filament, %s print time for %d pcs",
		grams, quote.FormatDuration(minutes), qty))
}

func (p *publicScreen) submit() {
	job := pricing.UploadJob{
		FileName:   p.fileName,
		MaterialID: p.materialSelect.Selected(),
		MachineID:  p.machineSelect.Selected(),
		Quality:    p.qualitySelect.Selected(),
		Qty:        p.displayQty(),
		Surface:    pricing.SurfacePublic,
	}
	if p.fileData != nil {
		job.File = bytes.NewReader(p.fileData)
	}
	if err := p.app.orch.SubmitUpload(context.Background(), job); err != nil {
		dialog.ShowError(err, p.app.window)
	}
}

// apply renders a pricing session state onto the screen.
func (p *publicScreen) apply(st pricing.State) {
	p.progress.SetValue(float64(st.Progress))

	if st.Estimate != p.lastEstimate {
		p.lastEstimate = st.Estimate
		p.refreshHints()
	}

	switch st.Phase {
	case pricing.PhaseIdle:
		p.statusLbl.SetText("")
		p.totalLbl.SetText("")
	case pricing.PhaseEstimating:
		p.statusLbl.SetText("Analyzing your model...")
		p.totalLbl.SetText("")
	case pricing.PhaseEstimated, pricing.PhasePricing:
		p.statusLbl.SetText("Calculating your price...")
	case pricing.PhasePriced:
		p.statusLbl.SetText("")
		if st.Total != nil {
			qty := p.displayQty()
			p.totalLbl.SetText(fmt.Sprintf("%s × %d = %s per order",
				quote.FormatToman(*st.Total), qty, quote.FormatToman(*st.Total*float64(qty))))
		}
	case pricing.PhaseFailed:
		p.statusLbl.SetText(st.Err)
		p.totalLbl.SetText("")
	}

	p.inFlight = st.InFlight()
	p.refreshSubmitState()
}
