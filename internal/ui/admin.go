package ui

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// buildAdminPanel returns the raw service-config editor. The config is an
// opaque JSON document owned by the quoting service; the client only
// checks that edits still parse before uploading them.
func (a *App) buildAdminPanel() fyne.CanvasObject {
	editor := widget.NewMultiLineEntry()
	editor.TextStyle = fyne.TextStyle{Monospace: true}
	editor.SetPlaceHolder("Load the service config to edit it here.")

	statusLbl := widget.NewLabel("")
	statusLbl.Wrapping = fyne.TextWrapWord

	var loadBtn, saveBtn *widget.Button

	setBusy := func(busy bool) {
		if busy {
			loadBtn.Disable()
			saveBtn.Disable()
		} else {
			loadBtn.Enable()
			saveBtn.Enable()
		}
	}

	load := func() {
		setBusy(true)
		statusLbl.SetText("Loading service config...")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			raw, err := a.client.AdminConfig(ctx)
			fyne.Do(func() {
				setBusy(false)
				if err != nil {
					statusLbl.SetText(err.Error())
					return
				}
				var pretty bytes.Buffer
				if json.Indent(&pretty, raw, "", "  ") == nil {
					editor.SetText(pretty.String())
				} else {
					editor.SetText(string(raw))
				}
				statusLbl.SetText("Config loaded.")
			})
		}()
	}

	save := func() {
		text := editor.Text
		if !json.Valid([]byte(text)) {
			statusLbl.SetText("The config is not valid JSON; fix it before saving.")
			return
		}
		setBusy(true)
		statusLbl.SetText("Saving service config...")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			err := a.client.PutAdminConfig(ctx, json.RawMessage(text))
			fyne.Do(func() {
				setBusy(false)
				if err != nil {
					statusLbl.SetText(err.Error())
					return
				}
				statusLbl.SetText("Config saved.")
			})
		}()
	}

	loadBtn = widget.NewButton("Load", load)
	saveBtn = widget.NewButton("Save", save)
	saveBtn.Importance = widget.HighImportance

	toolbar := container.NewHBox(loadBtn, saveBtn)

	return container.NewBorder(
		container.NewVBox(
			widget.NewLabelWithStyle("Service Configuration", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			toolbar,
		),
		statusLbl,
		nil, nil,
		editor,
	)
}
