package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ba4b0d/printquote/internal/api"
	"github.com/ba4b0d/printquote/internal/catalog"
	"github.com/ba4b0d/printquote/internal/export"
	"github.com/ba4b0d/printquote/internal/pricing"
	"github.com/ba4b0d/printquote/internal/project"
	"github.com/ba4b0d/printquote/internal/quote"
	"github.com/ba4b0d/printquote/internal/session"
)

// Tab indices in the main AppTabs container.
const (
	tabQuote = iota
	tabStaff
	tabAdmin
)

// App holds all application state and UI references.
type App struct {
	fyneApp fyne.App
	window  fyne.Window
	log     *slog.Logger

	client *api.Client
	store  session.Store
	guard  session.Guard
	orch   *pricing.Orchestrator
	config project.AppConfig

	tabs *container.AppTabs

	// Catalog state. Either both slices and machines are populated or
	// catalogErr is set; a partially loaded catalog is never shown.
	families    []catalog.Family
	rawFamilies []catalog.Family
	machines    []quote.Machine
	catalogErr  error

	history []quote.Record

	publicScreen *publicScreen
	staffScreen  *staffScreen

	staffContent *fyne.Container
	adminContent *fyne.Container
}

// NewApp wires the application together. The orchestrator drives both the
// public and staff pricing surfaces against the given API client.
func NewApp(fyneApp fyne.App, window fyne.Window, client *api.Client, store session.Store, cfg project.AppConfig, log *slog.Logger) *App {
	a := &App{
		fyneApp: fyneApp,
		window:  window,
		log:     log,
		client:  client,
		store:   store,
		guard:   session.Guard{Store: store},
		orch:    pricing.NewOrchestrator(client),
		config:  cfg,
	}

	history, err := project.LoadHistory(project.DefaultHistoryPath())
	if err != nil {
		log.Warn("could not load quote history", "err", err)
		history = nil
	}
	a.history = history

	// A forced logout anywhere sends gated tabs back to the login form.
	store.OnInvalidate(func() {
		fyne.Do(func() {
			a.refreshGatedTabs()
		})
	})
	return a
}

// SetupMenus creates the native menu bar for the application.
func (a *App) SetupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Export History to Excel...", func() {
			a.exportHistoryXLSX()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Backup All Data...", func() {
			a.backupData()
		}),
		fyne.NewMenuItem("Restore from Backup...", func() {
			a.restoreData()
		}),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", func() {
			a.window.Close()
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", func() {
			a.showAboutDialog()
		}),
	)

	a.window.SetMainMenu(fyne.NewMainMenu(fileMenu, helpMenu))
}

func (a *App) showAboutDialog() {
	dialog.ShowInformation(
		"About PrintQuote",
		"PrintQuote — 3D Print Shop Quoting\n\n"+
			"A desktop client for estimating and pricing 3D print jobs\n"+
			"against the shop's quoting service.\n\n"+
			"Version 1.0.0",
		a.window,
	)
}

// Build constructs the full UI and returns the root container.
func (a *App) Build() fyne.CanvasObject {
	a.publicScreen = newPublicScreen(a)
	a.staffScreen = newStaffScreen(a)

	a.staffContent = container.NewStack()
	a.adminContent = container.NewStack()

	quoteTab := container.NewTabItem("Quote", a.publicScreen.build())
	staffTab := container.NewTabItem("Staff", a.staffContent)
	adminTab := container.NewTabItem("Admin", a.adminContent)

	a.tabs = container.NewAppTabs(quoteTab, staffTab, adminTab)
	a.tabs.SetTabLocation(container.TabLocationTop)

	// Leaving a surface abandons its in-flight pricing session, and the
	// session gate is re-evaluated on every navigation.
	a.tabs.OnSelected = func(*container.TabItem) {
		a.orch.Clear()
		a.refreshGatedTabs()
	}
	a.refreshGatedTabs()

	a.orch.Subscribe(func(st pricing.State) {
		fyne.Do(func() {
			a.publicScreen.apply(st)
			a.staffScreen.apply(st)
		})
	})

	a.loadCatalog()
	return a.tabs
}

// refreshGatedTabs rebuilds the staff and admin tab contents according to
// the current session.
func (a *App) refreshGatedTabs() {
	a.verifySession()

	a.staffContent.RemoveAll()
	switch a.guard.Check("") {
	case session.Allow:
		a.staffContent.Add(a.staffScreen.build())
	default:
		a.staffContent.Add(a.buildLoginForm("Staff sign-in required"))
	}
	a.staffContent.Refresh()

	a.adminContent.RemoveAll()
	switch a.guard.Check(session.RoleAdmin) {
	case session.Allow:
		a.adminContent.Add(a.buildAdminPanel())
	case session.RedirectLogin:
		a.adminContent.Add(a.buildLoginForm("Admin sign-in required"))
	default:
		// Signed in but not an admin: back to the public surface.
		a.adminContent.Add(container.NewCenter(
			widget.NewLabel("Your account does not have admin access."),
		))
	}
	a.adminContent.Refresh()
}

// verifySession re-validates the stored credential against the backend in
// the background. A token the server no longer accepts is cleared, and the
// store's invalidation callback flips the gated tabs back to sign-in.
func (a *App) verifySession() {
	cred, ok := a.store.Get()
	if !ok || cred.Token == "" || a.client == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := a.client.Me(ctx); errors.Is(err, api.ErrUnauthorized) {
			a.log.Warn("stored credential rejected by server, signing out",
				"username", cred.Username)
			_ = a.store.Clear()
		}
	}()
}

// ─── Catalog Loading ───────────────────────────────────────

// loadCatalog fetches materials and machines in the background. The two
// calls succeed or fail as a unit so the pickers never show half a catalog.
func (a *App) loadCatalog() {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := a.client.Health(ctx)
		var groups []catalog.MaterialGroup
		if err == nil {
			groups, err = a.client.MaterialGroups(ctx)
		}
		if err == nil {
			var machines []quote.Machine
			machines, err = a.client.Machines(ctx)
			if err == nil {
				families := catalog.Project(groups)
				rawFamilies := catalog.ProjectRaw(groups)
				fyne.Do(func() {
					a.families = families
					a.rawFamilies = rawFamilies
					a.machines = machines
					a.catalogErr = nil
					a.publicScreen.catalogChanged()
					a.staffScreen.catalogChanged()
				})
				return
			}
		}

		a.log.Error("catalog load failed", "err", err)
		fyne.Do(func() {
			a.catalogErr = err
			a.publicScreen.catalogChanged()
			a.staffScreen.catalogChanged()
		})
	}()
}

// machineOptions converts the machine list into selector options.
func (a *App) machineOptions() []quote.Machine {
	return a.machines
}

func (a *App) machineName(id string) string {
	for _, m := range a.machines {
		if m.ID == id {
			return m.Name
		}
	}
	return id
}

// catalogBanner returns a load-failure banner with a retry button, or nil
// when the catalog is healthy.
func (a *App) catalogBanner() fyne.CanvasObject {
	if a.catalogErr == nil {
		return nil
	}
	retry := widget.NewButton("Retry", func() {
		a.loadCatalog()
	})
	msg := widget.NewLabel(fmt.Sprintf("Could not load the catalog: %v", a.catalogErr))
	msg.Wrapping = fyne.TextWrapWord
	return container.NewBorder(nil, nil, nil, retry, msg)
}

// ─── History ───────────────────────────────────────────────

// saveRecord appends a priced quote to the persistent history.
func (a *App) saveRecord(rec quote.Record) {
	updated, err := project.AppendHistory(project.DefaultHistoryPath(), rec, a.config.HistoryLimit)
	if err != nil {
		dialog.ShowError(fmt.Errorf("failed to save quote: %w", err), a.window)
		return
	}
	a.history = updated
	a.staffScreen.historyChanged()
}

func (a *App) exportHistoryXLSX() {
	if len(a.history) == 0 {
		dialog.ShowInformation("No quotes", "Save at least one quote before exporting.", a.window)
		return
	}
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := export.ExportHistoryXLSX(path, a.history); err != nil {
			dialog.ShowError(err, a.window)
		} else {
			dialog.ShowInformation("Export Complete",
				fmt.Sprintf("Quote history exported to %s", path), a.window)
		}
	}, a.window)
	d.SetFileName("printquote-history.xlsx")
	d.Show()
}

func (a *App) exportRecordPDF(rec quote.Record) {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := export.ExportQuotePDF(path, rec); err != nil {
			dialog.ShowError(err, a.window)
		} else {
			dialog.ShowInformation("Export Complete",
				fmt.Sprintf("Quote saved to %s", path), a.window)
		}
	}, a.window)
	d.SetFileName(fmt.Sprintf("quote-%s.pdf", rec.ID))
	d.Show()
}

// ─── Backup / Restore ──────────────────────────────────────

func (a *App) backupData() {
	d := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
		if err != nil || writer == nil {
			return
		}
		defer writer.Close()
		path := writer.URI().Path()
		if err := project.ExportAllData(path, a.config, a.history); err != nil {
			dialog.ShowError(err, a.window)
		} else {
			dialog.ShowInformation("Backup Complete",
				fmt.Sprintf("All application data exported to:\n%s", path), a.window)
		}
	}, a.window)
	d.SetFileName("printquote-backup.json")
	d.Show()
}

func (a *App) restoreData() {
	dialog.ShowConfirm("Restore Data",
		"Restoring will replace your current settings and quote history.\n\nAre you sure you want to continue?",
		func(ok bool) {
			if !ok {
				return
			}
			d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
				if err != nil || reader == nil {
					return
				}
				defer reader.Close()
				backup, err := project.ImportAllData(reader.URI().Path())
				if err != nil {
					dialog.ShowError(err, a.window)
					return
				}
				a.config = backup.Config
				a.history = backup.History
				if err := project.SaveAppConfig(project.DefaultConfigPath(), a.config); err != nil {
					dialog.ShowError(fmt.Errorf("failed to save restored settings: %w", err), a.window)
					return
				}
				if err := project.SaveHistory(project.DefaultHistoryPath(), a.history); err != nil {
					dialog.ShowError(fmt.Errorf("failed to save restored history: %w", err), a.window)
					return
				}
				a.staffScreen.historyChanged()
				dialog.ShowInformation("Restore Complete",
					fmt.Sprintf("Data restored from backup created at %s.", backup.CreatedAt), a.window)
			}, a.window)
			d.Show()
		},
		a.window,
	)
}
