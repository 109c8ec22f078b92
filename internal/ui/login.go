package ui

import (
	"context"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// buildLoginForm returns a sign-in form shown in place of a gated tab's
// content. A successful login re-renders the gated tabs in place.
func (a *App) buildLoginForm(title string) fyne.CanvasObject {
	userEntry := widget.NewEntry()
	userEntry.SetPlaceHolder("Username")

	passEntry := widget.NewPasswordEntry()
	passEntry.SetPlaceHolder("Password")

	errLbl := widget.NewLabel("")
	errLbl.Wrapping = fyne.TextWrapWord
	errLbl.Importance = widget.DangerImportance

	var loginBtn *widget.Button
	doLogin := func() {
		username := userEntry.Text
		password := passEntry.Text
		if username == "" || password == "" {
			errLbl.SetText("Enter a username and password.")
			return
		}
		loginBtn.Disable()
		errLbl.SetText("")

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			cred, err := a.client.Login(ctx, username, password)
			if err == nil {
				err = a.store.Set(cred)
			}

			fyne.Do(func() {
				loginBtn.Enable()
				if err != nil {
					a.log.Warn("login failed", "user", username, "err", err)
					errLbl.SetText(err.Error())
					return
				}
				a.refreshGatedTabs()
			})
		}()
	}

	loginBtn = widget.NewButton("Sign In", doLogin)
	loginBtn.Importance = widget.HighImportance
	passEntry.OnSubmitted = func(string) { doLogin() }

	form := container.NewVBox(
		widget.NewLabelWithStyle(title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true}),
		userEntry,
		passEntry,
		loginBtn,
		errLbl,
	)

	return container.NewCenter(container.NewGridWrap(fyne.NewSize(320, 220), form))
}

// logout clears the stored credential. The store's invalidation callback
// flips the gated tabs back to the login form.
func (a *App) logout() {
	if err := a.store.Clear(); err != nil {
		a.log.Warn("could not clear session", "err", err)
	}
}
