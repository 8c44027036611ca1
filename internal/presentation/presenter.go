// Package presentation defines the adapter contract the catalog core
// talks to. The core calls these methods and never reaches into
// presentation internals; any frontend (terminal, web, test double) can
// sit on the other side.
package presentation

import "faktoteka/internal/models"

// Message kinds for ShowTransientMessage.
const (
	KindSuccess = "success"
	KindError   = "error"
	KindInfo    = "info"
)

// Presenter renders derived views and mediates the destructive-action
// gate. ConfirmDestructiveAction is a synchronous modal question: when
// it returns false the operation simply does not proceed.
type Presenter interface {
	Render(facts []models.Fact)
	RenderEmpty()
	ReportCount(label string)
	ConfirmDestructiveAction(prompt string) bool
	ShowTransientMessage(text, kind string)
}
