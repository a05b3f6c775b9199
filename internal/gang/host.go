// Package gang runs a ganging job against a document host: it places every
// discovered image into the next grid cell and pairs it with a cut outline.
//
// The package only talks to the Host interface, so the placement logic can
// be exercised with the in-memory Recorder and rendered with any backend
// (the PDF writer in internal/export, for instance).
package gang

import "github.com/piwi3910/SheetGang/internal/model"

// ObjectID identifies an object created on the host.
type ObjectID string

// Host is the set of document operations a ganging run needs. Every method
// is a thin delegation to the host application; none carries layout logic.
type Host interface {
	// HasDocument reports whether a document is already open.
	HasDocument() bool
	// SetRedraw suspends (false) or resumes (true) visual refresh.
	SetRedraw(enabled bool)

	// NewDocument creates a document whose first page has the given size.
	NewDocument(page model.PageSpec) error
	// NewPage appends a page and makes it current.
	NewPage() error

	LayerExists(name string) bool
	CreateLayer(name string) error
	// DeleteLayer removes a layer. Deleting the active layer leaves no
	// layer active.
	DeleteLayer(name string) error
	SetLayerPrintable(name string, printable bool) error
	SetActiveLayer(name string) error

	// CreateImageFrame creates an empty image frame on the active layer.
	CreateImageFrame(r model.Rect) (ObjectID, error)
	LoadImage(id ObjectID, path string) error
	ScaleImageToFrame(id ObjectID, proportional bool) error

	// CreateRect creates a rectangle shape on the active layer.
	CreateRect(r model.Rect) (ObjectID, error)
	SetShapeStyle(id ObjectID, style model.OutlineStyle) error

	// Rotate turns an object clockwise about its centre.
	Rotate(id ObjectID, degrees float64) error
}

// suspendRedraw turns redraw off on h and returns the function restoring it.
// Callers defer the returned function so redraw comes back on every exit path.
func suspendRedraw(h Host) (restore func()) {
	h.SetRedraw(false)
	return func() { h.SetRedraw(true) }
}
