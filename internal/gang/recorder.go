package gang

import (
	"fmt"

	"github.com/piwi3910/SheetGang/internal/model"
)

// Call is one host operation captured by a Recorder.
type Call struct {
	Op    string
	ID    ObjectID
	Layer string
	Rect  model.Rect
	Arg   string
}

// RecordedObject is a frame or outline as the Recorder ends up holding it.
type RecordedObject struct {
	ID       ObjectID
	Kind     string // "image" or "rect"
	Page     int    // 1-based
	Layer    string
	Rect     model.Rect
	Image    string
	Scaled   bool
	Style    model.OutlineStyle
	Rotation float64
}

// Recorder is an in-memory Host. It records every call and the resulting
// objects, which makes it useful for dry runs and tests.
type Recorder struct {
	Calls   []Call
	Objects []*RecordedObject

	// OpenDocument makes HasDocument report true before NewDocument is called.
	OpenDocument bool
	// FailOn makes the named operation return an error.
	FailOn string
	// PanicOn makes the named operation panic.
	PanicOn string

	redraw    bool
	hasDoc    bool
	page      model.PageSpec
	pages     int
	layers    map[string]bool // name -> printable
	active    string
	byID      map[ObjectID]*RecordedObject
	nextID    int
	redrawLog []bool
}

func NewRecorder() *Recorder {
	return &Recorder{
		redraw: true,
		layers: map[string]bool{},
		byID:   map[ObjectID]*RecordedObject{},
	}
}

// Redraw reports the current redraw state.
func (r *Recorder) Redraw() bool { return r.redraw }

// RedrawLog returns every value passed to SetRedraw in order.
func (r *Recorder) RedrawLog() []bool { return r.redrawLog }

// PageCount returns the number of pages created.
func (r *Recorder) PageCount() int { return r.pages }

// PageSize returns the size given to NewDocument.
func (r *Recorder) PageSize() model.PageSpec { return r.page }

// LayerPrintable reports the printable flag of a layer and whether it exists.
func (r *Recorder) LayerPrintable(name string) (printable, ok bool) {
	printable, ok = r.layers[name]
	return printable, ok
}

// ObjectsOn returns the objects of one kind on a page, in creation order.
func (r *Recorder) ObjectsOn(page int, kind string) []*RecordedObject {
	var out []*RecordedObject
	for _, o := range r.Objects {
		if o.Page == page && o.Kind == kind {
			out = append(out, o)
		}
	}
	return out
}

func (r *Recorder) record(c Call) error {
	r.Calls = append(r.Calls, c)
	if r.PanicOn == c.Op {
		panic(fmt.Sprintf("%s panicked", c.Op))
	}
	if r.FailOn == c.Op {
		return fmt.Errorf("%s failed", c.Op)
	}
	return nil
}

func (r *Recorder) HasDocument() bool {
	return r.hasDoc || r.OpenDocument
}

func (r *Recorder) SetRedraw(enabled bool) {
	r.redraw = enabled
	r.redrawLog = append(r.redrawLog, enabled)
	r.Calls = append(r.Calls, Call{Op: "SetRedraw", Arg: fmt.Sprint(enabled)})
}

func (r *Recorder) NewDocument(page model.PageSpec) error {
	if err := r.record(Call{Op: "NewDocument", Rect: model.Rect{Width: page.Width, Height: page.Height}}); err != nil {
		return err
	}
	r.hasDoc = true
	r.page = page
	r.pages = 1
	r.layers[model.DefaultLayerName] = true
	r.active = model.DefaultLayerName
	return nil
}

func (r *Recorder) NewPage() error {
	if err := r.record(Call{Op: "NewPage"}); err != nil {
		return err
	}
	if !r.hasDoc {
		return fmt.Errorf("no document")
	}
	r.pages++
	return nil
}

func (r *Recorder) LayerExists(name string) bool {
	_, ok := r.layers[name]
	return ok
}

func (r *Recorder) CreateLayer(name string) error {
	if err := r.record(Call{Op: "CreateLayer", Layer: name}); err != nil {
		return err
	}
	if _, ok := r.layers[name]; ok {
		return fmt.Errorf("layer %s already exists", name)
	}
	r.layers[name] = true
	return nil
}

func (r *Recorder) DeleteLayer(name string) error {
	if err := r.record(Call{Op: "DeleteLayer", Layer: name}); err != nil {
		return err
	}
	if _, ok := r.layers[name]; !ok {
		return fmt.Errorf("unknown layer %s", name)
	}
	delete(r.layers, name)
	if r.active == name {
		r.active = ""
	}
	return nil
}

func (r *Recorder) SetLayerPrintable(name string, printable bool) error {
	if err := r.record(Call{Op: "SetLayerPrintable", Layer: name, Arg: fmt.Sprint(printable)}); err != nil {
		return err
	}
	if _, ok := r.layers[name]; !ok {
		return fmt.Errorf("unknown layer %s", name)
	}
	r.layers[name] = printable
	return nil
}

func (r *Recorder) SetActiveLayer(name string) error {
	if err := r.record(Call{Op: "SetActiveLayer", Layer: name}); err != nil {
		return err
	}
	if _, ok := r.layers[name]; !ok {
		return fmt.Errorf("unknown layer %s", name)
	}
	r.active = name
	return nil
}

func (r *Recorder) create(op, kind string, rect model.Rect) (ObjectID, error) {
	r.nextID++
	id := ObjectID(fmt.Sprintf("%s%d", kind, r.nextID))
	if err := r.record(Call{Op: op, ID: id, Layer: r.active, Rect: rect}); err != nil {
		return "", err
	}
	if !r.hasDoc {
		return "", fmt.Errorf("no document")
	}
	obj := &RecordedObject{ID: id, Kind: kind, Page: r.pages, Layer: r.active, Rect: rect}
	r.Objects = append(r.Objects, obj)
	r.byID[id] = obj
	return id, nil
}

func (r *Recorder) lookup(id ObjectID) (*RecordedObject, error) {
	obj, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("unknown object %s", id)
	}
	return obj, nil
}

func (r *Recorder) CreateImageFrame(rect model.Rect) (ObjectID, error) {
	return r.create("CreateImageFrame", "image", rect)
}

func (r *Recorder) LoadImage(id ObjectID, path string) error {
	if err := r.record(Call{Op: "LoadImage", ID: id, Arg: path}); err != nil {
		return err
	}
	obj, err := r.lookup(id)
	if err != nil {
		return err
	}
	obj.Image = path
	return nil
}

func (r *Recorder) ScaleImageToFrame(id ObjectID, proportional bool) error {
	if err := r.record(Call{Op: "ScaleImageToFrame", ID: id, Arg: fmt.Sprint(proportional)}); err != nil {
		return err
	}
	obj, err := r.lookup(id)
	if err != nil {
		return err
	}
	obj.Scaled = true
	return nil
}

func (r *Recorder) CreateRect(rect model.Rect) (ObjectID, error) {
	return r.create("CreateRect", "rect", rect)
}

func (r *Recorder) SetShapeStyle(id ObjectID, style model.OutlineStyle) error {
	if err := r.record(Call{Op: "SetShapeStyle", ID: id}); err != nil {
		return err
	}
	obj, err := r.lookup(id)
	if err != nil {
		return err
	}
	obj.Style = style
	return nil
}

func (r *Recorder) Rotate(id ObjectID, degrees float64) error {
	if err := r.record(Call{Op: "Rotate", ID: id, Arg: fmt.Sprint(degrees)}); err != nil {
		return err
	}
	obj, err := r.lookup(id)
	if err != nil {
		return err
	}
	obj.Rotation += degrees
	return nil
}
