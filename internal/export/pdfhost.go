package export

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/SheetGang/internal/gang"
	"github.com/piwi3910/SheetGang/internal/importer"
	"github.com/piwi3910/SheetGang/internal/model"
)

// CutContour process colour approximation (pure magenta), used by viewers
// that do not understand the spot colour.
const (
	cutContourC = 0
	cutContourM = 100
	cutContourY = 0
	cutContourK = 0
)

// defaultHairline is the stroke width used when a stroked style leaves
// LineWidth at zero.
const defaultHairline = 0.1

var errNoDocument = errors.New("no document open")

// pdfObject is one retained frame or outline.
type pdfObject struct {
	kind     string // "image" or "rect"
	layer    string
	rect     model.Rect
	image    string
	scaled   bool
	style    model.OutlineStyle
	rotation float64 // clockwise degrees about the centre
}

type pdfLayer struct {
	name      string
	printable bool
}

// PDFHost is a gang.Host that retains every object per page and renders
// the whole document with fpdf on Save or Output. Objects can still be
// rotated or restyled after creation, which an immediate-mode writer
// would not allow.
type PDFHost struct {
	Title string
	// Compress controls stream compression of the rendered PDF.
	Compress bool
	// OnRedraw is called whenever redraw is switched back on.
	OnRedraw func()

	open    bool
	redraw  bool
	size    model.PageSpec
	pages   [][]*pdfObject
	layers  []*pdfLayer
	active  string
	objects map[gang.ObjectID]*pdfObject
	nextID  int
}

var _ gang.Host = (*PDFHost)(nil)

func NewPDFHost() *PDFHost {
	return &PDFHost{
		Title:    "SheetGang",
		Compress: true,
		redraw:   true,
		objects:  map[gang.ObjectID]*pdfObject{},
	}
}

// PageCount returns the number of pages in the document.
func (h *PDFHost) PageCount() int { return len(h.pages) }

// PageSize returns the page size of the open document.
func (h *PDFHost) PageSize() model.PageSpec { return h.size }

// Redrawing reports whether redraw is currently enabled.
func (h *PDFHost) Redrawing() bool { return h.redraw }

func (h *PDFHost) HasDocument() bool { return h.open }

func (h *PDFHost) SetRedraw(enabled bool) {
	h.redraw = enabled
	if enabled && h.OnRedraw != nil {
		h.OnRedraw()
	}
}

func (h *PDFHost) NewDocument(page model.PageSpec) error {
	if h.open {
		return fmt.Errorf("a document is already open")
	}
	h.open = true
	h.size = page
	h.pages = [][]*pdfObject{nil}
	h.layers = []*pdfLayer{{name: model.DefaultLayerName, printable: true}}
	h.active = model.DefaultLayerName
	h.objects = map[gang.ObjectID]*pdfObject{}
	return nil
}

// Close discards the document so a new one can be created.
func (h *PDFHost) Close() {
	h.open = false
	h.pages = nil
	h.layers = nil
	h.objects = map[gang.ObjectID]*pdfObject{}
}

func (h *PDFHost) NewPage() error {
	if !h.open {
		return errNoDocument
	}
	h.pages = append(h.pages, nil)
	return nil
}

func (h *PDFHost) layer(name string) *pdfLayer {
	for _, l := range h.layers {
		if l.name == name {
			return l
		}
	}
	return nil
}

func (h *PDFHost) LayerExists(name string) bool {
	return h.layer(name) != nil
}

func (h *PDFHost) CreateLayer(name string) error {
	if !h.open {
		return errNoDocument
	}
	if h.LayerExists(name) {
		return fmt.Errorf("layer %s already exists", name)
	}
	h.layers = append(h.layers, &pdfLayer{name: name, printable: true})
	return nil
}

// DeleteLayer removes an empty layer. Layers still holding objects are
// refused so the retained scene never references a missing layer.
func (h *PDFHost) DeleteLayer(name string) error {
	for i, l := range h.layers {
		if l.name != name {
			continue
		}
		for _, objects := range h.pages {
			for _, obj := range objects {
				if obj.layer == name {
					return fmt.Errorf("layer %s is not empty", name)
				}
			}
		}
		h.layers = append(h.layers[:i], h.layers[i+1:]...)
		if h.active == name {
			h.active = ""
		}
		return nil
	}
	return fmt.Errorf("unknown layer %s", name)
}

func (h *PDFHost) SetLayerPrintable(name string, printable bool) error {
	l := h.layer(name)
	if l == nil {
		return fmt.Errorf("unknown layer %s", name)
	}
	l.printable = printable
	return nil
}

func (h *PDFHost) SetActiveLayer(name string) error {
	if !h.LayerExists(name) {
		return fmt.Errorf("unknown layer %s", name)
	}
	h.active = name
	return nil
}

func (h *PDFHost) add(kind string, r model.Rect) (gang.ObjectID, error) {
	if !h.open {
		return "", errNoDocument
	}
	if h.active == "" {
		return "", fmt.Errorf("no active layer")
	}
	h.nextID++
	id := gang.ObjectID(fmt.Sprintf("%s%d", kind, h.nextID))
	obj := &pdfObject{kind: kind, layer: h.active, rect: r}
	last := len(h.pages) - 1
	h.pages[last] = append(h.pages[last], obj)
	h.objects[id] = obj
	return id, nil
}

func (h *PDFHost) lookup(id gang.ObjectID, kind string) (*pdfObject, error) {
	obj, ok := h.objects[id]
	if !ok {
		return nil, fmt.Errorf("unknown object %s", id)
	}
	if kind != "" && obj.kind != kind {
		return nil, fmt.Errorf("object %s is not an %s", id, kind)
	}
	return obj, nil
}

func (h *PDFHost) CreateImageFrame(r model.Rect) (gang.ObjectID, error) {
	return h.add("image", r)
}

func (h *PDFHost) LoadImage(id gang.ObjectID, path string) error {
	obj, err := h.lookup(id, "image")
	if err != nil {
		return err
	}
	obj.image = path
	return nil
}

func (h *PDFHost) ScaleImageToFrame(id gang.ObjectID, proportional bool) error {
	obj, err := h.lookup(id, "image")
	if err != nil {
		return err
	}
	if !proportional {
		return fmt.Errorf("only proportional scaling is supported")
	}
	obj.scaled = true
	return nil
}

func (h *PDFHost) CreateRect(r model.Rect) (gang.ObjectID, error) {
	return h.add("rect", r)
}

func (h *PDFHost) SetShapeStyle(id gang.ObjectID, style model.OutlineStyle) error {
	obj, err := h.lookup(id, "rect")
	if err != nil {
		return err
	}
	obj.style = style
	return nil
}

func (h *PDFHost) Rotate(id gang.ObjectID, degrees float64) error {
	obj, err := h.lookup(id, "")
	if err != nil {
		return err
	}
	obj.rotation = math.Mod(obj.rotation+degrees, 360)
	return nil
}

// Save renders the document to path.
func (h *PDFHost) Save(path string) error {
	pdf, err := h.render()
	if err != nil {
		return err
	}
	return pdf.OutputFileAndClose(path)
}

// Output renders the document to w.
func (h *PDFHost) Output(w io.Writer) error {
	pdf, err := h.render()
	if err != nil {
		return err
	}
	return pdf.Output(w)
}

func (h *PDFHost) render() (*fpdf.Fpdf, error) {
	if !h.open {
		return nil, errNoDocument
	}

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: h.size.Width, Ht: h.size.Height},
	})
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetCompression(h.Compress)
	pdf.SetTitle(h.Title, true)
	pdf.SetCreator("SheetGang", true)

	layerIDs := make(map[string]int, len(h.layers))
	for _, l := range h.layers {
		// Optional content that is off by default is neither shown nor printed.
		layerIDs[l.name] = pdf.AddLayer(l.name, l.printable)
	}
	if len(h.layers) > 0 {
		pdf.OpenLayerPane()
	}

	r := &renderer{pdf: pdf, images: map[string]*fpdf.ImageInfoType{}, spots: map[string]bool{}}
	for _, objects := range h.pages {
		pdf.AddPage()
		for _, l := range h.layers {
			pdf.BeginLayer(layerIDs[l.name])
			for _, obj := range objects {
				if obj.layer != l.name {
					continue
				}
				if err := r.draw(obj); err != nil {
					return nil, err
				}
			}
			pdf.EndLayer()
		}
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render PDF: %w", err)
	}
	return pdf, nil
}

type renderer struct {
	pdf    *fpdf.Fpdf
	images map[string]*fpdf.ImageInfoType // keyed by path, which is also the fpdf image name
	spots  map[string]bool
}

func (r *renderer) draw(obj *pdfObject) error {
	cx, cy := obj.rect.Center()
	if obj.rotation != 0 {
		r.pdf.TransformBegin()
		// fpdf rotates counter-clockwise.
		r.pdf.TransformRotate(-obj.rotation, cx, cy)
		defer r.pdf.TransformEnd()
	}

	switch obj.kind {
	case "image":
		return r.drawImage(obj)
	case "rect":
		r.drawRect(obj)
	}
	return nil
}

func (r *renderer) drawImage(obj *pdfObject) error {
	if obj.image == "" {
		return nil
	}
	info, err := r.register(obj.image)
	if err != nil {
		return err
	}

	f := obj.rect
	w, h := info.Extent()
	x, y := f.X, f.Y
	if obj.scaled {
		w, h = fitContain(w, h, f.Width, f.Height)
		x = f.X + (f.Width-w)/2
		y = f.Y + (f.Height-h)/2
	}

	r.pdf.ClipRect(f.X, f.Y, f.Width, f.Height, false)
	r.pdf.ImageOptions(obj.image, x, y, w, h, false, fpdf.ImageOptions{}, 0, "")
	r.pdf.ClipEnd()
	return nil
}

func (r *renderer) register(path string) (*fpdf.ImageInfoType, error) {
	if info, ok := r.images[path]; ok {
		return info, nil
	}
	data, imgType, err := importer.LoadForEmbedding(path)
	if err != nil {
		return nil, err
	}
	info := r.pdf.RegisterImageOptionsReader(path, fpdf.ImageOptions{ImageType: imgType}, data)
	if err := r.pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to embed %s: %w", path, err)
	}
	r.images[path] = info
	return info, nil
}

func (r *renderer) drawRect(obj *pdfObject) {
	s := obj.style
	op := "n"
	switch {
	case s.Fill && s.Stroke:
		op = "FD"
	case s.Fill:
		op = "F"
	case s.Stroke:
		op = "D"
	}

	if s.Stroke {
		lw := s.LineWidth
		if lw <= 0 {
			lw = defaultHairline
		}
		r.pdf.SetLineWidth(lw)
		if s.SpotColor != "" {
			r.addSpot(s.SpotColor)
			r.pdf.SetDrawSpotColor(s.SpotColor, 100)
		} else {
			r.pdf.SetDrawColor(0, 0, 0)
		}
	}
	if s.Fill {
		r.pdf.SetFillColor(255, 255, 255)
	}

	f := obj.rect
	r.pdf.Rect(f.X, f.Y, f.Width, f.Height, op)
}

// addSpot registers a spot colour on first use. Every spot colour shares
// the CutContour process approximation.
func (r *renderer) addSpot(name string) {
	if r.spots[name] {
		return
	}
	r.pdf.AddSpotColor(name, cutContourC, cutContourM, cutContourY, cutContourK)
	r.spots[name] = true
}

// fitContain scales w x h to the largest size that fits inside maxW x maxH
// while keeping the aspect ratio.
func fitContain(w, h, maxW, maxH float64) (float64, float64) {
	if w <= 0 || h <= 0 {
		return maxW, maxH
	}
	scale := math.Min(maxW/w, maxH/h)
	return w * scale, h * scale
}
