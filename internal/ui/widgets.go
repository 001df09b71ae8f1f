package ui

import (
	"fmt"
	"image"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

func (r *Run) Title(text string)     { r.add("", &Heading{Level: 1, Text: text}) }
func (r *Run) Header(text string)    { r.add("", &Heading{Level: 2, Text: text}) }
func (r *Run) Subheader(text string) { r.add("", &Heading{Level: 3, Text: text}) }

// Write renders values as one paragraph, joined by spaces.
func (r *Run) Write(values ...any) {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = Format(v)
	}
	r.add("", &Paragraph{Text: strings.Join(parts, " ")})
}

func (r *Run) Text(body string)           { r.add("", &Text{Body: body}) }
func (r *Run) Markdown(body string)       { r.add("", &Markdown{Body: body}) }
func (r *Run) Code(body, language string) { r.add("", &Code{Body: body, Language: language}) }
func (r *Run) Latex(expr string)          { r.add("", &Latex{Expr: expr}) }
func (r *Run) Info(body string)           { r.add("", &Alert{Level: AlertInfo, Body: body}) }
func (r *Run) Success(body string)        { r.add("", &Alert{Level: AlertSuccess, Body: body}) }
func (r *Run) Warning(body string)        { r.add("", &Alert{Level: AlertWarning, Body: body}) }
func (r *Run) Error(body string)          { r.add("", &Alert{Level: AlertError, Body: body}) }
func (r *Run) Divider()                   { r.add("", &Divider{}) }

// Button reports whether the button was clicked since the previous run.
func (r *Run) Button(label string, opts ...Option) bool {
	key := r.keyFor(KindButton, label, collect(opts))
	clicked := r.env.State.triggered(key)
	r.add(key, &Button{Label: label, Clicked: clicked})
	return clicked
}

func (r *Run) Checkbox(label string, def bool, opts ...Option) bool {
	key := r.keyFor(KindCheckbox, label, collect(opts))
	shown, committed := r.read(key, def)
	r.add(key, &Checkbox{Label: label, Checked: shown.(bool)})
	return committed.(bool)
}

// Radio returns the chosen option, or "" when options is empty.
func (r *Run) Radio(label string, options []string, opts ...Option) string {
	o := collect(opts)
	key := r.keyFor(KindRadio, label, o)
	shown, committed := r.choice(key, len(options), o.index)
	r.add(key, &Radio{Label: label, Options: options, Index: shown})
	return optionAt(options, committed)
}

// SelectBox returns the chosen option, or "" when options is empty.
func (r *Run) SelectBox(label string, options []string, opts ...Option) string {
	o := collect(opts)
	key := r.keyFor(KindSelectBox, label, o)
	shown, committed := r.choice(key, len(options), o.index)
	r.add(key, &SelectBox{Label: label, Options: options, Index: shown})
	return optionAt(options, committed)
}

func (r *Run) choice(key string, n, def int) (shown, committed int) {
	if def < 0 || def >= n {
		def = 0
	}
	s, c := r.read(key, def)
	shown, committed = s.(int), c.(int)
	// a stored index can outlive a shorter option list
	if shown >= n {
		shown = def
	}
	if committed >= n {
		committed = def
	}
	return shown, committed
}

func optionAt(options []string, i int) string {
	if i < 0 || i >= len(options) {
		return ""
	}
	return options[i]
}

// MultiSelect returns the chosen options in option order. Defaults not
// among options are ignored.
func (r *Run) MultiSelect(label string, options, defaults []string, opts ...Option) []string {
	key := r.keyFor(KindMultiSelect, label, collect(opts))
	var def []int
	for i, o := range options {
		if slices.Contains(defaults, o) {
			def = append(def, i)
		}
	}
	s, c := r.read(key, def)
	el := &MultiSelect{Label: label, Options: options, Selected: validIndices(s.([]int), len(options))}
	r.add(key, el)
	committed := &MultiSelect{Options: options, Selected: validIndices(c.([]int), len(options))}
	return committed.Values()
}

func validIndices(idx []int, n int) []int {
	out := make([]int, 0, len(idx))
	for _, i := range idx {
		if i >= 0 && i < n {
			out = append(out, i)
		}
	}
	return out
}

func (r *Run) TextInput(label, def string, opts ...Option) string {
	return r.text(label, def, false, opts)
}

func (r *Run) TextArea(label, def string, opts ...Option) string {
	return r.text(label, def, true, opts)
}

func (r *Run) text(label, def string, multiline bool, opts []Option) string {
	el := &TextInput{Label: label, Multiline: multiline}
	key := r.keyFor(el.Kind(), label, collect(opts))
	shown, committed := r.read(key, def)
	el.Value = shown.(string)
	r.add(key, el)
	return committed.(string)
}

// NumberInput returns an integer in [lo, hi]. Out-of-range defaults clamp.
func (r *Run) NumberInput(label string, lo, hi, def int, opts ...Option) int {
	return r.number(label, lo, hi, def, false, opts)
}

// Slider returns an integer in [lo, hi]. Out-of-range defaults clamp.
func (r *Run) Slider(label string, lo, hi, def int, opts ...Option) int {
	return r.number(label, lo, hi, def, true, opts)
}

func (r *Run) number(label string, lo, hi, def int, slider bool, opts []Option) int {
	if hi < lo {
		lo, hi = hi, lo
	}
	el := &Number{Label: label, Min: lo, Max: hi, Step: 1, Slider: slider}
	key := r.keyFor(el.Kind(), label, collect(opts))
	shown, committed := r.read(key, el.clamp(def))
	el.Value = el.clamp(shown.(int))
	r.add(key, el)
	return el.clamp(committed.(int))
}

func (r *Run) DateInput(label string, def time.Time, opts ...Option) time.Time {
	key := r.keyFor(KindDateInput, label, collect(opts))
	def = truncateDay(def)
	shown, committed := r.read(key, def)
	r.add(key, &DateInput{Label: label, Value: shown.(time.Time)})
	return committed.(time.Time)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// TimeInput steps by 15 minutes.
func (r *Run) TimeInput(label string, def TimeOfDay, opts ...Option) TimeOfDay {
	key := r.keyFor(KindTimeInput, label, collect(opts))
	shown, committed := r.read(key, def)
	r.add(key, &TimeInput{Label: label, Value: shown.(TimeOfDay), Step: 15 * time.Minute})
	return committed.(TimeOfDay)
}

// FileUploader returns the uploaded file or nil. types lists accepted
// extensions without dots; empty accepts anything.
func (r *Run) FileUploader(label string, types []string, opts ...Option) *UploadedFile {
	key := r.keyFor(KindFileUploader, label, collect(opts))
	shown, committed := r.read(key, (*UploadedFile)(nil))
	r.add(key, &FileUploader{Label: label, Types: types, File: shown.(*UploadedFile)})
	return committed.(*UploadedFile)
}

// NewUploadedFile builds an upload with a fresh ID.
func NewUploadedFile(name, mime string, data []byte) *UploadedFile {
	return &UploadedFile{ID: uuid.NewString(), Name: name, Type: mime, Size: int64(len(data)), Data: data}
}

// ColorPicker returns a lowercase "#rrggbb". An unparsable default becomes black.
func (r *Run) ColorPicker(label, def string, opts ...Option) string {
	key := r.keyFor(KindColorPicker, label, collect(opts))
	hex, err := NormalizeHex(def)
	if err != nil {
		hex = "#000000"
	}
	shown, committed := r.read(key, hex)
	r.add(key, &ColorPicker{Label: label, Hex: shown.(string)})
	return committed.(string)
}

// Form declares a form. Widgets inside it keep their edits pending until
// the form's submit button is clicked; edits do not rerun the script.
func (r *Run) Form(key string, body func(f *Run) error) error {
	if r.form != "" {
		return fmt.Errorf("form %q: forms cannot be nested", key)
	}
	if r.env.forms[key] {
		return fmt.Errorf("form %q declared twice", key)
	}
	r.env.forms[key] = true
	n := r.add("form:"+key, &Form{Key: key})
	return body(&Run{env: r.env, parent: n, form: key})
}

// FormSubmitButton reports whether the enclosing form was submitted. It
// panics with ErrOutsideForm when used outside Form.
func (r *Run) FormSubmitButton(label string, opts ...Option) bool {
	if r.form == "" {
		panic(ErrOutsideForm)
	}
	key := r.keyFor(KindFormSubmit, label, collect(opts))
	submitted := r.env.State.triggered(key)
	r.add(key, &FormSubmit{Label: label, Form: r.form, Submitted: submitted})
	return submitted
}

// Columns lays out n side-by-side containers.
func (r *Run) Columns(n int) []*Run {
	row := r.child(&Columns{})
	cols := make([]*Run, n)
	for i := range cols {
		cols[i] = row.child(&Column{Index: i})
	}
	return cols
}

// Expander declares a collapsible section. body always runs; the
// collapsed state only hides its output.
func (r *Run) Expander(label string, body func(e *Run) error, opts ...Option) error {
	key := r.keyFor(KindExpander, label, collect(opts))
	expanded, _ := r.env.State.values[key].(bool)
	n := r.add(key, &Expander{Label: label, Expanded: expanded})
	return body(&Run{env: r.env, parent: n, form: r.form})
}

// Image embeds a picture from a URL or path.
func (r *Run) Image(src, caption string) {
	r.add(r.keyFor(KindImage, src, options{}), &Media{Type: MediaImage, Source: src, Caption: caption})
}

// ImageData embeds an in-memory picture.
func (r *Run) ImageData(img image.Image, caption string) {
	r.add("", &Media{Type: MediaImage, Image: img, Caption: caption})
}

func (r *Run) Audio(src string) {
	r.add(r.keyFor(KindAudio, src, options{}), &Media{Type: MediaAudio, Source: src})
}

func (r *Run) Video(src string) {
	r.add(r.keyFor(KindVideo, src, options{}), &Media{Type: MediaVideo, Source: src})
}

// DataFrame shows a scrollable table.
func (r *Run) DataFrame(data Tabular) {
	r.add(r.keyFor(KindDataFrame, "", options{}), &DataFrame{Data: data})
}

// Table shows every row at once.
func (r *Run) Table(data Tabular) { r.add("", &DataFrame{Data: data, Static: true}) }

func (r *Run) LineChart(data Tabular) { r.add("", &Chart{Type: ChartLine, Data: data}) }
func (r *Run) AreaChart(data Tabular) { r.add("", &Chart{Type: ChartArea, Data: data}) }
func (r *Run) BarChart(data Tabular)  { r.add("", &Chart{Type: ChartBar, Data: data}) }

// Plot draws every column of data as a titled figure.
func (r *Run) Plot(title string, data Tabular) {
	r.add("", &Chart{Type: ChartLine, Title: title, Data: data})
}

// LongLineChart draws long-form points as one line per series.
func (r *Run) LongLineChart(points []Point) {
	r.add("", &Chart{Type: ChartLine, Long: points})
}

// Map plots the lat and lon columns of data.
func (r *Run) Map(data Tabular) error {
	lat, lon := -1, -1
	for j, c := range data.Columns() {
		switch strings.ToLower(c) {
		case "lat", "latitude":
			lat = j
		case "lon", "lng", "longitude":
			lon = j
		}
	}
	if lat < 0 || lon < 0 {
		return fmt.Errorf("map: %w: need lat and lon", ErrMissingColumn)
	}
	rows, _ := data.Dims()
	pts := make([]GeoPoint, rows)
	for i := range pts {
		pts[i] = GeoPoint{Lat: data.At(i, lat), Lon: data.At(i, lon)}
	}
	r.add("", &Map{Points: pts})
	return nil
}

// Spinner shows an activity indicator for d.
func (r *Run) Spinner(label string, d time.Duration) {
	r.add(r.keyFor(KindSpinner, label, options{}), &Spinner{Label: label, Duration: d})
}

// Progress shows a bar that fills over steps ticks of interval.
func (r *Run) Progress(steps int, interval time.Duration) {
	r.add(r.keyFor(KindProgress, "", options{}), &Progress{Steps: steps, Interval: interval})
}

// DownloadButton offers data as a file and reports whether it was clicked.
func (r *Run) DownloadButton(label string, data []byte, fileName, mime string, opts ...Option) bool {
	key := r.keyFor(KindDownloadButton, label, collect(opts))
	clicked := r.env.State.triggered(key)
	r.add(key, &DownloadButton{Label: label, Data: data, FileName: fileName, MIME: mime, Clicked: clicked})
	return clicked
}

// CameraInput returns the last capture, or nil before one is taken. It
// fails without declaring anything when the camera cannot be used.
func (r *Run) CameraInput(label string, opts ...Option) (*Capture, error) {
	if r.env.Camera == nil {
		return nil, ErrNoCamera
	}
	if err := r.env.Camera.Probe(); err != nil {
		return nil, fmt.Errorf("camera input: %w", err)
	}
	key := r.keyFor(KindCameraInput, label, collect(opts))
	shown, committed := r.read(key, (*Capture)(nil))
	r.add(key, &CameraInput{Label: label, Shot: shown.(*Capture)})
	return committed.(*Capture), nil
}
