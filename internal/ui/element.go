package ui

import (
	"image"
	"time"
)

// Kind names an element type.
type Kind string

const (
	KindRoot           Kind = "root"
	KindHeading        Kind = "heading"
	KindParagraph      Kind = "paragraph"
	KindText           Kind = "text"
	KindMarkdown       Kind = "markdown"
	KindCode           Kind = "code"
	KindLatex          Kind = "latex"
	KindAlert          Kind = "alert"
	KindDivider        Kind = "divider"
	KindButton         Kind = "button"
	KindCheckbox       Kind = "checkbox"
	KindRadio          Kind = "radio"
	KindTextInput      Kind = "text_input"
	KindTextArea       Kind = "text_area"
	KindNumberInput    Kind = "number_input"
	KindSlider         Kind = "slider"
	KindDateInput      Kind = "date_input"
	KindTimeInput      Kind = "time_input"
	KindSelectBox      Kind = "selectbox"
	KindMultiSelect    Kind = "multiselect"
	KindFileUploader   Kind = "file_uploader"
	KindColorPicker    Kind = "color_picker"
	KindForm           Kind = "form"
	KindFormSubmit     Kind = "form_submit_button"
	KindColumns        Kind = "columns"
	KindColumn         Kind = "column"
	KindExpander       Kind = "expander"
	KindImage          Kind = "image"
	KindAudio          Kind = "audio"
	KindVideo          Kind = "video"
	KindDataFrame      Kind = "dataframe"
	KindTable          Kind = "table"
	KindChart          Kind = "chart"
	KindMap            Kind = "map"
	KindSpinner        Kind = "spinner"
	KindProgress       Kind = "progress"
	KindDownloadButton Kind = "download_button"
	KindCameraInput    Kind = "camera_input"
	KindException      Kind = "exception"
)

// Element is the typed payload of a node.
type Element interface {
	Kind() Kind
}

// Widget is an element the user edits. Its node carries a key.
type Widget interface {
	Element
	WidgetLabel() string
}

type Root struct{}

func (*Root) Kind() Kind { return KindRoot }

// Heading is a title (1), header (2) or subheader (3).
type Heading struct {
	Level int
	Text  string
}

func (*Heading) Kind() Kind { return KindHeading }

type Paragraph struct{ Text string }

func (*Paragraph) Kind() Kind { return KindParagraph }

// Text is preformatted plain text.
type Text struct{ Body string }

func (*Text) Kind() Kind { return KindText }

type Markdown struct{ Body string }

func (*Markdown) Kind() Kind { return KindMarkdown }

type Code struct {
	Body     string
	Language string
}

func (*Code) Kind() Kind { return KindCode }

type Latex struct{ Expr string }

func (*Latex) Kind() Kind { return KindLatex }

type AlertLevel string

const (
	AlertInfo    AlertLevel = "info"
	AlertSuccess AlertLevel = "success"
	AlertWarning AlertLevel = "warning"
	AlertError   AlertLevel = "error"
)

type Alert struct {
	Level AlertLevel
	Body  string
}

func (*Alert) Kind() Kind { return KindAlert }

type Divider struct{}

func (*Divider) Kind() Kind { return KindDivider }

type Button struct {
	Label   string
	Clicked bool
}

func (*Button) Kind() Kind            { return KindButton }
func (b *Button) WidgetLabel() string { return b.Label }

type Checkbox struct {
	Label   string
	Checked bool
}

func (*Checkbox) Kind() Kind            { return KindCheckbox }
func (c *Checkbox) WidgetLabel() string { return c.Label }

type Radio struct {
	Label   string
	Options []string
	Index   int
}

func (*Radio) Kind() Kind            { return KindRadio }
func (r *Radio) WidgetLabel() string { return r.Label }

// TextInput is a single-line input, or a text area when Multiline is set.
type TextInput struct {
	Label     string
	Value     string
	Multiline bool
}

func (t *TextInput) Kind() Kind {
	if t.Multiline {
		return KindTextArea
	}
	return KindTextInput
}
func (t *TextInput) WidgetLabel() string { return t.Label }

// Number is a bounded integer input, drawn as a slider when Slider is set.
type Number struct {
	Label          string
	Min, Max, Step int
	Value          int
	Slider         bool
}

func (n *Number) Kind() Kind {
	if n.Slider {
		return KindSlider
	}
	return KindNumberInput
}
func (n *Number) WidgetLabel() string { return n.Label }

func (n *Number) clamp(v int) int { return max(n.Min, min(n.Max, v)) }

type DateInput struct {
	Label string
	Value time.Time
}

func (*DateInput) Kind() Kind            { return KindDateInput }
func (d *DateInput) WidgetLabel() string { return d.Label }

type TimeInput struct {
	Label string
	Value TimeOfDay
	Step  time.Duration
}

func (*TimeInput) Kind() Kind            { return KindTimeInput }
func (t *TimeInput) WidgetLabel() string { return t.Label }

type SelectBox struct {
	Label   string
	Options []string
	Index   int
}

func (*SelectBox) Kind() Kind            { return KindSelectBox }
func (s *SelectBox) WidgetLabel() string { return s.Label }

// MultiSelect holds the indices of the selected options in ascending order.
type MultiSelect struct {
	Label    string
	Options  []string
	Selected []int
}

func (*MultiSelect) Kind() Kind            { return KindMultiSelect }
func (m *MultiSelect) WidgetLabel() string { return m.Label }

// IsSelected reports whether option i is selected.
func (m *MultiSelect) IsSelected(i int) bool {
	for _, s := range m.Selected {
		if s == i {
			return true
		}
	}
	return false
}

// Values returns the selected option labels.
func (m *MultiSelect) Values() []string {
	out := make([]string, 0, len(m.Selected))
	for _, i := range m.Selected {
		out = append(out, m.Options[i])
	}
	return out
}

type FileUploader struct {
	Label string
	Types []string
	File  *UploadedFile
}

func (*FileUploader) Kind() Kind            { return KindFileUploader }
func (f *FileUploader) WidgetLabel() string { return f.Label }

type ColorPicker struct {
	Label string
	Hex   string
}

func (*ColorPicker) Kind() Kind            { return KindColorPicker }
func (c *ColorPicker) WidgetLabel() string { return c.Label }

type Form struct{ Key string }

func (*Form) Kind() Kind { return KindForm }

type FormSubmit struct {
	Label     string
	Form      string
	Submitted bool
}

func (*FormSubmit) Kind() Kind            { return KindFormSubmit }
func (f *FormSubmit) WidgetLabel() string { return f.Label }

type Columns struct{}

func (*Columns) Kind() Kind { return KindColumns }

type Column struct{ Index int }

func (*Column) Kind() Kind { return KindColumn }

type Expander struct {
	Label    string
	Expanded bool
}

func (*Expander) Kind() Kind            { return KindExpander }
func (e *Expander) WidgetLabel() string { return e.Label }

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaAudio MediaType = "audio"
	MediaVideo MediaType = "video"
)

// Media is an image, audio or video embed. Image is set for in-memory
// pictures such as camera captures; otherwise Source names a URL or path.
type Media struct {
	Type    MediaType
	Source  string
	Caption string
	Image   image.Image
}

func (m *Media) Kind() Kind {
	switch m.Type {
	case MediaAudio:
		return KindAudio
	case MediaVideo:
		return KindVideo
	default:
		return KindImage
	}
}

// DataFrame shows tabular data; Static tables do not scroll.
type DataFrame struct {
	Data   Tabular
	Static bool
}

func (d *DataFrame) Kind() Kind {
	if d.Static {
		return KindTable
	}
	return KindDataFrame
}

type ChartType string

const (
	ChartLine ChartType = "line"
	ChartArea ChartType = "area"
	ChartBar  ChartType = "bar"
)

// Chart plots either every column of Data against the row index or the
// Long points grouped by series.
type Chart struct {
	Type  ChartType
	Title string
	Data  Tabular
	Long  []Point
}

func (*Chart) Kind() Kind { return KindChart }

// Series returns the chart as per-series points in first-seen series order.
func (c *Chart) Series() (names []string, points map[string][]Point) {
	points = map[string][]Point{}
	if c.Data != nil {
		rows, cols := c.Data.Dims()
		names = c.Data.Columns()
		for j := 0; j < cols; j++ {
			for i := 0; i < rows; i++ {
				points[names[j]] = append(points[names[j]], Point{X: float64(i), Y: c.Data.At(i, j), Series: names[j]})
			}
		}
		return names, points
	}
	for _, p := range c.Long {
		if _, ok := points[p.Series]; !ok {
			names = append(names, p.Series)
		}
		points[p.Series] = append(points[p.Series], p)
	}
	return names, points
}

type Map struct{ Points []GeoPoint }

func (*Map) Kind() Kind { return KindMap }

type Spinner struct {
	Label    string
	Duration time.Duration
}

func (*Spinner) Kind() Kind { return KindSpinner }

// Progress is a bar the driver advances from 0 to Steps, one step per Interval.
type Progress struct {
	Steps    int
	Interval time.Duration
	Value    int
}

func (*Progress) Kind() Kind { return KindProgress }

type DownloadButton struct {
	Label    string
	Data     []byte
	FileName string
	MIME     string
	Clicked  bool
}

func (*DownloadButton) Kind() Kind            { return KindDownloadButton }
func (d *DownloadButton) WidgetLabel() string { return d.Label }

type CameraInput struct {
	Label string
	Shot  *Capture
}

func (*CameraInput) Kind() Kind            { return KindCameraInput }
func (c *CameraInput) WidgetLabel() string { return c.Label }

// Exception is appended when a run fails.
type Exception struct {
	Err   error
	Stack string
}

func (*Exception) Kind() Kind { return KindException }
