// Package demo declares the widget demo page.
package demo

import (
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/jask/widgetdemo/internal/config"
	"github.com/jask/widgetdemo/internal/sample"
	"github.com/jask/widgetdemo/internal/session"
	"github.com/jask/widgetdemo/internal/ui"
)

const (
	CounterKey     = "count"
	CameraFallback = "카메라 입력이 지원되지 않거나 권한이 필요합니다."
	CSVFileName    = "sample.csv"
	CSVMIME        = "text/csv"
)

// Deps parameterises the page.
type Deps struct {
	Rand             rand.Source
	Rows             int
	GeoPoints        int
	Center           sample.LatLon
	Spread           float64
	Spinner          time.Duration
	ProgressSteps    int
	ProgressInterval time.Duration
	ImageURL         string
	AudioURL         string
	VideoURL         string
}

// FromConfig builds Deps from cfg. A zero seed draws a random one.
func FromConfig(cfg config.Config) Deps {
	seed := cfg.Demo.Seed
	if seed == 0 {
		seed = rand.Uint64()
	}
	return Deps{
		Rand:             rand.NewPCG(seed, seed^0x9e3779b97f4a7c15),
		Rows:             cfg.Demo.Rows,
		GeoPoints:        cfg.Demo.GeoPoints,
		Center:           sample.LatLon{Lat: cfg.Demo.CenterLat, Lon: cfg.Demo.CenterLon},
		Spread:           cfg.Demo.Spread,
		Spinner:          cfg.Demo.Spinner,
		ProgressSteps:    cfg.Demo.ProgressSteps,
		ProgressInterval: cfg.Demo.ProgressInterval,
		ImageURL:         cfg.Media.ImageURL,
		AudioURL:         cfg.Media.AudioURL,
		VideoURL:         cfg.Media.VideoURL,
	}
}

// Page returns the demo script. Sample frames are drawn afresh on every run.
func Page(d Deps) ui.Script {
	return func(r *ui.Run) error {
		r.Title("🎈 Streamlit 요소 데모 페이지")
		r.Write("이 페이지는 한 페이지에서 자주 쓰이는 Streamlit 요소들을 예시와 함께 보여줍니다.")

		if err := layout(r); err != nil {
			return err
		}
		if err := inputs(r); err != nil {
			return err
		}
		outputs(r)
		mediaSection(r, d)
		df, err := charts(r, d)
		if err != nil {
			return err
		}
		progress(r, d)
		if err := extras(r, df); err != nil {
			return err
		}

		r.Divider()
		r.Write("이 페이지의 코드를 읽으며 각 위젯의 사용법을 익혀보세요.")
		return nil
	}
}

func layout(r *ui.Run) error {
	r.Header("레이아웃 예시")
	cols := r.Columns(2)

	col1 := cols[0]
	col1.Subheader("컬럼 1: 텍스트, 버튼")
	if col1.Button("버튼 클릭 (컬럼1)") {
		col1.Write("버튼을 클릭했습니다!")
	}

	col2 := cols[1]
	col2.Subheader("컬럼 2: 체크박스, 라디오")
	cb := col2.Checkbox("체크박스 켜기", false)
	col2.Write("체크박스 상태:", cb)
	color := col2.Radio("색 선택", []string{"빨강", "초록", "파랑"})
	col2.Write("선택한 색:", color)

	if err := r.Expander("더 보기: 설명 텍스트", func(e *ui.Run) error {
		e.Write("이곳은 숨김/보임 가능한 영역입니다. 공부할 때 긴 설명을 숨겨두기 편리합니다.")
		return nil
	}); err != nil {
		return err
	}

	side := r.Sidebar()
	side.Header("사이드바 예시")
	side.Write("사이드바에는 보조 입력을 두기 좋습니다.")
	return nil
}

func inputs(r *ui.Run) error {
	r.Header("입력 위젯 예시")

	name := r.TextInput("이름을 입력하세요", "홍길동")
	r.Write("입력한 이름:", name)

	bio := r.TextArea("자기소개", "여기에 소개를 적어주세요.")
	r.Write("자기소개 미리보기:")
	r.Write(bio)

	age := r.NumberInput("나이", 0, 120, 30)
	r.Write("나이:", age)
	score := r.Slider("점수", 0, 100, 75)
	r.Write("점수:", score)

	dob := r.DateInput("생년월일", time.Date(1990, 1, 1, 0, 0, 0, 0, time.Local))
	alarm := r.TimeInput("알람 시간", ui.TimeOfDay{Hour: 7, Minute: 30})
	r.Write("생년월일:", dob, " / 알람:", alarm)

	option := r.SelectBox("옵션 선택", []string{"옵션 A", "옵션 B", "옵션 C"})
	choices := r.MultiSelect("여러 항목 선택", []string{"사과", "바나나", "체리"}, []string{"사과"})
	r.Write("선택:", option, choices)

	if up := r.FileUploader("파일 업로드 (이미지, csv 등)", nil); up != nil {
		r.Write("업로드된 파일:", up.Name)
	}

	picked := r.ColorPicker("색상 선택", "#00f900")
	r.Write("선택한 색상:", picked)

	return r.Form("my_form", func(f *ui.Run) error {
		f.Write("폼 예시: 아래 값을 채우고 제출하세요")
		fName := f.TextInput("이름", "")
		fAge := f.NumberInput("나이", 0, 120, 20)
		if f.FormSubmitButton("제출") {
			f.Success(fmt.Sprintf("폼이 제출되었습니다: %s (%d)", fName, fAge))
		}
		return nil
	})
}

func outputs(r *ui.Run) {
	r.Header("출력/표시 예시")
	r.Text("일반 텍스트: st.text() 사용")
	r.Markdown("**마크다운** 예시: *강조*와 [링크](https://docs.streamlit.io)")
	r.Code("print('Hello, Streamlit')", "python")
	r.Latex(`E = mc^2`)

	r.Info("정보 메시지: st.info()")
	r.Success("성공 메시지: st.success()")
	r.Warning("경고 메시지: st.warning()")
	r.Error("오류 메시지: st.error()")
}

func mediaSection(r *ui.Run, d Deps) {
	r.Header("미디어 예시")
	r.Write("이미지/오디오/비디오는 로컬 파일 또는 URL로 표시할 수 있습니다.")
	r.Image(d.ImageURL, "샘플 이미지")
	r.Audio(d.AudioURL)
	r.Video(d.VideoURL)
}

func charts(r *ui.Run, d Deps) (*sample.Frame, error) {
	r.Header("데이터프레임 및 차트")
	df, err := sample.NewFrame(d.Rand, d.Rows, "a", "b", "c")
	if err != nil {
		return nil, err
	}
	r.DataFrame(df)
	r.Table(df.Head(5))

	r.LineChart(df)
	r.AreaChart(df)
	r.BarChart(df)

	geo, err := sample.NewGeoFrame(d.Rand, d.GeoPoints, d.Center, d.Spread)
	if err != nil {
		return nil, err
	}
	if err := r.Map(geo); err != nil {
		return nil, err
	}

	r.Plot("cumsum", df.CumSum())

	folded := sample.Fold(df, "a", "b", "c")
	points := make([]ui.Point, len(folded))
	for i, row := range folded {
		points[i] = ui.Point{X: float64(row.Index), Y: row.Value, Series: row.Variable}
	}
	r.LongLineChart(points)
	return df, nil
}

func progress(r *ui.Run, d Deps) {
	r.Header("상태 및 진행 표시")
	r.Spinner("처리중...", d.Spinner)
	r.Success("완료")
	r.Progress(d.ProgressSteps, d.ProgressInterval)
}

func extras(r *ui.Run, df *sample.Frame) error {
	r.Header("기타 유용한 요소들")
	csv, err := df.MarshalCSV()
	if err != nil {
		return err
	}
	r.DownloadButton("CSV 다운로드", csv, CSVFileName, CSVMIME)

	store := r.Session()
	if store == nil {
		return fmt.Errorf("demo: page needs a session store")
	}
	ctx := r.Context()
	if _, err := session.SetDefault(ctx, store, CounterKey, int64(0)); err != nil {
		return err
	}
	if r.Button("세션 카운트 증가") {
		if _, err := store.Incr(ctx, CounterKey, 1); err != nil {
			return err
		}
	}
	count, err := session.Int(ctx, store, CounterKey)
	if err != nil {
		return err
	}
	r.Write("세션 카운트:", count)

	cam, err := r.CameraInput("카메라 촬영")
	switch {
	case err != nil:
		r.Write(CameraFallback)
	case cam != nil:
		r.ImageData(cam.Image, "")
	}
	return nil
}
