package exporter

// Stage 生成阶段
type Stage string

const (
	StageParse   Stage = "parse"
	StageRender  Stage = "render"
	StageSummary Stage = "summary"
	StageDone    Stage = "done"
)

// ProgressEvent 生成进度事件；渲染阶段带当前车号
type ProgressEvent struct {
	Percent int    `json:"percent"`
	Stage   Stage  `json:"stage"`
	TruckID string `json:"truck_id,omitempty"`
}

// Span 把 total 项中已完成的 done 项线性映射到 [from, to]
func Span(from, to, done, total int) int {
	if total <= 0 {
		return to
	}
	return from + (to-from)*done/total
}

// ReportProgress 上报阶段进度，percent 截断到 [0,100]
func ReportProgress(progress func(ProgressEvent), percent int, stage Stage) {
	emit(progress, ProgressEvent{Percent: percent, Stage: stage})
}

// ReportTruck 上报单车渲染完成
func ReportTruck(progress func(ProgressEvent), percent int, truckID string) {
	emit(progress, ProgressEvent{Percent: percent, Stage: StageRender, TruckID: truckID})
}

func emit(progress func(ProgressEvent), ev ProgressEvent) {
	if progress == nil {
		return
	}
	ev.Percent = min(max(ev.Percent, 0), 100)
	progress(ev)
}
