package layout

import (
	"go.uber.org/zap"

	"github.com/ByLCY/htmlpaper/config"
)

// pageAccumulator 持有已生成的页面，并负责换页与纵向游标的推进。
type pageAccumulator struct {
	cfg   config.Resolved
	state *State
	pages []Page
	log   *zap.Logger
}

func newPageAccumulator(cfg config.Resolved, st *State, log *zap.Logger) *pageAccumulator {
	return &pageAccumulator{cfg: cfg, state: st, pages: []Page{}, log: log}
}

// ensureCapacity 在输出节点内容前调用：尚无页面时开第一页；
// 预估高度会越过下边距时换页，并把游标重置到上边距。
func (pa *pageAccumulator) ensureCapacity(height float64) {
	if len(pa.pages) == 0 {
		pa.open()
	}
	if pa.state.CumulativeContentHeight+height < pa.contentBottom() {
		return
	}
	pa.open()
	pa.state.CumulativeContentHeight = pa.cfg.Margins.Top
	pa.log.Debug("Page break", zap.Int("page", pa.state.PageCount), zap.Float64("predicted", height))
}

func (pa *pageAccumulator) contentBottom() float64 {
	return config.PageHeight - pa.cfg.Margins.Bottom
}

func (pa *pageAccumulator) open() {
	pa.pages = append(pa.pages, Page{PageElements: []Element{}})
	pa.state.PageCount++
}

// advance 下移游标；任何纵向推进都会结束与列表符号共行的状态。
func (pa *pageAccumulator) advance(dy float64) {
	pa.state.CumulativeContentHeight += dy
	pa.state.SharesBulletLine = false
}

// advanceLine 推进一行文本；紧跟列表符号的首行与符号共用一行。
func (pa *pageAccumulator) advanceLine(dy float64) {
	if pa.state.SharesBulletLine {
		pa.state.SharesBulletLine = false
		return
	}
	pa.advance(dy)
}

func (pa *pageAccumulator) emit(e Element) {
	last := &pa.pages[len(pa.pages)-1]
	last.PageElements = append(last.PageElements, e)
}
