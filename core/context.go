package core

import "github.com/rushteam/movierec/pkg/utils"

// RecommendContext 承载用户/当前选片/请求参数，贯穿整个 Pipeline 透传。
type RecommendContext struct {
	// UserID 目标用户；<= 0 表示匿名（协同过滤会拒绝匿名请求）
	UserID int64

	// Selected 当前选中的电影 ID 列表。
	// 协同过滤用它做"选片一致性"相似度加成，内容推荐用它做查询种子。
	Selected []int64

	// SelectedTitles 以标题文本给出的选片（仅内容推荐使用，支持子串匹配）
	SelectedTitles []string

	// Labels 是用户级标签，可驱动整个 Pipeline 行为
	Labels map[string]utils.Label

	// Params 请求级上下文参数（top_k、scene 等）
	Params map[string]any
}

// HasSelected 判断 id 是否在当前选片中。
func (rctx *RecommendContext) HasSelected(id int64) bool {
	for _, s := range rctx.Selected {
		if s == id {
			return true
		}
	}
	return false
}

// PutLabel 写入用户级 Label。
func (rctx *RecommendContext) PutLabel(key string, lbl utils.Label) {
	if rctx.Labels == nil {
		rctx.Labels = make(map[string]utils.Label)
	}
	if old, ok := rctx.Labels[key]; ok {
		rctx.Labels[key] = utils.MergeLabel(old, lbl)
		return
	}
	rctx.Labels[key] = lbl
}

// GetLabel 获取用户级 Label。
func (rctx *RecommendContext) GetLabel(key string) (utils.Label, bool) {
	if rctx.Labels == nil {
		return utils.Label{}, false
	}
	lbl, ok := rctx.Labels[key]
	return lbl, ok
}
