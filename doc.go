// Package contentrec 是一个内容推荐打分引擎。
//
// 设计要点：
// - Pipeline-first: 推荐逻辑通过 Node 串联（Recall → Filter → Feature → Rank → ReRank）
// - 画像按调用构建：历史交互 → 归一化的标签/类型/分类分布，用完即弃
// - 可解释：每条推荐都带有确定的人类可读理由
package contentrec

import "github.com/rushteam/contentrec/pipeline"

// 轻量 facade：便于直接 import "contentrec" 使用核心抽象。
type Pipeline = pipeline.Pipeline
type Node = pipeline.Node
type Kind = pipeline.Kind

const (
	KindRecall  = pipeline.KindRecall
	KindFilter  = pipeline.KindFilter
	KindFeature = pipeline.KindFeature
	KindRank    = pipeline.KindRank
	KindReRank  = pipeline.KindReRank
)
