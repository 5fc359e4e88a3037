package core

// Label 是推荐链路中的一等公民：可解释、可追踪、可透传。
// Value 与 Source 的语义由各阶段自定义；这里只提供标准化的合并规则。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall / filter / feature / rank / rerank
}

// MergeLabel 用于合并同名 Label，保留历史、可追踪：
// - Value: 以 '|' 累积
// - Source: 以 ',' 累积
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}

	merged := existing
	merged.Value = existing.Value + "|" + incoming.Value
	switch {
	case existing.Source == "":
		merged.Source = incoming.Source
	case incoming.Source == "":
		merged.Source = existing.Source
	default:
		merged.Source = existing.Source + "," + incoming.Source
	}
	return merged
}

func putLabel(labels map[string]Label, key string, lbl Label) map[string]Label {
	if labels == nil {
		labels = make(map[string]Label)
	}
	if old, ok := labels[key]; ok {
		labels[key] = MergeLabel(old, lbl)
		return labels
	}
	labels[key] = lbl
	return labels
}
