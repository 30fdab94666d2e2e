package algorithms

// 内置的专利数据集可视化算法，与后端算法库的稳定版本对应。
func init() {
	Register(Spec{
		Key:     "citation_graph",
		Version: "1.2.0",
		Name:    "Citation Network Graph",
		Params: []ParamSpec{
			{Name: "max_nodes", Kind: KindInt, Required: false},
			{Name: "layout", Kind: KindEnum, Enum: []string{"force", "radial", "hierarchic"}, Required: true},
			{Name: "include_self_citations", Kind: KindBool},
		},
		OutputFormats: []string{"png", "svg"},
	})
	Register(Spec{
		Key:     "ipc_treemap",
		Version: "1.0.3",
		Name:    "IPC Classification Treemap",
		Params: []ParamSpec{
			{Name: "depth", Kind: KindInt, Required: true},
			{Name: "color_by", Kind: KindEnum, Enum: []string{"count", "growth", "assignee"}},
		},
		OutputFormats: []string{"png", "svg"},
	})
	Register(Spec{
		Key:     "filing_trend",
		Version: "2.1.0",
		Name:    "Filing Trend Timeline",
		Params: []ParamSpec{
			{Name: "granularity", Kind: KindEnum, Enum: []string{"month", "quarter", "year"}, Required: true},
			{Name: "smoothing", Kind: KindFloat},
		},
		OutputFormats: []string{"png", "svg", "webp"},
	})
}
