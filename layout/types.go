package layout

// 该文件定义解释结果的描述，供调试 JSON 使用。

// Result 汇总一次解释后的网格与已绘制的元素。
type Result struct {
	Width    int       `json:"width"`
	Height   int       `json:"height"`
	Columns  []int     `json:"columns"`
	Rows     []int     `json:"rows"`
	Elements []Element `json:"elements"`
	LitDots  int       `json:"litDots"`
}

// Element 记录一条已分发的元素命令，坐标均为像素。
type Element struct {
	Line int    `json:"line"`
	Kind string `json:"kind"` // "text" | "rect"
	Fill bool   `json:"fill"` // false 表示擦除
	Rect Rect   `json:"rect"`
	// 以下字段仅对 text 有效
	Font      string `json:"font,omitempty"`
	Align     string `json:"align,omitempty"`
	Text      string `json:"text,omitempty"`
	OriginX   int    `json:"originX"`
	Baseline  int    `json:"baseline"`
	FillWidth int    `json:"fillWidth"`
	// Dots 为落在显示范围内的写入次数，越界的点被裁剪，不计入。
	Dots int `json:"dots"`
}
