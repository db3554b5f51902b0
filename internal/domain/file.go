package domain

// FileEntry 描述一次扫描得到的文件（只做 stat，不读内容）。
//
// 不变量：
// - AbsPath 必须是 clean + absolute
// - 分类只取决于 Name，不看内容与大小
type FileEntry struct {
	AbsPath string
	Name    string
	Ext     string // 原样保留大小写，例如 ".webp"、".PNG"
	Size    int64
}

// FileClass 是文件名分类结果。
type FileClass int

const (
	// ClassExtraneous 表示既不可转换也不是目标格式：删除。
	ClassExtraneous FileClass = iota
	// ClassConvert 表示规范命名的源格式文件：转换。
	ClassConvert
	// ClassSkip 表示已是目标格式：保留不动。
	ClassSkip
)

func (c FileClass) String() string {
	switch c {
	case ClassConvert:
		return "convert"
	case ClassSkip:
		return "skip"
	default:
		return "extraneous"
	}
}
