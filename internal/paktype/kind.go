package paktype

// Kind distinguishes real file entries from alignment pads.
type Kind uint8

const (
	KindFile Kind = iota
	KindPad
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindPad:
		return "pad"
	default:
		return "unknown"
	}
}
