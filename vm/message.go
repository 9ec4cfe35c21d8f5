package vm

type MessageType int

const (
	_ MessageType = iota
	MsgDebug
	MsgError
	MsgWarning
	MsgSound
	MsgWaitKey
	MsgClear
	MsgReset
)

func (mt MessageType) String() string {
	switch mt {
	case MsgDebug:
		return "Debug"
	case MsgError:
		return "Error"
	case MsgWarning:
		return "Warning"
	case MsgSound:
		return "Sound"
	case MsgWaitKey:
		return "Wait Key"
	case MsgClear:
		return "Clear"
	case MsgReset:
		return "Reset"
	default:
		return "Unknown"
	}
}

type Message struct {
	Type    MessageType
	PC      uint16 // Address of the instruction that emitted the message.
	Cycle   uint64
	Message string
}

func NewMessage(mt MessageType, pc uint16, cycle uint64, msg string) Message {
	return Message{
		Type:    mt,
		PC:      pc,
		Cycle:   cycle,
		Message: msg,
	}
}

func (m Message) String() string {
	return f("[%s] 0x%03x: %s", m.Type, m.PC, m.Message)
}
