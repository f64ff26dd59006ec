package terminal

import (
	"strings"
)

// notificationKind classifies a control-mode line.
type notificationKind int

const (
	kindOther notificationKind = iota
	// kindOutput is "%output %<pane> <escaped data>".
	kindOutput
	// kindExit is "%exit [reason]", sent before tmux detaches the client.
	kindExit
)

// notification is one parsed control-mode line.
type notification struct {
	kind   notificationKind
	data   []byte
	reason string
}

// parseLine decodes a control-mode line. tmux may prefix the first line with
// a DCS sequence (\033P1000p), so the notification is located by its %.
func parseLine(line string) notification {
	line = strings.TrimRight(line, "\r")
	start := strings.IndexByte(line, '%')
	if start < 0 {
		return notification{}
	}
	name, rest, _ := strings.Cut(line[start+1:], " ")

	switch name {
	case "output":
		pane, payload, ok := strings.Cut(rest, " ")
		if !ok || !isPaneID(pane) {
			return notification{}
		}
		return notification{kind: kindOutput, data: unescape(payload)}
	case "exit":
		return notification{kind: kindExit, reason: rest}
	}
	return notification{}
}

// isPaneID matches "%<digits>".
func isPaneID(s string) bool {
	digits, ok := strings.CutPrefix(s, "%")
	if !ok || digits == "" {
		return false
	}
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return false
		}
	}
	return true
}

// unescape reverses tmux's output escaping: bytes below 0x20 and backslash
// arrive as \NNN octal, and a doubled backslash stands for one.
func unescape(s string) []byte {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			out = append(out, c)
			continue
		}
		if i+3 < len(s) && isOctal(s[i+1]) && isOctal(s[i+2]) && isOctal(s[i+3]) {
			out = append(out, (s[i+1]-'0')<<6|(s[i+2]-'0')<<3|(s[i+3]-'0'))
			i += 3
			continue
		}
		if i+1 < len(s) && s[i+1] == '\\' {
			i++
		}
		out = append(out, '\\')
	}
	return out
}

func isOctal(b byte) bool {
	return b >= '0' && b <= '7'
}
