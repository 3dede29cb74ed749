package classify

import "github.com/Goden-Gun/errdisplay/pkg/codes"

// Icon identifies the glyph shown beside a message.
type Icon string

const (
	IconWarning Icon = "exclamation-triangle"
	IconError   Icon = "exclamation-circle"
)

// IconFor picks the triangle for warnings and the circle for everything else.
func IconFor(severity codes.Severity) Icon {
	if severity.IsWarning() {
		return IconWarning
	}
	return IconError
}
