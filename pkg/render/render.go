// Package render maps recoded messages onto the message-box contract used by
// front ends: which box to draw, which icon, and whether to reserve icon padding.
package render

import (
	"strings"

	"github.com/Goden-Gun/errdisplay/pkg/classify"
	"github.com/Goden-Gun/errdisplay/pkg/codes"
)

// MessageID is the localization id every error box is formatted under.
const MessageID = "sites.addSite.error"

// RoleAlert is the ARIA role of an error box.
const RoleAlert = "alert"

// Box selects the message box styling.
type Box string

const (
	BoxWarning Box = "warning"
	BoxError   Box = "error"
)

// Props are the caller's display options.
type Props struct {
	ShowIcon  bool
	ClassName string
}

// DefaultProps shows the icon.
func DefaultProps() Props {
	return Props{ShowIcon: true}
}

// View is everything a front end needs to draw one error.
type View struct {
	Box         Box                       `json:"box"`
	Role        string                    `json:"role"`
	Icon        classify.Icon             `json:"icon,omitempty"`
	IconPadding bool                      `json:"icon_padding"`
	ClassName   string                    `json:"class_name,omitempty"`
	MessageID   string                    `json:"message_id"`
	Template    string                    `json:"template"`
	Values      map[string]classify.Value `json:"values"`
	Severity    codes.Severity            `json:"severity"`
	Code        string                    `json:"code,omitempty"`
}

// Present builds the view for rec. A nil rec renders nothing.
func Present(rec *classify.Recoded, props Props) *View {
	if rec == nil {
		return nil
	}
	v := &View{
		Box:         BoxError,
		Role:        RoleAlert,
		IconPadding: props.ShowIcon,
		ClassName:   props.ClassName,
		MessageID:   MessageID,
		Template:    rec.Template,
		Values:      rec.Values,
		Severity:    rec.Severity,
		Code:        rec.Code,
	}
	if rec.Severity.IsWarning() {
		v.Box = BoxWarning
	}
	if props.ShowIcon {
		v.Icon = classify.IconFor(rec.Severity)
	}
	return v
}

// Plain fills the template with its values for logs and terminals. Links
// render as their default label.
func Plain(v *View) string {
	if v == nil {
		return ""
	}
	pairs := make([]string, 0, 2*len(v.Values))
	for name, val := range v.Values {
		text := val.Text
		if val.Link != nil {
			text = val.Link.DefaultMessage
		}
		pairs = append(pairs, "{"+name+"}", text)
	}
	return strings.NewReplacer(pairs...).Replace(v.Template)
}
