package classify

import (
	"sort"
	"strings"

	"github.com/Goden-Gun/errdisplay/pkg/codes"
)

// Placeholder tokens recognised inside message templates.
const (
	TokenSupportLink  = "[customer_support_link]"
	TokenErrorContext = "[error_context]"
	TokenInvalidParam = "[invalid_param]"
)

// Value names used in assembled templates.
const (
	ValueErrorMessage = "errorMessage"
	ValueContactLink  = "contactLink"
)

// Assembled templates handed to the localization layer.
const (
	TemplatePlain    = "{errorMessage}"
	TemplateWithLink = "{errorMessage}{contactLink}."
)

// Link is an interpolated anchor element.
type Link struct {
	Href           string `json:"href"`
	MessageID      string `json:"messageId"`
	DefaultMessage string `json:"defaultMessage"`
}

// DefaultSupportLink points users at the support mailbox.
var DefaultSupportLink = Link{
	Href:           "mailto:support@yoast.com",
	MessageID:      "contact.support.link",
	DefaultMessage: "please contact support",
}

// Value is either plain text or a link element.
type Value struct {
	Text string `json:"text,omitempty"`
	Link *Link  `json:"link,omitempty"`
}

// Text wraps s as a text value.
func Text(s string) Value { return Value{Text: s} }

// Recoded is the classifier output.
type Recoded struct {
	Code     string           `json:"code,omitempty"`
	Shape    Shape            `json:"shape"`
	Severity codes.Severity   `json:"severity"`
	Message  string           `json:"message"`
	Template string           `json:"template"`
	Values   map[string]Value `json:"values"`
}

// Classifier recodes errors against a lookup table. The zero value uses
// DefaultSupportLink.
type Classifier struct {
	SupportLink Link
}

// Classify recodes in with the default classifier.
func Classify(in Input, table *codes.Table) *Recoded {
	return Classifier{}.Classify(in, table)
}

// Classify resolves the template and severity for in. A nil input yields nil;
// every other input yields a message.
func (c Classifier) Classify(in Input, table *codes.Table) *Recoded {
	if in == nil {
		return nil
	}
	n := normalize(in)

	rec := &Recoded{Shape: n.shape}
	if n.validation {
		rec.Severity = codes.SeverityWarning
		rec.Message = n.message
	} else {
		entry := table.Resolve(n.code)
		rec.Code = n.code
		if _, ok := table.Lookup(n.code); !ok {
			rec.Code = codes.GeneralSupportError
		}
		rec.Severity = entry.Type
		rec.Message = entry.Message
	}

	rec.Template, rec.Values = c.substitute(rec.Message, n)
	return rec
}

func (c Classifier) substitute(text string, n normalized) (string, map[string]Value) {
	template := TemplatePlain
	values := make(map[string]Value, 2)

	if strings.Contains(text, TokenSupportLink) {
		text = strings.ReplaceAll(text, TokenSupportLink, "")
		link := c.supportLink()
		values[ValueContactLink] = Value{Link: &link}
		template = TemplateWithLink
	}
	if strings.Contains(text, TokenErrorContext) && n.hasContext {
		text = strings.ReplaceAll(text, TokenErrorContext, strings.ToLower(n.context))
	}
	if strings.Contains(text, TokenInvalidParam) && n.params != nil {
		text = strings.ReplaceAll(text, TokenInvalidParam, strings.Join(paramKeys(n.params), ","))
	}

	values[ValueErrorMessage] = Text(text)
	return template, values
}

func (c Classifier) supportLink() Link {
	if c.SupportLink == (Link{}) {
		return DefaultSupportLink
	}
	return c.SupportLink
}

// paramKeys returns keys sorted so output does not depend on map order.
func paramKeys(params map[string]any) []string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
