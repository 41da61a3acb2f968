package resolve

import (
	"bytes"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

// urlVars is the template context available to an Origin's url_list entries.
type urlVars struct {
	App    string
	Stream string
}

// RenderURL expands a url_list entry against app and stream. An entry with
// no "{{" is left untouched except for the plain "/stream" suffix every
// Origin URL gets (§4.6 step 2); an entry containing a template is rendered
// with the Sprig function set and is responsible for placing the stream
// name itself.
func RenderURL(base, appName, streamName string) (string, error) {
	if !strings.Contains(base, "{{") {
		return strings.TrimSuffix(base, "/") + "/" + strings.TrimPrefix(streamName, "/"), nil
	}

	tmpl, err := template.New("origin-url").Funcs(sprig.TxtFuncMap()).Option("missingkey=error").Parse(base)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, urlVars{App: appName, Stream: streamName}); err != nil {
		return "", err
	}
	return buf.String(), nil
}
