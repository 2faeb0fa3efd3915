package rest

import (
	"encoding/json"
	"encoding/xml"
	"net/http"
	"strconv"
	"strings"
)

const (
	contentTypeJSON = "application/json"
	contentTypeXML  = "application/xml"
	contentTypeText = "text/plain; charset=utf-8"
)

// negotiate picks the output encoding. The format query parameter wins over
// the Accept header; JSON is the default.
func negotiate(r *http.Request) string {
	switch strings.ToLower(r.URL.Query().Get("format")) {
	case "xml":
		return contentTypeXML
	case "json":
		return contentTypeJSON
	}

	for _, part := range strings.Split(r.Header.Get("Accept"), ",") {
		mediaType, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		switch strings.ToLower(mediaType) {
		case contentTypeJSON:
			return contentTypeJSON
		case contentTypeXML, "text/xml":
			return contentTypeXML
		}
	}
	return contentTypeJSON
}

// respond writes data wrapped in a root element named root.
func (a *API) respond(w http.ResponseWriter, r *http.Request, statusCode int, root string, data any) {
	contentType := negotiate(r)
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(statusCode)

	var err error
	if contentType == contentTypeXML {
		enc := xml.NewEncoder(w)
		if _, err = w.Write([]byte(xml.Header)); err == nil {
			err = enc.EncodeElement(data, xml.StartElement{Name: xml.Name{Local: root}})
		}
	} else {
		err = json.NewEncoder(w).Encode(map[string]any{root: data})
	}
	if err != nil {
		a.logger.Error("Failed to encode response", "root", root, "error", err)
	}
}

func (a *API) respondText(w http.ResponseWriter, statusCode int, text string) {
	w.Header().Set("Content-Type", contentTypeText)
	w.Header().Set("Content-Length", strconv.Itoa(len(text)))
	w.WriteHeader(statusCode)
	w.Write([]byte(text))
}
