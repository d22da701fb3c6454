package xapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
)

// Body is a request payload. The implementations are JSONBody, FormBody
// and MultipartBody; a nil Body sends no payload.
type Body interface {
	// encode returns the payload and its Content-Type.
	encode() (io.Reader, string, error)
	// decorate adds headers the destination endpoint requires.
	decorate(h http.Header)
}

// JSONBody sends Value encoded as JSON.
type JSONBody struct {
	Value any
}

func (b JSONBody) encode() (io.Reader, string, error) {
	buf, err := json.Marshal(b.Value)
	if err != nil {
		return nil, "", &Error{Kind: KindJSON, Msg: "failed to encode request body", Err: err}
	}
	return bytes.NewReader(buf), contentTypeJSON, nil
}

func (JSONBody) decorate(http.Header) {}

// FormBody sends URL-encoded values. The destination endpoints also want a
// Referer naming the acting user's profile and session-style activity
// headers.
type FormBody struct {
	Username string
	Values   url.Values
}

func (b FormBody) encode() (io.Reader, string, error) {
	return strings.NewReader(b.Values.Encode()), contentTypeFormEncoded, nil
}

func (b FormBody) decorate(h http.Header) {
	h.Set("Referer", WebURL+"/"+b.Username)
	h.Set(headerActiveUser, "yes")
	h.Set(headerAuthType, authTypeSession)
	h.Set(headerClientLanguage, "en")
}

// FormField is a plain multipart field.
type FormField struct {
	Name  string
	Value string
}

// FilePart is a binary multipart part, e.g. uploaded media.
type FilePart struct {
	FieldName   string
	FileName    string
	ContentType string
	Data        []byte
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// MultipartBody sends fields and binary parts as multipart/form-data.
type MultipartBody struct {
	Fields []FormField
	Files  []FilePart
}

func (b MultipartBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range b.Fields {
		if err := w.WriteField(f.Name, f.Value); err != nil {
			return nil, "", &Error{Kind: KindIO, Msg: "failed to encode multipart field", Err: err}
		}
	}
	for _, f := range b.Files {
		hdr := make(textproto.MIMEHeader)
		hdr.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
			quoteEscaper.Replace(f.FieldName), quoteEscaper.Replace(f.FileName)))
		ct := f.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		hdr.Set("Content-Type", ct)
		part, err := w.CreatePart(hdr)
		if err != nil {
			return nil, "", &Error{Kind: KindIO, Msg: "failed to encode multipart file", Err: err}
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", &Error{Kind: KindIO, Msg: "failed to encode multipart file", Err: err}
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", &Error{Kind: KindIO, Msg: "failed to finish multipart body", Err: err}
	}
	return &buf, w.FormDataContentType(), nil
}

func (MultipartBody) decorate(http.Header) {}
