package devserver

import (
	"bytes"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/andybalholm/brotli"
)

// injectHTML buffers HTML responses and adds the reload snippet.
func injectHTML(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		iw := &injectWriter{ResponseWriter: w}
		next.ServeHTTP(iw, r)
		iw.flush()
	})
}

type injectWriter struct {
	http.ResponseWriter
	status    int
	buffering bool
	decided   bool
	buf       bytes.Buffer
}

func (iw *injectWriter) WriteHeader(status int) {
	if iw.decided {
		return
	}
	iw.decided = true
	iw.status = status
	if status == http.StatusOK && isHTML(iw.Header().Get("Content-Type")) {
		iw.buffering = true
		iw.Header().Del("Content-Length")
		return
	}
	iw.ResponseWriter.WriteHeader(status)
}

func (iw *injectWriter) Write(p []byte) (int, error) {
	if !iw.decided {
		if iw.Header().Get("Content-Type") == "" {
			iw.Header().Set("Content-Type", http.DetectContentType(p))
		}
		iw.WriteHeader(http.StatusOK)
	}
	if iw.buffering {
		return iw.buf.Write(p)
	}
	return iw.ResponseWriter.Write(p)
}

func (iw *injectWriter) flush() {
	if !iw.buffering {
		return
	}
	page := Inject(iw.buf.Bytes())
	iw.Header().Set("Content-Length", strconv.Itoa(len(page)))
	iw.ResponseWriter.WriteHeader(iw.status)
	_, _ = iw.ResponseWriter.Write(page)
}

// compress encodes text responses with brotli or gzip as negotiated.
func compress(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cw := &compressWriter{ResponseWriter: w, r: r}
		defer cw.close()
		next.ServeHTTP(cw, r)
	})
}

type compressWriter struct {
	http.ResponseWriter
	r       *http.Request
	decided bool
	enc     io.WriteCloser
}

func (cw *compressWriter) WriteHeader(status int) {
	if cw.decided {
		return
	}
	cw.decided = true
	h := cw.Header()
	if status == http.StatusOK && h.Get("Content-Encoding") == "" && compressible(h.Get("Content-Type")) {
		enc := brotli.HTTPCompressor(cw.ResponseWriter, cw.r)
		if h.Get("Content-Encoding") != "" {
			h.Del("Content-Length")
			cw.enc = enc
		}
	}
	cw.ResponseWriter.WriteHeader(status)
}

func (cw *compressWriter) Write(p []byte) (int, error) {
	if !cw.decided {
		if cw.Header().Get("Content-Type") == "" {
			cw.Header().Set("Content-Type", http.DetectContentType(p))
		}
		cw.WriteHeader(http.StatusOK)
	}
	if cw.enc != nil {
		return cw.enc.Write(p)
	}
	return cw.ResponseWriter.Write(p)
}

func (cw *compressWriter) close() {
	if cw.enc != nil {
		_ = cw.enc.Close()
	}
}

func isHTML(contentType string) bool {
	mt, _, _ := mime.ParseMediaType(contentType)
	return mt == "text/html"
}

func compressible(contentType string) bool {
	mt, _, _ := mime.ParseMediaType(contentType)
	switch {
	case strings.HasPrefix(mt, "text/"):
		return true
	case mt == "application/javascript", mt == "application/json", mt == "image/svg+xml":
		return true
	}
	return false
}
