package apiclient

import (
	"io"
	"net/http"

	"github.com/go-resty/resty/v2"

	"github.com/framevault/framevault-server/internal/domain/upload"
)

// progressReader reports bytes handed to the transport.
type progressReader struct {
	r          io.Reader
	total      int64
	sent       int64
	onProgress upload.TransferProgress
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 {
		p.sent += int64(n)
		if p.onProgress != nil {
			p.onProgress(p.sent, p.total)
		}
	}
	return n, err
}

func (p *progressReader) Close() error {
	if c, ok := p.r.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// fixedLength gives streamed bodies a Content-Length; presigned PUTs reject chunked encoding.
func fixedLength(_ *resty.Client, req *http.Request) error {
	if pr, ok := req.Body.(*progressReader); ok && pr.total > 0 {
		req.ContentLength = pr.total
	}
	return nil
}
