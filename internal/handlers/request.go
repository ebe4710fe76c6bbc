package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"cscportal/api/internal/models"
	"cscportal/api/internal/service"
)

const multipartOverhead = 1 << 20

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

// bindJSON decodes an optional JSON body. An empty body leaves dst untouched.
func bindJSON(c *gin.Context, dst any) error {
	if c.Request.Body == nil || c.Request.ContentLength == 0 {
		return nil
	}
	if err := json.NewDecoder(c.Request.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return invalid("body", "must be a JSON object")
	}
	return nil
}

// readFields collects scalar fields from a JSON object or a form body. JSON
// numbers and booleans become their text form and arrays are re-encoded as
// JSON text, so both encodings reach the services the same way.
func readFields(c *gin.Context) (map[string]string, error) {
	out := make(map[string]string)

	switch ct := c.ContentType(); {
	case strings.HasPrefix(ct, "multipart/form-data"):
		form, err := c.MultipartForm()
		if err != nil {
			return nil, invalid("body", "malformed multipart form")
		}
		collectValues(out, form.Value)
	case ct == "application/x-www-form-urlencoded":
		if err := c.Request.ParseForm(); err != nil {
			return nil, invalid("body", "malformed form")
		}
		collectValues(out, c.Request.PostForm)
	default:
		raw := map[string]any{}
		if c.Request.Body != nil && c.Request.ContentLength != 0 {
			dec := json.NewDecoder(c.Request.Body)
			dec.UseNumber()
			if err := dec.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
				return nil, invalid("body", "must be a JSON object")
			}
		}
		for k, v := range raw {
			switch val := v.(type) {
			case nil:
			case string:
				out[k] = val
			case json.Number:
				out[k] = val.String()
			case bool:
				out[k] = strconv.FormatBool(val)
			default:
				b, err := json.Marshal(val)
				if err != nil {
					return nil, invalid(k, "unsupported value")
				}
				out[k] = string(b)
			}
		}
	}
	return out, nil
}

func collectValues(out map[string]string, values map[string][]string) {
	for k, vals := range values {
		switch len(vals) {
		case 0:
		case 1:
			out[k] = vals[0]
		default:
			b, _ := json.Marshal(vals)
			out[k] = string(b)
		}
	}
}

// field returns the first present key, or nil.
func field(fields map[string]string, keys ...string) *string {
	for _, k := range keys {
		if v, ok := fields[k]; ok {
			return &v
		}
	}
	return nil
}

// splitList accepts a JSON array or a comma separated list.
func splitList(raw string) []string {
	raw = strings.TrimSpace(raw)
	var items []string
	if strings.HasPrefix(raw, "[") && json.Unmarshal([]byte(raw), &items) == nil {
		return items
	}
	items = []string{}
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// formFile reads an optional single file part. It returns nil when the
// request is not multipart or the part is absent.
func (h HandlerSet) formFile(c *gin.Context, name string) (*service.File, error) {
	if !isMultipart(c) {
		return nil, nil
	}
	fh, err := c.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, invalid(name, "malformed file part")
	}
	f, err := h.readPart(fh)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// readPart loads at most one byte past the upload limit so the services can
// reject oversize files by length.
func (h HandlerSet) readPart(fh *multipart.FileHeader) (service.File, error) {
	src, err := fh.Open()
	if err != nil {
		return service.File{}, fmt.Errorf("open part %s: %w", fh.Filename, err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, h.cfg.HTTP.MaxUploadBytes+1))
	if err != nil {
		return service.File{}, fmt.Errorf("read part %s: %w", fh.Filename, err)
	}
	return service.File{
		Name:     fh.Filename,
		Declared: fh.Header.Get("Content-Type"),
		Data:     data,
	}, nil
}

func pageRequest(c *gin.Context) models.PageRequest {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	return models.PageRequest{Page: page, Limit: limit}
}

// limitBody caps the request size for multipart endpoints.
func (h HandlerSet) limitBody(c *gin.Context, files int) {
	if files < 1 {
		files = 1
	}
	limit := h.cfg.HTTP.MaxUploadBytes*int64(files) + multipartOverhead
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
}
