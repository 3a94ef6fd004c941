package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/bnema/feedsync/internal/domain"
)

// DecodeResponse classifies resp by status and decodes a 2xx JSON body into
// out. A nil out only checks the status.
func DecodeResponse(resp *domain.Response, out any) error {
	if resp == nil {
		return fmt.Errorf("empty response: %w", domain.ErrServerFailure)
	}
	if err := domain.ErrorForStatus(resp.StatusCode, resp.Body); err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(resp.Body)) == 0 {
		return nil
	}

	decoder := json.NewDecoder(bytes.NewReader(resp.Body))
	decoder.UseNumber()
	if err := decoder.Decode(out); err != nil {
		return &domain.RequestError{
			Kind:       domain.ErrorKindServer,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("decode response: %w", err),
		}
	}

	return nil
}

// idString renders a JSON id that may be a number or a string.
func idString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func int64Value(value any) int64 {
	switch v := value.(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		if f, err := v.Float64(); err == nil {
			return int64(f)
		}
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

func boolValue(value any) bool {
	b, ok := value.(bool)
	return ok && b
}
