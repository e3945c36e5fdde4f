package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"moneymanager/internal/core"
	"moneymanager/internal/services"
)

const maxBodyBytes = 1 << 20

// RequestBodyParser reads parameters from a JSON or form-encoded body, falling
// back to the query string.
type RequestBodyParser struct {
	body     []byte
	query    url.Values
	jsonData map[string]any
	formData url.Values
	parsed   bool
	err      error
}

// NewRequestBodyParser reads the body once and stores it for Parse.
func NewRequestBodyParser(w http.ResponseWriter, r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{query: r.URL.Query()}
	if r.Body != nil {
		p.body, p.err = io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	}
	return p
}

func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	body := bytes.TrimSpace(p.body)
	if len(body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if body[0] == '{' {
		dec := json.NewDecoder(bytes.NewReader(body))
		dec.UseNumber()
		p.jsonData = make(map[string]any)
		if err := dec.Decode(&p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(body))
	return p.err
}

// Get returns the body value for key, or the query value when the body has none.
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
	}
	if p.formData != nil {
		if vals, ok := p.formData[key]; ok && len(vals) > 0 {
			return sanitizeInput(vals[0])
		}
	}
	return sanitizeInput(p.query.Get(key))
}

func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// transactionRequest is the wire form of a transaction create or update.
// Unknown fields such as id or createdAt are ignored. Category and
// description are pointers so an empty string stays distinct from absent.
type transactionRequest struct {
	Type            string          `json:"type"`
	Amount          json.RawMessage `json:"amount"`
	Category        *string         `json:"category"`
	Division        string          `json:"division"`
	Description     *string         `json:"description"`
	TransactionDate string          `json:"transactionDate"`
	FromAccount     *string         `json:"fromAccount"`
	ToAccount       *string         `json:"toAccount"`
}

var errMalformedBody = errors.New("request body must be a JSON object")

// decodeTransactionInput parses and validates a transaction body. Every
// field problem is reported in one *core.ValidationError.
func decodeTransactionInput(w http.ResponseWriter, r *http.Request) (core.TransactionInput, error) {
	var req transactionRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		return core.TransactionInput{}, fieldError("body", errMalformedBody.Error())
	}

	verr := core.NewValidationError()
	txType, _ := core.ParseTransactionType(req.Type)
	division, _ := core.ParseDivision(req.Division)
	in := core.TransactionInput{
		Type:        txType,
		Category:    deref(req.Category),
		Division:    division,
		Description: deref(req.Description),
		FromAccount: deref(req.FromAccount),
		ToAccount:   deref(req.ToAccount),
	}

	if req.Category == nil {
		verr.Add("category", "is required")
	}
	if req.Description == nil {
		verr.Add("description", "is required")
	}

	if raw := bytes.TrimSpace(req.Amount); len(raw) > 0 && !bytes.Equal(raw, []byte("null")) {
		if err := json.Unmarshal(raw, &in.Amount); err != nil {
			verr.Add("amount", amountMessage(err))
		}
	}

	if s := strings.TrimSpace(req.TransactionDate); s != "" {
		t, err := core.ParseDateTime(s)
		if err != nil {
			verr.Add("transactionDate", "must be an ISO 8601 date-time")
		}
		in.TransactionDate = t
	}

	in = in.Normalize()
	merge(verr, in.Validate())
	return in, verr.OrNil()
}

func amountMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrAmountPrecision):
		return "must have at most two fractional digits"
	case errors.Is(err, core.ErrAmountRange):
		return "is out of range"
	default:
		return "must be a decimal number"
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return sanitizeInput(*s)
}

// parseDateRange reads startDate and endDate. When required is false and
// both are absent it returns nil. Supplying only one is a validation error.
func parseDateRange(q url.Values, required bool) (*services.DateRange, error) {
	startRaw := strings.TrimSpace(q.Get("startDate"))
	endRaw := strings.TrimSpace(q.Get("endDate"))
	if !required && startRaw == "" && endRaw == "" {
		return nil, nil
	}

	verr := core.NewValidationError()
	var r services.DateRange
	var err error
	if startRaw == "" {
		verr.Add("startDate", "is required")
	} else if r.Start, err = core.ParseDateTime(startRaw); err != nil {
		verr.Add("startDate", "must be an ISO 8601 date-time")
	}
	if endRaw == "" {
		verr.Add("endDate", "is required")
	} else if r.End, err = core.ParseDateTime(endRaw); err != nil {
		verr.Add("endDate", "must be an ISO 8601 date-time")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}
	return &r, nil
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fieldError("id", "must be a positive integer")
	}
	return id, nil
}
