// Package qr implements the entry-pass authorization codec. A minted token
// is a self-contained claims payload: decoding needs no lookup against the
// issuer. Business rules (request state, visit window) are deliberately not
// enforced here; that lives in the verification service so the codec can be
// tested on its own.
package qr

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
)

var ErrDecode = errors.New("malformed qr payload")

const (
	// imageSize is the rendered PNG edge length in pixels
	imageSize = 256

	dateLayout = "2006-01-02"
)

// Claims is the payload embedded in an entry pass
type Claims struct {
	RequestID   uint   `json:"request_id"`
	VisitorName string `json:"visitor_name"`
	VisitDate   string `json:"visit_date"` // YYYY-MM-DD
	Nonce       string `json:"nonce"`
	ApprovedBy  string `json:"approved_by"`
	ApprovedAt  string `json:"approved_at"` // RFC3339
}

// VisitDateTime parses the embedded visit date
func (c *Claims) VisitDateTime() (time.Time, error) {
	return time.ParseInLocation(dateLayout, c.VisitDate, time.Local)
}

// Token is a minted entry pass: the opaque payload plus its scannable
// rendering. Only the payload is meaningful to verifiers; the image is a
// presentation convenience for emails and dashboards.
type Token struct {
	Payload string
	Image   string // PNG data URL
}

// Mint produces an entry pass for an approved request. The nonce is a
// freshly generated 128-bit random value, so payloads are unique even for
// identical visit details.
func Mint(requestID uint, visitorName string, visitDate time.Time, approverName string, approvedAt time.Time) (*Token, error) {
	claims := Claims{
		RequestID:   requestID,
		VisitorName: visitorName,
		VisitDate:   visitDate.Format(dateLayout),
		Nonce:       uuid.New().String(),
		ApprovedBy:  approverName,
		ApprovedAt:  approvedAt.UTC().Format(time.RFC3339),
	}

	raw, err := json.Marshal(claims)
	if err != nil {
		return nil, err
	}

	payload := base64.StdEncoding.EncodeToString(raw)

	png, err := qrcode.Encode(payload, qrcode.Medium, imageSize)
	if err != nil {
		return nil, err
	}

	return &Token{
		Payload: payload,
		Image:   "data:image/png;base64," + base64.StdEncoding.EncodeToString(png),
	}, nil
}

// Decode parses a presented payload back into claims. Fails closed: any
// encoding or shape problem yields ErrDecode, never a panic or a partially
// populated claims value.
func Decode(payload string) (*Claims, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, ErrDecode
	}

	var claims Claims
	if err := json.Unmarshal(raw, &claims); err != nil {
		return nil, ErrDecode
	}

	if claims.RequestID == 0 || claims.Nonce == "" || claims.VisitDate == "" {
		return nil, ErrDecode
	}
	if _, err := claims.VisitDateTime(); err != nil {
		return nil, ErrDecode
	}

	return &claims, nil
}
