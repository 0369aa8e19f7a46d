package stegcodec

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

const (
	// PDFMediaType is the media type of every encoded PDF artifact.
	PDFMediaType = "application/pdf"

	// PDFMarker prefixes the Subject field of a carrying document
	PDFMarker = "STEGAPP_HIDDEN:"

	pdfSubjectKey = "Subject"
)

func init() {
	// Keep pdfcpu from creating a config directory under the user's home.
	api.DisableConfigDir()
}

// PDFAdapter stores the payload, base64 wrapped, in the document
// information dictionary's Subject entry. It does not use the bit framer.
type PDFAdapter struct{}

func (PDFAdapter) Kind() CarrierKind { return CarrierPDF }

func (PDFAdapter) MediaType() string { return PDFMediaType }

// Capacity is unbounded; it still parses data so that a broken document
// is reported.
func (a PDFAdapter) Capacity(data []byte) (int, error) {
	if _, err := readPDF(data); err != nil {
		return 0, err
	}
	return UnboundedCapacity, nil
}

func (a PDFAdapter) Embed(data []byte, payload string) ([]byte, error) {
	if _, err := codeUnits(payload); err != nil {
		return nil, err
	}
	ctx, err := readPDF(data)
	if err != nil {
		return nil, err
	}
	return writeSubject(data, ctx, PDFMarker+base64.StdEncoding.EncodeToString([]byte(payload)))
}

func (a PDFAdapter) Extract(data []byte) (string, error) {
	ctx, err := readPDF(data)
	if err != nil {
		return "", err
	}
	return extractSubject(ctx)
}

// Tamper flips one bit of the hidden payload and re-wraps it, which
// changes exactly one base64 character of the Subject field.
func (a PDFAdapter) Tamper(data []byte) ([]byte, error) {
	ctx, err := readPDF(data)
	if err != nil {
		return nil, err
	}
	payload, err := extractSubject(ctx)
	if err != nil {
		return nil, err
	}
	if payload == "" {
		return nil, newDetectionError(CarrierPDF, ErrNoHiddenData, "hidden payload is empty")
	}
	flipped := flipUnitBit(payload, tamperTarget(payload))
	return writeSubject(data, ctx, PDFMarker+base64.StdEncoding.EncodeToString([]byte(flipped)))
}

func pdfConfiguration() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

func readPDF(data []byte) (*model.Context, error) {
	if data == nil {
		return nil, ErrNilBuffer
	}
	ctx, err := api.ReadContext(bytes.NewReader(data), pdfConfiguration())
	if err != nil {
		return nil, newDetectionError(CarrierPDF, ErrInvalidContainer, err.Error())
	}
	if err := api.ValidateContext(ctx); err != nil {
		return nil, newDetectionError(CarrierPDF, ErrInvalidContainer, err.Error())
	}
	return ctx, nil
}

// infoDict returns the document information dictionary and its object
// number, creating an empty one when the document has none and create
// is set.
func infoDict(ctx *model.Context, create bool) (types.Dict, int, error) {
	if ctx.Info == nil {
		if !create {
			return nil, 0, nil
		}
		d := types.NewDict()
		ir, err := ctx.IndRefForNewObject(d)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to create info dict: %w", err)
		}
		ctx.Info = ir
		return d, ir.ObjectNumber.Value(), nil
	}
	d, err := ctx.DereferenceDict(*ctx.Info)
	if err != nil {
		return nil, 0, newDetectionError(CarrierPDF, ErrInvalidContainer, err.Error())
	}
	if d == nil && create {
		return nil, 0, newDetectionError(CarrierPDF, ErrInvalidContainer, "info entry is not a dictionary")
	}
	return d, ctx.Info.ObjectNumber.Value(), nil
}

// writeSubject sets the Subject entry and appends it to data as an
// incremental update. The original bytes, and every other info entry,
// are left exactly as they were.
func writeSubject(data []byte, ctx *model.Context, subject string) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(data) + len(subject) + 512)
	buf.Write(data)
	if n := len(data); n > 0 && data[n-1] != '\n' && data[n-1] != '\r' {
		buf.WriteByte('\n')
	}

	ctx.Write.Increment = true
	ctx.Write.Offset = int64(buf.Len())

	d, objNr, err := infoDict(ctx, true)
	if err != nil {
		return nil, err
	}
	d.Update(pdfSubjectKey, types.StringLiteral(subject))
	ctx.Write.IncrementWithObjNr(objNr)

	if err := api.WriteIncrement(ctx, &buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf increment: %w", err)
	}
	return buf.Bytes(), nil
}

func readSubject(ctx *model.Context) (string, bool, error) {
	d, _, err := infoDict(ctx, false)
	if err != nil || d == nil {
		return "", false, err
	}
	o, found := d.Find(pdfSubjectKey)
	if !found {
		return "", false, nil
	}
	o, err = ctx.Dereference(o)
	if err != nil {
		return "", false, newDetectionError(CarrierPDF, ErrInvalidContainer, err.Error())
	}

	var s string
	switch v := o.(type) {
	case types.StringLiteral:
		s, err = types.StringLiteralToString(v)
	case types.HexLiteral:
		s, err = types.HexLiteralToString(v)
	default:
		return "", false, nil
	}
	if err != nil {
		return "", false, newCorruptionError(CarrierPDF, ErrMalformedEncoding, err.Error())
	}
	return s, true, nil
}

func extractSubject(ctx *model.Context) (string, error) {
	subject, found, err := readSubject(ctx)
	if err != nil {
		return "", err
	}
	if !found {
		return "", newDetectionError(CarrierPDF, ErrNoHiddenData, "no subject field")
	}
	encoded, ok := strings.CutPrefix(subject, PDFMarker)
	if !ok {
		return "", newDetectionError(CarrierPDF, ErrNoHiddenData, "subject field carries no marker")
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", newCorruptionError(CarrierPDF, ErrMalformedEncoding, err.Error())
	}
	if _, err := codeUnits(string(raw)); err != nil {
		return "", newCorruptionError(CarrierPDF, ErrMalformedEncoding, "payload is not valid UTF-8")
	}
	return string(raw), nil
}
