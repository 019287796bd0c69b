package domain

import (
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
)

// errNotObject is returned when a document's top level value is not an object.
var errNotObject = errors.New("expected JSON object")

// Encode writes r as {"name":...,"email":...}.
func (r RegistrationRequest) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("name")
	e.Str(r.Name)
	e.FieldStart("email")
	e.Str(r.Email)
	e.ObjEnd()
}

// Decode reads a registration object. Unknown keys are skipped; a key that
// appears twice keeps its last value. A name or email that is null or not a
// string decodes as the empty string, which validation treats as missing.
func (r *RegistrationRequest) Decode(d *jx.Decoder) error {
	if d.Next() != jx.Object {
		return errNotObject
	}

	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "name":
			r.Name, err = decodeLooseString(d)
		case "email":
			r.Email, err = decodeLooseString(d)
		default:
			err = d.Skip()
		}
		if err != nil {
			return errors.Wrapf(err, "decode %q", key)
		}

		return nil
	})
}

// Encode writes r as {"message":...,"processed_data":...}.
func (r RegistrationResponse) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("message")
	e.Str(r.Message)
	e.FieldStart("processed_data")
	e.Str(r.ProcessedData)
	e.ObjEnd()
}

func (r *RegistrationResponse) Decode(d *jx.Decoder) error {
	if d.Next() != jx.Object {
		return errNotObject
	}

	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "message":
			r.Message, err = decodeLooseString(d)
		case "processed_data":
			r.ProcessedData, err = decodeLooseString(d)
		default:
			err = d.Skip()
		}

		return errors.Wrapf(err, "decode %q", key)
	})
}

// Encode writes r as {"error":...}.
func (r ErrorResponse) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("error")
	e.Str(r.Error)
	e.ObjEnd()
}

func (r *ErrorResponse) Decode(d *jx.Decoder) error {
	if d.Next() != jx.Object {
		return errNotObject
	}

	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) != "error" {
			return d.Skip()
		}
		var err error
		r.Error, err = decodeLooseString(d)

		return errors.Wrap(err, "decode \"error\"")
	})
}

// Encode writes r as {"status":...}.
func (r HealthStatus) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("status")
	e.Str(r.Status)
	e.ObjEnd()
}

func (r *HealthStatus) Decode(d *jx.Decoder) error {
	if d.Next() != jx.Object {
		return errNotObject
	}

	return d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		if string(key) != "status" {
			return d.Skip()
		}
		var err error
		r.Status, err = decodeLooseString(d)

		return errors.Wrap(err, "decode \"status\"")
	})
}

// Decoder is implemented by every body type in this package.
type Decoder interface {
	Decode(d *jx.Decoder) error
}

// Encoder is implemented by every body type in this package.
type Encoder interface {
	Encode(e *jx.Encoder)
}

// Unmarshal decodes a complete JSON document into v. Trailing data after the
// top level value is an error.
func Unmarshal(data []byte, v Decoder) error {
	if !jx.Valid(data) {
		return errors.New("invalid JSON document")
	}

	return v.Decode(jx.DecodeBytes(data))
}

// Marshal encodes v into a fresh byte slice.
func Marshal(v Encoder) []byte {
	var e jx.Encoder
	v.Encode(&e)

	return e.Bytes()
}

func decodeLooseString(d *jx.Decoder) (string, error) {
	if d.Next() == jx.String {
		return d.Str()
	}

	return "", d.Skip()
}
