package cryptox

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// Envelope is the transportable result of one encryption: the ciphertext
// with its tag and the nonce, each in standard base64.
type Envelope struct {
	Data string `json:"data"`
	IV   string `json:"iv"`
}

// Marshal returns the JSON form stored in a session slot.
func (e Envelope) Marshal() (string, error) {
	b, err := json.Marshal(e)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ParseEnvelope decodes the JSON form produced by Marshal.
func ParseEnvelope(s string) (Envelope, error) {
	var e Envelope
	if err := json.Unmarshal([]byte(s), &e); err != nil {
		return Envelope{}, fmt.Errorf("%w: %v", ErrMalformedEnvelope, err)
	}
	if e.Data == "" || e.IV == "" {
		return Envelope{}, fmt.Errorf("%w: missing data or iv", ErrMalformedEnvelope)
	}
	return e, nil
}

func (e Envelope) decode() (data, iv []byte, err error) {
	data, err = base64.StdEncoding.DecodeString(e.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: data: %v", ErrMalformedEnvelope, err)
	}
	iv, err = base64.StdEncoding.DecodeString(e.IV)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: iv: %v", ErrMalformedEnvelope, err)
	}
	return data, iv, nil
}
