// SPDX-License-Identifier: GPL-3.0-or-later

package mqwire

import "fmt"

// PCFHeader is the fixed 36-byte command/response header (MQCFH).
type PCFHeader struct {
	Type           int32
	StrucLength    int32
	Version        int32
	Command        int32
	MsgSeqNumber   int32
	Control        int32
	CompCode       int32
	Reason         int32
	ParameterCount int32
}

func (h *PCFHeader) Encode() []byte {
	w := NewWriter(CFHStrucLength)
	w.Int32(h.Type)
	w.Int32(h.StrucLength)
	w.Int32(h.Version)
	w.Int32(h.Command)
	w.Int32(h.MsgSeqNumber)
	w.Int32(h.Control)
	w.Int32(h.CompCode)
	w.Int32(h.Reason)
	w.Int32(h.ParameterCount)
	return w.Buf()
}

// DecodePCFHeader reads the header from the front of buf and returns it with
// the offset of the first parameter.
func DecodePCFHeader(buf []byte) (*PCFHeader, int, error) {
	if len(buf) < CFHStrucLength {
		return nil, 0, fmt.Errorf("mqwire: PCF message of %d bytes shorter than %d byte header", len(buf), CFHStrucLength)
	}
	r := NewReader(buf)
	var h PCFHeader
	for _, dst := range []*int32{
		&h.Type, &h.StrucLength, &h.Version, &h.Command,
		&h.MsgSeqNumber, &h.Control, &h.CompCode, &h.Reason, &h.ParameterCount,
	} {
		v, err := r.Int32()
		if err != nil {
			return nil, 0, err
		}
		*dst = v
	}
	if h.StrucLength != CFHStrucLength {
		return nil, 0, fmt.Errorf("mqwire: PCF header declares length %d, want %d", h.StrucLength, CFHStrucLength)
	}
	return &h, r.Offset(), nil
}

// PCFParameter is one typed parameter of a PCF message. Integer parameters
// carry Value; string parameters carry String.
type PCFParameter struct {
	Type      int32
	Parameter int32
	Value     int32
	String    string
}

// NewIntParameter builds an integer parameter (MQCFIN).
func NewIntParameter(parameter, value int32) PCFParameter {
	return PCFParameter{Type: CFTInteger, Parameter: parameter, Value: value}
}

// NewStringParameter builds a string parameter (MQCFST).
func NewStringParameter(parameter int32, value string) PCFParameter {
	return PCFParameter{Type: CFTString, Parameter: parameter, String: value}
}

// StrucLength reports the encoded byte length of the parameter. For string
// parameters this is exactly the 20-byte fixed header plus the string bytes;
// the declared and actual lengths must never drift apart or the receiver
// misparses every following parameter.
func (p *PCFParameter) StrucLength() int32 {
	switch p.Type {
	case CFTInteger:
		return CFINStrucLength
	case CFTString:
		return int32(CFSTStrucLengthFixed + len(p.String))
	default:
		return 0
	}
}

func (p *PCFParameter) Encode() []byte {
	switch p.Type {
	case CFTInteger:
		w := NewWriter(CFINStrucLength)
		w.Int32(CFTInteger)
		w.Int32(CFINStrucLength)
		w.Int32(p.Parameter)
		w.Int32(p.Value)
		return w.Buf()
	case CFTString:
		w := NewWriter(CFSTStrucLengthFixed + len(p.String))
		w.Int32(CFTString)
		w.Int32(p.StrucLength())
		w.Int32(p.Parameter)
		w.Int32(CCSIDefault)
		w.Int32(int32(len(p.String)))
		w.Raw([]byte(p.String))
		return w.Buf()
	default:
		return nil
	}
}

// PCFMessage is one complete PCF command or response.
type PCFMessage struct {
	Header     PCFHeader
	Parameters []PCFParameter
}

// EncodePCFCommand lays out a complete single-message PCF command: header
// first, then the parameters in order.
func EncodePCFCommand(command int32, params []PCFParameter) []byte {
	h := PCFHeader{
		Type:           CFTCommand,
		StrucLength:    CFHStrucLength,
		Version:        CFHVersion1,
		Command:        command,
		MsgSeqNumber:   1,
		Control:        CFCLast,
		ParameterCount: int32(len(params)),
	}
	w := NewWriter(CFHStrucLength)
	w.Raw(h.Encode())
	for i := range params {
		w.Raw(params[i].Encode())
	}
	return w.Buf()
}

// EncodePCFResponse lays out one response message of a possibly paginated
// reply.
func EncodePCFResponse(command, seq, control, compCode, reason int32, params []PCFParameter) []byte {
	h := PCFHeader{
		Type:           CFTResponse,
		StrucLength:    CFHStrucLength,
		Version:        CFHVersion1,
		Command:        command,
		MsgSeqNumber:   seq,
		Control:        control,
		CompCode:       compCode,
		Reason:         reason,
		ParameterCount: int32(len(params)),
	}
	w := NewWriter(CFHStrucLength)
	w.Raw(h.Encode())
	for i := range params {
		w.Raw(params[i].Encode())
	}
	return w.Buf()
}

// DecodePCFMessage parses one PCF message: the fixed header, then exactly
// ParameterCount parameters. A parameter declaring a non-positive length is
// a hard parse error, never a silent stop: a corrupt response must surface
// rather than truncate legitimate results.
func DecodePCFMessage(buf []byte) (*PCFMessage, error) {
	h, offset, err := DecodePCFHeader(buf)
	if err != nil {
		return nil, err
	}
	msg := &PCFMessage{Header: *h}
	r := NewReader(buf)
	if err := r.Seek(offset); err != nil {
		return nil, err
	}

	for i := int32(0); i < h.ParameterCount; i++ {
		start := r.Offset()
		ptype, err := r.Int32()
		if err != nil {
			return nil, fmt.Errorf("mqwire: PCF parameter %d: %w", i, err)
		}
		plen, err := r.Int32()
		if err != nil {
			return nil, fmt.Errorf("mqwire: PCF parameter %d: %w", i, err)
		}
		if plen <= 0 {
			return nil, fmt.Errorf("mqwire: PCF parameter %d at offset %d declares length %d", i, start, plen)
		}
		if start+int(plen) > len(buf) {
			return nil, fmt.Errorf("mqwire: PCF parameter %d at offset %d declares length %d beyond buffer of %d bytes", i, start, plen, len(buf))
		}

		var p PCFParameter
		p.Type = ptype
		switch ptype {
		case CFTInteger:
			if plen != CFINStrucLength {
				return nil, fmt.Errorf("mqwire: PCF integer parameter %d declares length %d, want %d", i, plen, CFINStrucLength)
			}
			if p.Parameter, err = r.Int32(); err != nil {
				return nil, err
			}
			if p.Value, err = r.Int32(); err != nil {
				return nil, err
			}
		case CFTString:
			if plen < CFSTStrucLengthFixed {
				return nil, fmt.Errorf("mqwire: PCF string parameter %d declares length %d shorter than %d byte header", i, plen, CFSTStrucLengthFixed)
			}
			if p.Parameter, err = r.Int32(); err != nil {
				return nil, err
			}
			if _, err = r.Int32(); err != nil { // coded character set
				return nil, err
			}
			strLen, err := r.Int32()
			if err != nil {
				return nil, err
			}
			if strLen < 0 || int(plen) != CFSTStrucLengthFixed+int(strLen) {
				return nil, fmt.Errorf("mqwire: PCF string parameter %d declares struct length %d for string length %d", i, plen, strLen)
			}
			raw, err := r.Bytes(int(strLen))
			if err != nil {
				return nil, err
			}
			p.String = DecodeFixedString(raw)
		default:
			// Unknown parameter types are skipped by declared length so the
			// walk stays aligned.
			if err := r.Seek(start + int(plen)); err != nil {
				return nil, err
			}
		}
		msg.Parameters = append(msg.Parameters, p)
	}
	return msg, nil
}

// IntParameter returns the value of the first integer parameter with the
// given id.
func (m *PCFMessage) IntParameter(parameter int32) (int32, bool) {
	for i := range m.Parameters {
		if m.Parameters[i].Type == CFTInteger && m.Parameters[i].Parameter == parameter {
			return m.Parameters[i].Value, true
		}
	}
	return 0, false
}

// StringParameter returns the value of the first string parameter with the
// given id.
func (m *PCFMessage) StringParameter(parameter int32) (string, bool) {
	for i := range m.Parameters {
		if m.Parameters[i].Type == CFTString && m.Parameters[i].Parameter == parameter {
			return m.Parameters[i].String, true
		}
	}
	return "", false
}
