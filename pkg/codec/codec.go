// Package codec turns a schedule's generating parameters into a short,
// URL-safe share token and back.
//
// Token layout, before unpadded URL-safe base64:
//
//	"HT" | version (1 byte) | record | xxh3 checksum (4 bytes, little-endian)
//
// The record uses protobuf wire format:
//
//	1: total duration in seconds (varint)
//	2: participant name (bytes, repeated, in order)
//	3: slot assignment (packed varints)
//	4: surprise flag (varint 0/1)
//
// The checksum covers magic, version and record, so a string that merely
// happens to be valid base64 is rejected instead of decoding into a
// nonsense schedule.
package codec

import (
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/zeebo/xxh3"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/daviddao/halftime/pkg/model"
)

// Version is the record layout written by Encode.
const Version byte = 1

const (
	fieldDuration   protowire.Number = 1
	fieldName       protowire.Number = 2
	fieldAssignment protowire.Number = 3
	fieldSurprise   protowire.Number = 4
)

var (
	magic    = []byte("HT")
	alphabet = base64.RawURLEncoding.Strict()
)

const (
	headerLen   = 3
	checksumLen = 4
	maxDuration = model.MaxDurationSeconds
)

// Encode validates p and returns its share token. Payloads that Decode
// would refuse are rejected with model.ErrInvalidConfiguration.
func Encode(p model.Payload) (string, error) {
	if err := model.ValidatePayload(p); err != nil {
		return "", fmt.Errorf("%w: %v", model.ErrInvalidConfiguration, err)
	}

	b := make([]byte, 0, 64)
	b = append(b, magic...)
	b = append(b, Version)

	b = protowire.AppendTag(b, fieldDuration, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(p.TotalDurationSeconds))

	for _, name := range p.ParticipantNames {
		b = protowire.AppendTag(b, fieldName, protowire.BytesType)
		b = protowire.AppendString(b, name)
	}

	var packed []byte
	for _, idx := range p.Assignment {
		packed = protowire.AppendVarint(packed, uint64(idx))
	}
	b = protowire.AppendTag(b, fieldAssignment, protowire.BytesType)
	b = protowire.AppendBytes(b, packed)

	b = protowire.AppendTag(b, fieldSurprise, protowire.VarintType)
	b = protowire.AppendVarint(b, protowire.EncodeBool(p.Surprise))

	b = binary.LittleEndian.AppendUint32(b, uint32(xxh3.Hash(b)))
	return alphabet.EncodeToString(b), nil
}

// Decode parses a share token. Every failure is reported as
// model.ErrMalformedToken; Decode never panics on arbitrary input.
func Decode(token string) (model.Payload, error) {
	p, err := decode(token)
	if err != nil {
		return model.Payload{}, fmt.Errorf("%w: %v", model.ErrMalformedToken, err)
	}
	return p, nil
}

func decode(token string) (model.Payload, error) {
	var p model.Payload
	if token == "" {
		return p, errors.New("empty token")
	}
	raw, err := alphabet.DecodeString(token)
	if err != nil {
		return p, fmt.Errorf("not base64url: %v", err)
	}
	if len(raw) < headerLen+checksumLen {
		return p, errors.New("too short")
	}
	if raw[0] != magic[0] || raw[1] != magic[1] {
		return p, errors.New("not a halftime token")
	}
	if raw[2] != Version {
		return p, fmt.Errorf("unsupported version %d", raw[2])
	}

	body, sum := raw[:len(raw)-checksumLen], raw[len(raw)-checksumLen:]
	if binary.LittleEndian.Uint32(sum) != uint32(xxh3.Hash(body)) {
		return p, errors.New("checksum mismatch")
	}

	seen := map[protowire.Number]bool{}
	rec := body[headerLen:]
	for len(rec) > 0 {
		num, typ, n := protowire.ConsumeTag(rec)
		if n < 0 {
			return p, fmt.Errorf("bad tag: %v", protowire.ParseError(n))
		}
		rec = rec[n:]
		if num != fieldName && seen[num] {
			return p, fmt.Errorf("field %d repeated", num)
		}
		seen[num] = true

		switch {
		case num == fieldDuration && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(rec)
			if n < 0 {
				return p, fmt.Errorf("duration: %v", protowire.ParseError(n))
			}
			if v == 0 || v > maxDuration {
				return p, fmt.Errorf("duration %d out of range", v)
			}
			p.TotalDurationSeconds = int(v)
			rec = rec[n:]

		case num == fieldName && typ == protowire.BytesType:
			v, n := protowire.ConsumeString(rec)
			if n < 0 {
				return p, fmt.Errorf("name: %v", protowire.ParseError(n))
			}
			p.ParticipantNames = append(p.ParticipantNames, v)
			rec = rec[n:]

		case num == fieldAssignment && typ == protowire.BytesType:
			packed, n := protowire.ConsumeBytes(rec)
			if n < 0 {
				return p, fmt.Errorf("assignment: %v", protowire.ParseError(n))
			}
			a, err := unpack(packed)
			if err != nil {
				return p, err
			}
			p.Assignment = a
			rec = rec[n:]

		case num == fieldSurprise && typ == protowire.VarintType:
			v, n := protowire.ConsumeVarint(rec)
			if n < 0 {
				return p, fmt.Errorf("surprise: %v", protowire.ParseError(n))
			}
			if v > 1 {
				return p, fmt.Errorf("surprise flag %d is not a bool", v)
			}
			p.Surprise = protowire.DecodeBool(v)
			rec = rec[n:]

		default:
			return p, fmt.Errorf("unexpected field %d (wire type %d)", num, typ)
		}
	}

	for _, f := range []protowire.Number{fieldDuration, fieldAssignment, fieldSurprise} {
		if !seen[f] {
			return p, fmt.Errorf("missing field %d", f)
		}
	}
	if err := model.ValidatePayload(p); err != nil {
		return model.Payload{}, err
	}
	return p, nil
}

func unpack(packed []byte) (model.SlotAssignment, error) {
	var out model.SlotAssignment
	for len(packed) > 0 {
		v, n := protowire.ConsumeVarint(packed)
		if n < 0 {
			return nil, fmt.Errorf("assignment entry: %v", protowire.ParseError(n))
		}
		if v > math.MaxInt32 {
			return nil, fmt.Errorf("assignment entry %d out of range", v)
		}
		if len(out) == model.MaxSlots {
			return nil, fmt.Errorf("assignment longer than %d slots", model.MaxSlots)
		}
		out = append(out, int(v))
		packed = packed[n:]
	}
	return out, nil
}
