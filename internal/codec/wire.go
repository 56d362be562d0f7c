package codec

import (
	"fmt"
	"maps"
	"slices"

	"github.com/dmitrijs2005/sleepdiary/internal/common"
	"github.com/dmitrijs2005/sleepdiary/internal/models"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	entryTimestamp protowire.Number = 1
	entryEvent     protowire.Number = 2
	entryPrivate   protowire.Number = 3
	entryRelated   protowire.Number = 4
	entryComment   protowire.Number = 5

	diaryEntries      protowire.Number = 1
	diaryPrivate      protowire.Number = 2
	diaryDayLength    protowire.Number = 3
	diaryServer       protowire.Number = 4
	diaryServerSent   protowire.Number = 5
	diaryServerOffset protowire.Number = 6

	updateEntries     protowire.Number = 1
	updateStart       protowire.Number = 2
	updateDeleteCount protowire.Number = 3
	updateReset       protowire.Number = 4

	mapKey   protowire.Number = 1
	mapValue protowire.Number = 2
)

func appendUint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendString(b []byte, num protowire.Number, s string) []byte {
	if s == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, s)
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, msg)
}

// appendMap writes map entries sorted by key so encoding is deterministic.
func appendMap(b []byte, num protowire.Number, m map[string]string) []byte {
	for _, k := range slices.Sorted(maps.Keys(m)) {
		var kv []byte
		kv = protowire.AppendTag(kv, mapKey, protowire.BytesType)
		kv = protowire.AppendString(kv, k)
		kv = protowire.AppendTag(kv, mapValue, protowire.BytesType)
		kv = protowire.AppendString(kv, m[k])
		b = appendMessage(b, num, kv)
	}
	return b
}

func appendEntry(b []byte, e models.Entry) []byte {
	b = appendUint(b, entryTimestamp, e.Timestamp)
	if e.Event != models.Wake {
		b = protowire.AppendTag(b, entryEvent, protowire.VarintType)
		b = protowire.AppendVarint(b, uint64(int64(e.Event)))
	}
	b = appendMap(b, entryPrivate, e.PrivateStorage)
	b = appendUint(b, entryRelated, e.Related)
	b = appendString(b, entryComment, e.Comment)
	return b
}

func appendEntries(b []byte, num protowire.Number, entries []models.Entry) []byte {
	for _, e := range entries {
		b = appendMessage(b, num, appendEntry(nil, e))
	}
	return b
}

// field is one decoded tag/value pair.
type field struct {
	num    protowire.Number
	typ    protowire.Type
	varint uint64
	bytes  []byte
}

// walk calls fn for every field in b. Groups and fixed-width fields are
// skipped since no message in the schema uses them.
func walk(b []byte, fn func(f field) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", common.ErrDecode, protowire.ParseError(n))
		}
		b = b[n:]

		f := field{num: num, typ: typ}
		switch typ {
		case protowire.VarintType:
			f.varint, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			f.bytes, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("%w: %v", common.ErrDecode, protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}
		if n < 0 {
			return fmt.Errorf("%w: field %d: %v", common.ErrDecode, num, protowire.ParseError(n))
		}
		b = b[n:]

		if err := fn(f); err != nil {
			return err
		}
	}
	return nil
}

func (f field) want(typ protowire.Type) error {
	if f.typ != typ {
		return fmt.Errorf("%w: field %d has wire type %d, want %d", common.ErrDecode, f.num, f.typ, typ)
	}
	return nil
}

func decodeMapEntry(b []byte, into map[string]string) error {
	var key, value string
	err := walk(b, func(f field) error {
		switch f.num {
		case mapKey:
			if err := f.want(protowire.BytesType); err != nil {
				return err
			}
			key = string(f.bytes)
		case mapValue:
			if err := f.want(protowire.BytesType); err != nil {
				return err
			}
			value = string(f.bytes)
		}
		return nil
	})
	if err != nil {
		return err
	}
	into[key] = value
	return nil
}

func decodeEntry(b []byte) (models.Entry, error) {
	var e models.Entry
	err := walk(b, func(f field) error {
		switch f.num {
		case entryTimestamp:
			if err := f.want(protowire.VarintType); err != nil {
				return err
			}
			e.Timestamp = f.varint
		case entryEvent:
			if err := f.want(protowire.VarintType); err != nil {
				return err
			}
			kind := models.EventKind(int32(f.varint))
			if !kind.Valid() {
				return fmt.Errorf("%w: %w", common.ErrDecode, common.ErrInvalidEventKind)
			}
			e.Event = kind
		case entryPrivate:
			if err := f.want(protowire.BytesType); err != nil {
				return err
			}
			if e.PrivateStorage == nil {
				e.PrivateStorage = make(map[string]string)
			}
			return decodeMapEntry(f.bytes, e.PrivateStorage)
		case entryRelated:
			if err := f.want(protowire.VarintType); err != nil {
				return err
			}
			e.Related = f.varint
		case entryComment:
			if err := f.want(protowire.BytesType); err != nil {
				return err
			}
			e.Comment = string(f.bytes)
		}
		return nil
	})
	return e, err
}
