package codec

import (
	"github.com/dmitrijs2005/sleepdiary/internal/models"
	"google.golang.org/protobuf/encoding/protowire"
)

func EncodeEntry(e models.Entry) []byte {
	return appendEntry(nil, e)
}

func DecodeEntry(b []byte) (models.Entry, error) {
	return decodeEntry(b)
}

func EncodeUpdate(u models.Update) []byte {
	b := appendEntries(nil, updateEntries, u.Entries)
	b = appendUint(b, updateStart, u.Start)
	b = appendUint(b, updateDeleteCount, u.DeleteCount)
	if u.Reset {
		b = protowire.AppendTag(b, updateReset, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(true))
	}
	return b
}

func DecodeUpdate(b []byte) (models.Update, error) {
	var u models.Update
	err := walk(b, func(f field) error {
		switch f.num {
		case updateEntries:
			if err := f.want(protowire.BytesType); err != nil {
				return err
			}
			e, err := decodeEntry(f.bytes)
			if err != nil {
				return err
			}
			u.Entries = append(u.Entries, e)
		case updateStart:
			if err := f.want(protowire.VarintType); err != nil {
				return err
			}
			u.Start = f.varint
		case updateDeleteCount:
			if err := f.want(protowire.VarintType); err != nil {
				return err
			}
			u.DeleteCount = f.varint
		case updateReset:
			if err := f.want(protowire.VarintType); err != nil {
				return err
			}
			u.Reset = protowire.DecodeBool(f.varint)
		}
		return nil
	})
	if err != nil {
		return models.Update{}, err
	}
	return u, nil
}

func EncodeDiary(d *models.Diary) []byte {
	b := appendEntries(nil, diaryEntries, d.Entries)
	b = appendMap(b, diaryPrivate, d.PrivateStorage)
	b = appendUint(b, diaryDayLength, d.PreferredDayLength)
	b = appendString(b, diaryServer, d.Server)
	b = appendUint(b, diaryServerSent, d.ServerEntriesSent)
	b = appendUint(b, diaryServerOffset, d.ServerEntriesOffset)
	return b
}

func DecodeDiary(b []byte) (*models.Diary, error) {
	d := &models.Diary{}
	err := walk(b, func(f field) error {
		switch f.num {
		case diaryEntries:
			if err := f.want(protowire.BytesType); err != nil {
				return err
			}
			e, err := decodeEntry(f.bytes)
			if err != nil {
				return err
			}
			d.Entries = append(d.Entries, e)
		case diaryPrivate:
			if err := f.want(protowire.BytesType); err != nil {
				return err
			}
			if d.PrivateStorage == nil {
				d.PrivateStorage = make(map[string]string)
			}
			return decodeMapEntry(f.bytes, d.PrivateStorage)
		case diaryDayLength:
			if err := f.want(protowire.VarintType); err != nil {
				return err
			}
			d.PreferredDayLength = f.varint
		case diaryServer:
			if err := f.want(protowire.BytesType); err != nil {
				return err
			}
			d.Server = string(f.bytes)
		case diaryServerSent:
			if err := f.want(protowire.VarintType); err != nil {
				return err
			}
			d.ServerEntriesSent = f.varint
		case diaryServerOffset:
			if err := f.want(protowire.VarintType); err != nil {
				return err
			}
			d.ServerEntriesOffset = f.varint
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return d, nil
}
