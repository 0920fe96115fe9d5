package repositories

import (
	"chat-hub/domain"
	"fmt"
	"time"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protowire"
)

// Records are stored in protobuf wire format.
// Field numbers are part of the on-disk format and must never be reused.
const (
	chatFieldID           protowire.Number = 1
	chatFieldName         protowire.Number = 2
	chatFieldIsGroup      protowire.Number = 3
	chatFieldParticipant  protowire.Number = 4
	chatFieldCreatedBy    protowire.Number = 5
	chatFieldCreatedAt    protowire.Number = 6
	chatFieldLastActivity protowire.Number = 7

	messageFieldID         protowire.Number = 1
	messageFieldChatID     protowire.Number = 2
	messageFieldSenderID   protowire.Number = 3
	messageFieldSenderName protowire.Number = 4
	messageFieldContent    protowire.Number = 5
	messageFieldKind       protowire.Number = 6
	messageFieldAttachment protowire.Number = 7
	messageFieldCreatedAt  protowire.Number = 8

	attachmentFieldData      protowire.Number = 1
	attachmentFieldFileName  protowire.Number = 2
	attachmentFieldMediaType protowire.Number = 3

	userFieldID           protowire.Number = 1
	userFieldUsername     protowire.Number = 2
	userFieldEmail        protowire.Number = 3
	userFieldPasswordHash protowire.Number = 4
	userFieldCreatedAt    protowire.Number = 5
)

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendTime(b []byte, num protowire.Number, t time.Time) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, uint64(t.UnixNano()))
}

func marshalChat(c domain.Chat) []byte {
	var b []byte
	b = appendString(b, chatFieldID, c.ID.String())
	b = appendString(b, chatFieldName, c.Name)
	if c.IsGroup {
		b = protowire.AppendTag(b, chatFieldIsGroup, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(true))
	}
	for _, p := range c.Participants {
		b = appendString(b, chatFieldParticipant, p)
	}
	b = appendString(b, chatFieldCreatedBy, c.CreatedBy)
	b = appendTime(b, chatFieldCreatedAt, c.CreatedAt)
	if c.LastActivityAt != nil {
		b = appendTime(b, chatFieldLastActivity, *c.LastActivityAt)
	}
	return b
}

func unmarshalChat(data []byte) (domain.Chat, error) {
	var c domain.Chat
	r := wireReader{buf: data}
	for !r.done() {
		num, typ, err := r.tag()
		if err != nil {
			return domain.Chat{}, err
		}
		switch num {
		case chatFieldID:
			c.ID, err = r.uuid(typ)
		case chatFieldName:
			c.Name, err = r.string(typ)
		case chatFieldIsGroup:
			var v uint64
			v, err = r.varint(typ)
			c.IsGroup = protowire.DecodeBool(v)
		case chatFieldParticipant:
			var p string
			p, err = r.string(typ)
			c.Participants = append(c.Participants, p)
		case chatFieldCreatedBy:
			c.CreatedBy, err = r.string(typ)
		case chatFieldCreatedAt:
			c.CreatedAt, err = r.time(typ)
		case chatFieldLastActivity:
			var at time.Time
			at, err = r.time(typ)
			c.LastActivityAt = &at
		default:
			err = r.skip(num, typ)
		}
		if err != nil {
			return domain.Chat{}, fmt.Errorf("chat field %d: %w", num, err)
		}
	}
	return c, nil
}

func marshalMessage(m domain.Message) []byte {
	var b []byte
	b = appendString(b, messageFieldID, m.ID.String())
	b = appendString(b, messageFieldChatID, m.ChatID.String())
	b = appendString(b, messageFieldSenderID, m.SenderID)
	b = appendString(b, messageFieldSenderName, m.SenderName)
	b = appendString(b, messageFieldContent, m.Content)
	b = appendString(b, messageFieldKind, string(m.Kind))
	if m.Attachment != nil {
		var nested []byte
		nested = appendBytes(nested, attachmentFieldData, m.Attachment.Data)
		nested = appendString(nested, attachmentFieldFileName, m.Attachment.FileName)
		nested = appendString(nested, attachmentFieldMediaType, m.Attachment.MediaType)
		b = appendBytes(b, messageFieldAttachment, nested)
	}
	b = appendTime(b, messageFieldCreatedAt, m.CreatedAt)
	return b
}

func unmarshalMessage(data []byte) (domain.Message, error) {
	var m domain.Message
	r := wireReader{buf: data}
	for !r.done() {
		num, typ, err := r.tag()
		if err != nil {
			return domain.Message{}, err
		}
		switch num {
		case messageFieldID:
			m.ID, err = r.uuid(typ)
		case messageFieldChatID:
			m.ChatID, err = r.uuid(typ)
		case messageFieldSenderID:
			m.SenderID, err = r.string(typ)
		case messageFieldSenderName:
			m.SenderName, err = r.string(typ)
		case messageFieldContent:
			m.Content, err = r.string(typ)
		case messageFieldKind:
			var kind string
			kind, err = r.string(typ)
			m.Kind = domain.MessageKind(kind)
		case messageFieldAttachment:
			var nested []byte
			if nested, err = r.bytes(typ); err == nil {
				m.Attachment, err = unmarshalAttachment(nested)
			}
		case messageFieldCreatedAt:
			m.CreatedAt, err = r.time(typ)
		default:
			err = r.skip(num, typ)
		}
		if err != nil {
			return domain.Message{}, fmt.Errorf("message field %d: %w", num, err)
		}
	}
	return m, nil
}

func unmarshalAttachment(data []byte) (*domain.Attachment, error) {
	a := &domain.Attachment{}
	r := wireReader{buf: data}
	for !r.done() {
		num, typ, err := r.tag()
		if err != nil {
			return nil, err
		}
		switch num {
		case attachmentFieldData:
			var raw []byte
			raw, err = r.bytes(typ)
			a.Data = append([]byte(nil), raw...)
		case attachmentFieldFileName:
			a.FileName, err = r.string(typ)
		case attachmentFieldMediaType:
			a.MediaType, err = r.string(typ)
		default:
			err = r.skip(num, typ)
		}
		if err != nil {
			return nil, fmt.Errorf("attachment field %d: %w", num, err)
		}
	}
	return a, nil
}

func marshalUser(u domain.User) []byte {
	var b []byte
	b = appendString(b, userFieldID, u.ID)
	b = appendString(b, userFieldUsername, u.Username)
	b = appendString(b, userFieldEmail, u.Email)
	b = appendString(b, userFieldPasswordHash, u.PasswordHash)
	b = appendTime(b, userFieldCreatedAt, u.CreatedAt)
	return b
}

func unmarshalUser(data []byte) (domain.User, error) {
	var u domain.User
	r := wireReader{buf: data}
	for !r.done() {
		num, typ, err := r.tag()
		if err != nil {
			return domain.User{}, err
		}
		switch num {
		case userFieldID:
			u.ID, err = r.string(typ)
		case userFieldUsername:
			u.Username, err = r.string(typ)
		case userFieldEmail:
			u.Email, err = r.string(typ)
		case userFieldPasswordHash:
			u.PasswordHash, err = r.string(typ)
		case userFieldCreatedAt:
			u.CreatedAt, err = r.time(typ)
		default:
			err = r.skip(num, typ)
		}
		if err != nil {
			return domain.User{}, fmt.Errorf("user field %d: %w", num, err)
		}
	}
	return u, nil
}

// wireReader walks a protobuf encoded buffer field by field.
type wireReader struct {
	buf []byte
}

func (r *wireReader) done() bool { return len(r.buf) == 0 }

func (r *wireReader) tag() (protowire.Number, protowire.Type, error) {
	num, typ, n := protowire.ConsumeTag(r.buf)
	if n < 0 {
		return 0, 0, protowire.ParseError(n)
	}
	r.buf = r.buf[n:]
	return num, typ, nil
}

func (r *wireReader) bytes(typ protowire.Type) ([]byte, error) {
	if typ != protowire.BytesType {
		return nil, fmt.Errorf("unexpected wire type %d", typ)
	}
	v, n := protowire.ConsumeBytes(r.buf)
	if n < 0 {
		return nil, protowire.ParseError(n)
	}
	r.buf = r.buf[n:]
	return v, nil
}

func (r *wireReader) string(typ protowire.Type) (string, error) {
	v, err := r.bytes(typ)
	return string(v), err
}

func (r *wireReader) uuid(typ protowire.Type) (uuid.UUID, error) {
	v, err := r.string(typ)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(v)
}

func (r *wireReader) varint(typ protowire.Type) (uint64, error) {
	if typ != protowire.VarintType {
		return 0, fmt.Errorf("unexpected wire type %d", typ)
	}
	v, n := protowire.ConsumeVarint(r.buf)
	if n < 0 {
		return 0, protowire.ParseError(n)
	}
	r.buf = r.buf[n:]
	return v, nil
}

func (r *wireReader) time(typ protowire.Type) (time.Time, error) {
	v, err := r.varint(typ)
	if err != nil {
		return time.Time{}, err
	}
	return time.Unix(0, int64(v)).UTC(), nil
}

func (r *wireReader) skip(num protowire.Number, typ protowire.Type) error {
	n := protowire.ConsumeFieldValue(num, typ, r.buf)
	if n < 0 {
		return protowire.ParseError(n)
	}
	r.buf = r.buf[n:]
	return nil
}
