package repositories

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

// InspectRow is a human readable view of one stored key, used by the debug tools.
type InspectRow struct {
	Key       string
	Type      string
	Timestamp string
	EntityID  string
	Detail    string
}

const maxDetailLength = 60

// DescribeRecord decodes a raw key/value pair into an InspectRow.
// Records that fail to decode are still listed with the error as detail.
func DescribeRecord(key string, val []byte) InspectRow {
	namespace, rest, _ := strings.Cut(key, ":")
	row := InspectRow{
		Key:       key,
		Type:      strings.ToUpper(namespace),
		Timestamp: "--:--:--",
		EntityID:  shortID(rest),
		Detail:    "Size: " + strconv.Itoa(len(val)) + " bytes",
	}

	switch namespace {
	case "chat":
		chat, err := unmarshalChat(val)
		if err != nil {
			row.Detail = "Error: " + err.Error()
			return row
		}
		row.Timestamp = chat.CreatedAt.Format(time.TimeOnly)
		row.Detail = fmt.Sprintf("%s group=%t participants=%d",
			lo.Ternary(chat.Name == "", "(private)", chat.Name), chat.IsGroup, len(chat.Participants))
	case "msg":
		// msg:{chat}:{nanos}:{id}
		parts := strings.Split(rest, ":")
		if len(parts) == 3 {
			row.EntityID = shortID(parts[2])
			if nanos, err := strconv.ParseInt(parts[1], 10, 64); err == nil {
				row.Timestamp = time.Unix(0, nanos).UTC().Format(time.TimeOnly)
			}
		}
		message, err := unmarshalMessage(val)
		if err != nil {
			row.Detail = "Error: " + err.Error()
			return row
		}
		row.Detail = truncate(fmt.Sprintf("[%s] %s: %s", message.Kind, message.SenderName, message.Content))
	case "user":
		user, err := unmarshalUser(val)
		if err != nil {
			row.Detail = "Error: " + err.Error()
			return row
		}
		row.Timestamp = user.CreatedAt.Format(time.TimeOnly)
		row.Detail = user.Username + " <" + user.Email + ">"
	case "username", "email", "chatpair":
		row.EntityID = shortID(string(val))
		row.Detail = "-> " + string(val)
	case "chatmember":
		row.Detail = "membership"
	}
	return row
}

// ScanPrefix describes every record whose key starts with prefix, at most limit rows when limit > 0.
func ScanPrefix(db *badger.DB, prefix string, limit int) ([]InspectRow, error) {
	rows := make([]InspectRow, 0)
	err := db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		p := []byte(prefix)
		for it.Seek(p); it.ValidForPrefix(p); it.Next() {
			if limit > 0 && len(rows) == limit {
				return nil
			}
			item := it.Item()
			key := string(item.KeyCopy(nil))
			err := item.Value(func(val []byte) error {
				rows = append(rows, DescribeRecord(key, val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	return rows, err
}

func shortID(s string) string {
	if len(s) > 8 {
		return s[:8]
	}
	return s
}

func truncate(s string) string {
	if len([]rune(s)) <= maxDetailLength {
		return s
	}
	return string([]rune(s)[:maxDetailLength-3]) + "..."
}
